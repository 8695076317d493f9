package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthdesk-api/internal/services"
	"github.com/harentsoaR/healthdesk-api/internal/store"
)

const defaultRequestTimeout = 10 * time.Second

// Handler carries the services every route needs.
type Handler struct {
	Accounts  *services.AccountService
	Enquiries *services.EnquiryService
	Store     store.Store
	Log       zerolog.Logger
	Timeout   time.Duration
}

func NewHandler(accounts *services.AccountService, enquiries *services.EnquiryService, st store.Store, logger zerolog.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		Accounts:  accounts,
		Enquiries: enquiries,
		Store:     st,
		Log:       logger,
		Timeout:   timeout,
	}
}

// requestContext bounds a service call by the request's own context and the
// configured timeout.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.Timeout)
}
