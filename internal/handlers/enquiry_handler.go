package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthdesk-api/internal/validation"
)

func (h *Handler) CreateEnquiry(c *gin.Context) {
	var req validation.EnquiryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	enquiry, err := h.Enquiries.Create(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enquiry)
}

func (h *Handler) GetEnquiries(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	enquiries, err := h.Enquiries.ListAll(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiries)
}

func (h *Handler) GetEnquiry(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	enquiry, err := h.Enquiries.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiry)
}
