package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthdesk-api/internal/config"
	"github.com/harentsoaR/healthdesk-api/internal/models"
)

const smsTimeout = 10 * time.Second

// NotificationService acknowledges enquiries to patients by SMS through the
// Textbelt API. Without an API key it does nothing.
type NotificationService struct {
	apiKey string
	url    string
	client *http.Client
	log    zerolog.Logger
	wg     sync.WaitGroup
}

func NewNotificationService(cfg config.NotificationConfig, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		apiKey: cfg.TextbeltKey,
		url:    cfg.TextbeltURL,
		client: &http.Client{Timeout: smsTimeout},
		log:    logger.With().Str("service", "notifications").Logger(),
	}
}

func (s *NotificationService) Enabled() bool {
	return s.apiKey != "" && s.url != ""
}

// EnquiryReceived sends the acknowledgement in the background.
func (s *NotificationService) EnquiryReceived(enquiry *models.Enquiry) {
	if !s.Enabled() {
		return
	}
	if enquiry.PatientPhone == "" {
		s.log.Debug().Str("enquiry_id", enquiry.ID.Hex()).Msg("SMS not sent: enquiry has no phone number")
		return
	}

	message := fmt.Sprintf(
		"Hello %s, HealthDesk received your enquiry %q on %s. We will get back to you shortly.",
		enquiry.PatientName,
		enquiry.Subject,
		enquiry.CreatedAt.Format("Jan 2 at 3:04 PM"),
	)
	enquiryID := enquiry.ID.Hex()
	phone := enquiry.PatientPhone

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), smsTimeout)
		defer cancel()

		if err := s.send(ctx, phone, message); err != nil {
			s.log.Warn().Err(err).Str("enquiry_id", enquiryID).Msg("failed to send enquiry SMS")
			return
		}
		s.log.Info().Str("enquiry_id", enquiryID).Msg("enquiry SMS sent")
	}()
}

// Wait blocks until every in-flight SMS has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

type textbeltResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	QuotaRemaining int    `json:"quotaRemaining"`
}

func (s *NotificationService) send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt request failed: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt returned status %d: %w", resp.StatusCode, err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected message: %s", result.Error)
	}
	if result.QuotaRemaining < 5 {
		s.log.Warn().Int("quota_remaining", result.QuotaRemaining).Msg("textbelt quota running low")
	}
	return nil
}
