package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandalio7/Serena/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WhatsAppClient sends outbound WhatsApp messages through the Twilio REST API.
// Used for best-effort ingestion confirmations: a send failure is logged and
// never propagated.
type WhatsAppClient struct {
	httpClient *resty.Client
	accountSID string
	fromNumber string
	logger     *zap.Logger
}

func NewWhatsAppClient(cfg config.TwilioConfig, logger *zap.Logger) *WhatsAppClient {
	client := resty.New().
		SetBaseURL("https://api.twilio.com/2010-04-01").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	return &WhatsAppClient{
		httpClient: client,
		accountSID: cfg.AccountSID,
		fromNumber: cfg.WhatsAppNumber,
		logger:     logger,
	}
}

type sendResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Send delivers one WhatsApp message to the given number.
func (c *WhatsAppClient) Send(toNumber, body string) error {
	if !strings.HasPrefix(toNumber, "whatsapp:") {
		toNumber = "whatsapp:" + toNumber
	}
	fromNumber := "whatsapp:" + c.fromNumber

	var out sendResponse
	resp, err := c.httpClient.R().
		SetFormData(map[string]string{
			"From": fromNumber,
			"To":   toNumber,
			"Body": body,
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode(), out.ErrorMessage)
	}

	c.logger.Info("whatsapp message sent",
		zap.String("sid", out.SID),
		zap.String("status", out.Status),
	)
	return nil
}
