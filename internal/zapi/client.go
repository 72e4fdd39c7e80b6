// Package zapi wraps the Z-API WhatsApp REST endpoints the assistant uses.
package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/olharstudio/booking-assistant/pkg/logging"
)

const defaultBaseURL = "https://api.z-api.io"

// Config controls how the Z-API client behaves.
type Config struct {
	BaseURL     string
	InstanceID  string
	Token       string
	ClientToken string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *logging.Logger
}

// Client sends WhatsApp messages through one Z-API instance.
type Client struct {
	baseURL     string
	instanceID  string
	token       string
	clientToken string
	httpClient  *http.Client
	logger      *logging.Logger
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.InstanceID) == "" {
		return nil, errors.New("zapi: instance ID is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("zapi: token is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:     baseURL,
		instanceID:  cfg.InstanceID,
		token:       cfg.Token,
		clientToken: cfg.ClientToken,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

type sendTextRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendText delivers one text message to a phone number.
func (c *Client) SendText(ctx context.Context, phone, message string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.New("zapi: phone is required")
	}
	if message == "" {
		return errors.New("zapi: message is required")
	}

	body, err := json.Marshal(sendTextRequest{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("zapi: failed to encode send-text request: %w", err)
	}

	url := fmt.Sprintf("%s/instances/%s/token/%s/send-text", c.baseURL, c.instanceID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("zapi: failed to build send-text request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.clientToken != "" {
		req.Header.Set("Client-Token", c.clientToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zapi: send-text request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("zapi: send-text returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	c.logger.Debug("message sent", "phone", phone, "bytes", len(message))
	return nil
}
