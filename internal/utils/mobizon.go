package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultMobizonURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

type Client struct {
	ApiKey  string
	Sender  string // optional
	DryRun  bool
	BaseURL string

	http   *http.Client
	logger *zap.Logger
}

type SendSMSResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewClientWithOptions(apiKey, sender string, dryRun bool, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		ApiKey:  apiKey,
		Sender:  sender,
		DryRun:  dryRun,
		BaseURL: defaultMobizonURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// SendSMS posts text to Mobizon, or only logs it in dry-run mode.
func (c *Client) SendSMS(ctx context.Context, to, text string) (*SendSMSResponse, error) {
	if c.DryRun || c.ApiKey == "" || c.ApiKey == "dry-run" {
		c.logger.Info("mobizon dry-run", zap.String("to", to), zap.String("sender", c.Sender), zap.String("text", text))
		return &SendSMSResponse{Code: 0}, nil
	}

	form := url.Values{
		"apiKey":    {c.ApiKey},
		"recipient": {strings.TrimPrefix(to, "+")},
		"text":      {text},
	}
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	c.logger.Debug("mobizon response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.ByteString("body", body),
	)

	var result SendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if result.Code != 0 {
		if result.Message != "" {
			return nil, fmt.Errorf("mobizon error %d: %s", result.Code, result.Message)
		}
		return nil, fmt.Errorf("mobizon returned error code: %d", result.Code)
	}
	return &result, nil
}
