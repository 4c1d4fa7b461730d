// Package humancheck holds the anti-automation widget that guards SMS
// challenge issuance. One Widget lives for the lifetime of the server.
package humancheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var (
	ErrWidgetClosed  = errors.New("human verification widget is closed")
	ErrProofRequired = errors.New("human verification response is required")
	ErrNotHuman      = errors.New("human verification failed")
)

type Options struct {
	SiteKey   string
	Secret    string
	VerifyURL string
	DryRun    bool
	Timeout   time.Duration
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

type Widget struct {
	opts   Options
	logger *zap.Logger

	once   sync.Once
	id     string
	client *http.Client

	mu     sync.Mutex
	closed bool
}

// New only records the options; the widget is rendered on first use.
func New(opts Options, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.VerifyURL == "" {
		opts.VerifyURL = DefaultVerifyURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Secret == "" {
		opts.DryRun = true
	}
	return &Widget{opts: opts, logger: logger}
}

func (w *Widget) render() {
	w.once.Do(func() {
		w.id = uuid.NewString()
		w.client = &http.Client{Timeout: w.opts.Timeout}
		w.logger.Info("human verification widget rendered",
			zap.String("widget_id", w.id),
			zap.Bool("dry_run", w.opts.DryRun),
		)
	})
}

// ID is empty until the widget has been rendered.
func (w *Widget) ID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.id
}

func (w *Widget) SiteKey() string { return w.opts.SiteKey }

func (w *Widget) DryRun() bool { return w.opts.DryRun }

// Token verifies the client's widget response and returns the token handed
// to the challenge provider. Dry-run widgets accept any response.
func (w *Widget) Token(ctx context.Context, proof string) (string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrWidgetClosed
	}
	w.render()
	w.mu.Unlock()

	if w.opts.DryRun {
		return "dry-run:" + w.id, nil
	}

	proof = strings.TrimSpace(proof)
	if proof == "" {
		return "", ErrProofRequired
	}

	form := url.Values{
		"secret":   {w.opts.Secret},
		"response": {proof},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.opts.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parse siteverify response: %w", err)
	}
	if !out.Success {
		w.logger.Warn("human verification rejected", zap.Strings("error_codes", out.ErrorCodes))
		if len(out.ErrorCodes) > 0 {
			return "", fmt.Errorf("%w: %s", ErrNotHuman, strings.Join(out.ErrorCodes, ", "))
		}
		return "", ErrNotHuman
	}
	return proof, nil
}

// Close tears the widget down. Later Token calls fail with ErrWidgetClosed.
func (w *Widget) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.client != nil {
		w.client.CloseIdleConnections()
	}
	w.logger.Info("human verification widget closed", zap.String("widget_id", w.id))
	return nil
}
