// Package notifier delivers answers and digests over the Telegram Bot API.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketInsight/internal/common"
)

const (
	DefaultTelegramURL = "https://api.telegram.org"
	// MaxMessageLen is Telegram's limit on one message, in characters.
	MaxMessageLen = 4096
)

// Telegram sends messages via the Telegram Bot API.
type Telegram struct {
	token       string
	chatID      string
	baseURL     string
	client      *http.Client
	pollClient  *http.Client
	pollTimeout int
	backoff     time.Duration
	logger      *common.Logger
}

// Option configures a Telegram client.
type Option func(*Telegram)

// WithBaseURL points the client at another Bot API host.
func WithBaseURL(u string) Option { return func(t *Telegram) { t.baseURL = strings.TrimRight(u, "/") } }

// WithProxy routes requests through an HTTP proxy.
func WithProxy(proxyURL string) Option {
	return func(t *Telegram) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			transport := &http.Transport{Proxy: http.ProxyURL(u)}
			t.client.Transport = transport
			t.pollClient.Transport = transport
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *common.Logger) Option { return func(t *Telegram) { t.logger = l } }

// WithBackoff sets the first retry delay of SendWithRetry. It doubles per attempt.
func WithBackoff(d time.Duration) Option { return func(t *Telegram) { t.backoff = d } }

// WithPollTimeout sets the long-poll timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(t *Telegram) {
		t.pollTimeout = seconds
		t.pollClient.Timeout = time.Duration(seconds+5) * time.Second
	}
}

// NewTelegram creates a client that posts to chatID by default.
func NewTelegram(botToken, chatID string, opts ...Option) *Telegram {
	t := &Telegram{
		token:       botToken,
		chatID:      chatID,
		baseURL:     DefaultTelegramURL,
		client:      &http.Client{Timeout: 30 * time.Second},
		pollClient:  &http.Client{Timeout: 35 * time.Second},
		pollTimeout: 30,
		backoff:     time.Second,
		logger:      common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Telegram) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
}

// Send posts text to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	return t.SendTo(ctx, t.chatID, text)
}

// SendTo posts text to chatID as HTML, split into several messages when it
// exceeds MaxMessageLen.
func (t *Telegram) SendTo(ctx context.Context, chatID, text string) error {
	for _, part := range Split(text, MaxMessageLen) {
		if err := t.sendOne(ctx, chatID, part); err != nil {
			return err
		}
	}
	return nil
}

func (t *Telegram) sendOne(ctx context.Context, chatID, text string) error {
	body, err := json.Marshal(map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends text with exponential backoff between attempts.
func (t *Telegram) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.backoff << uint(i)
		t.logger.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries+1).Str("backoff", backoff.String()).Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

// Split breaks text into chunks of at most limit characters, preferring to
// cut at line breaks.
func Split(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var out []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
