package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notification captures a projection swing worth pushing to a human.
type Notification struct {
	PlayerID        string
	GeneratedAt     time.Time
	ExpectedScore   float64
	PreviousScore   *float64
	Delta           float64
	Threshold       float64
	ExpectedMinutes float64
	LowerCI         float64
	UpperCI         float64
	Notes           string
}

// Notifier delivers projection alerts.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes alerts through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram alert sink.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify renders the alert and posts it via sendMessage, retrying transient
// delivery failures with exponential backoff.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(func() error {
		return n.send(ctx, body)
	}, backoff.WithContext(bo, ctx)); err != nil {
		return err
	}

	n.logger.Info().
		Str("player", note.PlayerID).
		Float64("expected_score", note.ExpectedScore).
		Float64("delta", note.Delta).
		Msg("projection alert sent")
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, body []byte) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create telegram request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	// Rate limits and server-side faults are worth another attempt; anything
	// else non-2xx is a config problem retries will not fix.
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("telegram transient status: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return backoff.Permanent(fmt.Errorf("telegram status: %d", resp.StatusCode))
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return backoff.Permanent(errors.New("telegram returned ok=false"))
		}
	}
	return nil
}

func renderMessage(note Notification) string {
	fixed := func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(1)
	}
	delta := fixed(note.Delta)
	if note.Delta >= 0 {
		delta = "+" + delta
	}

	builder := strings.Builder{}
	builder.WriteString("[Projection Alert]\n")
	builder.WriteString(fmt.Sprintf("Player: %s\n", note.PlayerID))
	builder.WriteString(fmt.Sprintf("Generated: %s UTC\n", note.GeneratedAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Expected score: %s\n", fixed(note.ExpectedScore)))
	if note.PreviousScore != nil {
		builder.WriteString(fmt.Sprintf("Previous: %s (moved %s, threshold %s)\n",
			fixed(*note.PreviousScore), delta, fixed(note.Threshold)))
	}
	builder.WriteString(fmt.Sprintf("Expected minutes: %s\n", fixed(note.ExpectedMinutes)))
	builder.WriteString(fmt.Sprintf("Range: %s - %s\n", fixed(note.LowerCI), fixed(note.UpperCI)))
	if note.Notes != "" {
		builder.WriteString("Notes: " + note.Notes + "\n")
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
