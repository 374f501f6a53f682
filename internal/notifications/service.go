package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shelfgap/internal/config"
)

const userAgent = "Shelfgap/0.1.0"

// Service defines the notification surface exposed to the audit runner.
type Service interface {
	NotifyAuditStarted(ctx context.Context, sourceCount int) error
	NotifyAuditCompleted(ctx context.Context, present, missing int, duration time.Duration) error
	NotifyAcquisitionsQueued(ctx context.Context, movies, shows int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when enabled.
// When notifications are disabled or no topic is configured, a noop
// implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if !cfg.Notifications.Enabled || topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyAuditStarted(ctx context.Context, sourceCount int) error {
	data := payload{
		title:   "Shelfgap - Audit Started",
		message: fmt.Sprintf("Auditing library against %d sources", sourceCount),
		tags:    []string{"shelfgap", "audit", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAuditCompleted(ctx context.Context, present, missing int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if missing == 0 {
		title = "Shelfgap - All Caught Up"
		message = fmt.Sprintf("✅ Audit complete: %d titles present, nothing missing (%s)", present, durationText)
	} else {
		title = "Shelfgap - Audit Complete"
		message = fmt.Sprintf("Audit complete: %d present, %d missing in %s", present, missing, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"shelfgap", "audit", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAcquisitionsQueued(ctx context.Context, movies, shows int) error {
	data := payload{
		title:   "Shelfgap - Acquisitions Queued",
		message: fmt.Sprintf("Queued %d movies and %d series for download", movies, shows),
		tags:    []string{"shelfgap", "acquire", "queued"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Shelfgap - Error",
		message:  builder.String(),
		tags:     []string{"shelfgap", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Shelfgap - Test",
		message:  "Notification system test",
		tags:     []string{"shelfgap", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAuditStarted(context.Context, int) error                       { return nil }
func (noopService) NotifyAuditCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyAcquisitionsQueued(context.Context, int, int) error            { return nil }
func (noopService) NotifyError(context.Context, error, string) error                    { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
