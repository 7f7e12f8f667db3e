package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mediroom/config"
	"mediroom/utils/httputils"
	"mediroom/utils/logging"

	"go.uber.org/zap"
)

// ErrTimeout is returned when a turn does not reach a terminal state within
// TurnTimeout. The gateway never retries; resubmitting a non-idempotent turn
// is the caller's call to make, and this core never makes it.
var ErrTimeout = errors.New("assistant turn timed out")

// TurnError is a terminal non-success run status reported by the remote
// assistant. Status is one of "failed", "cancelled", "expired",
// "requires_action".
type TurnError struct {
	Status string
}

func (e *TurnError) Error() string {
	return "assistant run " + e.Status
}

// Client drives one conversational turn at a time against a remote assistant
// thread. It performs the remote calls only; persistence and broadcast belong
// to the room coordinator.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	variants *VariantTable

	// Overridable in tests.
	PollInterval time.Duration
	TurnTimeout  time.Duration
}

func NewClient(cfg config.Config, variants *VariantTable) *Client {
	return &Client{
		baseURL:      cfg.AssistantBaseURL,
		apiKey:       cfg.AssistantAPIKey,
		http:         &http.Client{Timeout: 60 * time.Second},
		variants:     variants,
		PollInterval: time.Second,
		TurnTimeout:  30 * time.Second,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"OpenAI-Beta":   "assistants=v2",
	}
}

type threadResponse struct {
	ID string `json:"id"`
}

type runResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageListResponse struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// CreateThread creates one remote conversation handle. Callers own the
// mapping from room or session to thread; the client never caches.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var resp threadResponse
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/threads", c.headers(), map[string]interface{}{}, &resp)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return resp.ID, nil
}

// SendTurn submits content as the next user turn on the thread and polls the
// run at PollInterval until a terminal state or TurnTimeout. On completion it
// returns the newest assistant-authored reply text.
func (c *Client) SendTurn(ctx context.Context, threadID, content, variant string) (string, error) {
	defer logging.LogDuration(ctx, "assistant_send_turn")()

	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/threads/"+threadID+"/messages", c.headers(),
		map[string]string{"role": "user", "content": content}, nil)
	if err != nil {
		return "", fmt.Errorf("submit turn: %w", err)
	}

	var run runResponse
	err = httputils.PostJSON(ctx, c.http, c.baseURL+"/threads/"+threadID+"/runs", c.headers(),
		map[string]string{"assistant_id": c.variants.AssistantID(variant)}, &run)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	status, err := c.awaitRun(ctx, threadID, run.ID)
	if err != nil {
		return "", err
	}
	switch status {
	case "completed":
		return c.latestAssistantReply(ctx, threadID)
	case "failed", "cancelled", "expired", "requires_action":
		return "", &TurnError{Status: status}
	default:
		return "", &TurnError{Status: status}
	}
}

// awaitRun polls until the run leaves its in-flight states or the deadline
// passes. Bounded and retry-free.
func (c *Client) awaitRun(ctx context.Context, threadID, runID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.TurnTimeout)
	defer cancel()

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		var run runResponse
		err := httputils.GetJSON(ctx, c.http, c.baseURL+"/threads/"+threadID+"/runs/"+runID, c.headers(), &run)
		if err != nil {
			// Only the poll deadline maps to ErrTimeout; a caller cancelling
			// mid-turn is not a timed-out assistant.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", ErrTimeout
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("poll run: %w", err)
		}
		if run.Status != "queued" && run.Status != "in_progress" {
			return run.Status, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", ctx.Err()
			}
			logging.AppLogger.Warn("assistant run poll deadline",
				zap.String("thread_id", threadID),
				zap.String("run_id", runID),
			)
			return "", ErrTimeout
		}
	}
}

func (c *Client) latestAssistantReply(ctx context.Context, threadID string) (string, error) {
	var list messageListResponse
	err := httputils.GetJSON(ctx, c.http, c.baseURL+"/threads/"+threadID+"/messages?order=desc&limit=5", c.headers(), &list)
	if err != nil {
		return "", fmt.Errorf("fetch reply: %w", err)
	}
	for _, msg := range list.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, part := range msg.Content {
			if part.Type == "text" && part.Text.Value != "" {
				return part.Text.Value, nil
			}
		}
	}
	return "", errors.New("no assistant reply on thread")
}
