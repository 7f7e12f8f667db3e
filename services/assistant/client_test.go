package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mediroom/config"
	"mediroom/utils/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeThreadAPI simulates the remote assistant thread endpoints. runStatuses
// is consumed one status per poll; the last one repeats.
type fakeThreadAPI struct {
	mu          sync.Mutex
	runStatuses []string
	replyText   string

	sawAssistantID string
	turnContents   []string
}

func (f *fakeThreadAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		path := r.URL.Path
		switch {
		case r.Method == http.MethodPost && path == "/threads":
			json.NewEncoder(w).Encode(map[string]string{"id": "thread_test"})
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/messages"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			f.turnContents = append(f.turnContents, body["content"])
			json.NewEncoder(w).Encode(map[string]string{"id": "msg_1"})
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/runs"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			f.sawAssistantID = body["assistant_id"]
			json.NewEncoder(w).Encode(map[string]string{"id": "run_test", "status": "queued"})
		case r.Method == http.MethodGet && strings.Contains(path, "/runs/"):
			status := f.runStatuses[0]
			if len(f.runStatuses) > 1 {
				f.runStatuses = f.runStatuses[1:]
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "run_test", "status": status})
		case r.Method == http.MethodGet && strings.HasSuffix(path, "/messages"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{
					{
						"role": "assistant",
						"content": []map[string]interface{}{
							{"type": "text", "text": map[string]string{"value": f.replyText}},
						},
					},
					{
						"role": "user",
						"content": []map[string]interface{}{
							{"type": "text", "text": map[string]string{"value": "older user turn"}},
						},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestClient(t *testing.T, api *fakeThreadAPI) *Client {
	t.Helper()
	logging.InitLogger()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	variants := LoadVariants("does-not-exist.yaml", "asst_default")
	client := NewClient(config.Config{
		AssistantBaseURL: srv.URL,
		AssistantAPIKey:  "test-key",
	}, variants)
	client.PollInterval = 5 * time.Millisecond
	client.TurnTimeout = 250 * time.Millisecond
	return client
}

func TestCreateThread(t *testing.T) {
	api := &fakeThreadAPI{}
	client := newTestClient(t, api)

	threadID, err := client.CreateThread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "thread_test", threadID)
}

func TestSendTurn_Completed(t *testing.T) {
	api := &fakeThreadAPI{
		runStatuses: []string{"queued", "in_progress", "completed"},
		replyText:   "HR: 120 bpm, the patient is anxious.",
	}
	client := newTestClient(t, api)

	reply, err := client.SendTurn(context.Background(), "thread_test", "What are the vitals?", "emergency")
	require.NoError(t, err)
	assert.Equal(t, "HR: 120 bpm, the patient is anxious.", reply)
	assert.Equal(t, []string{"What are the vitals?"}, api.turnContents)
	assert.Equal(t, "asst_default", api.sawAssistantID)
}

func TestSendTurn_TerminalFailures(t *testing.T) {
	for _, status := range []string{"failed", "cancelled", "expired", "requires_action"} {
		t.Run(status, func(t *testing.T) {
			api := &fakeThreadAPI{runStatuses: []string{"in_progress", status}}
			client := newTestClient(t, api)

			_, err := client.SendTurn(context.Background(), "thread_test", "hello", "clinical")
			var turnErr *TurnError
			require.ErrorAs(t, err, &turnErr)
			assert.Equal(t, status, turnErr.Status)
		})
	}
}

func TestSendTurn_Timeout(t *testing.T) {
	api := &fakeThreadAPI{runStatuses: []string{"in_progress"}}
	client := newTestClient(t, api)
	client.TurnTimeout = 30 * time.Millisecond

	_, err := client.SendTurn(context.Background(), "thread_test", "hello", "clinical")
	assert.True(t, errors.Is(err, ErrTimeout), "expected ErrTimeout, got %v", err)
}

func TestSendTurn_CallerCanceled(t *testing.T) {
	api := &fakeThreadAPI{runStatuses: []string{"in_progress"}}
	client := newTestClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	// A caller hanging up mid-turn is cancellation, not an assistant timeout.
	_, err := client.SendTurn(ctx, "thread_test", "hello", "clinical")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
