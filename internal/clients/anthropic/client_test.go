package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", srv.URL, WithModel("claude-test"))
	require.NoError(t, err)
	return c
}

func TestComplete_SendsSystemAndUserMessage(t *testing.T) {
	var body struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	var gotPath, gotKey string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"삼성전자 요약"},{"type":"text","text":" 본문"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	})

	got, err := c.Complete(context.Background(), interfaces.CompletionRequest{
		Instructions:    "넌 펀드 매니저야.",
		Prompt:          "분석해줘",
		MaxOutputTokens: 4096,
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "claude-test", body.Model)
	assert.Equal(t, 4096, body.MaxTokens)
	require.Len(t, body.System, 1)
	assert.Equal(t, "넌 펀드 매니저야.", body.System[0].Text)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)

	assert.Equal(t, "삼성전자 요약 본문", got.Text)
	assert.Empty(t, got.Citations)
}

func TestComplete_EmptyContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[],"stop_reason":"end_turn"}`))
	})

	_, err := c.Complete(context.Background(), interfaces.CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, models.ReasonNoData, models.ReasonOf(err))
}

func TestComplete_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   models.FailureReason
	}{
		{http.StatusTooManyRequests, models.ReasonRateLimited},
		{529, models.ReasonUnavailable},
		{http.StatusInternalServerError, models.ReasonUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			calls := 0
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			})

			_, err := c.Complete(context.Background(), interfaces.CompletionRequest{Prompt: "p"})
			require.Error(t, err)
			assert.Equal(t, tt.want, models.ReasonOf(err))
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "")
	assert.Error(t, err)
}
