package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// KeywordScam - Used by tests to have a message assessed as a high risk scam.
const KeywordScam = "TG_SCAM"

// KeywordSafe - Used by tests to have a message assessed as low risk, without a confidence.
const KeywordSafe = "TG_SAFE"

// KeywordFenced - Used by tests to get a valid assessment wrapped in a markdown code fence.
const KeywordFenced = "TG_FENCED"

// KeywordGarbage - Used by tests to get a response which isn't JSON.
const KeywordGarbage = "TG_GARBAGE"

// KeywordOutOfRange - Used by tests to get an assessment with a score above 100.
const KeywordOutOfRange = "TG_OUT_OF_RANGE"

// KeywordIntentionalFail - Used by tests to always get an API error response.
const KeywordIntentionalFail = "TG_INTENTIONAL_FAIL"

// KeywordSlow - Used by tests to get a response only after the client gives up (or after 5 seconds).
const KeywordSlow = "TG_SLOW"

// AssessmentServer - a mock OpenAI Chat Completions API which assesses messages based on the keywords above.
type AssessmentServer struct {
	*httptest.Server

	// Requests - the number of chat completion requests received.
	Requests atomic.Int32
	// the user turn of the most recent request, decoded
	lastPrompt atomic.Pointer[AssessmentPrompt]
}

// AssessmentPrompt - the document the client is expected to send as the user turn.
type AssessmentPrompt struct {
	Message           string   `json:"message"`
	Sender            string   `json:"sender"`
	Allowlist         []string `json:"allowlist"`
	SenderAllowlisted bool     `json:"sender_allowlisted"`
}

func (s *AssessmentServer) LastPrompt() *AssessmentPrompt {
	return s.lastPrompt.Load()
}

// MakeOpenAIAssessmentServer - Creates a mock chat completions server for use in tests. If apiKey is non-empty,
// requests must carry it as a bearer token.
func MakeOpenAIAssessmentServer(t *testing.T, apiKey string) *AssessmentServer {
	s := &AssessmentServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" {
			assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
		}

		// Dev note: like the moderation mock, this is sensitive to changes in the OpenAI libraries. Both the
		// official and compatible clients currently post to the same path with the same body shape.
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		body := struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}{}
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			t.Error(err) // "should never happen"
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Len(t, body.Messages, 2)
		if len(body.Messages) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		prompt := &AssessmentPrompt{}
		err = json.Unmarshal([]byte(body.Messages[1].Content), prompt)
		assert.NoError(t, err)
		s.lastPrompt.Store(prompt)
		s.Requests.Add(1)

		msg := prompt.Message
		switch {
		case strings.Contains(msg, KeywordIntentionalFail):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest) // not retried by either client
			_, _ = w.Write([]byte(`{"error":{"code":"X-ERROR","message":"Intentional fail","param":"x","type":"x"}}`))
			return
		case strings.Contains(msg, KeywordSlow):
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		case strings.Contains(msg, KeywordGarbage):
			writeChatCompletion(t, w, body.Model, "I think this message is probably fine!")
		case strings.Contains(msg, KeywordOutOfRange):
			writeChatCompletion(t, w, body.Model, `{"verdict":"High","score":250,"reasons":[],"advice":[]}`)
		case strings.Contains(msg, KeywordFenced):
			writeChatCompletion(t, w, body.Model, "```json\n"+assessmentJson("Medium", 55, "0.7", prompt)+"\n```")
		case strings.Contains(msg, KeywordScam):
			writeChatCompletion(t, w, body.Model, assessmentJson("High", 92, "0.9", prompt))
		case strings.Contains(msg, KeywordSafe):
			writeChatCompletion(t, w, body.Model, assessmentJson("Low", 5, "", prompt))
		default:
			t.Errorf("Unexpected message: %s", msg)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// assessmentJson - the reasons echo whether the sender was allowlisted so tests can check it was sent.
func assessmentJson(verdict string, score int, confidence string, prompt *AssessmentPrompt) string {
	confidenceField := ""
	if confidence != "" {
		confidenceField = fmt.Sprintf(`"confidence":%s,`, confidence)
	}
	return fmt.Sprintf(`{"verdict":"%s","score":%d,%s"reasons":["sender_allowlisted=%t"],"advice":["Call them back on a number you trust."]}`,
		verdict, score, confidenceField, prompt.SenderAllowlisted)
}

func writeChatCompletion(t *testing.T, w http.ResponseWriter, model string, content string) {
	res := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]any{{
			"index": 0,
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
			"finish_reason": "stop",
		}},
	}
	b, err := json.Marshal(res)
	assert.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
