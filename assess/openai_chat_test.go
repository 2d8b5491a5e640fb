package assess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/test"
)

func TestOpenAIChatRequiresApiKey(t *testing.T) {
	t.Parallel()

	provider, err := NewOpenAIChat(&config.InstanceConfig{})
	assert.Error(t, err)
	assert.Nil(t, provider)
}

func TestOpenAIChat(t *testing.T) {
	t.Parallel()

	// Caution: like the compatible provider test, this drives the provider through a mock API:
	//  1. A scam from an allowlisted sender (the allowlist is context only)
	//  2. A low risk message without a confidence
	//  3. A fenced response
	//  4. Unusable responses and API errors

	apiKey := "not_a_real_key"
	server := test.MakeOpenAIAssessmentServer(t, apiKey)
	provider, err := NewOpenAIChat(&config.InstanceConfig{
		OpenAIApiKey: apiKey,
		OpenAIApiUrl: server.URL,
		OpenAIModel:  "gpt-test",
	})
	assert.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())

	assertProviderBehaviour(t, provider, server)
}

// assertProviderBehaviour - shared by both provider tests, since they talk to the same mock API.
func assertProviderBehaviour(t *testing.T, provider Provider, server *test.AssessmentServer) {
	ctx := context.Background()

	res, err := provider.Assess(ctx, &Request{
		Message:   test.KeywordScam + " | Your account will be suspended!",
		Sender:    "no-reply@mail.google.com",
		Allowlist: []string{"google.com"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "High", res.Verdict)
	assert.Equal(t, 92, res.Score)
	assert.Equal(t, 0.9, res.EffectiveConfidence())
	assert.Equal(t, []string{"sender_allowlisted=true"}, res.Reasons)
	assert.Equal(t, []string{"Call them back on a number you trust."}, res.Advice)
	prompt := server.LastPrompt()
	assert.Equal(t, test.KeywordScam+" | Your account will be suspended!", prompt.Message)
	assert.Equal(t, "no-reply@mail.google.com", prompt.Sender)
	assert.Equal(t, []string{"google.com"}, prompt.Allowlist)
	assert.True(t, prompt.SenderAllowlisted)

	res, err = provider.Assess(ctx, &Request{
		Message:   test.KeywordSafe + " | See you at lunch",
		Sender:    "support@rnicrosoft.com",
		Allowlist: []string{"microsoft.com"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Low", res.Verdict)
	assert.Equal(t, 5, res.Score)
	assert.Nil(t, res.Confidence)
	assert.Equal(t, DefaultConfidence, res.EffectiveConfidence())
	assert.Equal(t, []string{"sender_allowlisted=false"}, res.Reasons)

	res, err = provider.Assess(ctx, &Request{Message: test.KeywordFenced})
	assert.NoError(t, err)
	assert.Equal(t, "Medium", res.Verdict)
	assert.Equal(t, 55, res.Score)
	assert.NotNil(t, server.LastPrompt().Allowlist) // sent as [] rather than null

	for _, keyword := range []string{test.KeywordGarbage, test.KeywordOutOfRange, test.KeywordIntentionalFail} {
		res, err = provider.Assess(ctx, &Request{Message: keyword})
		assert.Error(t, err, keyword)
		assert.Nil(t, res, keyword)
	}
}
