package assess

import (
	"context"
	"errors"
	"log"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/trustguard/trustguard/config"
)

// OpenAICompatible - assesses messages with any server exposing an OpenAI-compatible chat completions endpoint,
// such as a locally hosted model. The API key is optional.
type OpenAICompatible struct {
	// Implements Provider

	client          *goopenai.Client
	modelName       string
	reasoningEffort string
}

func NewOpenAICompatible(cnf *config.InstanceConfig) (*OpenAICompatible, error) {
	if cnf.OpenAIApiUrl == "" {
		return nil, errors.New("api url not set")
	}
	clientConfig := goopenai.DefaultConfig(cnf.OpenAIApiKey)
	clientConfig.BaseURL = cnf.OpenAIApiUrl
	return &OpenAICompatible{
		client:          goopenai.NewClientWithConfig(clientConfig),
		modelName:       cnf.OpenAIModel,
		reasoningEffort: string(cnf.OpenAIReasoningEffort),
	}, nil
}

func (p *OpenAICompatible) Name() string {
	return string(config.AssessmentProviderCompatible)
}

func (p *OpenAICompatible) Assess(ctx context.Context, req *Request) (*Assessment, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return nil, err
	}

	res, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:           p.modelName,
		ReasoningEffort: p.reasoningEffort,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPromptText()},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Choices) == 0 {
		return nil, errors.New("assessment service returned no choices")
	}

	log.Printf("[assess | %s] Response %s finished with reason '%s'", p.Name(), res.ID, res.Choices[0].FinishReason)
	return parseAssessment(res.Choices[0].Message.Content)
}
