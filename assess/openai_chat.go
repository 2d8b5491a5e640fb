package assess

import (
	"context"
	"errors"
	"log"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/version"
)

// OpenAIChat - assesses messages with the OpenAI Chat Completions API.
type OpenAIChat struct {
	// Implements Provider

	client          openai.Client
	reasoningEffort shared.ReasoningEffort
	modelName       string
}

func NewOpenAIChat(cnf *config.InstanceConfig, additionalClientOptions ...option.RequestOption) (*OpenAIChat, error) {
	apiKey := cnf.OpenAIApiKey
	if len(apiKey) == 0 {
		return nil, errors.New("api key not set")
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHeader("User-Agent", version.UserAgent()),
		option.WithMaxRetries(1),
	}
	if cnf.OpenAIApiUrl != "" {
		options = append(options, option.WithBaseURL(cnf.OpenAIApiUrl))
	}
	options = append(options, additionalClientOptions...)
	return &OpenAIChat{
		client:          openai.NewClient(options...),
		reasoningEffort: shared.ReasoningEffort(cnf.OpenAIReasoningEffort),
		modelName:       cnf.OpenAIModel,
	}, nil
}

func (p *OpenAIChat) Name() string {
	return string(config.AssessmentProviderOpenAI)
}

func (p *OpenAIChat) Assess(ctx context.Context, req *Request) (*Assessment, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:           p.modelName,
		ReasoningEffort: p.reasoningEffort,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPromptText()),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Choices) == 0 {
		return nil, errors.New("assessment service returned no choices")
	}

	// Note: we don't log the response content because it quotes the message
	log.Printf("[assess | %s] Response %s finished with reason '%s'", p.Name(), res.ID, res.Choices[0].FinishReason)
	return parseAssessment(res.Choices[0].Message.Content)
}
