package main

import (
	"fmt"
	"log"

	"github.com/trustguard/trustguard/assess"
	"github.com/trustguard/trustguard/config"
)

// setupAssessor - returns nil when no assessment service can be configured. The server still starts so contacts,
// reports, and tips keep working, and message checks fail with a hint instead.
func setupAssessor(instanceConfig *config.InstanceConfig) *assess.Assessor {
	provider, err := makeProvider(instanceConfig)
	if err != nil {
		log.Printf("Message checks are disabled: %v", err)
		return nil
	}

	assessor, err := assess.NewAssessor(provider, &assess.AssessorConfig{
		Timeout:  instanceConfig.AssessmentTimeout(),
		PoolSize: instanceConfig.AssessmentPoolSize,
		CacheTTL: instanceConfig.AssessmentCacheTTL(),
	})
	if err != nil {
		log.Printf("Message checks are disabled: %v", err)
		return nil
	}
	log.Printf("Message checks use the '%s' provider (model %s)", assessor.ProviderName(), instanceConfig.OpenAIModel)
	return assessor
}

func makeProvider(instanceConfig *config.InstanceConfig) (assess.Provider, error) {
	switch instanceConfig.AssessmentProvider {
	case config.AssessmentProviderOpenAI:
		return assess.NewOpenAIChat(instanceConfig)
	case config.AssessmentProviderCompatible:
		return assess.NewOpenAICompatible(instanceConfig)
	default:
		return nil, fmt.Errorf("unsupported assessment provider '%s'", instanceConfig.AssessmentProvider)
	}
}
