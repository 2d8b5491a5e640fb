package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/openai/openai-go/v3/shared"
)

var supportedReasoningEfforts = []shared.ReasoningEffort{
	shared.ReasoningEffortMinimal,
	shared.ReasoningEffortLow,
	shared.ReasoningEffortMedium,
	shared.ReasoningEffortHigh,
}

// ReasoningEffort - sent to both assessment providers. Empty means the field is left out of the request, since
// not every model (especially behind compatible servers) accepts it.
type ReasoningEffort shared.ReasoningEffort // Implements envconfig.Decoder

func (e *ReasoningEffort) Decode(value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		*e = ""
		return nil
	}
	if !slices.Contains(supportedReasoningEfforts, shared.ReasoningEffort(value)) {
		return fmt.Errorf("unsupported reasoning effort '%s'", value)
	}
	*e = ReasoningEffort(value)
	return nil
}
