package assess

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Models regularly wrap JSON in a markdown code fence even when told not to.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if i := strings.Index(content, "\n"); i >= 0 {
		content = content[i+1:] // drop the language tag, if any
	} else {
		content = ""
	}
	content = strings.TrimSpace(content)
	return strings.TrimSpace(strings.TrimSuffix(content, "```"))
}

type rawAssessment struct {
	Verdict    string   `json:"verdict"`
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Advice     []string `json:"advice"`
}

// parseAssessment - decodes the service's answer. The content itself is never included in returned errors.
func parseAssessment(content string) (*Assessment, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, errors.New("empty response from assessment service")
	}

	raw := rawAssessment{}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, errors.New("assessment service did not return valid JSON")
	}

	verdict := strings.TrimSpace(raw.Verdict)
	if verdict == "" {
		return nil, errors.New("assessment service response is missing a verdict")
	}
	if raw.Score == nil {
		return nil, errors.New("assessment service response is missing a score")
	}
	if *raw.Score < 0 || *raw.Score > 100 || math.IsNaN(*raw.Score) {
		return nil, fmt.Errorf("assessment service returned score %v outside 0-100", *raw.Score)
	}
	if raw.Confidence != nil && (*raw.Confidence < 0 || *raw.Confidence > 1 || math.IsNaN(*raw.Confidence)) {
		return nil, fmt.Errorf("assessment service returned confidence %v outside 0-1", *raw.Confidence)
	}

	return &Assessment{
		Verdict:    verdict,
		Score:      int(math.Round(*raw.Score)),
		Confidence: raw.Confidence,
		Reasons:    nonEmpty(raw.Reasons),
		Advice:     nonEmpty(raw.Advice),
	}, nil
}

func nonEmpty(vals []string) []string {
	ret := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

// verdictLabel - bounds the metric label values whatever the service returns.
func verdictLabel(verdict string) string {
	switch v := strings.ToLower(strings.TrimSpace(verdict)); v {
	case "low", "medium", "high":
		return v
	default:
		return "other"
	}
}
