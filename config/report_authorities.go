package config

import (
	"fmt"
	"strings"
)

type ReportAuthorityType string

const ReportAuthorityTypeEmail ReportAuthorityType = "email"
const ReportAuthorityTypePhone ReportAuthorityType = "phone"

// ReportAuthority - somewhere a scam report can be sent, listed at the bottom of generated reports.
type ReportAuthority struct {
	Value string
	Type  ReportAuthorityType
}

func (c *ReportAuthority) Decode(value string) error {
	// Implements envconfig.Decoder

	value = strings.TrimSpace(value)
	if strings.Contains(value, "@") {
		c.Value = value
		c.Type = ReportAuthorityTypeEmail
		return nil
	}

	digits := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// allowed phone punctuation
		default:
			c.Value = ""
			c.Type = ""
			return fmt.Errorf("invalid report authority value: %s", value)
		}
	}
	if digits < 3 {
		c.Value = ""
		c.Type = ""
		return fmt.Errorf("invalid report authority value: %s", value)
	}

	c.Value = value
	c.Type = ReportAuthorityTypePhone
	return nil
}

func (c ReportAuthority) String() string {
	return c.Value
}
