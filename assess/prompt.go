package assess

import (
	"encoding/json"
	"strings"
)

const systemPrompt = `
You help older adults and their families decide whether a message they received is a scam.

You will be given a JSON document with these fields:
- "message": the text of the message exactly as the user received it.
- "sender": who the message claims to be from. May be empty.
- "allowlist": brands or domains the user already trusts. May be empty.
- "sender_allowlisted": true when the sender's domain matches the allowlist. A trusted sender can still be spoofed
  or compromised, so treat this as context and never as proof the message is safe.

Look for:
- Urgency, threats, or deadlines that push a quick decision.
- Requests for passwords, one-time codes, 2FA codes, or account details.
- Payment by gift card, cryptocurrency, or wire transfer.
- Lookalike or misspelled domains (for example "rnicrosoft.com"), mixed scripts, and odd link endings.
- Impersonation of family members, banks, government agencies, or tech support.
- Anything that discourages the user from checking with someone they trust.

Respond with ONLY a JSON object, no other text, in this exact shape:
{
  "verdict": "Low" | "Medium" | "High",
  "score": <integer from 0 (safe) to 100 (certainly a scam)>,
  "confidence": <number from 0 to 1>,
  "reasons": [<short plain-language reasons>],
  "advice": [<short plain-language things the user should do next>]
}

Write reasons and advice in calm, simple language. Never ask the user to click a link or call a number from the
message itself.
`

type promptDocument struct {
	Message           string   `json:"message"`
	Sender            string   `json:"sender"`
	Allowlist         []string `json:"allowlist"`
	SenderAllowlisted bool     `json:"sender_allowlisted"`
}

func systemPromptText() string {
	return strings.TrimSpace(systemPrompt)
}

// renderPrompt - the user turn sent to the assessment service.
func renderPrompt(req *Request) (string, error) {
	allowlist := req.Allowlist
	if allowlist == nil {
		allowlist = make([]string, 0)
	}
	b, err := json.Marshal(promptDocument{
		Message:           req.Message,
		Sender:            req.Sender,
		Allowlist:         allowlist,
		SenderAllowlisted: SenderAllowlisted(req.Sender, allowlist),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
