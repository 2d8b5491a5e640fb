package assess

import (
	"strings"

	goSet "github.com/deckarep/golang-set"
	"github.com/ryanuber/go-glob"
)

// ParseAllowlist - splits a comma-separated list of trusted brands or domains. See NormalizeAllowlist.
func ParseAllowlist(raw string) []string {
	return NormalizeAllowlist(strings.Split(raw, ","))
}

// NormalizeAllowlist - trims entries, drops empty ones, and removes case-insensitive duplicates. The first
// spelling of each entry is kept, in its original position.
func NormalizeAllowlist(entries []string) []string {
	seen := goSet.NewSet()
	normalized := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !seen.Add(strings.ToLower(entry)) {
			continue
		}
		normalized = append(normalized, entry)
	}
	return normalized
}

// SenderDomain - the part of the sender after the last `@`, or the whole sender if it has none. Lowercased.
func SenderDomain(sender string) string {
	sender = strings.TrimSpace(sender)
	if i := strings.LastIndex(sender, "@"); i >= 0 {
		sender = sender[i+1:]
	}
	return strings.TrimSuffix(strings.ToLower(sender), ".")
}

// SenderAllowlisted - whether the sender's domain matches an allowlist entry exactly, is a subdomain of one, or
// matches one used as a glob (`*.example.org`). This is context for the assessment service, not a verdict: a
// lookalike domain never matches, but an allowlisted sender can still send a scam.
func SenderAllowlisted(sender string, allowlist []string) bool {
	domain := SenderDomain(sender)
	if domain == "" {
		return false
	}
	for _, entry := range allowlist {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "*") {
			if glob.Glob(entry, domain) {
				return true
			}
			continue
		}
		entry = SenderDomain(entry) // users sometimes paste a whole address
		if domain == entry || strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}
