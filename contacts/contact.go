package contacts

import "fmt"

// Contact - a trusted person and the hash of the safe word shared with them.
type Contact struct {
	Name     string `json:"name"`
	Channel  string `json:"channel"`
	SafeHash string `json:"safe_hash"`
}

// String renders the contact the way it is listed to users. The hash is deliberately absent so contacts can be
// logged or printed with %v.
func (c *Contact) String() string {
	return fmt.Sprintf("%s · %s", c.Name, c.Channel)
}

// FindByName - returns the contact with exactly the given name, or nil if there isn't one.
func FindByName(contacts []*Contact, name string) *Contact {
	for _, c := range contacts {
		if c != nil && c.Name == name {
			return c
		}
	}
	return nil
}

// Upsert - see Hasher.Upsert. Uses DefaultParams.
func Upsert(existing []*Contact, name string, channel string, safeWord string) ([]*Contact, error) {
	return defaultHasher.Upsert(existing, name, channel, safeWord)
}

// Upsert - returns a new contact list where any contact named `name` is replaced by a new contact carrying a
// fresh hash of `safeWord`. The replacement is appended to the end of the list. `existing` is never modified,
// and nothing is hashed unless all three values are non-empty. The caller is expected to Save the result.
func (h *Hasher) Upsert(existing []*Contact, name string, channel string, safeWord string) ([]*Contact, error) {
	if name == "" {
		return nil, missingField("name")
	}
	if channel == "" {
		return nil, missingField("channel")
	}
	if safeWord == "" {
		return nil, missingField("safe_word")
	}

	safeHash, err := h.Hash(safeWord)
	if err != nil {
		return nil, err
	}

	updated := make([]*Contact, 0, len(existing)+1)
	for _, c := range existing {
		if c == nil || c.Name == name {
			continue
		}
		updated = append(updated, c)
	}
	updated = append(updated, &Contact{
		Name:     name,
		Channel:  channel,
		SafeHash: safeHash,
	})
	return updated, nil
}

// validateCollection - checks the invariants every persisted contact book must hold.
func validateCollection(contacts []*Contact) error {
	seen := make(map[string]bool, len(contacts))
	for i, c := range contacts {
		if c == nil {
			return &ValidationError{Field: "contacts", Reason: fmt.Sprintf("record %d is empty", i)}
		}
		if c.Name == "" {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("record %d has no name", i)}
		}
		if c.SafeHash == "" {
			return &ValidationError{Field: "safe_hash", Reason: fmt.Sprintf("record %d has no safe word hash", i)}
		}
		if seen[c.Name] {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("record %d repeats an earlier name", i)}
		}
		seen[c.Name] = true
	}
	return nil
}
