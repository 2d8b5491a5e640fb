package contacts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"sync"

	"github.com/trustguard/trustguard/metrics"
)

// Book - the contact book used by the presentation layers. It serializes read-modify-write cycles so
// concurrent saves within one process can't lose each other's updates.
type Book struct {
	store  Store
	hasher *Hasher
	lock   sync.Mutex

	// Verified against when the requested contact doesn't exist, so unknown names take as long as wrong safe words.
	decoyHash string
}

func NewBook(store Store, hasher *Hasher) (*Book, error) {
	if hasher == nil {
		hasher = defaultHasher
	}

	decoy := make([]byte, 18)
	if _, err := rand.Read(decoy); err != nil {
		return nil, err
	}
	decoyHash, err := hasher.Hash(base64.RawURLEncoding.EncodeToString(decoy))
	if err != nil {
		return nil, err
	}

	return &Book{
		store:     store,
		hasher:    hasher,
		decoyHash: decoyHash,
	}, nil
}

// List - returns the contacts in the book, in the order they were saved.
func (b *Book) List(ctx context.Context) ([]*Contact, error) {
	contacts, err := b.store.Load(ctx)
	if err != nil {
		log.Printf("[contacts] Error loading contact book: %v", err)
		return nil, err
	}
	metrics.SetContactCount(len(contacts))
	return contacts, nil
}

// Save - adds a contact, or replaces the contact with the same name, and persists the book.
func (b *Book) Save(ctx context.Context, name string, channel string, safeWord string) (*Contact, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	existing, err := b.store.Load(ctx)
	if err != nil {
		log.Printf("[contacts] Error loading contact book before save: %v", err)
		metrics.RecordContactSave(false)
		return nil, err
	}

	updated, err := b.hasher.Upsert(existing, name, channel, safeWord)
	if err != nil {
		metrics.RecordContactSave(false)
		return nil, err
	}

	if err = b.store.Save(ctx, updated); err != nil {
		log.Printf("[contacts] Error saving contact book: %v", err)
		metrics.RecordContactSave(false)
		return nil, err
	}

	metrics.RecordContactSave(true)
	metrics.SetContactCount(len(updated))
	log.Printf("[contacts] Saved contact (%d in book)", len(updated))
	return FindByName(updated, name), nil
}

// Verify - reports whether attempt is the safe word for the named contact. Unknown contacts and wrong safe words
// are indistinguishable to the caller.
func (b *Book) Verify(ctx context.Context, name string, attempt string) (bool, error) {
	contacts, err := b.store.Load(ctx)
	if err != nil {
		log.Printf("[contacts] Error loading contact book before verify: %v", err)
		metrics.RecordVerification(metrics.VerifyOutcomeError)
		return false, err
	}

	encoded := b.decoyHash
	contact := FindByName(contacts, name)
	if contact != nil {
		encoded = contact.SafeHash
	}

	ok, err := b.hasher.Verify(encoded, attempt)
	if err != nil {
		log.Printf("[contacts] Stored safe word hash is unreadable: %v", err)
		metrics.RecordVerification(metrics.VerifyOutcomeError)
		return false, err
	}
	if !ok || contact == nil {
		metrics.RecordVerification(metrics.VerifyOutcomeNoMatch)
		return false, nil
	}

	metrics.RecordVerification(metrics.VerifyOutcomeMatch)
	return true, nil
}

type AuditResult struct {
	Contacts int
	// Names of contacts whose stored hash can't be read. They can never be verified until re-saved.
	Unreadable []string
	// Names of contacts hashed with different parameters than the ones currently configured.
	Outdated []string
}

// Audit - checks every stored hash without verifying anything against it.
func (b *Book) Audit(ctx context.Context) (*AuditResult, error) {
	contacts, err := b.List(ctx)
	if err != nil {
		return nil, err
	}

	res := &AuditResult{
		Contacts:   len(contacts),
		Unreadable: make([]string, 0),
		Outdated:   make([]string, 0),
	}
	for _, c := range contacts {
		outdated, err := b.hasher.NeedsRehash(c.SafeHash)
		if err != nil {
			res.Unreadable = append(res.Unreadable, c.Name)
		} else if outdated {
			res.Outdated = append(res.Outdated, c.Name)
		}
	}
	return res, nil
}
