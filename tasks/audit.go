package tasks

import (
	"context"
	"log"
	"time"

	"github.com/trustguard/trustguard/contacts"
)

// AuditContactBook - loads the contact book so a corrupt or unreadable book is noticed even when nobody is
// using it, and reports stored hashes which need attention. Contact names are logged, safe word hashes never are.
func AuditContactBook(book *contacts.Book) *contacts.AuditResult {
	log.Println("Auditing contact book...")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	res, err := book.Audit(ctx)
	if err != nil {
		log.Printf("CONTACT BOOK UNREADABLE: %v", err)
		log.Println("The contact book file has not been modified. Restore it from a backup or fix it by hand.")
		return nil
	}

	if len(res.Unreadable) > 0 {
		log.Printf("%d contact(s) have unreadable safe word hashes and can't be verified until re-saved: %v", len(res.Unreadable), res.Unreadable)
	}
	if len(res.Outdated) > 0 {
		log.Printf("%d contact(s) were hashed with older settings; save their safe word again to upgrade: %v", len(res.Outdated), res.Outdated)
	}
	log.Printf("Finished auditing contact book (%d contacts)", res.Contacts)
	return res
}
