package main

import (
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/contacts"
	"github.com/trustguard/trustguard/internal"
)

func setupStorage(instanceConfig *config.InstanceConfig) (*contacts.Book, contacts.Store, error) {
	return internal.OpenContactBook(instanceConfig)
}
