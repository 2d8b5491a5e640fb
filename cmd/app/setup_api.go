package main

import (
	"github.com/trustguard/trustguard/api"
	"github.com/trustguard/trustguard/assess"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/contacts"
)

func setupApi(instanceConfig *config.InstanceConfig, book *contacts.Book, assessor *assess.Assessor) (*api.Api, error) {
	apiConfig := &api.Config{
		ApiKey:            instanceConfig.ApiKey,
		DefaultAllowlist:  instanceConfig.DefaultAllowlist,
		ReportAuthorities: instanceConfig.ReportAuthorities,
	}
	var messageAssessor api.MessageAssessor
	if assessor != nil {
		// a nil *assess.Assessor inside the interface would not compare equal to nil
		messageAssessor = assessor
	}
	return api.NewApi(apiConfig, book, messageAssessor)
}
