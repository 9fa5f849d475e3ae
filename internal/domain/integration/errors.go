package integration

import "errors"

var (
	// Source errors
	ErrInvalidCredentials  = errors.New("integration: invalid remote credentials")
	ErrSourceUnavailable   = errors.New("integration: remote catalog unavailable")
	ErrSourceRequestFailed = errors.New("integration: remote catalog request failed")
	ErrSourceBadResponse   = errors.New("integration: invalid remote catalog response")

	// Mapping errors
	ErrMappingInvalidExternalID = errors.New("integration: invalid external product ID")
	ErrMappingInvalidLocalID    = errors.New("integration: invalid local product ID")

	// Option errors
	ErrInvalidSyncMode       = errors.New("integration: invalid sync mode")
	ErrInvalidBlankSKUPolicy = errors.New("integration: invalid blank SKU policy")

	// Summary errors
	ErrSummaryNotFound = errors.New("integration: no sync summary recorded")
)
