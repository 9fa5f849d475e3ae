package integration

import (
	"context"
	"strings"
)

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// Credentials identify the remote store the proxy should talk to
type Credentials struct {
	Endpoint   string `json:"endpoint"`
	Key        string `json:"key"`
	Secret     string `json:"secret"`
	APIVersion string `json:"apiVersion"`
	UseTLS     bool   `json:"useTLS"`
}

// Validate checks that the credentials can be sent to the remote source
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return ErrInvalidCredentials
	}
	if strings.TrimSpace(c.Key) == "" || strings.TrimSpace(c.Secret) == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// ---------------------------------------------------------------------------
// Remote records
// ---------------------------------------------------------------------------

// RemoteProductRecord is a product as reported by the remote platform.
// Price and Weight are kept as the raw strings the platform sent.
type RemoteProductRecord struct {
	ExternalID  string
	SKU         string
	Name        string
	Description string
	Price       string
	Stock       int
	Weight      string
	Dimensions  string
	Images      []string
}

// HasSKU reports whether the record can be matched by SKU
func (r RemoteProductRecord) HasSKU() bool {
	return strings.TrimSpace(r.SKU) != ""
}

// ---------------------------------------------------------------------------
// CatalogSource port
// ---------------------------------------------------------------------------

// FetchRequest asks for one page of remote products
type FetchRequest struct {
	Credentials Credentials
	Limit       int
	Page        int
}

// FetchResult is the outcome of a fetch. Failures are reported through
// Success=false and Message, never through a Go error.
type FetchResult struct {
	Success bool
	Records []RemoteProductRecord
	Message string
}

// FetchFailed builds an unsuccessful FetchResult
func FetchFailed(message string) FetchResult {
	return FetchResult{Success: false, Message: message}
}

// CatalogSource fetches product pages from a remote commerce platform
type CatalogSource interface {
	Fetch(ctx context.Context, req FetchRequest) FetchResult
}
