package handler

import "github.com/erp/catalogsync/internal/domain/integration"

// CredentialsRequest carries the remote store credentials
type CredentialsRequest struct {
	Endpoint   string `json:"endpoint" binding:"required,max=512" example:"shop.example.com"`
	Key        string `json:"key" binding:"required,max=256" example:"ck_live_123"`
	Secret     string `json:"secret" binding:"required,max=256" example:"cs_live_456"`
	APIVersion string `json:"api_version" binding:"omitempty,max=32" example:"wc/v3"`
	UseTLS     bool   `json:"use_tls" example:"true"`
}

// ToDomain converts to domain credentials
func (r CredentialsRequest) ToDomain() integration.Credentials {
	return integration.Credentials{
		Endpoint:   r.Endpoint,
		Key:        r.Key,
		Secret:     r.Secret,
		APIVersion: r.APIVersion,
		UseTLS:     r.UseTLS,
	}
}

// SyncOptionsRequest overrides the configured run options. Absent fields
// keep their configured value.
type SyncOptionsRequest struct {
	UpdateExisting *bool  `json:"update_existing"`
	CreateNew      *bool  `json:"create_new"`
	SyncStockOnly  *bool  `json:"sync_stock_only"`
	ImportImages   *bool  `json:"import_images"`
	Mode           string `json:"mode" binding:"omitempty,oneof=preview full" enums:"preview,full"`
	BlankSKUPolicy string `json:"blank_sku_policy" binding:"omitempty,oneof=create skip" enums:"create,skip"`
}

// Apply returns defaults with the request's fields laid over them
func (r *SyncOptionsRequest) Apply(defaults integration.SyncOptions) integration.SyncOptions {
	opts := defaults
	if r == nil {
		return opts
	}
	if r.UpdateExisting != nil {
		opts.UpdateExisting = *r.UpdateExisting
	}
	if r.CreateNew != nil {
		opts.CreateNew = *r.CreateNew
	}
	if r.SyncStockOnly != nil {
		opts.SyncStockOnly = *r.SyncStockOnly
	}
	if r.ImportImages != nil {
		opts.ImportImages = *r.ImportImages
	}
	if r.Mode != "" {
		opts.Mode = integration.SyncMode(r.Mode)
	}
	if r.BlankSKUPolicy != "" {
		opts.BlankSKUPolicy = integration.BlankSKUPolicy(r.BlankSKUPolicy)
	}
	return opts
}

// RunSyncRequest is the body of POST /catalog-sync/runs
type RunSyncRequest struct {
	Credentials CredentialsRequest  `json:"credentials"`
	Options     *SyncOptionsRequest `json:"options"`
}

// TestConnectionRequest is the body of POST /catalog-sync/test-connection
type TestConnectionRequest struct {
	Credentials CredentialsRequest `json:"credentials"`
}

// ListJobsQuery holds the query of GET /catalog-sync/jobs
type ListJobsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
