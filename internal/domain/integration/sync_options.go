package integration

// SyncMode selects how much of the remote catalog one pass pulls
type SyncMode string

const (
	// SyncModePreview pulls a small page for a quick look
	SyncModePreview SyncMode = "preview"
	// SyncModeFull pulls a large page
	SyncModeFull SyncMode = "full"
)

// IsValid returns true if the mode is known
func (m SyncMode) IsValid() bool {
	return m == SyncModePreview || m == SyncModeFull
}

// String returns the string representation of SyncMode
func (m SyncMode) String() string {
	return string(m)
}

// BlankSKUPolicy decides what happens to remote records without a SKU.
// Such records can never be matched to an existing product.
type BlankSKUPolicy string

const (
	// BlankSKUCreate treats a blank SKU as a new product on every run
	BlankSKUCreate BlankSKUPolicy = "create"
	// BlankSKUSkip ignores records without a SKU
	BlankSKUSkip BlankSKUPolicy = "skip"
)

// IsValid returns true if the policy is known
func (p BlankSKUPolicy) IsValid() bool {
	return p == BlankSKUCreate || p == BlankSKUSkip
}

// SyncOptions are fixed for the duration of one run
type SyncOptions struct {
	UpdateExisting bool           `json:"updateExisting"`
	CreateNew      bool           `json:"createNew"`
	SyncStockOnly  bool           `json:"syncStockOnly"`
	ImportImages   bool           `json:"importImages"`
	Mode           SyncMode       `json:"mode"`
	BlankSKUPolicy BlankSKUPolicy `json:"blankSkuPolicy"`
}

// DefaultSyncOptions returns options that create and update in full mode
func DefaultSyncOptions() SyncOptions {
	return SyncOptions{
		UpdateExisting: true,
		CreateNew:      true,
		ImportImages:   true,
		Mode:           SyncModeFull,
		BlankSKUPolicy: BlankSKUCreate,
	}
}

// Normalized fills unset enum fields with their defaults
func (o SyncOptions) Normalized() SyncOptions {
	if o.Mode == "" {
		o.Mode = SyncModeFull
	}
	if o.BlankSKUPolicy == "" {
		o.BlankSKUPolicy = BlankSKUCreate
	}
	return o
}

// Validate checks enum fields
func (o SyncOptions) Validate() error {
	if !o.Mode.IsValid() {
		return ErrInvalidSyncMode
	}
	if !o.BlankSKUPolicy.IsValid() {
		return ErrInvalidBlankSKUPolicy
	}
	return nil
}
