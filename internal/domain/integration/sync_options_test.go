package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncOptions_Normalized(t *testing.T) {
	opts := SyncOptions{UpdateExisting: true}.Normalized()

	assert.Equal(t, SyncModeFull, opts.Mode)
	assert.Equal(t, BlankSKUCreate, opts.BlankSKUPolicy)
	assert.True(t, opts.UpdateExisting)
	assert.NoError(t, opts.Validate())
}

func TestSyncOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts SyncOptions
		want error
	}{
		{"defaults", DefaultSyncOptions(), nil},
		{"preview skip", SyncOptions{Mode: SyncModePreview, BlankSKUPolicy: BlankSKUSkip}, nil},
		{"unknown mode", SyncOptions{Mode: "delta", BlankSKUPolicy: BlankSKUCreate}, ErrInvalidSyncMode},
		{"unknown policy", SyncOptions{Mode: SyncModeFull, BlankSKUPolicy: "merge"}, ErrInvalidBlankSKUPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
