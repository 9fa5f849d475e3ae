package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncJobRepository implements integration.SyncJobStore using GORM
type GormSyncJobRepository struct {
	db *gorm.DB
}

// NewGormSyncJobRepository creates a new GormSyncJobRepository
func NewGormSyncJobRepository(db *gorm.DB) *GormSyncJobRepository {
	return &GormSyncJobRepository{db: db}
}

// Create inserts a new job
func (r *GormSyncJobRepository) Create(ctx context.Context, job *integration.SyncJob) error {
	return r.db.WithContext(ctx).Create(models.SyncJobModelFromDomain(job)).Error
}

// Start moves a pending row to running
func (r *GormSyncJobRepository) Start(ctx context.Context, job *integration.SyncJob) error {
	result := r.db.WithContext(ctx).
		Model(&models.SyncJobModel{}).
		Where("id = ? AND status = ?", job.ID, integration.SyncJobStatusPending.String()).
		Updates(map[string]any{
			"status":      job.Status.String(),
			"total_items": job.TotalItems,
			"started_at":  job.StartedAt,
			"updated_at":  job.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: sync job %s is not pending", shared.ErrInvalidState, job.ID)
	}
	return nil
}

// UpdateProgress raises processed_items of a running job. A lower value
// than the stored one is ignored.
func (r *GormSyncJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncJobModel{}).
		Where("id = ? AND status = ? AND processed_items <= ?", id, integration.SyncJobStatusRunning.String(), processed).
		Updates(map[string]any{
			"processed_items": processed,
			"updated_at":      time.Now(),
		}).Error
}

// Finalize writes the terminal state. Writing an already closed job is a
// no-op so that a retried finalize after a lost acknowledgement succeeds.
func (r *GormSyncJobRepository) Finalize(ctx context.Context, job *integration.SyncJob) error {
	if !job.IsTerminal() {
		return fmt.Errorf("%w: sync job %s is %s", shared.ErrInvalidState, job.ID, job.Status)
	}

	result := r.db.WithContext(ctx).
		Model(&models.SyncJobModel{}).
		Where("id = ? AND completed_at IS NULL", job.ID).
		Updates(map[string]any{
			"status":          job.Status.String(),
			"total_items":     job.TotalItems,
			"processed_items": job.ProcessedItems,
			"created_items":   job.CreatedItems,
			"updated_items":   job.UpdatedItems,
			"skipped_items":   job.SkippedItems,
			"error_count":     job.ErrorCount,
			"error_message":   job.ErrorMessage,
			"completed_at":    job.CompletedAt,
			"updated_at":      job.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	stored, err := r.FindByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if stored.IsTerminal() {
		return nil
	}
	return fmt.Errorf("%w: sync job %s was not finalized", shared.ErrInvalidState, job.ID)
}

// FindByID finds a job by its ID
func (r *GormSyncJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.SyncJob, error) {
	var model models.SyncJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListRecent returns at most limit jobs, newest first
func (r *GormSyncJobRepository) ListRecent(ctx context.Context, limit int) ([]integration.SyncJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobModels []models.SyncJobModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]integration.SyncJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = *jobModels[i].ToDomain()
	}
	return jobs, nil
}

var _ integration.SyncJobStore = (*GormSyncJobRepository)(nil)
