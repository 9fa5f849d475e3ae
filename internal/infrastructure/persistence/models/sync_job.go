package models

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// SyncJobModel is the persistence model for the SyncJob domain entity.
type SyncJobModel struct {
	BaseModel
	Mode           integration.SyncMode      `gorm:"type:varchar(20);not null;default:'full'"`
	Status         integration.SyncJobStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_sync_jobs_status"`
	TotalItems     int                       `gorm:"not null;default:0"`
	ProcessedItems int                       `gorm:"not null;default:0"`
	CreatedItems   int                       `gorm:"not null;default:0"`
	UpdatedItems   int                       `gorm:"not null;default:0"`
	SkippedItems   int                       `gorm:"not null;default:0"`
	ErrorCount     int                       `gorm:"not null;default:0"`
	ErrorMessage   string                    `gorm:"type:text"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// TableName returns the table name for GORM
func (SyncJobModel) TableName() string {
	return "sync_jobs"
}

// ToDomain converts the persistence model to a domain SyncJob entity.
func (m *SyncJobModel) ToDomain() *integration.SyncJob {
	return &integration.SyncJob{
		BaseEntity:     m.BaseModel.ToDomain(),
		Mode:           m.Mode,
		Status:         m.Status,
		TotalItems:     m.TotalItems,
		ProcessedItems: m.ProcessedItems,
		CreatedItems:   m.CreatedItems,
		UpdatedItems:   m.UpdatedItems,
		SkippedItems:   m.SkippedItems,
		ErrorCount:     m.ErrorCount,
		ErrorMessage:   m.ErrorMessage,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncJob entity.
func (m *SyncJobModel) FromDomain(j *integration.SyncJob) {
	m.FromDomainBaseEntity(j.BaseEntity)
	m.Mode = j.Mode
	m.Status = j.Status
	m.TotalItems = j.TotalItems
	m.ProcessedItems = j.ProcessedItems
	m.CreatedItems = j.CreatedItems
	m.UpdatedItems = j.UpdatedItems
	m.SkippedItems = j.SkippedItems
	m.ErrorCount = j.ErrorCount
	m.ErrorMessage = j.ErrorMessage
	m.StartedAt = j.StartedAt
	m.CompletedAt = j.CompletedAt
}

// SyncJobModelFromDomain creates a new persistence model from a domain SyncJob entity.
func SyncJobModelFromDomain(j *integration.SyncJob) *SyncJobModel {
	m := &SyncJobModel{}
	m.FromDomain(j)
	return m
}
