package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// ReportRepository owns the append-only moderation log.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new repository bound to the given DB connection.
func NewReportRepository(database *gorm.DB) *ReportRepository {
	return &ReportRepository{db: database}
}

// Append adds one report. Reports are never mutated or deleted.
func (r *ReportRepository) Append(ctx context.Context, reporterID, reportedID, reason, note string) error {
	report := db.Report{
		ReporterID: reporterID,
		ReportedID: reportedID,
		Reason:     reason,
		Note:       note,
	}
	return r.db.WithContext(ctx).Create(&report).Error
}

// ListAll returns the full log, oldest first. Admin-only at the service
// boundary.
func (r *ReportRepository) ListAll(ctx context.Context) ([]db.Report, error) {
	var reports []db.Report
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&reports).Error
	return reports, err
}
