package persistence

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequence is a per-document-type, per-year counter row.
// Incrementing it under a row lock yields gapless document numbers even when
// documents are created concurrently.
type DocumentSequence struct {
	DocType string `gorm:"type:varchar(10);primaryKey"`
	Year    int    `gorm:"primaryKey"`
	Counter int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// GormDocumentSequenceRepository implements DocumentSequenceRepository using GORM
type GormDocumentSequenceRepository struct {
	db *gorm.DB
}

// NewGormDocumentSequenceRepository creates a new GormDocumentSequenceRepository
func NewGormDocumentSequenceRepository(db *gorm.DB) *GormDocumentSequenceRepository {
	return &GormDocumentSequenceRepository{db: db}
}

// Next allocates the next sequence number for the document type and year.
// The counter row is locked for the duration of the surrounding transaction,
// so a rolled back caller releases its number back to the sequence.
func (r *GormDocumentSequenceRepository) Next(ctx context.Context, docType string, year int) (int64, error) {
	seed := DocumentSequence{DocType: docType, Year: year}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		return 0, err
	}

	var seq DocumentSequence
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&seq, "doc_type = ? AND year = ?", docType, year).Error; err != nil {
		return 0, err
	}

	seq.Counter++
	if err := r.db.WithContext(ctx).
		Model(&DocumentSequence{}).
		Where("doc_type = ? AND year = ?", docType, year).
		Update("counter", seq.Counter).Error; err != nil {
		return 0, err
	}

	return seq.Counter, nil
}

// Ensure GormDocumentSequenceRepository implements DocumentSequenceRepository
var _ shared.DocumentSequenceRepository = (*GormDocumentSequenceRepository)(nil)
