package repository

import (
	"errors"

	"github.com/khanhvu/rescore/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdjustmentRepository interface {
	Upsert(adjustment *model.ScoreAdjustment) error
	Find(providerTestID, accountID string) (*model.ScoreAdjustment, error)
	FindAllByProviderTest(providerTestID string) ([]model.ScoreAdjustment, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) Upsert(adjustment *model.ScoreAdjustment) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_test_id"}, {Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"delta", "reason", "actor", "updated_at"}),
	}).Create(adjustment).Error
}

func (r *adjustmentRepository) Find(providerTestID, accountID string) (*model.ScoreAdjustment, error) {
	var adjustment model.ScoreAdjustment
	err := r.db.Where("provider_test_id = ? AND account_id = ?", providerTestID, accountID).
		First(&adjustment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adjustment, nil
}

func (r *adjustmentRepository) FindAllByProviderTest(providerTestID string) ([]model.ScoreAdjustment, error) {
	var adjustments []model.ScoreAdjustment
	err := r.db.Where("provider_test_id = ?", providerTestID).Find(&adjustments).Error
	return adjustments, err
}
