package repository

import (
	"errors"

	"github.com/khanhvu/rescore/internal/model"
	"gorm.io/gorm"
)

type BonusRepository interface {
	FindByProviderQuestion(providerQuestionID string) (*model.BonusQuestion, error)
	ProviderQuestionIDSet(providerQuestionIDs []string) (map[string]struct{}, error)
	// Set flags the question as bonus and writes the recomputed snapshots in
	// one transaction; Remove is the symmetric un-flag.
	Set(flag *model.BonusQuestion, snapshots []model.RawResponse) error
	Remove(providerQuestionID string, snapshots []model.RawResponse) error
}

type bonusRepository struct {
	db *gorm.DB
}

func NewBonusRepository(db *gorm.DB) BonusRepository {
	return &bonusRepository{db: db}
}

func (r *bonusRepository) FindByProviderQuestion(providerQuestionID string) (*model.BonusQuestion, error) {
	var flag model.BonusQuestion
	err := r.db.Where("provider_question_id = ?", providerQuestionID).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

func (r *bonusRepository) ProviderQuestionIDSet(providerQuestionIDs []string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	if len(providerQuestionIDs) == 0 {
		return set, nil
	}
	var ids []string
	err := r.db.Model(&model.BonusQuestion{}).
		Where("provider_question_id IN ?", providerQuestionIDs).
		Pluck("provider_question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *bonusRepository) Set(flag *model.BonusQuestion, snapshots []model.RawResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(flag).Error; err != nil {
			return err
		}
		return updateCachedSnapshots(tx, snapshots)
	})
}

func (r *bonusRepository) Remove(providerQuestionID string, snapshots []model.RawResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_question_id = ?", providerQuestionID).
			Delete(&model.BonusQuestion{}).Error; err != nil {
			return err
		}
		return updateCachedSnapshots(tx, snapshots)
	})
}
