package repository

import (
	"errors"

	"github.com/khanhvu/rescore/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OverlayRepository interface {
	FindByProviderQuestion(providerQuestionID string) (*model.AnswerKeyChange, error)
	FindAllByProviderQuestions(providerQuestionIDs []string) (map[string]model.AnswerKeyChange, error)
	// Upsert writes the override and the recomputed response snapshots in one
	// transaction, so no reader sees the new key with stale derived state.
	Upsert(change *model.AnswerKeyChange, snapshots []model.RawResponse) error
	// Remove deletes the override (revert) together with the recomputed
	// snapshots, same transaction shape as Upsert.
	Remove(providerQuestionID string, snapshots []model.RawResponse) error
}

type overlayRepository struct {
	db *gorm.DB
}

func NewOverlayRepository(db *gorm.DB) OverlayRepository {
	return &overlayRepository{db: db}
}

func (r *overlayRepository) FindByProviderQuestion(providerQuestionID string) (*model.AnswerKeyChange, error) {
	var change model.AnswerKeyChange
	err := r.db.Where("provider_question_id = ?", providerQuestionID).First(&change).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (r *overlayRepository) FindAllByProviderQuestions(providerQuestionIDs []string) (map[string]model.AnswerKeyChange, error) {
	if len(providerQuestionIDs) == 0 {
		return map[string]model.AnswerKeyChange{}, nil
	}
	var changes []model.AnswerKeyChange
	if err := r.db.Where("provider_question_id IN ?", providerQuestionIDs).Find(&changes).Error; err != nil {
		return nil, err
	}
	byQuestion := make(map[string]model.AnswerKeyChange, len(changes))
	for _, c := range changes {
		byQuestion[c.ProviderQuestionID] = c
	}
	return byQuestion, nil
}

func (r *overlayRepository) Upsert(change *model.AnswerKeyChange, snapshots []model.RawResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"original_answer", "new_answer", "reason", "actor", "updated_at"}),
		}).Create(change).Error; err != nil {
			return err
		}
		return updateCachedSnapshots(tx, snapshots)
	})
}

func (r *overlayRepository) Remove(providerQuestionID string, snapshots []model.RawResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_question_id = ?", providerQuestionID).
			Delete(&model.AnswerKeyChange{}).Error; err != nil {
			return err
		}
		return updateCachedSnapshots(tx, snapshots)
	})
}
