package repository

import (
	"github.com/khanhvu/rescore/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository interface {
	// UpsertWithResponses writes an attempt and its responses idempotently.
	// Attempts conflict on (provider_attempt_id, account_id), responses on
	// (provider_question_id, attempt_id); only mutable fields are overwritten.
	UpsertWithResponses(attempt *model.Attempt) error
	FindByIDWithResponses(id uint) (*model.Attempt, error)
	FindAllByProviderTest(providerTestID string) ([]model.Attempt, error)
	// KnownAttemptKeys returns the (providerAttemptID, accountID) membership
	// set for every synced attempt, used to skip already-ingested attempts.
	KnownAttemptKeys() (map[string]struct{}, error)
}

// AttemptKey builds the membership key used by KnownAttemptKeys.
func AttemptKey(providerAttemptID, accountID string) string {
	return providerAttemptID + "::" + accountID
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

var attemptMutableColumns = []string{"username", "test_name", "total_score", "max_score", "rank", "percentile", "unattempted", "updated_at"}

var responseMutableColumns = []string{"student_answer", "time_taken_sec", "cached_status", "cached_score", "updated_at"}

func (r *attemptRepository) UpsertWithResponses(attempt *model.Attempt) error {
	responses := attempt.Responses
	attempt.Responses = nil

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_attempt_id"}, {Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns(attemptMutableColumns),
		}).Create(attempt).Error; err != nil {
			return err
		}

		// On conflict the returned ID is not reliable across dialects; read the
		// persisted row to key the responses.
		var persisted model.Attempt
		if err := tx.Where("provider_attempt_id = ? AND account_id = ?", attempt.ProviderAttemptID, attempt.AccountID).
			First(&persisted).Error; err != nil {
			return err
		}
		attempt.ID = persisted.ID

		if len(responses) == 0 {
			return nil
		}
		for i := range responses {
			responses[i].AttemptID = persisted.ID
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_question_id"}, {Name: "attempt_id"}},
			DoUpdates: clause.AssignmentColumns(responseMutableColumns),
		}).Create(&responses).Error; err != nil {
			return err
		}
		attempt.Responses = responses
		return nil
	})
}

func (r *attemptRepository) FindByIDWithResponses(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.Preload("Responses").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByProviderTest(providerTestID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Preload("Responses").
		Where("provider_test_id = ?", providerTestID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) KnownAttemptKeys() (map[string]struct{}, error) {
	var rows []struct {
		ProviderAttemptID string
		AccountID         string
	}
	err := r.db.Model(&model.Attempt{}).
		Select("provider_attempt_id", "account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		known[AttemptKey(row.ProviderAttemptID, row.AccountID)] = struct{}{}
	}
	return known, nil
}
