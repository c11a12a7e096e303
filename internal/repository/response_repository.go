package repository

import (
	"github.com/khanhvu/rescore/internal/model"
	"gorm.io/gorm"
)

type ResponseRepository interface {
	// FindAllByProviderQuestion returns every raw response sharing a provider
	// question id, across all attempts and accounts. This is the fan-out set
	// for overlay mutations.
	FindAllByProviderQuestion(providerQuestionID string) ([]model.RawResponse, error)
	FindByAttemptAndQuestion(attemptID uint, providerQuestionID string) (*model.RawResponse, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) FindAllByProviderQuestion(providerQuestionID string) ([]model.RawResponse, error) {
	var responses []model.RawResponse
	err := r.db.Where("provider_question_id = ?", providerQuestionID).Find(&responses).Error
	return responses, err
}

func (r *responseRepository) FindByAttemptAndQuestion(attemptID uint, providerQuestionID string) (*model.RawResponse, error) {
	var response model.RawResponse
	err := r.db.Where("attempt_id = ? AND provider_question_id = ?", attemptID, providerQuestionID).
		First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// updateCachedSnapshots rewrites only the write-through cache columns of the
// given responses inside tx.
func updateCachedSnapshots(tx *gorm.DB, responses []model.RawResponse) error {
	for i := range responses {
		err := tx.Model(&model.RawResponse{}).
			Where("id = ?", responses[i].ID).
			Updates(map[string]any{
				"cached_status": responses[i].CachedStatus,
				"cached_score":  responses[i].CachedScore,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
