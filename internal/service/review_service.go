package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/khanhvu/rescore/internal/dto"
	"github.com/khanhvu/rescore/internal/model"
	"github.com/khanhvu/rescore/internal/repository"
	"github.com/khanhvu/rescore/internal/scoring"
	"github.com/rs/zerolog/log"
)

// ReviewService serves the read side: the single-question review pane and the
// attempt summary. Both always re-derive from the current overlay state; the
// cached status/score columns on RawResponse are never read here.
type ReviewService interface {
	GetQuestionView(attemptID uint, providerQuestionID string) (*dto.QuestionViewDTO, error)
	GetAttemptSummary(attemptID uint) (*dto.AttemptSummaryDTO, error)
}

type reviewService struct {
	attemptRepo    repository.AttemptRepository
	responseRepo   repository.ResponseRepository
	overlayRepo    repository.OverlayRepository
	bonusRepo      repository.BonusRepository
	adjustmentRepo repository.AdjustmentRepository
}

func NewReviewService(
	attemptRepo repository.AttemptRepository,
	responseRepo repository.ResponseRepository,
	overlayRepo repository.OverlayRepository,
	bonusRepo repository.BonusRepository,
	adjustmentRepo repository.AdjustmentRepository,
) ReviewService {
	return &reviewService{
		attemptRepo:    attemptRepo,
		responseRepo:   responseRepo,
		overlayRepo:    overlayRepo,
		bonusRepo:      bonusRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

func (s *reviewService) GetQuestionView(attemptID uint, providerQuestionID string) (*dto.QuestionViewDTO, error) {
	raw, err := s.responseRepo.FindByAttemptAndQuestion(attemptID, providerQuestionID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Str("questionID", providerQuestionID).
			Msg("GetQuestionView: response not found")
		return nil, fmt.Errorf("response not found for attempt %d question %s: %w", attemptID, providerQuestionID, err)
	}

	override, isBonus, err := s.overlayState(providerQuestionID)
	if err != nil {
		return nil, err
	}

	view := scoring.Reconcile(*raw, override, isBonus)
	var out dto.QuestionViewDTO
	if err := copier.Copy(&out, raw); err != nil {
		return nil, fmt.Errorf("error mapping response to view DTO: %w", err)
	}
	if err := copier.Copy(&out, &view); err != nil {
		return nil, fmt.Errorf("error mapping derived view to DTO: %w", err)
	}
	out.RawCorrectAnswer = raw.CorrectAnswerAtSyncTime
	out.EffectiveStatus = string(view.EffectiveStatus)
	out.DisplayCorrectAnswer = scoring.FormatForDisplay(view.EffectiveCorrectAnswer, raw.QuestionType)
	return &out, nil
}

func (s *reviewService) GetAttemptSummary(attemptID uint) (*dto.AttemptSummaryDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithResponses(attemptID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("GetAttemptSummary: attempt not found")
		return nil, fmt.Errorf("attempt not found with ID %d: %w", attemptID, err)
	}

	views, err := s.reconcileAll(attempt.Responses)
	if err != nil {
		return nil, err
	}

	summary := &dto.AttemptSummaryDTO{
		AttemptID:      attempt.ID,
		ProviderTestID: attempt.ProviderTestID,
		TestName:       attempt.TestName,
		MaxScore:       attempt.MaxScore,
		Rank:           attempt.Rank,
		Percentile:     attempt.Percentile,
	}
	for _, v := range views {
		switch v.EffectiveStatus {
		case scoring.StatusCorrect:
			summary.Correct++
		case scoring.StatusIncorrect:
			summary.Incorrect++
		default:
			summary.Unattempted++
		}
	}

	summary.AdjustedScore = attempt.TotalScore + scoring.AttemptDelta(views)
	adjustment, err := s.adjustmentRepo.Find(attempt.ProviderTestID, attempt.AccountID)
	if err != nil {
		return nil, fmt.Errorf("error loading score adjustment for attempt %d: %w", attemptID, err)
	}
	if adjustment != nil {
		summary.AdjustedScore += adjustment.Delta
	}
	return summary, nil
}

func (s *reviewService) overlayState(providerQuestionID string) (*scoring.Override, bool, error) {
	change, err := s.overlayRepo.FindByProviderQuestion(providerQuestionID)
	if err != nil {
		return nil, false, fmt.Errorf("error loading answer key override for question %s: %w", providerQuestionID, err)
	}
	var override *scoring.Override
	if change != nil {
		override = &scoring.Override{OriginalAnswer: change.OriginalAnswer, NewAnswer: change.NewAnswer}
	}
	flag, err := s.bonusRepo.FindByProviderQuestion(providerQuestionID)
	if err != nil {
		return nil, false, fmt.Errorf("error loading bonus flag for question %s: %w", providerQuestionID, err)
	}
	return override, flag != nil, nil
}

// reconcileAll derives views for a whole attempt with the overlay state
// loaded in bulk.
func (s *reviewService) reconcileAll(responses []model.RawResponse) ([]scoring.DerivedQuestionView, error) {
	ids := make([]string, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ProviderQuestionID)
	}
	overrides, err := s.overlayRepo.FindAllByProviderQuestions(ids)
	if err != nil {
		return nil, fmt.Errorf("error loading answer key overrides: %w", err)
	}
	bonusSet, err := s.bonusRepo.ProviderQuestionIDSet(ids)
	if err != nil {
		return nil, fmt.Errorf("error loading bonus flags: %w", err)
	}

	views := make([]scoring.DerivedQuestionView, 0, len(responses))
	for _, r := range responses {
		var override *scoring.Override
		if change, ok := overrides[r.ProviderQuestionID]; ok {
			override = &scoring.Override{OriginalAnswer: change.OriginalAnswer, NewAnswer: change.NewAnswer}
		}
		_, isBonus := bonusSet[r.ProviderQuestionID]
		views = append(views, scoring.Reconcile(r, override, isBonus))
	}
	return views, nil
}
