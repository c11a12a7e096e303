package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/khanhvu/rescore/internal/cache"
	"github.com/khanhvu/rescore/internal/dto"
	"github.com/khanhvu/rescore/internal/model"
	"github.com/khanhvu/rescore/internal/repository"
	"github.com/khanhvu/rescore/internal/scoring"
	"github.com/rs/zerolog/log"
)

// ErrQuestionUnknown is returned when an admin mutation targets a provider
// question id that no synced response references.
var ErrQuestionUnknown = errors.New("unknown provider question id")

const leaderboardCachePrefix = "leaderboard:"

// OverlayService owns the retroactive corrections: answer-key overrides,
// bonus flags and manual score adjustments. Every mutation recomputes the
// derived state of all affected responses synchronously, in the same
// transaction as the overlay write.
type OverlayService interface {
	SetAnswerKeyOverride(providerQuestionID string, req dto.AnswerKeyOverrideDTO) (*dto.OverrideResultDTO, error)
	ToggleBonus(providerQuestionID string, req dto.BonusToggleDTO) (*dto.BonusResultDTO, error)
	SetScoreAdjustment(providerTestID, accountID string, req dto.ScoreAdjustmentDTO) (*dto.ScoreAdjustmentResultDTO, error)
}

type overlayService struct {
	responseRepo   repository.ResponseRepository
	overlayRepo    repository.OverlayRepository
	bonusRepo      repository.BonusRepository
	adjustmentRepo repository.AdjustmentRepository
	cache          *cache.TTLCache

	// One mutex per provider question id; mutations on different questions do
	// not block each other.
	locks sync.Map
}

func NewOverlayService(
	responseRepo repository.ResponseRepository,
	overlayRepo repository.OverlayRepository,
	bonusRepo repository.BonusRepository,
	adjustmentRepo repository.AdjustmentRepository,
	ttlCache *cache.TTLCache,
) OverlayService {
	return &overlayService{
		responseRepo:   responseRepo,
		overlayRepo:    overlayRepo,
		bonusRepo:      bonusRepo,
		adjustmentRepo: adjustmentRepo,
		cache:          ttlCache,
	}
}

func (s *overlayService) lockFor(providerQuestionID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(providerQuestionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *overlayService) SetAnswerKeyOverride(providerQuestionID string, req dto.AnswerKeyOverrideDTO) (*dto.OverrideResultDTO, error) {
	mu := s.lockFor(providerQuestionID)
	mu.Lock()
	defer mu.Unlock()

	responses, err := s.responseRepo.FindAllByProviderQuestion(providerQuestionID)
	if err != nil {
		log.Error().Err(err).Str("questionID", providerQuestionID).Msg("SetAnswerKeyOverride: failed to load fan-out set")
		return nil, fmt.Errorf("error loading responses for question %s: %w", providerQuestionID, err)
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrQuestionUnknown, providerQuestionID)
	}
	questionType := responses[0].QuestionType

	normalizedNew := scoring.NormalizeKey(req.NewAnswer, questionType)
	normalizedOriginal := scoring.NormalizeKey(req.OriginalAnswer, questionType)
	if normalizedOriginal == "" {
		normalizedOriginal = req.OriginalAnswer
	}

	flag, err := s.bonusRepo.FindByProviderQuestion(providerQuestionID)
	if err != nil {
		return nil, fmt.Errorf("error loading bonus flag for question %s: %w", providerQuestionID, err)
	}
	isBonus := flag != nil

	if normalizedNew == normalizedOriginal {
		// Setting the key back to the original is a revert: drop any active
		// override and re-derive against the raw answer.
		snapshots := recomputeSnapshots(responses, nil, isBonus)
		if err := s.overlayRepo.Remove(providerQuestionID, snapshots); err != nil {
			log.Error().Err(err).Str("questionID", providerQuestionID).Msg("SetAnswerKeyOverride: revert failed")
			return nil, fmt.Errorf("error reverting answer key for question %s: %w", providerQuestionID, err)
		}
		s.cache.DeletePrefix(leaderboardCachePrefix)
		log.Info().Str("questionID", providerQuestionID).Str("actor", req.Actor).Int("responses", len(responses)).
			Msg("Answer key override reverted")
		return &dto.OverrideResultDTO{
			Changed:             false,
			Message:             "new answer equals the original; override cleared",
			ResponsesRecomputed: len(responses),
		}, nil
	}

	change := &model.AnswerKeyChange{
		ProviderQuestionID: providerQuestionID,
		OriginalAnswer:     normalizedOriginal,
		NewAnswer:          normalizedNew,
		Reason:             req.Reason,
		Actor:              req.Actor,
	}
	override := &scoring.Override{OriginalAnswer: change.OriginalAnswer, NewAnswer: change.NewAnswer}
	snapshots := recomputeSnapshots(responses, override, isBonus)

	if err := s.overlayRepo.Upsert(change, snapshots); err != nil {
		log.Error().Err(err).Str("questionID", providerQuestionID).Msg("SetAnswerKeyOverride: upsert failed")
		return nil, fmt.Errorf("error saving answer key override for question %s: %w", providerQuestionID, err)
	}
	s.cache.DeletePrefix(leaderboardCachePrefix)
	log.Info().Str("questionID", providerQuestionID).Str("actor", req.Actor).
		Str("newAnswer", change.NewAnswer).Int("responses", len(responses)).
		Msg("Answer key override applied")

	return &dto.OverrideResultDTO{
		Changed:             true,
		Message:             fmt.Sprintf("answer key changed to %q", scoring.FormatForDisplay(change.NewAnswer, questionType)),
		ResponsesRecomputed: len(responses),
	}, nil
}

func (s *overlayService) ToggleBonus(providerQuestionID string, req dto.BonusToggleDTO) (*dto.BonusResultDTO, error) {
	mu := s.lockFor(providerQuestionID)
	mu.Lock()
	defer mu.Unlock()

	responses, err := s.responseRepo.FindAllByProviderQuestion(providerQuestionID)
	if err != nil {
		log.Error().Err(err).Str("questionID", providerQuestionID).Msg("ToggleBonus: failed to load fan-out set")
		return nil, fmt.Errorf("error loading responses for question %s: %w", providerQuestionID, err)
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrQuestionUnknown, providerQuestionID)
	}

	change, err := s.overlayRepo.FindByProviderQuestion(providerQuestionID)
	if err != nil {
		return nil, fmt.Errorf("error loading answer key override for question %s: %w", providerQuestionID, err)
	}
	var override *scoring.Override
	if change != nil {
		override = &scoring.Override{OriginalAnswer: change.OriginalAnswer, NewAnswer: change.NewAnswer}
	}

	existing, err := s.bonusRepo.FindByProviderQuestion(providerQuestionID)
	if err != nil {
		return nil, fmt.Errorf("error loading bonus flag for question %s: %w", providerQuestionID, err)
	}

	if existing != nil {
		snapshots := recomputeSnapshots(responses, override, false)
		if err := s.bonusRepo.Remove(providerQuestionID, snapshots); err != nil {
			log.Error().Err(err).Str("questionID", providerQuestionID).Msg("ToggleBonus: remove failed")
			return nil, fmt.Errorf("error removing bonus flag for question %s: %w", providerQuestionID, err)
		}
		s.cache.DeletePrefix(leaderboardCachePrefix)
		log.Info().Str("questionID", providerQuestionID).Str("actor", req.Actor).Msg("Bonus flag removed")
		return &dto.BonusResultDTO{
			IsBonus: false,
			Stats:   dto.BonusStatsDTO{ResponsesRecomputed: len(responses)},
		}, nil
	}

	granted := 0
	snapshots := make([]model.RawResponse, 0, len(responses))
	for _, r := range responses {
		view := scoring.Reconcile(r, override, true)
		r.CachedStatus = string(view.EffectiveStatus)
		r.CachedScore = view.EffectiveScore
		if view.BonusMarks > 0 {
			granted++
		}
		snapshots = append(snapshots, r)
	}

	flag := &model.BonusQuestion{ProviderQuestionID: providerQuestionID, Reason: req.Reason, Actor: req.Actor}
	if err := s.bonusRepo.Set(flag, snapshots); err != nil {
		log.Error().Err(err).Str("questionID", providerQuestionID).Msg("ToggleBonus: set failed")
		return nil, fmt.Errorf("error setting bonus flag for question %s: %w", providerQuestionID, err)
	}
	s.cache.DeletePrefix(leaderboardCachePrefix)
	log.Info().Str("questionID", providerQuestionID).Str("actor", req.Actor).
		Int("granted", granted).Int("responses", len(responses)).Msg("Bonus flag set")

	return &dto.BonusResultDTO{
		IsBonus: true,
		Stats:   dto.BonusStatsDTO{ResponsesRecomputed: len(responses), BonusGranted: granted},
	}, nil
}

func (s *overlayService) SetScoreAdjustment(providerTestID, accountID string, req dto.ScoreAdjustmentDTO) (*dto.ScoreAdjustmentResultDTO, error) {
	adjustment := &model.ScoreAdjustment{
		ProviderTestID: providerTestID,
		AccountID:      accountID,
		Delta:          req.Delta,
		Reason:         req.Reason,
		Actor:          req.Actor,
	}
	if err := s.adjustmentRepo.Upsert(adjustment); err != nil {
		log.Error().Err(err).Str("testID", providerTestID).Str("accountID", accountID).
			Msg("SetScoreAdjustment: upsert failed")
		return nil, fmt.Errorf("error saving score adjustment: %w", err)
	}
	s.cache.DeletePrefix(leaderboardCachePrefix)
	log.Info().Str("testID", providerTestID).Str("accountID", accountID).
		Float64("delta", req.Delta).Str("actor", req.Actor).Msg("Score adjustment saved")

	return &dto.ScoreAdjustmentResultDTO{
		ProviderTestID: providerTestID,
		AccountID:      accountID,
		Delta:          req.Delta,
	}, nil
}

// recomputeSnapshots re-derives the write-through cache columns of every
// response under the given overlay state.
func recomputeSnapshots(responses []model.RawResponse, override *scoring.Override, isBonus bool) []model.RawResponse {
	snapshots := make([]model.RawResponse, 0, len(responses))
	for _, r := range responses {
		view := scoring.Reconcile(r, override, isBonus)
		r.CachedStatus = string(view.EffectiveStatus)
		r.CachedScore = view.EffectiveScore
		snapshots = append(snapshots, r)
	}
	return snapshots
}
