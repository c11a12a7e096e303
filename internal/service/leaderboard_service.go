package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/khanhvu/rescore/internal/cache"
	"github.com/khanhvu/rescore/internal/dto"
	"github.com/khanhvu/rescore/internal/model"
	"github.com/khanhvu/rescore/internal/repository"
	"github.com/khanhvu/rescore/internal/scoring"
	"github.com/rs/zerolog/log"
)

type LeaderboardMode string

const (
	ModeAll            LeaderboardMode = "all"
	ModeReattemptsOnly LeaderboardMode = "reattempts-only"
)

const (
	leaderboardTTL  = time.Minute
	defaultPageSize = 25
	maxPageSize     = 100
)

type LeaderboardService interface {
	GetLeaderboard(providerTestID string, mode LeaderboardMode, page, pageSize int, requestingAccountID string) (*dto.LeaderboardDTO, error)
}

type leaderboardService struct {
	attemptRepo    repository.AttemptRepository
	overlayRepo    repository.OverlayRepository
	bonusRepo      repository.BonusRepository
	adjustmentRepo repository.AdjustmentRepository
	cache          *cache.TTLCache
}

func NewLeaderboardService(
	attemptRepo repository.AttemptRepository,
	overlayRepo repository.OverlayRepository,
	bonusRepo repository.BonusRepository,
	adjustmentRepo repository.AdjustmentRepository,
	ttlCache *cache.TTLCache,
) LeaderboardService {
	return &leaderboardService{
		attemptRepo:    attemptRepo,
		overlayRepo:    overlayRepo,
		bonusRepo:      bonusRepo,
		adjustmentRepo: adjustmentRepo,
		cache:          ttlCache,
	}
}

func (s *leaderboardService) GetLeaderboard(providerTestID string, mode LeaderboardMode, page, pageSize int, requestingAccountID string) (*dto.LeaderboardDTO, error) {
	if mode != ModeReattemptsOnly {
		mode = ModeAll
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	entries, err := s.rankedEntries(providerTestID, mode)
	if err != nil {
		return nil, err
	}

	result := &dto.LeaderboardDTO{
		TotalParticipants: len(entries),
		Page:              page,
		PageSize:          pageSize,
	}
	for _, e := range entries {
		if e.AccountID == requestingAccountID {
			rank := e.Rank
			result.CurrentUserRank = &rank
			break
		}
	}

	// Slicing never changes the globally assigned rank numbers.
	start := (page - 1) * pageSize
	if start < len(entries) {
		end := start + pageSize
		if end > len(entries) {
			end = len(entries)
		}
		result.Entries = entries[start:end]
	} else {
		result.Entries = []dto.LeaderboardEntryDTO{}
	}
	return result, nil
}

// rankedEntries returns the full globally ranked list for a test and mode,
// from cache when fresh. Overlay mutations invalidate the cache explicitly.
func (s *leaderboardService) rankedEntries(providerTestID string, mode LeaderboardMode) ([]dto.LeaderboardEntryDTO, error) {
	key := fmt.Sprintf("%s%s:%s", leaderboardCachePrefix, providerTestID, mode)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]dto.LeaderboardEntryDTO), nil
	}

	attempts, err := s.attemptRepo.FindAllByProviderTest(providerTestID)
	if err != nil {
		log.Error().Err(err).Str("testID", providerTestID).Msg("GetLeaderboard: failed to load attempts")
		return nil, fmt.Errorf("error loading attempts for test %s: %w", providerTestID, err)
	}

	idSet := make(map[string]struct{})
	for _, a := range attempts {
		for _, r := range a.Responses {
			idSet[r.ProviderQuestionID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	changes, err := s.overlayRepo.FindAllByProviderQuestions(ids)
	if err != nil {
		return nil, fmt.Errorf("error loading answer key overrides: %w", err)
	}
	overrides := make(map[string]scoring.Override, len(changes))
	for id, c := range changes {
		overrides[id] = scoring.Override{OriginalAnswer: c.OriginalAnswer, NewAnswer: c.NewAnswer}
	}
	bonusSet, err := s.bonusRepo.ProviderQuestionIDSet(ids)
	if err != nil {
		return nil, fmt.Errorf("error loading bonus flags: %w", err)
	}
	adjustmentRows, err := s.adjustmentRepo.FindAllByProviderTest(providerTestID)
	if err != nil {
		return nil, fmt.Errorf("error loading score adjustments: %w", err)
	}
	adjustments := make(map[string]float64, len(adjustmentRows))
	for _, a := range adjustmentRows {
		adjustments[a.AccountID] = a.Delta
	}

	entries := BuildLeaderboard(attempts, overrides, bonusSet, adjustments, mode)
	s.cache.Set(key, entries, leaderboardTTL)
	return entries, nil
}

// BuildLeaderboard is the pure ranking core: per attempt, adjusted score =
// provider raw total + correction deltas + the account's manual adjustment;
// per account, the best attempt represents the user. Filtering by mode
// happens before ranks are assigned; ranks are dense 1-based positions with
// ties broken by username then account id, so repeated calls over the same
// input produce identical output.
func BuildLeaderboard(
	attempts []model.Attempt,
	overrides map[string]scoring.Override,
	bonusSet map[string]struct{},
	adjustments map[string]float64,
	mode LeaderboardMode,
) []dto.LeaderboardEntryDTO {
	type bestEntry struct {
		dto.LeaderboardEntryDTO
		attemptCount int
	}
	best := make(map[string]*bestEntry)

	for _, attempt := range attempts {
		adjusted := attempt.TotalScore + adjustments[attempt.AccountID]
		for _, r := range attempt.Responses {
			var override *scoring.Override
			if o, ok := overrides[r.ProviderQuestionID]; ok {
				override = &o
			}
			_, isBonus := bonusSet[r.ProviderQuestionID]
			view := scoring.Reconcile(r, override, isBonus)
			adjusted += view.KeyChangeAdjustment + view.BonusMarks
		}

		entry, ok := best[attempt.AccountID]
		if !ok {
			best[attempt.AccountID] = &bestEntry{
				LeaderboardEntryDTO: dto.LeaderboardEntryDTO{
					AccountID:         attempt.AccountID,
					Username:          attempt.Username,
					ProviderAttemptID: attempt.ProviderAttemptID,
					AdjustedScore:     adjusted,
				},
				attemptCount: 1,
			}
			continue
		}
		entry.attemptCount++
		if adjusted > entry.AdjustedScore {
			entry.AdjustedScore = adjusted
			entry.ProviderAttemptID = attempt.ProviderAttemptID
		}
	}

	var entries []dto.LeaderboardEntryDTO
	for _, e := range best {
		if mode == ModeReattemptsOnly && e.attemptCount < 2 {
			continue
		}
		e.AttemptCount = e.attemptCount
		entries = append(entries, e.LeaderboardEntryDTO)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AdjustedScore != entries[j].AdjustedScore {
			return entries[i].AdjustedScore > entries[j].AdjustedScore
		}
		if entries[i].Username != entries[j].Username {
			return entries[i].Username < entries[j].Username
		}
		return entries[i].AccountID < entries[j].AccountID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
