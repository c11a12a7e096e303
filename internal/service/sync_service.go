package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/khanhvu/rescore/config"
	"github.com/khanhvu/rescore/internal/cache"
	"github.com/khanhvu/rescore/internal/dto"
	"github.com/khanhvu/rescore/internal/model"
	"github.com/khanhvu/rescore/internal/provider"
	"github.com/khanhvu/rescore/internal/repository"
	"github.com/khanhvu/rescore/internal/scoring"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const catalogCacheKey = "provider:catalog"
const catalogTTL = 10 * time.Minute

// SyncService is the ingestion pipeline: it pulls attempt data from the
// provider through a bounded worker pool and upserts it idempotently. A run
// is expected to complete; there is no cancellation path beyond the context
// on transport calls, and re-running is always safe.
type SyncService interface {
	RunSync(ctx context.Context, req dto.SyncRequestDTO) (*dto.SyncReportDTO, error)
}

type syncService struct {
	client      provider.Client
	attemptRepo repository.AttemptRepository
	overlayRepo repository.OverlayRepository
	bonusRepo   repository.BonusRepository
	catalog     *cache.TTLCache
	cfg         *config.Config
}

func NewSyncService(
	client provider.Client,
	attemptRepo repository.AttemptRepository,
	overlayRepo repository.OverlayRepository,
	bonusRepo repository.BonusRepository,
	ttlCache *cache.TTLCache,
	cfg *config.Config,
) SyncService {
	return &syncService{
		client:      client,
		attemptRepo: attemptRepo,
		overlayRepo: overlayRepo,
		bonusRepo:   bonusRepo,
		catalog:     ttlCache,
		cfg:         cfg,
	}
}

// failureCollector is the shared append-only failure list. Workers append
// concurrently, so every write goes through the mutex.
type failureCollector struct {
	mu       sync.Mutex
	failures []dto.SyncFailureDTO
}

func (c *failureCollector) add(packageID, packageName string, err error) {
	c.mu.Lock()
	c.failures = append(c.failures, dto.SyncFailureDTO{
		PackageID:   packageID,
		PackageName: packageName,
		Error:       err.Error(),
	})
	c.mu.Unlock()
}

func (c *failureCollector) list() []dto.SyncFailureDTO {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.SyncFailureDTO, len(c.failures))
	copy(out, c.failures)
	return out
}

type syncCounters struct {
	tests     atomic.Int64
	questions atomic.Int64
	skipped   atomic.Int64
}

func (s *syncService) RunSync(ctx context.Context, req dto.SyncRequestDTO) (*dto.SyncReportDTO, error) {
	runID := uuid.NewString()
	start := time.Now()
	log.Info().Str("runID", runID).Str("accountID", req.AccountID).Msg("Sync run starting")

	packages, err := s.fetchCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Str("runID", runID).Msg("Sync run aborted: catalog fetch failed")
		return nil, fmt.Errorf("failed to fetch provider catalog: %w", err)
	}
	packages = MergePackages(packages)

	known, err := s.attemptRepo.KnownAttemptKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load known attempt ids: %w", err)
	}

	collector := &failureCollector{}
	counters := &syncCounters{}

	// Fixed-size worker pool pulling package jobs from a shared cursor.
	// Workers never return an error: individual failures land in the
	// collector and the batch keeps going.
	var cursor atomic.Int64
	var g errgroup.Group
	for w := 0; w < s.cfg.Sync.Concurrency; w++ {
		g.Go(func() error {
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(packages) {
					return nil
				}
				s.processPackage(ctx, packages[idx], known, collector, counters)
			}
		})
	}
	_ = g.Wait()

	report := &dto.SyncReportDTO{
		RunID:              runID,
		TestsProcessed:     int(counters.tests.Load()),
		QuestionsProcessed: int(counters.questions.Load()),
		Skipped:            int(counters.skipped.Load()),
		Failures:           collector.list(),
		Duration:           time.Since(start).Round(time.Millisecond).String(),
	}
	log.Info().Str("runID", runID).
		Int("tests", report.TestsProcessed).
		Int("questions", report.QuestionsProcessed).
		Int("skipped", report.Skipped).
		Int("failures", len(report.Failures)).
		Msg("Sync run finished")
	return report, nil
}

func (s *syncService) fetchCatalog(ctx context.Context) ([]provider.Package, error) {
	if cached, ok := s.catalog.Get(catalogCacheKey); ok {
		return cached.([]provider.Package), nil
	}
	var packages []provider.Package
	err := provider.RetryWithBackoff(ctx, s.cfg.Sync.MaxRetries, s.cfg.Sync.BaseDelay, func() error {
		var ferr error
		packages, ferr = s.client.FetchPackages(ctx)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	s.catalog.Set(catalogCacheKey, packages, catalogTTL)
	return packages, nil
}

// MergePackages collapses catalog entries sharing a provider name, preferring
// the variant that carries test data over an empty stub. Order of first
// appearance is preserved.
func MergePackages(packages []provider.Package) []provider.Package {
	index := make(map[string]int, len(packages))
	var merged []provider.Package
	for _, pkg := range packages {
		i, seen := index[pkg.Name]
		if !seen {
			index[pkg.Name] = len(merged)
			merged = append(merged, pkg)
			continue
		}
		if len(merged[i].Tests) == 0 && len(pkg.Tests) > 0 {
			merged[i] = pkg
		}
	}
	return merged
}

func (s *syncService) processPackage(ctx context.Context, pkg provider.Package, known map[string]struct{}, collector *failureCollector, counters *syncCounters) {
	if len(pkg.Tests) == 0 {
		collector.add(pkg.ID, pkg.Name, errors.New("package has no test data"))
		return
	}

	attemptsSeen := 0
	for _, test := range pkg.Tests {
		var attempts []provider.Attempt
		err := provider.RetryWithBackoff(ctx, s.cfg.Sync.MaxRetries, s.cfg.Sync.BaseDelay, func() error {
			var ferr error
			attempts, ferr = s.client.FetchAttempts(ctx, test.ProviderTestID)
			return ferr
		})
		if err != nil {
			log.Warn().Err(err).Str("testID", test.ProviderTestID).Str("package", pkg.Name).
				Msg("Sync: attempt listing failed, continuing batch")
			collector.add(pkg.ID, pkg.Name, fmt.Errorf("test %s: %w", test.ProviderTestID, err))
			continue
		}
		attemptsSeen += len(attempts)

		for _, remote := range attempts {
			if _, ok := known[repository.AttemptKey(remote.ProviderAttemptID, remote.AccountID)]; ok {
				counters.skipped.Add(1)
				continue
			}
			ingested, err := s.ingestAttempt(ctx, test, remote)
			if err != nil {
				log.Warn().Err(err).Str("attemptID", remote.ProviderAttemptID).Str("package", pkg.Name).
					Msg("Sync: attempt ingestion failed, continuing batch")
				collector.add(pkg.ID, pkg.Name, fmt.Errorf("attempt %s: %w", remote.ProviderAttemptID, err))
				continue
			}
			counters.questions.Add(int64(ingested))
		}
		counters.tests.Add(1)
	}

	if attemptsSeen == 0 {
		collector.add(pkg.ID, pkg.Name, errors.New("no attempt data returned"))
	}
}

func (s *syncService) ingestAttempt(ctx context.Context, test provider.PackageTest, remote provider.Attempt) (int, error) {
	var overview *provider.ScoreOverview
	err := provider.RetryWithBackoff(ctx, s.cfg.Sync.MaxRetries, s.cfg.Sync.BaseDelay, func() error {
		var ferr error
		overview, ferr = s.client.FetchScoreOverview(ctx, remote.ProviderAttemptID)
		return ferr
	})
	if err != nil {
		return 0, fmt.Errorf("score overview fetch: %w", err)
	}

	var responses []provider.Response
	err = provider.RetryWithBackoff(ctx, s.cfg.Sync.MaxRetries, s.cfg.Sync.BaseDelay, func() error {
		var ferr error
		responses, ferr = s.client.FetchResponses(ctx, remote.ProviderAttemptID)
		return ferr
	})
	if err != nil {
		return 0, fmt.Errorf("responses fetch: %w", err)
	}

	attempt := model.Attempt{
		ProviderAttemptID: remote.ProviderAttemptID,
		AccountID:         remote.AccountID,
		Username:          remote.Username,
		ProviderTestID:    test.ProviderTestID,
		TestName:          test.Name,
	}
	if overview != nil {
		attempt.TotalScore = overview.TotalScore
		attempt.MaxScore = overview.MaxScore
		attempt.Rank = overview.Rank
		attempt.Percentile = overview.Percentile
	} else {
		// No score overview at the provider: keep the attempt as a zero-score
		// placeholder with every response unattempted.
		attempt.Unattempted = true
	}

	attempt.Responses = s.buildResponses(responses, overview == nil)
	if err := s.attemptRepo.UpsertWithResponses(&attempt); err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}
	return len(attempt.Responses), nil
}

// buildResponses maps provider rows to raw responses and stamps the
// write-through status/score snapshot via the shared reconciler, so ingestion
// derives correctness the same way the review and leaderboard paths do.
func (s *syncService) buildResponses(remote []provider.Response, placeholder bool) []model.RawResponse {
	ids := make([]string, 0, len(remote))
	for _, r := range remote {
		ids = append(ids, r.ProviderQuestionID)
	}
	changes, err := s.overlayRepo.FindAllByProviderQuestions(ids)
	if err != nil {
		log.Warn().Err(err).Msg("Sync: overlay lookup failed, snapshots derived without overrides")
		changes = map[string]model.AnswerKeyChange{}
	}
	bonusSet, err := s.bonusRepo.ProviderQuestionIDSet(ids)
	if err != nil {
		log.Warn().Err(err).Msg("Sync: bonus lookup failed, snapshots derived without bonus flags")
		bonusSet = map[string]struct{}{}
	}

	responses := make([]model.RawResponse, 0, len(remote))
	for _, r := range remote {
		raw := model.RawResponse{
			ProviderQuestionID:      r.ProviderQuestionID,
			StudentAnswer:           r.StudentAnswer,
			CorrectAnswerAtSyncTime: r.CorrectAnswer,
			QuestionType:            r.QuestionType,
			MarksPositive:           r.MarksPositive,
			MarksNegative:           r.MarksNegative,
			TimeTakenSec:            r.TimeTakenSec,
		}
		if placeholder {
			raw.StudentAnswer = nil
			raw.TimeTakenSec = nil
		}

		var override *scoring.Override
		if c, ok := changes[r.ProviderQuestionID]; ok {
			override = &scoring.Override{OriginalAnswer: c.OriginalAnswer, NewAnswer: c.NewAnswer}
		}
		_, isBonus := bonusSet[r.ProviderQuestionID]
		view := scoring.Reconcile(raw, override, isBonus)
		raw.CachedStatus = string(view.EffectiveStatus)
		raw.CachedScore = view.EffectiveScore
		responses = append(responses, raw)
	}
	return responses
}
