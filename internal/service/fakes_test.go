package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/khanhvu/rescore/internal/model"
	"github.com/khanhvu/rescore/internal/provider"
	"github.com/khanhvu/rescore/internal/repository"
)

// fakeStore is a shared in-memory backing for the repository fakes, so a test
// can wire several repositories over the same data the way the real ones
// share a database.
type fakeStore struct {
	mu          sync.Mutex
	nextID      uint
	attempts    []model.Attempt
	overrides   map[string]model.AnswerKeyChange
	bonuses     map[string]model.BonusQuestion
	adjustments map[string]model.ScoreAdjustment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:      1,
		overrides:   map[string]model.AnswerKeyChange{},
		bonuses:     map[string]model.BonusQuestion{},
		adjustments: map[string]model.ScoreAdjustment{},
	}
}

func (s *fakeStore) addAttempt(attempt model.Attempt) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.ID == 0 {
		attempt.ID = s.nextID
		s.nextID++
	}
	for i := range attempt.Responses {
		attempt.Responses[i].AttemptID = attempt.ID
	}
	s.attempts = append(s.attempts, attempt)
	return attempt.ID
}

// applySnapshots mirrors the repository fan-out write: only the cached
// columns of matching responses change.
func (s *fakeStore) applySnapshots(snapshots []model.RawResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snapshots {
		for i := range s.attempts {
			for j := range s.attempts[i].Responses {
				r := &s.attempts[i].Responses[j]
				if r.AttemptID == snap.AttemptID && r.ProviderQuestionID == snap.ProviderQuestionID {
					r.CachedStatus = snap.CachedStatus
					r.CachedScore = snap.CachedScore
				}
			}
		}
	}
}

func (s *fakeStore) responseAt(attemptID uint, providerQuestionID string) *model.RawResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attempts {
		if s.attempts[i].ID != attemptID {
			continue
		}
		for j := range s.attempts[i].Responses {
			if s.attempts[i].Responses[j].ProviderQuestionID == providerQuestionID {
				r := s.attempts[i].Responses[j]
				return &r
			}
		}
	}
	return nil
}

type fakeResponseRepo struct{ store *fakeStore }

func (f *fakeResponseRepo) FindAllByProviderQuestion(providerQuestionID string) ([]model.RawResponse, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []model.RawResponse
	for _, a := range f.store.attempts {
		for _, r := range a.Responses {
			if r.ProviderQuestionID == providerQuestionID {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) FindByAttemptAndQuestion(attemptID uint, providerQuestionID string) (*model.RawResponse, error) {
	if r := f.store.responseAt(attemptID, providerQuestionID); r != nil {
		return r, nil
	}
	return nil, fmt.Errorf("record not found")
}

type fakeOverlayRepo struct{ store *fakeStore }

func (f *fakeOverlayRepo) FindByProviderQuestion(providerQuestionID string) (*model.AnswerKeyChange, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if c, ok := f.store.overrides[providerQuestionID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeOverlayRepo) FindAllByProviderQuestions(providerQuestionIDs []string) (map[string]model.AnswerKeyChange, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := map[string]model.AnswerKeyChange{}
	for _, id := range providerQuestionIDs {
		if c, ok := f.store.overrides[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeOverlayRepo) Upsert(change *model.AnswerKeyChange, snapshots []model.RawResponse) error {
	f.store.mu.Lock()
	f.store.overrides[change.ProviderQuestionID] = *change
	f.store.mu.Unlock()
	f.store.applySnapshots(snapshots)
	return nil
}

func (f *fakeOverlayRepo) Remove(providerQuestionID string, snapshots []model.RawResponse) error {
	f.store.mu.Lock()
	delete(f.store.overrides, providerQuestionID)
	f.store.mu.Unlock()
	f.store.applySnapshots(snapshots)
	return nil
}

type fakeBonusRepo struct{ store *fakeStore }

func (f *fakeBonusRepo) FindByProviderQuestion(providerQuestionID string) (*model.BonusQuestion, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if b, ok := f.store.bonuses[providerQuestionID]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBonusRepo) ProviderQuestionIDSet(providerQuestionIDs []string) (map[string]struct{}, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := map[string]struct{}{}
	for _, id := range providerQuestionIDs {
		if _, ok := f.store.bonuses[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeBonusRepo) Set(flag *model.BonusQuestion, snapshots []model.RawResponse) error {
	f.store.mu.Lock()
	f.store.bonuses[flag.ProviderQuestionID] = *flag
	f.store.mu.Unlock()
	f.store.applySnapshots(snapshots)
	return nil
}

func (f *fakeBonusRepo) Remove(providerQuestionID string, snapshots []model.RawResponse) error {
	f.store.mu.Lock()
	delete(f.store.bonuses, providerQuestionID)
	f.store.mu.Unlock()
	f.store.applySnapshots(snapshots)
	return nil
}

type fakeAdjustmentRepo struct{ store *fakeStore }

func adjustmentKey(providerTestID, accountID string) string {
	return providerTestID + "::" + accountID
}

func (f *fakeAdjustmentRepo) Upsert(adjustment *model.ScoreAdjustment) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.adjustments[adjustmentKey(adjustment.ProviderTestID, adjustment.AccountID)] = *adjustment
	return nil
}

func (f *fakeAdjustmentRepo) Find(providerTestID, accountID string) (*model.ScoreAdjustment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if a, ok := f.store.adjustments[adjustmentKey(providerTestID, accountID)]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAdjustmentRepo) FindAllByProviderTest(providerTestID string) ([]model.ScoreAdjustment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []model.ScoreAdjustment
	for _, a := range f.store.adjustments {
		if a.ProviderTestID == providerTestID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeAttemptRepo struct {
	store        *fakeStore
	upsertCalls  int
	upsertCallMu sync.Mutex
}

func (f *fakeAttemptRepo) UpsertWithResponses(attempt *model.Attempt) error {
	f.upsertCallMu.Lock()
	f.upsertCalls++
	f.upsertCallMu.Unlock()

	f.store.mu.Lock()
	for i := range f.store.attempts {
		existing := &f.store.attempts[i]
		if existing.ProviderAttemptID == attempt.ProviderAttemptID && existing.AccountID == attempt.AccountID {
			attempt.ID = existing.ID
			responses := attempt.Responses
			*existing = *attempt
			existing.Responses = responses
			for j := range existing.Responses {
				existing.Responses[j].AttemptID = existing.ID
			}
			f.store.mu.Unlock()
			return nil
		}
	}
	f.store.mu.Unlock()
	attempt.ID = f.store.addAttempt(*attempt)
	return nil
}

func (f *fakeAttemptRepo) FindByIDWithResponses(id uint) (*model.Attempt, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for i := range f.store.attempts {
		if f.store.attempts[i].ID == id {
			a := f.store.attempts[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (f *fakeAttemptRepo) FindAllByProviderTest(providerTestID string) ([]model.Attempt, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []model.Attempt
	for _, a := range f.store.attempts {
		if a.ProviderTestID == providerTestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) KnownAttemptKeys() (map[string]struct{}, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := map[string]struct{}{}
	for _, a := range f.store.attempts {
		out[repository.AttemptKey(a.ProviderAttemptID, a.AccountID)] = struct{}{}
	}
	return out, nil
}

// fakeProviderClient serves canned payloads keyed by test and attempt id,
// with optional per-endpoint error injection.
type fakeProviderClient struct {
	mu        sync.Mutex
	packages  []provider.Package
	attempts  map[string][]provider.Attempt
	overviews map[string]*provider.ScoreOverview
	responses map[string][]provider.Response

	packagesErr error
	attemptsErr map[string]error

	packageCalls int
}

func newFakeProviderClient() *fakeProviderClient {
	return &fakeProviderClient{
		attempts:    map[string][]provider.Attempt{},
		overviews:   map[string]*provider.ScoreOverview{},
		responses:   map[string][]provider.Response{},
		attemptsErr: map[string]error{},
	}
}

func (f *fakeProviderClient) FetchPackages(ctx context.Context) ([]provider.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.packageCalls++
	if f.packagesErr != nil {
		return nil, f.packagesErr
	}
	return f.packages, nil
}

func (f *fakeProviderClient) FetchAttempts(ctx context.Context, providerTestID string) ([]provider.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.attemptsErr[providerTestID]; err != nil {
		return nil, err
	}
	return f.attempts[providerTestID], nil
}

func (f *fakeProviderClient) FetchScoreOverview(ctx context.Context, providerAttemptID string) (*provider.ScoreOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overviews[providerAttemptID], nil
}

func (f *fakeProviderClient) FetchResponses(ctx context.Context, providerAttemptID string) ([]provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.responses[providerAttemptID], nil
}
