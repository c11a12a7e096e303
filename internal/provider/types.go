package provider

// Remote shapes as returned by the provider API. Only the fields the
// ingestion pipeline consumes are modeled; everything else in the payloads is
// ignored at parse time.

// Package is a provider test package (a purchasable bundle of tests). The
// catalog occasionally lists the same package name twice, once as an empty
// stub; the pipeline merges those before fetching.
type Package struct {
	ID    string
	Name  string
	Tests []PackageTest
}

type PackageTest struct {
	ProviderTestID string
	Name           string
}

// Attempt is an attempt reference from the provider's attempt listing.
type Attempt struct {
	ProviderAttemptID string
	AccountID         string
	Username          string
}

// ScoreOverview is the provider's attempt-level score payload. It is absent
// for attempts the provider never graded; those are ingested as zero-score
// placeholders.
type ScoreOverview struct {
	TotalScore float64
	MaxScore   float64
	Rank       *int
	Percentile *float64
}

// Response is one per-question row of an attempt.
type Response struct {
	ProviderQuestionID string
	StudentAnswer      *string
	CorrectAnswer      string
	QuestionType       string
	MarksPositive      float64
	MarksNegative      float64
	TimeTakenSec       *int
}
