package dto

// AnswerKeyOverrideDTO is the admin request to change a question's correct
// answer retroactively. OriginalAnswer is the answer being replaced; sending
// the original as the new answer reverts any active override.
type AnswerKeyOverrideDTO struct {
	NewAnswer      string `json:"new_answer" binding:"required"`
	OriginalAnswer string `json:"original_answer" binding:"required"`
	Reason         string `json:"reason"`
	Actor          string `json:"actor" binding:"required"`
}

type OverrideResultDTO struct {
	Changed             bool   `json:"changed"`
	Message             string `json:"message"`
	ResponsesRecomputed int    `json:"responses_recomputed"`
}

type BonusToggleDTO struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor" binding:"required"`
}

// BonusStatsDTO summarizes the fan-out of a bonus toggle.
type BonusStatsDTO struct {
	ResponsesRecomputed int `json:"responses_recomputed"`
	BonusGranted        int `json:"bonus_granted"`
}

type BonusResultDTO struct {
	IsBonus bool          `json:"is_bonus"`
	Stats   BonusStatsDTO `json:"stats"`
}

type ScoreAdjustmentDTO struct {
	Delta  float64 `json:"delta" binding:"required"`
	Reason string  `json:"reason"`
	Actor  string  `json:"actor" binding:"required"`
}

type ScoreAdjustmentResultDTO struct {
	ProviderTestID string  `json:"provider_test_id"`
	AccountID      string  `json:"account_id"`
	Delta          float64 `json:"delta"`
}

// SyncRequestDTO identifies the provider account to ingest.
type SyncRequestDTO struct {
	AccountID string `json:"account_id" binding:"required"`
}

type SyncFailureDTO struct {
	PackageID   string `json:"package_id"`
	PackageName string `json:"package_name"`
	Error       string `json:"error"`
}

type SyncReportDTO struct {
	RunID              string           `json:"run_id"`
	TestsProcessed     int              `json:"tests_processed"`
	QuestionsProcessed int              `json:"questions_processed"`
	Skipped            int              `json:"skipped"`
	Failures           []SyncFailureDTO `json:"failures"`
	Duration           string           `json:"duration"`
}
