package dto

// QuestionViewDTO is the effective, correction-aware view of one response for
// the single-question review pane.
type QuestionViewDTO struct {
	ProviderQuestionID     string   `json:"provider_question_id"`
	QuestionType           string   `json:"question_type"`
	StudentAnswer          *string  `json:"student_answer,omitempty"`
	RawCorrectAnswer       string   `json:"raw_correct_answer"`
	EffectiveCorrectAnswer string   `json:"effective_correct_answer"`
	DisplayCorrectAnswer   string   `json:"display_correct_answer"`
	EffectiveStatus        string   `json:"effective_status"`
	EffectiveScore         float64  `json:"effective_score"`
	KeyChangeAdjustment    float64  `json:"key_change_adjustment"`
	BonusMarks             float64  `json:"bonus_marks"`
	TimeTakenSec           *int     `json:"time_taken_sec,omitempty"`
}

type AttemptSummaryDTO struct {
	AttemptID      uint     `json:"attempt_id"`
	ProviderTestID string   `json:"provider_test_id"`
	TestName       string   `json:"test_name,omitempty"`
	Correct        int      `json:"correct"`
	Incorrect      int      `json:"incorrect"`
	Unattempted    int      `json:"unattempted"`
	AdjustedScore  float64  `json:"adjusted_score"`
	MaxScore       float64  `json:"max_score"`
	Rank           *int     `json:"rank,omitempty"`
	Percentile     *float64 `json:"percentile,omitempty"`
}

type LeaderboardEntryDTO struct {
	Rank              int     `json:"rank"`
	AccountID         string  `json:"account_id"`
	Username          string  `json:"username"`
	ProviderAttemptID string  `json:"provider_attempt_id"`
	AdjustedScore     float64 `json:"adjusted_score"`
	AttemptCount      int     `json:"attempt_count"`
}

type LeaderboardDTO struct {
	Entries           []LeaderboardEntryDTO `json:"entries"`
	CurrentUserRank   *int                  `json:"current_user_rank,omitempty"`
	TotalParticipants int                   `json:"total_participants"`
	Page              int                   `json:"page"`
	PageSize          int                   `json:"page_size"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
