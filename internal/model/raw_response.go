package model

import (
	"time"

	"gorm.io/gorm"
)

// RawResponse is the immutable per-question answer record captured at sync
// time. Only the mutable snapshot fields (student answer, timing, cached
// status/score) are overwritten by re-ingestion; the provider keys and the
// correct answer as it stood at sync time never change.
type RawResponse struct {
	ID                 uint    `gorm:"primarykey" json:"id"`
	AttemptID          uint    `json:"attempt_id" gorm:"not null;uniqueIndex:idx_response_attempt_question,priority:2"`
	ProviderQuestionID string  `json:"provider_question_id" gorm:"not null;uniqueIndex:idx_response_attempt_question,priority:1;index"`
	StudentAnswer      *string `json:"student_answer,omitempty" gorm:"type:text"`
	// CorrectAnswerAtSyncTime is append-only; answer-key corrections live in
	// AnswerKeyChange and are applied at reconciliation time.
	CorrectAnswerAtSyncTime string   `json:"correct_answer_at_sync_time" gorm:"type:text;not null"`
	QuestionType            string   `json:"question_type" gorm:"not null"`
	MarksPositive           float64  `json:"marks_positive"`
	MarksNegative           float64  `json:"marks_negative"`
	TimeTakenSec            *int     `json:"time_taken_sec,omitempty"`

	// Write-through cache of the last reconciliation. Readers must re-derive
	// from the overlays; these columns exist for reporting queries only.
	CachedStatus string  `json:"cached_status"`
	CachedScore  float64 `json:"cached_score"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
