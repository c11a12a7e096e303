package model

import "time"

// AnswerKeyChange is a retroactive correct-answer override for one provider
// question. At most one row exists per question; deleting the row reverts the
// question to its raw synced answer. Rows are hard-deleted on revert so the
// unique index stays reusable.
type AnswerKeyChange struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	ProviderQuestionID string    `json:"provider_question_id" gorm:"not null;uniqueIndex"`
	OriginalAnswer     string    `json:"original_answer" gorm:"type:text;not null"`
	NewAnswer          string    `json:"new_answer" gorm:"type:text;not null"`
	Reason             string    `json:"reason" gorm:"type:text"`
	Actor              string    `json:"actor" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
