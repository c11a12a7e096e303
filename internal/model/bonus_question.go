package model

import "time"

// BonusQuestion marks a provider question as carrying bonus credit. Presence
// of a row is the flag; toggling off hard-deletes it.
type BonusQuestion struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	ProviderQuestionID string    `json:"provider_question_id" gorm:"not null;uniqueIndex"`
	Reason             string    `json:"reason" gorm:"type:text"`
	Actor              string    `json:"actor" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
