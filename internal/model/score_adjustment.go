package model

import "time"

// ScoreAdjustment is a manual score delta for one account on one provider
// test, independent of any question.
type ScoreAdjustment struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ProviderTestID string    `json:"provider_test_id" gorm:"not null;uniqueIndex:idx_adjustment_test_account,priority:1"`
	AccountID      string    `json:"account_id" gorm:"not null;uniqueIndex:idx_adjustment_test_account,priority:2"`
	Delta          float64   `json:"delta"`
	Reason         string    `json:"reason" gorm:"type:text"`
	Actor          string    `json:"actor" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
