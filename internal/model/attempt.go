package model

import (
	"time"

	"gorm.io/gorm"
)

// Attempt is one sitting of a provider test by one account. The score/rank
// fields are the provider's values as last synced; corrections never touch
// them, they are layered on top at read time.
type Attempt struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	ProviderAttemptID string         `json:"provider_attempt_id" gorm:"not null;uniqueIndex:idx_attempt_provider_account,priority:1"`
	AccountID         string         `json:"account_id" gorm:"not null;uniqueIndex:idx_attempt_provider_account,priority:2;index"`
	Username          string         `json:"username"`
	ProviderTestID    string         `json:"provider_test_id" gorm:"not null;index"`
	TestName          string         `json:"test_name"`
	TotalScore        float64        `json:"total_score"`
	MaxScore          float64        `json:"max_score"`
	Rank              *int           `json:"rank,omitempty"`
	Percentile        *float64       `json:"percentile,omitempty"`
	Unattempted       bool           `json:"unattempted"` // synced without a score overview payload
	Responses         []RawResponse  `json:"responses,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
