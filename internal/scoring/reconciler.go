package scoring

import (
	"strings"

	"github.com/khanhvu/rescore/internal/model"
)

// AdjustmentMarks is the flat credit applied for answer-key changes and bonus
// questions, independent of the question's own marks. Kept as the provider's
// historical behavior; see DESIGN.md before scaling it per question.
const AdjustmentMarks = 5.0

type Status string

const (
	StatusCorrect     Status = "correct"
	StatusIncorrect   Status = "incorrect"
	StatusUnattempted Status = "unattempted"
)

// Override is the reconciliation-relevant slice of an AnswerKeyChange.
type Override struct {
	OriginalAnswer string
	NewAnswer      string
}

// DerivedQuestionView is the effective view of one raw response after all
// active corrections are applied. It is computed, never persisted.
type DerivedQuestionView struct {
	ProviderQuestionID     string  `json:"provider_question_id"`
	EffectiveCorrectAnswer string  `json:"effective_correct_answer"`
	EffectiveStatus        Status  `json:"effective_status"`
	EffectiveScore         float64 `json:"effective_score"`
	KeyChangeAdjustment    float64 `json:"key_change_adjustment"`
	BonusMarks             float64 `json:"bonus_marks"`
}

// Reconcile derives the effective view of a raw response from the current
// overlay state. It is the single source of scoring truth: ingestion, the
// question review pane and the leaderboard all go through it. It has no
// failure mode; any malformed field degrades inside the matcher.
func Reconcile(raw model.RawResponse, override *Override, isBonus bool) DerivedQuestionView {
	view := DerivedQuestionView{
		ProviderQuestionID:     raw.ProviderQuestionID,
		EffectiveCorrectAnswer: raw.CorrectAnswerAtSyncTime,
	}
	if override != nil {
		view.EffectiveCorrectAnswer = override.NewAnswer
	}

	if !hasAnswer(raw.StudentAnswer) {
		// Unattempted dominates every overlay: no score, no adjustments.
		view.EffectiveStatus = StatusUnattempted
		return view
	}
	student := *raw.StudentAnswer

	matchesEffective := IsMatch(student, view.EffectiveCorrectAnswer, raw.QuestionType)
	if matchesEffective {
		view.EffectiveStatus = StatusCorrect
		view.EffectiveScore = raw.MarksPositive
	} else {
		view.EffectiveStatus = StatusIncorrect
		view.EffectiveScore = -raw.MarksNegative
	}

	if override != nil {
		matchesOriginal := IsMatch(student, override.OriginalAnswer, raw.QuestionType)
		switch {
		case matchesEffective && !matchesOriginal:
			view.KeyChangeAdjustment = AdjustmentMarks
		case matchesOriginal && !matchesEffective:
			view.KeyChangeAdjustment = -AdjustmentMarks
		}
	}

	if isBonus {
		// Bonus credit goes to answered responses that were wrong against the
		// pre-override answer; it never flips the status.
		original := raw.CorrectAnswerAtSyncTime
		if override != nil {
			original = override.OriginalAnswer
		}
		if !IsMatch(student, original, raw.QuestionType) {
			view.BonusMarks = AdjustmentMarks
		}
	}

	return view
}

// AttemptDelta sums the correction deltas of a set of derived views. The
// attempt-level adjusted score is the provider raw total plus this delta plus
// any manual score adjustment; per-question effective scores are display-only
// and are never summed into the aggregate.
func AttemptDelta(views []DerivedQuestionView) float64 {
	var delta float64
	for _, v := range views {
		delta += v.KeyChangeAdjustment + v.BonusMarks
	}
	return delta
}

func hasAnswer(studentAnswer *string) bool {
	return studentAnswer != nil && strings.TrimSpace(*studentAnswer) != ""
}
