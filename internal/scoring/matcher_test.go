package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatch_ChoiceQuestions(t *testing.T) {
	t.Run("single letter case-insensitive", func(t *testing.T) {
		assert.True(t, IsMatch("b", "B", "MCQ"))
		assert.True(t, IsMatch("B", "b", "SINGLECORRECT"))
		assert.False(t, IsMatch("a", "B", "MCQ"))
	})

	t.Run("multi-correct key accepts any listed letter", func(t *testing.T) {
		assert.True(t, IsMatch("b", "B, C", "MCQ"))
		assert.True(t, IsMatch("c", "B, C", "MCQ"))
		assert.True(t, IsMatch("B", "b/c", "SINGLE"))
		assert.True(t, IsMatch("c", "b|c", "MULTICORRECT"))
		assert.False(t, IsMatch("d", "B, C", "MCQ"))
	})

	t.Run("empty student answer never matches", func(t *testing.T) {
		assert.False(t, IsMatch("", "B", "MCQ"))
		assert.False(t, IsMatch("   ", "B", "MCQ"))
	})
}

func TestIsMatch_NumericQuestions(t *testing.T) {
	t.Run("scalar key", func(t *testing.T) {
		assert.True(t, IsMatch("5", "5", "NAT"))
		assert.True(t, IsMatch("5.0", "5", "NAT"))
		assert.False(t, IsMatch("5.1", "5", "NAT"))
	})

	t.Run("inclusive range", func(t *testing.T) {
		assert.True(t, IsMatch("5", "4-6", "NAT"))
		assert.True(t, IsMatch("4", "4-6", "NAT"))
		assert.True(t, IsMatch("6", "4-6", "NAT"))
		assert.False(t, IsMatch("6.01", "4-6", "NUMERICAL"))
		assert.False(t, IsMatch("3.99", "4-6", "NUMERICAL"))
	})

	t.Run("dash variants and dotted ranges", func(t *testing.T) {
		assert.True(t, IsMatch("5", "4–6", "NAT"))
		assert.True(t, IsMatch("5", "4—6", "NAT"))
		assert.True(t, IsMatch("5", "4..6", "NAT"))
	})

	t.Run("negative bounds", func(t *testing.T) {
		assert.True(t, IsMatch("-2", "-3--1", "INTEGER"))
		assert.True(t, IsMatch("-3", "-3--1", "INTEGER"))
		assert.False(t, IsMatch("0", "-3--1", "INTEGER"))
	})

	t.Run("comma-separated alternatives", func(t *testing.T) {
		assert.True(t, IsMatch("2", "2, 4-6", "NAT"))
		assert.True(t, IsMatch("5", "2, 4-6", "NAT"))
		assert.False(t, IsMatch("3", "2, 4-6", "NAT"))
	})

	t.Run("unparseable key falls back to string equality", func(t *testing.T) {
		assert.True(t, IsMatch("abc", "ABC", "NAT"))
		assert.False(t, IsMatch("5", "abc", "NAT"))
	})

	t.Run("unparseable student answer falls back to string equality", func(t *testing.T) {
		assert.False(t, IsMatch("five", "4-6", "NAT"))
		assert.True(t, IsMatch("4-6", "4-6", "NAT"))
	})
}

func TestIsMatch_OtherQuestionTypes(t *testing.T) {
	assert.True(t, IsMatch(" Paris ", "paris", "SUBJECTIVE"))
	assert.False(t, IsMatch("Paris", "London", "SUBJECTIVE"))
}

func TestNormalizeKey(t *testing.T) {
	t.Run("choice keys are sorted, deduplicated, lowercased", func(t *testing.T) {
		assert.Equal(t, "b,c", NormalizeKey("C, B", "MCQ"))
		assert.Equal(t, "b,c", NormalizeKey("b/c/b", "MCQ"))
		assert.Equal(t, "a", NormalizeKey("  A  ", "SINGLE"))
	})

	t.Run("non-choice keys are trimmed and lowercased", func(t *testing.T) {
		assert.Equal(t, "4-6", NormalizeKey(" 4-6 ", "NAT"))
		assert.Equal(t, "paris", NormalizeKey("Paris", "SUBJECTIVE"))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, tc := range []struct{ answer, qtype string }{
			{"C, B", "MCQ"},
			{"b/c", "MULTICORRECT"},
			{" 4 - 6 ", "NAT"},
			{"Paris", "SUBJECTIVE"},
		} {
			once := NormalizeKey(tc.answer, tc.qtype)
			assert.Equal(t, once, NormalizeKey(once, tc.qtype), "answer %q type %q", tc.answer, tc.qtype)
		}
	})
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "B, C", FormatForDisplay("c, b", "MCQ"))
	assert.Equal(t, "4-6", FormatForDisplay("4–6", "NAT"))
	assert.Equal(t, "5", FormatForDisplay("5.0", "NAT"))
	assert.Equal(t, "2, 4-6", FormatForDisplay("2, 4..6", "NAT"))
	assert.Equal(t, "PARIS", FormatForDisplay("paris", "SUBJECTIVE"))
}
