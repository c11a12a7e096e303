package scoring

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Question type strings as delivered by the provider. Matching is type-aware:
// choice types compare option letters as sets, numeric types compare against
// inclusive ranges, everything else falls back to trimmed case-insensitive
// equality. Every function here is pure and total; malformed input degrades
// to string comparison instead of failing.

var choiceSplitRe = regexp.MustCompile(`[,\s/|]+`)

type answerKind int

const (
	kindChoice answerKind = iota
	kindNumeric
	kindOther
)

func kindOf(questionType string) answerKind {
	switch strings.ToUpper(strings.TrimSpace(questionType)) {
	case "MCQ", "SINGLE", "SINGLECORRECT", "MULTICORRECT", "MULTIPLECORRECT":
		return kindChoice
	case "NAT", "NUMERICAL", "INTEGER":
		return kindNumeric
	default:
		return kindOther
	}
}

// NormalizeKey canonicalizes an answer string for its question type. It is
// idempotent: NormalizeKey(NormalizeKey(x)) == NormalizeKey(x).
func NormalizeKey(answer, questionType string) string {
	switch kindOf(questionType) {
	case kindChoice:
		letters := splitChoices(answer)
		return strings.Join(letters, ",")
	default:
		return strings.ToLower(strings.TrimSpace(answer))
	}
}

// splitChoices tokenizes a choice answer into lowercased, deduplicated,
// sorted option letters.
func splitChoices(answer string) []string {
	parts := choiceSplitRe.Split(strings.TrimSpace(answer), -1)
	seen := make(map[string]bool, len(parts))
	var letters []string
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		letters = append(letters, p)
	}
	sort.Strings(letters)
	return letters
}

// numericRange is an inclusive [Lo, Hi] interval.
type numericRange struct {
	Lo, Hi float64
}

var rangeSeparators = []string{"..", "–", "—", "-"}

// parseRanges parses a numeric answer key into inclusive ranges. Each
// comma-separated token is either a bare number n ([n,n]) or a pair joined by
// "-", an en/em dash or "..". Tokens that do not parse are dropped.
func parseRanges(correctAnswer string) []numericRange {
	var ranges []numericRange
	for _, token := range strings.Split(correctAnswer, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if n, err := strconv.ParseFloat(token, 64); err == nil {
			ranges = append(ranges, numericRange{Lo: n, Hi: n})
			continue
		}
		if r, ok := parseRangePair(token); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

func parseRangePair(token string) (numericRange, bool) {
	for _, sep := range rangeSeparators {
		// A leading "-" is a sign, not a separator, so search past the first rune.
		idx := strings.Index(token[1:], sep)
		if idx < 0 {
			continue
		}
		idx++
		a, errA := strconv.ParseFloat(strings.TrimSpace(token[:idx]), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(token[idx+len(sep):]), 64)
		if errA != nil || errB != nil {
			continue
		}
		if a > b {
			a, b = b, a
		}
		return numericRange{Lo: a, Hi: b}, true
	}
	return numericRange{}, false
}

// IsMatch reports whether a student answer matches the correct answer under
// the question type's semantics. An empty or whitespace-only student answer
// never matches anything.
func IsMatch(studentAnswer, correctAnswer, questionType string) bool {
	student := strings.TrimSpace(studentAnswer)
	if student == "" {
		return false
	}

	switch kindOf(questionType) {
	case kindChoice:
		// Multi-correct keys like "B, C" accept any one of the listed letters.
		student = strings.ToLower(student)
		for _, letter := range splitChoices(correctAnswer) {
			if student == letter {
				return true
			}
		}
		return false

	case kindNumeric:
		ranges := parseRanges(correctAnswer)
		if len(ranges) == 0 {
			return strings.EqualFold(student, strings.TrimSpace(correctAnswer))
		}
		value, err := strconv.ParseFloat(student, 64)
		if err != nil {
			return strings.EqualFold(student, strings.TrimSpace(correctAnswer))
		}
		for _, r := range ranges {
			if value >= r.Lo && value <= r.Hi {
				return true
			}
		}
		return false

	default:
		return strings.EqualFold(student, strings.TrimSpace(correctAnswer))
	}
}

// FormatForDisplay renders an answer key for UI display: choice keys as
// uppercase letters joined by ", ", numeric keys as "min-max" ranges or bare
// scalars, everything else uppercased.
func FormatForDisplay(answer, questionType string) string {
	switch kindOf(questionType) {
	case kindChoice:
		letters := splitChoices(answer)
		upper := make([]string, len(letters))
		for i, l := range letters {
			upper[i] = strings.ToUpper(l)
		}
		return strings.Join(upper, ", ")

	case kindNumeric:
		ranges := parseRanges(answer)
		if len(ranges) == 0 {
			return strings.ToUpper(strings.TrimSpace(answer))
		}
		parts := make([]string, len(ranges))
		for i, r := range ranges {
			if r.Lo == r.Hi {
				parts[i] = formatFloat(r.Lo)
			} else {
				parts[i] = formatFloat(r.Lo) + "-" + formatFloat(r.Hi)
			}
		}
		return strings.Join(parts, ", ")

	default:
		return strings.ToUpper(strings.TrimSpace(answer))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
