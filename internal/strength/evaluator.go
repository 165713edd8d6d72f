// Package strength scores passwords against a fixed set of composition checks.
package strength

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"unicode/utf8"

	"github.com/neo/passwordanalyzer/internal/types"
)

// MinLength is the number of characters required by the length check
const MinLength = 8

// MaxScore is the score of a password passing every check
const MaxScore = 5

var (
	lowercase = regexp.MustCompile(`[a-z]`)
	uppercase = regexp.MustCompile(`[A-Z]`)
	digit     = regexp.MustCompile(`[0-9]`)
	special   = regexp.MustCompile(`[@$!%*?&]`)
)

// Advisory text returned for each failing check
const (
	SuggestLength  = "Use at least 8 characters (longer is better)."
	SuggestLower   = "Add lowercase letters (a, b, c...)."
	SuggestUpper   = "Add uppercase letters (A, B, C...)."
	SuggestDigit   = "Include numeric digits (0-9)."
	SuggestSpecial = "Add special characters (e.g. @, #, $ , !)."
)

// Checks holds the outcome of each composition check
type Checks struct {
	Length  bool `json:"length"`
	Lower   bool `json:"lower"`
	Upper   bool `json:"upper"`
	Digit   bool `json:"digit"`
	Special bool `json:"special"`
}

// CheckItem is one row of the checklist shown to the user
type CheckItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
	Suggestion  string `json:"-"`
}

// Result is the full evaluation of a password
type Result struct {
	Checks      Checks              `json:"checks"`
	Score       int                 `json:"score"`
	Label       types.StrengthLabel `json:"label"`
	Badge       types.BadgeClass    `json:"badge_class"`
	Suggestions []string            `json:"suggestions"`
	Digest      string              `json:"digest"`
}

// Items returns the checks in display order
func (c Checks) Items() []CheckItem {
	return []CheckItem{
		{Name: "length", Description: "Length (≥ 8)", Passed: c.Length, Suggestion: SuggestLength},
		{Name: "lower", Description: "Lowercase", Passed: c.Lower, Suggestion: SuggestLower},
		{Name: "upper", Description: "Uppercase", Passed: c.Upper, Suggestion: SuggestUpper},
		{Name: "digit", Description: "Digit", Passed: c.Digit, Suggestion: SuggestDigit},
		{Name: "special", Description: "Special character", Passed: c.Special, Suggestion: SuggestSpecial},
	}
}

// Score counts the passing checks
func (c Checks) Score() int {
	score := 0
	for _, item := range c.Items() {
		if item.Passed {
			score++
		}
	}
	return score
}

// Suggestions lists the advice for every failing check. The slice is never nil.
func (c Checks) Suggestions() []string {
	suggestions := make([]string, 0, MaxScore)
	for _, item := range c.Items() {
		if !item.Passed {
			suggestions = append(suggestions, item.Suggestion)
		}
	}
	return suggestions
}

// RunChecks applies the five composition checks to password
func RunChecks(password string) Checks {
	return Checks{
		Length:  utf8.RuneCountInString(password) >= MinLength,
		Lower:   lowercase.MatchString(password),
		Upper:   uppercase.MatchString(password),
		Digit:   digit.MatchString(password),
		Special: special.MatchString(password),
	}
}

// LabelFor maps a score to its label. A perfect score is tested before the moderate threshold.
func LabelFor(score int) types.StrengthLabel {
	if score == MaxScore {
		return types.LabelVeryStrong
	}
	if score >= 3 {
		return types.LabelModerate
	}
	return types.LabelWeak
}

// Digest returns the lowercase hex SHA-256 of the password bytes
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Evaluate scores password. Any input, including the empty string, yields a valid Result.
func Evaluate(password string) Result {
	checks := RunChecks(password)
	score := checks.Score()
	label := LabelFor(score)

	return Result{
		Checks:      checks,
		Score:       score,
		Label:       label,
		Badge:       label.Badge(),
		Suggestions: checks.Suggestions(),
		Digest:      Digest(password),
	}
}
