package types

import (
	"fmt"
)

// StrengthLabel is the verdict shown for a scored password
type StrengthLabel string

const (
	LabelWeak       StrengthLabel = "Weak"        // fewer than three checks pass
	LabelModerate   StrengthLabel = "Moderate"    // three or four checks pass
	LabelVeryStrong StrengthLabel = "Very Strong" // every check passes
)

// BadgeClass is the Bootstrap contextual class used to color the verdict badge
type BadgeClass string

const (
	BadgeDanger  BadgeClass = "danger"
	BadgeWarning BadgeClass = "warning"
	BadgeSuccess BadgeClass = "success"
)

var (
	// AllStrengthLabels contains all labels ordered from weakest to strongest
	AllStrengthLabels = []StrengthLabel{
		LabelWeak,
		LabelModerate,
		LabelVeryStrong,
	}

	// strengthLabelMap maps string values to StrengthLabel
	strengthLabelMap = map[string]StrengthLabel{
		string(LabelWeak):       LabelWeak,
		string(LabelModerate):   LabelModerate,
		string(LabelVeryStrong): LabelVeryStrong,
	}
)

// ErrInvalidStrengthLabel is returned when parsing an unknown label
var ErrInvalidStrengthLabel = fmt.Errorf("invalid strength label")

// IsValid checks if the StrengthLabel is valid
func (l StrengthLabel) IsValid() bool {
	_, ok := strengthLabelMap[string(l)]
	return ok
}

// String converts the enum to string
func (l StrengthLabel) String() string {
	return string(l)
}

// ParseStrengthLabel parses a string into a StrengthLabel
func ParseStrengthLabel(s string) (StrengthLabel, error) {
	if label, ok := strengthLabelMap[s]; ok {
		return label, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidStrengthLabel, s)
}

// Rank orders labels from weakest (0) to strongest. Unknown labels rank -1.
func (l StrengthLabel) Rank() int {
	if !l.IsValid() {
		return -1
	}
	for i, label := range AllStrengthLabels {
		if label == l {
			return i
		}
	}
	return -1
}

// Badge returns the badge class paired with the label
func (l StrengthLabel) Badge() BadgeClass {
	switch l {
	case LabelVeryStrong:
		return BadgeSuccess
	case LabelModerate:
		return BadgeWarning
	default:
		return BadgeDanger
	}
}

// String converts the enum to string
func (b BadgeClass) String() string {
	return string(b)
}
