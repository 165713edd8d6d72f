package strength

import (
	zxcvbn "github.com/ccojocar/zxcvbn-go"
)

// Estimate is a guess-based strength figure shown next to the checklist.
// It is informational and never changes the check score.
type Estimate struct {
	Score     int     `json:"score"` // 0-4
	Entropy   float64 `json:"entropy_bits"`
	CrackTime string  `json:"crack_time"`
}

// EstimateStrength runs zxcvbn over password
func EstimateStrength(password string) Estimate {
	if password == "" {
		return Estimate{CrackTime: "instant"}
	}

	match := zxcvbn.PasswordStrength(password, nil)
	return Estimate{
		Score:     match.Score,
		Entropy:   match.Entropy,
		CrackTime: match.CrackTimeDisplay,
	}
}
