// Package passwords scores password strength for the registration meter.
package passwords

import "unicode/utf8"

// Strength is a 0-100 score and the progress bar class that goes with it.
type Strength struct {
	Score    int    `json:"score"`
	BarClass string `json:"bar_class"`
}

// Score rates password: length over 6 and over 10 characters, then one
// bonus each for lowercase, uppercase, digit and any other character.
func Score(password string) int {
	if password == "" {
		return 0
	}
	score := 0
	n := utf8.RuneCountInString(password)
	if n > 6 {
		score += 20
	}
	if n > 10 {
		score += 10
	}

	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	for _, has := range []bool{lower, upper, digit, other} {
		if has {
			score += 20
		}
	}
	return min(score, 100)
}

// BarClass maps a score to its Bootstrap progress bar class.
func BarClass(score int) string {
	switch {
	case score < 30:
		return "progress-bar bg-danger"
	case score < 70:
		return "progress-bar bg-warning"
	default:
		return "progress-bar bg-success"
	}
}

// Evaluate scores password and picks its bar class.
func Evaluate(password string) Strength {
	score := Score(password)
	return Strength{Score: score, BarClass: BarClass(score)}
}
