package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Polarity is the ionization mode of a spectrum.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityUnknown  Polarity = ""
)

// ParsePolarity maps an ion mode string to a Polarity. "positive", "pos", "p"
// and "+" (case-insensitive) are positive; everything else is negative.
func ParsePolarity(mode string) Polarity {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "positive", "+", "pos", "p":
		return PolarityPositive
	default:
		return PolarityNegative
	}
}

// Sign returns +1 for positive polarity and -1 otherwise.
func (p Polarity) Sign() int {
	if p == PolarityPositive {
		return 1
	}
	return -1
}

// PolarityFromCharge derives polarity from a signed charge.
func PolarityFromCharge(charge int) Polarity {
	switch {
	case charge > 0:
		return PolarityPositive
	case charge < 0:
		return PolarityNegative
	default:
		return PolarityUnknown
	}
}

// ParseCharge parses MGF style charges such as "1+", "2-", "+1", "3" or "2+ and 3+".
// Only the first charge is used. An unsigned value is positive.
func ParseCharge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return 0, fmt.Errorf("empty charge")
	}

	sign := 1
	switch {
	case strings.HasSuffix(s, "+"):
		s = strings.TrimSuffix(s, "+")
	case strings.HasSuffix(s, "-"):
		sign = -1
		s = strings.TrimSuffix(s, "-")
	case strings.HasPrefix(s, "+"):
		s = strings.TrimPrefix(s, "+")
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = strings.TrimPrefix(s, "-")
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid charge '%s': %w", s, err)
	}
	return sign * n, nil
}

// SignedCharge applies a polarity to a charge magnitude.
func SignedCharge(magnitude int, polarity Polarity) int {
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return magnitude * polarity.Sign()
}

// FormatCharge renders a signed charge the way MGF writes it ("1+", "2-").
func FormatCharge(charge int) string {
	if charge < 0 {
		return fmt.Sprintf("%d-", -charge)
	}
	return fmt.Sprintf("%d+", charge)
}
