package payoff

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Term is a payoff duration in whole months. The zero value is a finite term
// of zero months; Never marks a schedule that does not pay off within the
// simulation horizon.
type Term struct {
	months int
	never  bool
}

// Never is the non-convergence sentinel.
var Never = Term{never: true}

// Months returns a finite term of n months.
func Months(n int) Term {
	return Term{months: n}
}

// Finite reports whether the term is a real month count.
func (t Term) Finite() bool {
	return !t.never
}

// Count returns the number of months. It is meaningless for Never.
func (t Term) Count() int {
	return t.months
}

// Longer returns whichever of t and other is longer; Never outranks any
// finite term.
func (t Term) Longer(other Term) Term {
	if t.never || other.never {
		return Never
	}
	if other.months > t.months {
		return other
	}
	return t
}

// String renders the month count, or "never".
func (t Term) String() string {
	if t.never {
		return "never"
	}
	return strconv.Itoa(t.months)
}

// MarshalJSON encodes finite terms as a number and Never as null.
func (t Term) MarshalJSON() ([]byte, error) {
	if t.never {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(t.months)), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Term) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Never
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Months(n)
	return nil
}
