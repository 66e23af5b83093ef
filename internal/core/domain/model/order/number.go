package order

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"foodorders/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^ORD-\d{8}$`)

// Number is the customer-facing order reference, "ORD-" plus eight digits.
type Number string

// NumberAt takes the last eight digits of the unix-millisecond timestamp.
func NumberAt(t time.Time) Number {
	return Number(fmt.Sprintf("ORD-%08d", t.UnixMilli()%100_000_000))
}

func ParseNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return "", errs.NewValueIsInvalidErrorWithCause("orderNumber", fmt.Errorf("%q does not match ORD-dddddddd", s))
	}
	return Number(s), nil
}

// Next is the number drawn after a unique-index collision.
func (n Number) Next() Number {
	digits, err := strconv.Atoi(string(n)[len("ORD-"):])
	if err != nil {
		return n
	}
	return Number(fmt.Sprintf("ORD-%08d", (digits+1)%100_000_000))
}

func (n Number) String() string {
	return string(n)
}
