package queries

import (
	"errors"
	"strings"

	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrFindOrderByNumberQueryIsNotConstructed = errors.New(
	"FindOrderByNumberQuery must be created via NewFindOrderByNumberQuery constructor",
)

// FindOrderByNumberQuery looks an order up by its customer-facing number. Surrounding
// whitespace is trimmed, the rest is matched exactly; a malformed number simply finds
// nothing.
type FindOrderByNumberQuery struct {
	number string
	guard  guard.ConstructorGuard
}

func NewFindOrderByNumberQuery(number string) (FindOrderByNumberQuery, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return FindOrderByNumberQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return FindOrderByNumberQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q FindOrderByNumberQuery) Validate() error {
	return q.guard.Validate(ErrFindOrderByNumberQueryIsNotConstructed)
}

func (q FindOrderByNumberQuery) Number() string {
	return q.number
}
