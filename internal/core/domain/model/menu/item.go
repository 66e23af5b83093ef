package menu

import (
	"errors"
	"fmt"
	"strings"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("menu Item must be created via NewItem")

// Nutrition per serving. Missing values default to zero.
type Nutrition struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
}

type Dietary struct {
	Vegetarian bool
	Vegan      bool
	GlutenFree bool
}

// Item is an immutable catalog entry.
type Item struct {
	id          int
	name        string
	description string
	price       kernel.Money
	nutrition   Nutrition
	dietary     Dietary
	spiceLevel  int
	rating      float64
	guard       guard.ConstructorGuard
}

// ItemParams groups the optional display attributes of an item.
type ItemParams struct {
	Description string
	Nutrition   Nutrition
	Dietary     Dietary
	SpiceLevel  int
	Rating      float64
}

func NewItem(id int, name string, price kernel.Money, params ItemParams) (Item, error) {
	var errList []error
	if id <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not positive", id)))
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if err := price.Validate(); err != nil {
		errList = append(errList, err)
	}
	if params.SpiceLevel < 0 || params.SpiceLevel > 5 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("spiceLevel", params.SpiceLevel, 0, 5))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		id:          id,
		name:        name,
		description: params.Description,
		price:       price,
		nutrition:   params.Nutrition,
		dietary:     params.Dietary,
		spiceLevel:  params.SpiceLevel,
		rating:      params.Rating,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ID() int { return i.id }
func (i Item) Name() string { return i.name }
func (i Item) Description() string { return i.description }
func (i Item) Price() kernel.Money { return i.price }
func (i Item) Nutrition() Nutrition { return i.nutrition }
func (i Item) Dietary() Dietary { return i.dietary }
func (i Item) SpiceLevel() int { return i.spiceLevel }
func (i Item) Rating() float64 { return i.rating }
