package http

import (
	"time"

	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/menu"
	"foodorders/internal/core/domain/model/order"
)

type nutritionResponse struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type dietaryResponse struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"glutenFree"`
}

type menuItemResponse struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       string            `json:"price"`
	Nutrition   nutritionResponse `json:"nutrition"`
	Dietary     dietaryResponse   `json:"dietary"`
	SpiceLevel  int               `json:"spiceLevel"`
	Rating      float64           `json:"rating"`
}

func toMenuItemResponse(item menu.Item) menuItemResponse {
	n, d := item.Nutrition(), item.Dietary()
	return menuItemResponse{
		ID:          item.ID(),
		Name:        item.Name(),
		Description: item.Description(),
		Price:       item.Price().String(),
		Nutrition: nutritionResponse{
			Calories: n.Calories,
			Protein:  n.Protein,
			Carbs:    n.Carbs,
			Fat:      n.Fat,
			Fiber:    n.Fiber,
		},
		Dietary: dietaryResponse{
			Vegetarian: d.Vegetarian,
			Vegan:      d.Vegan,
			GlutenFree: d.GlutenFree,
		},
		SpiceLevel: item.SpiceLevel(),
		Rating:     item.Rating(),
	}
}

type cartLineResponse struct {
	MenuItemID int    `json:"menuItemId"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
	Subtotal   string `json:"subtotal"`
}

type cartResponse struct {
	ID          string             `json:"id"`
	Lines       []cartLineResponse `json:"lines"`
	TotalAmount string             `json:"totalAmount"`
	TotalCount  int                `json:"totalCount"`
}

func toCartResponse(v queries.CartView) cartResponse {
	lines := make([]cartLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, cartLineResponse{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice.String(),
			Quantity:   l.Quantity,
			Subtotal:   l.Subtotal.String(),
		})
	}
	return cartResponse{
		ID:          v.ID.String(),
		Lines:       lines,
		TotalAmount: v.TotalAmount.String(),
		TotalCount:  v.TotalCount,
	}
}

func emptyCartResponse(id kernel.UUID) cartResponse {
	return cartResponse{
		ID:          id.String(),
		Lines:       []cartLineResponse{},
		TotalAmount: kernel.ZeroMoney().String(),
	}
}

type orderItemResponse struct {
	ID       string `json:"id"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone"`
	DeliveryAddress string              `json:"deliveryAddress"`
	Notes           string              `json:"notes,omitempty"`
	TotalAmount     string              `json:"totalAmount"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Version         int64               `json:"version"`
	Items           []orderItemResponse `json:"items"`
}

func toOrderResponse(s order.Snapshot) orderResponse {
	items := make([]orderItemResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, orderItemResponse{
			ID:       l.ID.String(),
			ItemName: l.ItemName,
			Quantity: l.Quantity,
			Price:    l.UnitPrice.String(),
		})
	}
	return orderResponse{
		ID:              s.ID.String(),
		OrderNumber:     s.Number.String(),
		CustomerName:    s.CustomerName,
		CustomerEmail:   s.CustomerEmail,
		CustomerPhone:   s.CustomerPhone,
		DeliveryAddress: s.DeliveryAddress,
		Notes:           s.Notes,
		TotalAmount:     s.Total.String(),
		PaymentMethod:   s.PaymentMethod.String(),
		Status:          s.Status.String(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
		Items:           items,
	}
}

func toOrderResponses(list []order.Snapshot) []orderResponse {
	out := make([]orderResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toOrderResponse(s))
	}
	return out
}

type addCartItemRequest struct {
	MenuItemID int `json:"menuItemId"`
}

type setCartItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes"`
	PaymentMethod   string `json:"paymentMethod"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}
