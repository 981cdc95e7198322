package storefront

import (
	"github.com/appetiteclub/storefront/pkg/enums/category"
	"github.com/appetiteclub/storefront/pkg/enums/paymentmethod"
)

// MenuItemRequest is the admin payload for creating or editing an item.
// InStock is a pointer so a missing flag can default to true.
type MenuItemRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"gt=0"`
	Category      string   `json:"category" validate:"omitempty,category"`
	ImageURL      string   `json:"imageUrl" validate:"omitempty,url"`
	IsVegetarian  bool     `json:"isVegetarian"`
	IsSpicy       bool     `json:"isSpicy"`
	IsChefSpecial bool     `json:"isChefSpecial"`
	InStock       *bool    `json:"inStock"`
	Allergens     []string `json:"allergens"`
	Calories      *int     `json:"calories" validate:"omitempty,gte=0"`
}

type CheckoutRequest struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,paymentmethod"`
}

// OrderRequest creates an order directly, without a server side cart.
type OrderRequest struct {
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	CustomerEmail string     `json:"customerEmail" validate:"omitempty,email"`
	Items         []CartItem `json:"items" validate:"dive"`
	Total         float64    `json:"total" validate:"gte=0"`
	PaymentMethod string     `json:"paymentMethod" validate:"omitempty,paymentmethod"`
}

func (r OrderRequest) Draft() OrderDraft {
	return OrderDraft{
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Items:         r.Items,
		Total:         r.Total,
		PaymentMethod: paymentmethod.Method(r.PaymentMethod),
	}
}

type ReservationRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
	Guests int    `json:"guests" validate:"omitempty,min=1,max=20"`
	Notes  string `json:"notes" validate:"max=500"`
}

func (r ReservationRequest) Draft() ReservationDraft {
	return ReservationDraft{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Date:   r.Date,
		Time:   r.Time,
		Guests: r.Guests,
		Notes:  r.Notes,
	}
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AddToCartRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

type QuantityRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

// PrepareMenuItem validates an admin payload and fills the defaults for a
// new item: a generated id, the Starters category and in stock.
func PrepareMenuItem(req MenuItemRequest) (MenuItem, []ValidationError) {
	if errs := ValidateStruct(req); len(errs) > 0 {
		return MenuItem{}, errs
	}

	item := MenuItem{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      category.Category(req.Category),
		ImageURL:      req.ImageURL,
		IsVegetarian:  req.IsVegetarian,
		IsSpicy:       req.IsSpicy,
		IsChefSpecial: req.IsChefSpecial,
		InStock:       true,
		Allergens:     req.Allergens,
		Calories:      req.Calories,
	}
	if item.ID == "" {
		item.ID = newID("m")
	}
	if cat := category.ByName(req.Category); cat != nil {
		item.Category = *cat
	} else {
		item.Category = category.Starters
	}
	if req.InStock != nil {
		item.InStock = *req.InStock
	}
	return item, nil
}
