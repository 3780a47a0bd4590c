package entity

import (
	"net/http"
	"time"

	"storefront/lib/validate"
)

type Restaurant struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	Id           int64       `json:"id"`
	RestaurantId int64       `json:"restaurant_id"`
	Name         string      `json:"name"`
	CreatedAt    time.Time   `json:"created_at"`
	MenuItems    []*MenuItem `json:"menu_items"`
}

// MenuItem price is stored in cents
type MenuItem struct {
	Id          int64     `json:"id"`
	CategoryId  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	ImageUrl    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type MenuImage struct {
	Name     string `json:"name" validate:"required"`
	ImageUrl string `json:"image_url" validate:"required,url"`
}

type MenuImages struct {
	Items []*MenuImage `json:"items" validate:"required,min=1,dive"`
}

func (m *MenuImages) Bind(_ *http.Request) error {
	return validate.Struct(m)
}

type MenuImageResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
