// Package domain holds the resource models and envelopes exchanged with the API.
package domain

import (
	"fmt"
	"time"
)

// Category is an item of the categories collection.
type Category struct {
	ID            ItemID     `json:"id,omitempty"`
	Name          Flex       `json:"name,omitzero"`
	CreatedAt     time.Time  `json:"createdAt,omitzero"`
	UpdatedAt     time.Time  `json:"updatedAt,omitzero"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Product is an item of the products collection.
type Product struct {
	ID           ItemID     `json:"id,omitempty"`
	Name         Flex       `json:"name,omitzero"`
	Type         string     `json:"type,omitempty"`
	Price        Flex       `json:"price,omitzero"`
	Shipping     float64    `json:"shipping,omitempty"`
	UPC          string     `json:"upc,omitempty"`
	Description  string     `json:"description,omitempty"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	Model        string     `json:"model,omitempty"`
	URL          string     `json:"url,omitempty"`
	Image        string     `json:"image,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitzero"`
	UpdatedAt    time.Time  `json:"updatedAt,omitzero"`
	Categories   []Category `json:"categories,omitempty"`
}

// Service is an item of the services collection.
type Service struct {
	ID        ItemID    `json:"id,omitempty"`
	Name      Flex      `json:"name,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Stores    []Store   `json:"stores,omitempty"`
}

// Store is an item of the stores collection.
type Store struct {
	ID        ItemID    `json:"id,omitempty"`
	Name      Flex      `json:"name,omitzero"`
	Type      string    `json:"type,omitempty"`
	Address   string    `json:"address,omitempty"`
	Address2  string    `json:"address2,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Zip       string    `json:"zip,omitempty"`
	Lat       Flex      `json:"lat,omitzero"`
	Lng       float64   `json:"lng,omitempty"`
	Hours     string    `json:"hours,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Services  []Service `json:"services,omitempty"`
}

// Page is the paginated list envelope returned by collection queries.
type Page[T any] struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
	Data  []T `json:"data"`
}

// APIError is the error envelope returned on 4xx responses.
type APIError struct {
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Code      int       `json:"code"`
	ClassName string    `json:"className"`
	Errors    ErrorList `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%d %s: %s", e.Code, e.Name, e.Message)
	}
	return fmt.Sprintf("%d %s: %s %v", e.Code, e.Name, e.Message, e.Errors)
}

// Well known error envelope values.
const (
	ErrorNameNotFound        = "NotFound"
	ErrorClassNotFound       = "not-found"
	ErrorNameBadRequest      = "BadRequest"
	ErrorClassBadRequest     = "bad-request"
	MessageInvalidParameters = "Invalid Parameters"
)

// NotFoundMessage is the message the API uses for a missing id.
func NotFoundMessage(id string) string {
	return fmt.Sprintf("No record found for id '%s'", id)
}
