package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Product is a cake listed in the storefront. Timestamps are kept as the
// strings the backend sent so cached copies round-trip unchanged.
type Product struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Price           int64  `json:"price"`
	Image           string `json:"image,omitempty"`
	Description     string `json:"description,omitempty"`
	CreatorUsername string `json:"creator_username,omitempty"`
	CreatorName     string `json:"creator_name,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// ProductInput is the data submitted from the create form.
type ProductInput struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Price       int64  `json:"price" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
	Description string `json:"description"`
}

// ToProduct builds the candidate record sent to the backend, identified by a
// client-side placeholder id.
func (in ProductInput) ToProduct(placeholderID int64) Product {
	return Product{
		ID:          placeholderID,
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
	}
}

// DecodeProductList decodes a list payload. A JSON array is taken as-is and a
// single object is wrapped as a one-element list.
func DecodeProductList(raw []byte) ([]Product, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Product{}, nil
	}

	switch trimmed[0] {
	case '[':
		var products []Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, err
		}
		if products == nil {
			products = []Product{}
		}
		return products, nil
	case '{':
		var product Product
		if err := json.Unmarshal(trimmed, &product); err != nil {
			return nil, err
		}
		return []Product{product}, nil
	default:
		return nil, fmt.Errorf("product list must be an array or an object, got %q", trimmed[0])
	}
}

// SampleProduct is shown on the product card when neither the backend nor the
// local cache can provide one.
func SampleProduct() Product {
	return Product{
		Name:        "Bánh Socola",
		Category:    "Bánh ngọt",
		Price:       50000,
		Image:       "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=300&fit=crop",
		Description: "Bánh socola thơm ngon",
	}
}
