package dto

import (
	"time"

	"github.com/spec-kit/shop-service/internal/domain"
)

// CategoryCreateRequest payload for POST /categories.
type CategoryCreateRequest struct {
	Name             string  `json:"name"`
	ParentCategoryID *string `json:"parent_category_id"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ParentCategoryID *string   `json:"parent_category_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProductCreateRequest payload for POST /products.
type ProductCreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	CategoryIDs []string `json:"category_ids"`
}

// ProductUpdateRequest payload for PATCH /products/:id.
type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	CategoryIDs []string `json:"category_ids"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CategoryIDs []string  `json:"category_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategoryResponse maps the domain model.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:               category.ID,
		Name:             category.Name,
		ParentCategoryID: category.ParentCategoryID,
		CreatedAt:        category.CreatedAt,
	}
}

// NewProductResponse maps the domain model.
func NewProductResponse(product *domain.Product) ProductResponse {
	categoryIDs := product.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryIDs: categoryIDs,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
