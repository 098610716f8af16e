package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

// ProductInput describes a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryIDs []string
}

// ProductPatch carries optional product changes.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	CategoryIDs []string
}

// CatalogService manages categories and products.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory adds a category, optionally nested under an existing parent.
func (s *CatalogService) CreateCategory(ctx context.Context, name string, parentID *string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if parentID != nil && *parentID != "" {
		if _, err := s.GetCategory(ctx, *parentID); err != nil {
			return nil, err
		}
	} else {
		parentID = nil
	}

	category := &domain.Category{Name: name, ParentCategoryID: parentID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListProducts pages through products, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if offset < 0 {
		offset = 0
	}
	return s.products.List(ctx, limit, offset)
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct validates and stores a product.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryIDs: input.CategoryIDs,
	}
	if err := s.validateProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.CategoryIDs != nil {
		product.CategoryIDs = patch.CategoryIDs
	}

	if err := s.validateProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("product", map[string]any{"id": id})
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *CatalogService) validateProduct(ctx context.Context, product *domain.Product) error {
	details := map[string]any{}
	if product.Name == "" {
		details["name"] = "required"
	}
	if product.Price < 0 {
		details["price"] = "must not be negative"
	}
	if product.Stock < 0 {
		details["stock"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details)
	}
	for _, categoryID := range product.CategoryIDs {
		if _, err := s.GetCategory(ctx, categoryID); err != nil {
			return err
		}
	}
	return nil
}
