package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
)

type inventoryService struct {
	productRepo repository.ProductRepository
}

func NewInventoryService(productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{productRepo: productRepo}
}

func validateProduct(p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if p.TotalQuantity < 0 {
		return fmt.Errorf("%w: total quantity", domain.ErrInvalidQuantity)
	}
	if p.Rate.IsNegative() {
		return fmt.Errorf("%w: rate", domain.ErrInvalidAmount)
	}
	return nil
}

// CreateProduct adds a product with its whole stock on the shelf.
func (s *inventoryService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	product.ID = uuid.NewString()
	product.AvailableQuantity = product.TotalQuantity
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	logger.Info("Product created", "productID", product.ID, "total", product.TotalQuantity)
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.List(ctx)
}

// UpdateProduct rewrites the descriptive fields and total stock. Units that
// are out on rent stay out, so availability moves by the change in total.
func (s *inventoryService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Product deleted", "productID", id)
	return nil
}
