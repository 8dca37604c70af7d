package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
	"github.com/crabstertechnology/EZCirkit/pkg/cache"
)

// Custom errors for the CatalogService
var (
	ErrReviewRequiresPurchase = errors.New("reviews require a completed purchase")
	ErrDuplicateReview        = errors.New("user has already reviewed this product")
)

const (
	productListCacheKey = "catalog:products"
	productListCacheTTL = 5 * time.Minute
)

// catalogService implements the CatalogService interface.
type catalogService struct {
	productRepo db.ProductRepository
	reviewRepo  db.ReviewRepository
	orderRepo   db.OrderRepository
	cache       cache.Cache
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService instance. The cache may be
// nil, in which case every read goes to the database.
func NewCatalogService(pr db.ProductRepository, rr db.ReviewRepository, or db.OrderRepository, c cache.Cache, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: pr,
		reviewRepo:  rr,
		orderRepo:   or,
		cache:       c,
		logger:      logger,
	}
}

// ListProducts returns the whole catalog, served from the cache when
// populated. Cache failures fall through to the database.
func (s *catalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(productListCacheKey); err == nil {
			var products []*models.Product
			if decodeErr := json.Unmarshal([]byte(cached), &products); decodeErr == nil {
				return products, nil
			} else {
				s.logger.Warn("discarding undecodable product cache entry", zap.Error(decodeErr))
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("product cache read failed", zap.Error(err))
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(productListCacheKey, string(encoded), productListCacheTTL); err != nil {
				s.logger.Warn("product cache write failed", zap.Error(err))
			}
		}
	}
	return products, nil
}

// GetProduct returns a single catalog entry.
func (s *catalogService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", productID, err)
	}
	return product, nil
}

func (s *catalogService) invalidateProductCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(productListCacheKey); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

// CreateProduct adds a catalog entry and invalidates the list cache.
func (s *catalogService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:          req.Name,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Description:   req.Description,
		Stock:         req.Stock,
		Image:         req.Image,
	}
	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id
	s.invalidateProductCache()
	return product, nil
}

// UpdateProduct applies the provided fields to an existing entry.
func (s *catalogService) UpdateProduct(ctx context.Context, productID string, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errors.New("product price must be positive")
		}
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = *req.OriginalPrice
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, errors.New("product stock must not be negative")
		}
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product '%s': %w", productID, err)
	}
	s.invalidateProductCache()
	return product, nil
}

// DeleteProduct removes a catalog entry. Reviews under the product are left
// in place; they are unreachable once the product is gone and carry no cost.
func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product '%s': %w", productID, err)
	}
	s.invalidateProductCache()
	return nil
}

// ListReviews returns the reviews of a product, newest first.
func (s *catalogService) ListReviews(ctx context.Context, productID string) ([]*models.Review, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.List(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for product '%s': %w", productID, err)
	}
	return reviews, nil
}

// CreateReview submits a review. Only buyers may review: the viewer must have
// at least one paid order, and at most one review per product. Admins are not
// exempt from either rule here, reviews are a customer feature.
func (s *catalogService) CreateReview(ctx context.Context, viewer Viewer, productID string, req models.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	purchased, err := s.orderRepo.HasPaidOrder(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check purchases for user '%s': %w", viewer.UserID, err)
	}
	if !purchased {
		return nil, ErrReviewRequiresPurchase
	}

	existing, err := s.reviewRepo.HasUserReview(ctx, productID, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		UserID:   viewer.UserID,
		UserName: viewer.Name,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	id, err := s.reviewRepo.Create(ctx, productID, review)
	if err != nil {
		return nil, fmt.Errorf("failed to create review for product '%s': %w", productID, err)
	}
	review.ID = id
	return review, nil
}
