package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

func newCatalogFixture(t *testing.T, c *fakeCache) (CatalogService, *fakeProductRepo, *fakeReviewRepo, *fakeOrderRepo) {
	t.Helper()
	productRepo := newFakeProductRepo()
	reviewRepo := newFakeReviewRepo()
	orderRepo := newFakeOrderRepo(nil, nil)
	productRepo.products["kit-1"] = &models.Product{ID: "kit-1", Name: "Starter Kit", Price: 1200, Stock: 10}
	var svc CatalogService
	if c != nil {
		svc = NewCatalogService(productRepo, reviewRepo, orderRepo, c, zap.NewNop())
	} else {
		svc = NewCatalogService(productRepo, reviewRepo, orderRepo, nil, zap.NewNop())
	}
	return svc, productRepo, reviewRepo, orderRepo
}

func TestCatalogService_ListProductsPopulatesCache(t *testing.T) {
	c := newFakeCache()
	svc, _, _, _ := newCatalogFixture(t, c)
	ctx := context.Background()

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, c.sets)

	// Second call is served from the cache.
	products, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Starter Kit", products[0].Name)
	assert.Equal(t, 1, c.sets)
}

func TestCatalogService_MutationsInvalidateCache(t *testing.T) {
	c := newFakeCache()
	svc, _, _, _ := newCatalogFixture(t, c)
	ctx := context.Background()

	_, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, c.values)

	_, err = svc.CreateProduct(ctx, models.CreateProductRequest{Name: "Motor Kit", Price: 899, Stock: 4, Image: "motor.png"})
	require.NoError(t, err)
	assert.Empty(t, c.values)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestCatalogService_UpdateProductValidation(t *testing.T) {
	svc, _, _, _ := newCatalogFixture(t, nil)
	ctx := context.Background()

	badPrice := int64(-5)
	_, err := svc.UpdateProduct(ctx, "kit-1", models.UpdateProductRequest{Price: &badPrice})
	assert.Error(t, err)

	newStock := int64(7)
	product, err := svc.UpdateProduct(ctx, "kit-1", models.UpdateProductRequest{Stock: &newStock})
	require.NoError(t, err)
	assert.EqualValues(t, 7, product.Stock)

	_, err = svc.UpdateProduct(ctx, "no-such-product", models.UpdateProductRequest{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_CreateReviewRequiresPurchase(t *testing.T) {
	svc, _, _, _ := newCatalogFixture(t, nil)

	_, err := svc.CreateReview(context.Background(), Viewer{UserID: "user-1", Authenticated: true}, "kit-1", models.CreateReviewRequest{Rating: 5, Comment: "great"})
	assert.ErrorIs(t, err, ErrReviewRequiresPurchase)
}

func TestCatalogService_CreateReviewOncePerUser(t *testing.T) {
	svc, _, _, orderRepo := newCatalogFixture(t, nil)
	ctx := context.Background()

	orderRepo.orders["user-1"] = []*models.Order{
		{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPaid, CreatedAt: time.Now()},
	}
	viewer := Viewer{UserID: "user-1", Name: "Asha", Authenticated: true}

	review, err := svc.CreateReview(ctx, viewer, "kit-1", models.CreateReviewRequest{Rating: 5, Comment: "great kit"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", review.UserName)
	assert.Equal(t, 5, review.Rating)

	_, err = svc.CreateReview(ctx, viewer, "kit-1", models.CreateReviewRequest{Rating: 4, Comment: "still great"})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestCatalogService_PendingOrderDoesNotUnlockReviews(t *testing.T) {
	svc, _, _, orderRepo := newCatalogFixture(t, nil)

	orderRepo.orders["user-1"] = []*models.Order{
		{ID: "order-1", UserID: "user-1", Status: models.OrderStatusCancelled, CreatedAt: time.Now()},
	}
	_, err := svc.CreateReview(context.Background(), Viewer{UserID: "user-1", Authenticated: true}, "kit-1", models.CreateReviewRequest{Rating: 3, Comment: "meh"})
	assert.ErrorIs(t, err, ErrReviewRequiresPurchase)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	svc, productRepo, _, _ := newCatalogFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, "kit-1"))
	assert.Empty(t, productRepo.products)

	err := svc.DeleteProduct(ctx, "kit-1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
