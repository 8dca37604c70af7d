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

func newOrderFixture(t *testing.T) (OrderService, *fakeOrderRepo, *fakeUserRepo) {
	t.Helper()
	orderRepo := newFakeOrderRepo(nil, nil)
	userRepo := newFakeUserRepo()
	return NewOrderService(orderRepo, userRepo, zap.NewNop()), orderRepo, userRepo
}

func seedOrder(repo *fakeOrderRepo, userID, orderID string, total int64, status models.OrderStatus, createdAt time.Time) {
	repo.orders[userID] = append(repo.orders[userID], &models.Order{
		ID:        orderID,
		UserID:    userID,
		Total:     total,
		Status:    status,
		CreatedAt: createdAt,
	})
}

func TestOrderService_ListForUserNewestFirst(t *testing.T) {
	svc, orderRepo, _ := newOrderFixture(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(orderRepo, "user-1", "order-old", 500, models.OrderStatusDelivered, base)
	seedOrder(orderRepo, "user-1", "order-new", 900, models.OrderStatusPaid, base.Add(48*time.Hour))
	seedOrder(orderRepo, "user-1", "order-mid", 700, models.OrderStatusShipped, base.Add(24*time.Hour))

	orders, err := svc.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-new", orders[0].ID)
	assert.Equal(t, "order-mid", orders[1].ID)
	assert.Equal(t, "order-old", orders[2].ID)
}

func TestOrderService_ListAllAggregatesUsers(t *testing.T) {
	svc, orderRepo, userRepo := newOrderFixture(t)
	userRepo.users["user-1"] = &models.User{ID: "user-1", DisplayName: "Asha", Email: "asha@example.com"}
	userRepo.users["user-2"] = &models.User{ID: "user-2", DisplayName: "Ravi", Email: "ravi@example.com"}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(orderRepo, "user-1", "order-1", 500, models.OrderStatusPaid, base)
	seedOrder(orderRepo, "user-2", "order-2", 900, models.OrderStatusShipped, base.Add(time.Hour))

	orders, err := svc.ListAll(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byID := map[string]string{}
	for _, o := range orders {
		byID[o.ID] = o.UserEmail
	}
	assert.Equal(t, "asha@example.com", byID["order-1"])
	assert.Equal(t, "ravi@example.com", byID["order-2"])
}

func TestOrderService_ListAllSubstringFilter(t *testing.T) {
	svc, orderRepo, userRepo := newOrderFixture(t)
	userRepo.users["user-1"] = &models.User{ID: "user-1", DisplayName: "Asha", Email: "asha@example.com"}
	userRepo.users["user-2"] = &models.User{ID: "user-2", DisplayName: "Ravi", Email: "ravi@example.com"}
	base := time.Now()
	seedOrder(orderRepo, "user-1", "order-1", 500, models.OrderStatusPaid, base)
	seedOrder(orderRepo, "user-2", "order-2", 900, models.OrderStatusShipped, base)

	// Matches on status, case-insensitively.
	orders, err := svc.ListAll(context.Background(), "SHIPPED", "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-2", orders[0].ID)

	// Matches on owner email.
	orders, err = svc.ListAll(context.Background(), "asha@", "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].ID)

	// Matches nothing.
	orders, err = svc.ListAll(context.Background(), "refunded", "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_ListAllRejectsBadSortKey(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	_, err := svc.ListAll(context.Background(), "", "alphabetical")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestOrderService_ListAllStatusSort(t *testing.T) {
	svc, orderRepo, userRepo := newOrderFixture(t)
	userRepo.users["user-1"] = &models.User{ID: "user-1"}
	base := time.Now()
	seedOrder(orderRepo, "user-1", "order-c", 100, models.OrderStatusCancelled, base)
	seedOrder(orderRepo, "user-1", "order-p", 100, models.OrderStatusPaid, base)
	seedOrder(orderRepo, "user-1", "order-s", 100, models.OrderStatusShipped, base)

	orders, err := svc.ListAll(context.Background(), "", "status_asc")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-p", orders[0].ID)
	assert.Equal(t, "order-s", orders[1].ID)
	assert.Equal(t, "order-c", orders[2].ID)
}

func TestOrderService_ListAllTotalSort(t *testing.T) {
	svc, orderRepo, userRepo := newOrderFixture(t)
	userRepo.users["user-1"] = &models.User{ID: "user-1"}
	base := time.Now()
	seedOrder(orderRepo, "user-1", "order-small", 100, models.OrderStatusPaid, base)
	seedOrder(orderRepo, "user-1", "order-big", 5000, models.OrderStatusPaid, base)
	seedOrder(orderRepo, "user-1", "order-mid", 900, models.OrderStatusPaid, base)

	orders, err := svc.ListAll(context.Background(), "", "total_desc")
	require.NoError(t, err)
	require.Equal(t, "order-big", orders[0].ID)
	require.Equal(t, "order-mid", orders[1].ID)
	require.Equal(t, "order-small", orders[2].ID)

	orders, err = svc.ListAll(context.Background(), "", "total_asc")
	require.NoError(t, err)
	require.Equal(t, "order-small", orders[0].ID)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, orderRepo, _ := newOrderFixture(t)
	seedOrder(orderRepo, "user-1", "order-1", 500, models.OrderStatusPaid, time.Now())

	err := svc.UpdateStatus(context.Background(), "user-1", "order-1", models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, orderRepo.orders["user-1"][0].Status)

	err = svc.UpdateStatus(context.Background(), "user-1", "order-1", models.OrderStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	err = svc.UpdateStatus(context.Background(), "user-1", "no-such-order", models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetReturnsItems(t *testing.T) {
	svc, orderRepo, _ := newOrderFixture(t)
	seedOrder(orderRepo, "user-1", "order-1", 500, models.OrderStatusPaid, time.Now())
	orderRepo.items["order-1"] = []*models.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "kit-1", Quantity: 2, Price: 250},
	}

	order, items, err := svc.Get(context.Background(), "user-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	require.Len(t, items, 1)
	assert.Equal(t, "kit-1", items[0].ProductID)

	_, _, err = svc.Get(context.Background(), "user-1", "no-such-order")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
