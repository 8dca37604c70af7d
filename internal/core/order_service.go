package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// Custom errors for the OrderService
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidSortKey     = errors.New("invalid sort key")
)

// statusSortOrder ranks lifecycle states for the status_asc sort: orders
// needing attention (paid, awaiting shipment) come before finished ones.
var statusSortOrder = map[models.OrderStatus]int{
	models.OrderStatusPaid:      0,
	models.OrderStatusShipped:   1,
	models.OrderStatusDelivered: 2,
	models.OrderStatusCancelled: 3,
}

// orderService implements the OrderService interface.
type orderService struct {
	orderRepo db.OrderRepository
	userRepo  db.UserRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(or db.OrderRepository, ur db.UserRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: or,
		userRepo:  ur,
		logger:    logger,
	}
}

// ListForUser returns the caller's orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user '%s': %w", userID, err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Get returns one order with its item lines.
func (s *orderService) Get(ctx context.Context, userID, orderID string) (*models.Order, []*models.OrderItem, error) {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: '%s'", ErrOrderNotFound, orderID)
		}
		return nil, nil, fmt.Errorf("failed to get order '%s': %w", orderID, err)
	}
	items, err := s.orderRepo.ListItems(ctx, userID, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list items of order '%s': %w", orderID, err)
	}
	return order, items, nil
}

// ListAll aggregates orders across every user for the admin dashboard. Owner
// name and email are denormalized onto each row. The filter is a
// case-insensitive substring match over order ID, owner name, owner email,
// owner ID and status. A user whose orders cannot be read does not fail the
// whole listing; the failure is logged and the user skipped.
func (s *orderService) ListAll(ctx context.Context, filter string, sortKey string) ([]*models.AdminOrder, error) {
	if sortKey == "" {
		sortKey = "date_desc"
	}
	switch sortKey {
	case "date_desc", "date_asc", "total_desc", "total_asc", "status_asc", "status_desc":
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidSortKey, sortKey)
	}
	filter = strings.ToLower(strings.TrimSpace(filter))

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]*models.AdminOrder, 0)
	for _, user := range users {
		orders, err := s.orderRepo.ListByUser(ctx, user.ID)
		if err != nil {
			s.logger.Warn("skipping user in admin order listing",
				zap.String("userId", user.ID),
				zap.Error(err))
			continue
		}
		for _, order := range orders {
			row := &models.AdminOrder{
				Order:     *order,
				UserName:  user.DisplayName,
				UserEmail: user.Email,
			}
			if filter != "" && !matchesAdminFilter(row, filter) {
				continue
			}
			result = append(result, row)
		}
	}

	sortAdminOrders(result, sortKey)
	return result, nil
}

func matchesAdminFilter(row *models.AdminOrder, filter string) bool {
	for _, field := range []string{
		row.ID,
		row.UserName,
		row.UserEmail,
		row.UserID,
		string(row.Status),
	} {
		if strings.Contains(strings.ToLower(field), filter) {
			return true
		}
	}
	return false
}

// sortAdminOrders orders the aggregated rows. Sorts are stable so ties keep
// the newest-first secondary ordering applied up front.
func sortAdminOrders(orders []*models.AdminOrder, sortKey string) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	switch sortKey {
	case "date_asc":
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		})
	case "total_desc":
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].Total > orders[j].Total
		})
	case "total_asc":
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].Total < orders[j].Total
		})
	case "status_asc":
		sort.SliceStable(orders, func(i, j int) bool {
			return statusRank(orders[i].Status) < statusRank(orders[j].Status)
		})
	case "status_desc":
		sort.SliceStable(orders, func(i, j int) bool {
			return statusRank(orders[i].Status) > statusRank(orders[j].Status)
		})
	}
}

// statusRank places unknown states after every known one.
func statusRank(status models.OrderStatus) int {
	if rank, ok := statusSortOrder[status]; ok {
		return rank
	}
	return len(statusSortOrder)
}

// UpdateStatus moves an order through its lifecycle. Only the status field
// ever changes after commit.
func (s *orderService) UpdateStatus(ctx context.Context, userID, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: '%s'", ErrInvalidOrderStatus, status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, userID, orderID, status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrOrderNotFound, orderID)
		}
		return fmt.Errorf("failed to update status of order '%s': %w", orderID, err)
	}
	return nil
}
