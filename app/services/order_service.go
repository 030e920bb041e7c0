package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
)

type OrderService struct {
	orderRepo repositories.OrderRepository
}

func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// MyOrders lists a user's orders newest first with their items.
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *OrderService) AllOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error) {
	if status != "" && !models.IsValidOrderStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.orderRepo.GetAllOrders(ctx, status, limit, offset)
}

// UpdateStatus applies an administrative status change. Pending and
// Confirmed are owned by checkout, so a Pending order may only be cancelled
// and nothing may be moved back to either state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) || status == models.OrderStatusPending || status == models.OrderStatusConfirmed {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == models.OrderStatusPending && status != models.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: pending order %s can only be cancelled", ErrInvalidStatus, order.ID)
	}

	moved, err := s.orderRepo.TransitionStatus(ctx, nil, order.ID, order.Status, status)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("%w: order %s changed concurrently", ErrInvalidStatus, order.ID)
	}
	order.Status = status
	return order, nil
}
