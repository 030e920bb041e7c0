package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	SetGatewayReference(ctx context.Context, tx *gorm.DB, orderID, gateway, gatewayOrderID string) error
	// DeletePending removes an order that is still Pending. Orders in any
	// other status are left alone.
	DeletePending(ctx context.Context, orderID string) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, tx *gorm.DB, gatewayOrderID string) (*models.Order, error)
	// TransitionStatus moves an order from one status to another and reports
	// false when the order was not in the expected status.
	TransitionStatus(ctx context.Context, tx *gorm.DB, orderID, from, to string) (bool, error)
	RecordPayment(ctx context.Context, tx *gorm.DB, orderID, paymentID string, pointsEarned int64) error
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	CountByUserAndStatus(ctx context.Context, tx *gorm.DB, userID, status string) (int64, error)
	GetAllOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return conn(r.db, tx).WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) SetGatewayReference(ctx context.Context, tx *gorm.DB, orderID, gateway, gatewayOrderID string) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"gateway":          gateway,
			"gateway_order_id": gatewayOrderID,
			"updated_at":       time.Now(),
		}).Error
}

func (r *gormOrderRepository) DeletePending(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Delete(&models.Order{}).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).Preload("OrderItems").First(&order, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByGatewayOrderID(ctx context.Context, tx *gorm.DB, gatewayOrderID string) (*models.Order, error) {
	var order models.Order

	err := conn(r.db, tx).WithContext(ctx).First(&order, "gateway_order_id = ?", gatewayOrderID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, orderID, from, to string) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormOrderRepository) RecordPayment(ctx context.Context, tx *gorm.DB, orderID, paymentID string, pointsEarned int64) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_id":    paymentID,
			"points_earned": pointsEarned,
		}).Error
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) CountByUserAndStatus(ctx context.Context, tx *gorm.DB, userID, status string) (int64, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

func (r *gormOrderRepository) GetAllOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("OrderItems").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	return orders, total, err
}
