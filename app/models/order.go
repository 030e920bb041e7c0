package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPending         = "Pending"
	OrderStatusConfirmed       = "Confirmed"
	OrderStatusProcessing      = "Processing"
	OrderStatusShipped         = "Shipped"
	OrderStatusOnTheWay        = "On the way"
	OrderStatusDelivered       = "Delivered"
	OrderStatusCancelled       = "Cancelled"
	OrderStatusReturnRequested = "Return Requested"
	OrderStatusReturned        = "Returned"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturnRequested,
	OrderStatusReturned,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderCode string    `gorm:"type:varchar(64);unique;not null" json:"order_code"`
	Status    string    `gorm:"size:32;not null;default:'Pending';index" json:"status"`
	OrderDate time.Time `gorm:"not null" json:"order_date"`

	Address string `gorm:"type:text;not null" json:"address"`
	Phone   string `gorm:"size:20;not null" json:"phone"`
	Pincode string `gorm:"size:10;not null" json:"pincode"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"discount_amount"`
	DeliveryCharge decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"delivery_charge"`
	RedeemedPoints int64           `gorm:"not null;default:0" json:"redeemed_points"`
	Total          decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total"`
	Currency       string          `gorm:"size:3;not null" json:"currency"`
	AmountMinor    int64           `gorm:"not null" json:"amount_minor"`
	PointsEarned   int64           `gorm:"not null;default:0" json:"points_earned"`

	Gateway        string  `gorm:"size:32" json:"gateway"`
	GatewayOrderID *string `gorm:"size:255;uniqueIndex" json:"gateway_order_id"`
	PaymentID      string  `gorm:"size:255" json:"payment_id,omitempty"`
	CartID         string  `gorm:"size:36;index" json:"-"`

	// Lines is the cart as it stood when checkout began. Confirmation
	// materialises OrderItems from it.
	Lines datatypes.JSON `json:"-"`

	OrderItems []OrderItem `json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	return
}

// OrderLine is one entry of Order.Lines.
type OrderLine struct {
	ProductID   string          `json:"product_id"`
	ColorID     string          `json:"color_id"`
	ProductName string          `json:"product_name"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
	Qty         int             `json:"qty"`
}
