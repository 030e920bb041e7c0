package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

type CheckoutRequest struct {
	Address      string `json:"address" validate:"required,max=500"`
	Phone        string `json:"phone" validate:"required,max=20"`
	Pincode      string `json:"pincode" validate:"required,max=10"`
	RedeemPoints int64  `json:"redeem_points" validate:"gte=0"`
}

type CheckoutResult struct {
	Order   *models.Order `json:"order"`
	Quote   *Quote        `json:"quote"`
	Gateway string        `json:"gateway"`
	Payment *GatewayOrder `json:"payment"`
}

type ConfirmResult struct {
	Order            *models.Order `json:"order"`
	PointsEarned     int64         `json:"points_earned"`
	AlreadyConfirmed bool          `json:"already_confirmed"`
}

type CheckoutService struct {
	db            *gorm.DB
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	colorRepo     repositories.ProductColorRepository
	profileRepo   repositories.ProfileRepository
	userRepo      repositories.UserRepositoryImpl
	cartRepo      repositories.CartRepository
	pricing       *PricingService
	gateway       PaymentGateway
	mailer        Mailer
	currency      string
	validate      *validator.Validate
	log           *zap.Logger
	metrics       *metrics.Metrics
}

func NewCheckoutService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	colorRepo repositories.ProductColorRepository,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepositoryImpl,
	cartRepo repositories.CartRepository,
	pricing *PricingService,
	gateway PaymentGateway,
	mailer Mailer,
	currency string,
	log *zap.Logger,
	m *metrics.Metrics,
) *CheckoutService {
	return &CheckoutService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		colorRepo:     colorRepo,
		profileRepo:   profileRepo,
		userRepo:      userRepo,
		cartRepo:      cartRepo,
		pricing:       pricing,
		gateway:       gateway,
		mailer:        mailer,
		currency:      strings.ToUpper(currency),
		validate:      validator.New(),
		log:           log,
		metrics:       m,
	}
}

func (s *CheckoutService) GatewayName() string {
	return s.gateway.Name()
}

func generateOrderCode() string {
	return fmt.Sprintf("SHO-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}

func (s *CheckoutService) validateRequest(req *CheckoutRequest) (int, error) {
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Pincode = strings.TrimSpace(req.Pincode)

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return 0, NewValidationError(helpers.FormatValidationErrors(verrs))
		}
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	pincode, err := strconv.Atoi(req.Pincode)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPincode, req.Pincode)
	}
	return pincode, nil
}

func snapshotLines(cart *sessions.Cart) []models.OrderLine {
	items := cart.Items()
	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLine{
			ProductID:   item.ProductID,
			ColorID:     item.ColorID,
			ProductName: item.Name,
			Color:       item.Color,
			Price:       item.Price,
			Qty:         item.Qty,
		})
	}
	return lines
}

// Initiate prices the cart, stores a Pending order and opens the matching
// gateway order. When the gateway call fails the order is removed again.
// The cart is left as it is.
func (s *CheckoutService) Initiate(ctx context.Context, user *models.User, cart *sessions.Cart, req CheckoutRequest) (*CheckoutResult, error) {
	log := logger.FromContext(ctx, s.log)

	pincode, err := s.validateRequest(&req)
	if err != nil {
		s.metrics.RecordRejection("initiate", "validation")
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		s.metrics.RecordRejection("initiate", "empty_cart")
		return nil, ErrEmptyCart
	}

	quote, _, err := s.pricing.Quote(ctx, user.ID, cart.Subtotal(), pincode, req.RedeemPoints)
	if err != nil {
		return nil, err
	}

	amountMinor, err := s.gateway.MinorUnits(quote.Total, s.currency)
	if err != nil {
		s.metrics.RecordRejection("initiate", "currency")
		return nil, err
	}

	lines := snapshotLines(cart)
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order lines: %w", err)
	}

	order := &models.Order{
		UserID:         user.ID,
		OrderCode:      generateOrderCode(),
		Status:         models.OrderStatusPending,
		Address:        req.Address,
		Phone:          req.Phone,
		Pincode:        req.Pincode,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.Discount,
		DeliveryCharge: quote.DeliveryCharge,
		RedeemedPoints: quote.RedeemedPoints,
		Total:          quote.Total,
		Currency:       s.currency,
		AmountMinor:    amountMinor,
		Gateway:        s.gateway.Name(),
		CartID:         cart.ID,
		Lines:          datatypes.JSON(linesJSON),
	}

	// no transaction may stay open across the gateway call
	if err := s.orderRepo.Create(ctx, nil, order); err != nil {
		s.metrics.RecordRejection("initiate", "persistence")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	payment, err := s.gateway.CreateOrder(ctx, CreateOrderRequest{
		OrderID:     order.ID,
		OrderCode:   order.OrderCode,
		Amount:      order.Total,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		Customer:    CustomerDetails{Name: user.Name, Email: user.Email, Phone: req.Phone},
		Address:     req.Address,
		Pincode:     req.Pincode,
		Lines:       lines,
		Metadata:    map[string]string{"customer_email": user.Email},
	})
	if err == nil && (payment == nil || payment.GatewayOrderID == "") {
		err = fmt.Errorf("%w: empty gateway order reference", ErrGatewayUnavailable)
	}
	if err != nil {
		s.metrics.RecordRejection("initiate", "gateway")
		log.Error("payment gateway rejected order creation",
			zap.String("order_code", order.OrderCode),
			zap.String("gateway", s.gateway.Name()),
			zap.Error(err),
		)
		s.discardOrder(ctx, order)
		if !errors.Is(err, ErrGatewayUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return nil, err
	}

	if err := s.orderRepo.SetGatewayReference(ctx, nil, order.ID, s.gateway.Name(), payment.GatewayOrderID); err != nil {
		s.metrics.RecordRejection("initiate", "persistence")
		s.discardOrder(ctx, order)
		return nil, fmt.Errorf("failed to store gateway reference: %w", err)
	}
	order.GatewayOrderID = &payment.GatewayOrderID

	s.metrics.CheckoutInitiated.WithLabelValues(s.gateway.Name()).Inc()
	log.Info("checkout initiated",
		zap.String("order_id", order.ID),
		zap.String("order_code", order.OrderCode),
		zap.String("gateway_order_id", payment.GatewayOrderID),
		zap.String("total", order.Total.String()),
	)

	return &CheckoutResult{
		Order:   order,
		Quote:   quote,
		Gateway: s.gateway.Name(),
		Payment: payment,
	}, nil
}

// discardOrder removes an order whose gateway order was never opened. It runs
// on a fresh context so a cancelled request still cleans up.
func (s *CheckoutService) discardOrder(ctx context.Context, order *models.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.orderRepo.DeletePending(ctx, order.ID); err != nil {
		logger.FromContext(ctx, s.log).Error("failed to discard pending order",
			zap.String("order_id", order.ID), zap.Error(err))
	}
}

// Confirm applies a verified payment to its Pending order: order items are
// written, stock and points adjusted, and the cart cleared. A repeated
// callback for a Confirmed order changes nothing.
func (s *CheckoutService) Confirm(ctx context.Context, cb *PaymentCallback) (*ConfirmResult, error) {
	log := logger.FromContext(ctx, s.log)

	verified, err := s.gateway.VerifyCallback(ctx, cb)
	if err != nil {
		reason := "verification"
		if errors.Is(err, ErrPaymentNotCompleted) {
			reason = "not_completed"
		} else if errors.Is(err, ErrGatewayUnavailable) {
			reason = "gateway"
		}
		s.metrics.RecordRejection("confirm", reason)
		log.Warn("payment callback rejected", zap.String("gateway_order_id", cb.GatewayOrderID), zap.Error(err))
		return nil, err
	}

	result := &ConfirmResult{}
	var items []models.OrderItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByGatewayOrderID(ctx, tx, verified.GatewayOrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: gateway order %s", ErrOrderNotFound, verified.GatewayOrderID)
		}
		if verified.OrderID != "" && verified.OrderID != order.ID && verified.OrderID != order.OrderCode {
			return fmt.Errorf("%w: callback order %s does not match %s", ErrPaymentVerification, verified.OrderID, order.ID)
		}
		result.Order = order

		if order.Status == models.OrderStatusConfirmed {
			result.AlreadyConfirmed = true
			result.PointsEarned = order.PointsEarned
			return nil
		}
		if order.Status != models.OrderStatusPending {
			return fmt.Errorf("%w: order %s is %s", ErrInvalidStatus, order.ID, order.Status)
		}
		if verified.HasAmount && verified.AmountMinor != order.AmountMinor {
			return fmt.Errorf("%w: paid %d, expected %d", ErrPaymentVerification, verified.AmountMinor, order.AmountMinor)
		}

		moved, err := s.orderRepo.TransitionStatus(ctx, tx, order.ID, models.OrderStatusPending, models.OrderStatusConfirmed)
		if err != nil {
			return fmt.Errorf("failed to confirm order: %w", err)
		}
		if !moved {
			// a concurrent callback confirmed it first
			current, err := s.orderRepo.FindByGatewayOrderID(ctx, tx, verified.GatewayOrderID)
			if err != nil {
				return fmt.Errorf("failed to reload order: %w", err)
			}
			if current != nil {
				result.Order = current
				result.PointsEarned = current.PointsEarned
			}
			result.AlreadyConfirmed = true
			return nil
		}

		if err := s.profileRepo.MarkFirstOrderUsed(ctx, tx, order.UserID); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		var lines []models.OrderLine
		if err := json.Unmarshal(order.Lines, &lines); err != nil {
			return fmt.Errorf("failed to decode order lines: %w", err)
		}

		accrued := decimal.Zero
		items = make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			ok, err := s.colorRepo.DecrementStock(ctx, tx, line.ColorID, line.Qty)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", line.ColorID, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s (%s)", ErrInsufficientStock, line.ProductName, line.Color)
			}
			items = append(items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.ProductID,
				ColorID:     line.ColorID,
				ProductName: line.ProductName,
				Color:       line.Color,
				Qty:         line.Qty,
				Price:       line.Price,
			})
			accrued = accrued.Add(calc.LinePoints(line.Price, line.Qty))
		}
		if err := s.orderItemRepo.CreateBatch(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if order.RedeemedPoints > 0 {
			ok, err := s.profileRepo.DeductPoints(ctx, tx, order.UserID, order.RedeemedPoints)
			if err != nil {
				return fmt.Errorf("failed to redeem points: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: %d points requested", ErrInsufficientPoints, order.RedeemedPoints)
			}
		}

		earned := calc.PointsFromAccrual(accrued)
		if err := s.profileRepo.AddPoints(ctx, tx, order.UserID, earned); err != nil {
			return fmt.Errorf("failed to award points: %w", err)
		}
		if err := s.orderRepo.RecordPayment(ctx, tx, order.ID, verified.PaymentID, earned); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		order.Status = models.OrderStatusConfirmed
		order.PaymentID = verified.PaymentID
		order.PointsEarned = earned
		order.OrderItems = items
		result.PointsEarned = earned
		return nil
	})
	if err != nil {
		reason := "persistence"
		switch {
		case errors.Is(err, ErrInsufficientStock):
			reason = "insufficient_stock"
		case errors.Is(err, ErrInsufficientPoints):
			reason = "insufficient_points"
		case errors.Is(err, ErrPaymentVerification):
			reason = "verification"
		case errors.Is(err, ErrOrderNotFound):
			reason = "order_not_found"
		case errors.Is(err, ErrInvalidStatus):
			reason = "invalid_status"
		}
		s.metrics.RecordRejection("confirm", reason)
		log.Error("order confirmation failed", zap.String("gateway_order_id", verified.GatewayOrderID), zap.Error(err))
		return nil, err
	}

	if result.AlreadyConfirmed {
		s.metrics.CheckoutConfirmed.WithLabelValues(s.gateway.Name(), "duplicate").Inc()
		log.Info("duplicate payment callback ignored", zap.String("order_id", result.Order.ID))
		return result, nil
	}

	s.metrics.CheckoutConfirmed.WithLabelValues(s.gateway.Name(), "confirmed").Inc()
	log.Info("order confirmed",
		zap.String("order_id", result.Order.ID),
		zap.Int64("points_earned", result.PointsEarned),
	)

	if result.Order.CartID != "" {
		if err := s.cartRepo.Delete(ctx, result.Order.CartID); err != nil {
			log.Warn("failed to clear cart after confirmation", zap.String("cart_id", result.Order.CartID), zap.Error(err))
		}
	}
	s.sendConfirmation(ctx, result.Order, items)

	return result, nil
}

// sendConfirmation never fails the confirmation; delivery problems are logged.
func (s *CheckoutService) sendConfirmation(ctx context.Context, order *models.Order, items []models.OrderItem) {
	log := logger.FromContext(ctx, s.log)

	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil || user == nil {
		log.Warn("no recipient for order confirmation", zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	subject := fmt.Sprintf("Order %s confirmed", order.OrderCode)
	if err := s.mailer.SendHTMLEmail(mailCtx, user.Email, subject, BuildOrderConfirmationEmailBody(order, items)); err != nil {
		log.Warn("failed to send order confirmation email", zap.String("order_id", order.ID), zap.Error(err))
	}
}
