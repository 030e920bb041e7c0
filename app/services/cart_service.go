package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

type CartService struct {
	productRepo repositories.ProductRepositoryImpl
	colorRepo   repositories.ProductColorRepository
	pricing     *PricingService
	metrics     *metrics.Metrics
}

func NewCartService(
	productRepo repositories.ProductRepositoryImpl,
	colorRepo repositories.ProductColorRepository,
	pricing *PricingService,
	m *metrics.Metrics,
) *CartService {
	return &CartService{
		productRepo: productRepo,
		colorRepo:   colorRepo,
		pricing:     pricing,
		metrics:     m,
	}
}

type CartSummary struct {
	Items     []sessions.CartLine `json:"items"`
	Count     int                 `json:"count"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
	Discount  decimal.Decimal     `json:"discount"`
	Total     decimal.Decimal     `json:"total_sum"`
	IsVIP     bool                `json:"vip_user"`
	Points    int64               `json:"loyalty_points"`
	FirstUsed bool                `json:"first_order_offer_used"`
}

type QuantityUpdate struct {
	Key        string          `json:"key"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"total_price"`
	Discount   decimal.Decimal `json:"ajax_discount"`
	CartTotal  decimal.Decimal `json:"total_sum"`
	Available  int             `json:"available"`
	WasClamped bool            `json:"was_clamped"`
}

// AddItem puts qty units of a product color in the cart. The color must
// belong to the product and the accumulated quantity must fit current stock.
func (s *CartService) AddItem(ctx context.Context, cart *sessions.Cart, productID, colorID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	color, err := s.colorRepo.GetForProduct(ctx, productID, colorID)
	if err != nil {
		return fmt.Errorf("failed to load color %s: %w", colorID, err)
	}
	if color == nil {
		return ErrColorNotFound
	}

	inCart := 0
	if line, ok := cart.Line(color.ID); ok {
		inCart = line.Qty
	}
	if inCart+qty > color.Qty {
		return fmt.Errorf("%w: %s (%s) has %d available, requested %d", ErrInsufficientStock, product.Name, color.Color, color.Qty, inCart+qty)
	}

	if err := cart.Add(product, color, qty); err != nil {
		return err
	}
	s.metrics.RecordCartOperation("add")
	return nil
}

func (s *CartService) RemoveItem(cart *sessions.Cart, key string) {
	cart.Remove(key)
	s.metrics.RecordCartOperation("remove")
}

// UpdateQuantity backs the ajax quantity selector: it rejects non-positive
// quantities, clamps to available stock and returns the recomputed totals.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, cart *sessions.Cart, key string, qty int) (*QuantityUpdate, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	line, ok := cart.Line(key)
	if !ok {
		return nil, ErrCartItemNotFound
	}

	color, err := s.colorRepo.GetByID(ctx, line.ColorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load color %s: %w", line.ColorID, err)
	}
	if color == nil {
		return nil, ErrColorNotFound
	}

	if color.Qty < 1 {
		return nil, fmt.Errorf("%w: %s (%s) is sold out", ErrInsufficientStock, line.Name, line.Color)
	}

	clamped := false
	if qty >= color.Qty {
		clamped = qty > color.Qty
		qty = color.Qty
	}
	updated, _ := cart.UpdateQuantity(key, qty)
	s.metrics.RecordCartOperation("update_quantity")

	state, err := s.pricing.LoyaltyState(ctx, userID)
	if err != nil {
		return nil, err
	}
	discount, total := CartDiscount(cart.Subtotal(), state.FirstOrderOfferUsed)

	return &QuantityUpdate{
		Key:        key,
		Quantity:   updated.Qty,
		LineTotal:  updated.LineTotal(),
		Discount:   discount,
		CartTotal:  total,
		Available:  color.Qty,
		WasClamped: clamped,
	}, nil
}

func (s *CartService) Summary(ctx context.Context, userID string, cart *sessions.Cart) (*CartSummary, error) {
	state, err := s.pricing.LoyaltyState(ctx, userID)
	if err != nil {
		return nil, err
	}
	subtotal := cart.Subtotal()
	discount, total := CartDiscount(subtotal, state.FirstOrderOfferUsed)

	return &CartSummary{
		Items:     cart.Items(),
		Count:     cart.Count(),
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     total,
		IsVIP:     state.IsVIP,
		Points:    state.Points,
		FirstUsed: state.FirstOrderOfferUsed,
	}, nil
}

// StockQuantity reports the live stock of a color of a product.
func (s *CartService) StockQuantity(ctx context.Context, productID, colorID string) (int, error) {
	color, err := s.colorRepo.GetForProduct(ctx, productID, colorID)
	if err != nil {
		return 0, fmt.Errorf("failed to load color %s: %w", colorID, err)
	}
	if color == nil {
		return 0, ErrColorNotFound
	}
	return color.Qty, nil
}
