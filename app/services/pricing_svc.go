package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
)

// VIPOrderThreshold is the number of confirmed orders that earns free delivery.
const VIPOrderThreshold = 10

type PricingInput struct {
	Subtotal            decimal.Decimal
	FirstOrderOfferUsed bool
	PointsBalance       int64
	RequestedPoints     int64
	Pincode             int
	IsVIP               bool
}

type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	Discount       decimal.Decimal `json:"discount"`
	RedeemedPoints int64           `json:"redeemed_points"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	VIPWaiver      decimal.Decimal `json:"vip_waiver"`
	Total          decimal.Decimal `json:"total"`
	IsVIP          bool            `json:"vip_user"`
}

// CalculateQuote prices an order. The steps run in a fixed order: discount,
// point redemption, delivery charge, VIP refund of the delivery charge, and a
// final ceiling.
func CalculateQuote(in PricingInput) Quote {
	q := Quote{Subtotal: in.Subtotal, IsVIP: in.IsVIP, VIPWaiver: decimal.Zero}

	q.DiscountRate = calc.OrderDiscountRate(in.FirstOrderOfferUsed)
	q.Discount = calc.OrderDiscount(in.Subtotal, q.DiscountRate)
	total := in.Subtotal.Sub(q.Discount)

	q.RedeemedPoints = clampRedemption(in.RequestedPoints, in.PointsBalance, total)
	total = total.Sub(decimal.NewFromInt(q.RedeemedPoints))

	q.DeliveryCharge = calc.DeliveryCharge(in.Pincode)
	total = total.Add(q.DeliveryCharge)

	if in.IsVIP {
		q.VIPWaiver = q.DeliveryCharge
		total = total.Sub(q.VIPWaiver)
	}

	q.Total = calc.Ceil(total)
	return q
}

// clampRedemption bounds a request by the balance and by the whole-unit part
// of the running total.
func clampRedemption(requested, balance int64, runningTotal decimal.Decimal) int64 {
	n := requested
	if balance < n {
		n = balance
	}
	if limit := calc.Truncate(runningTotal).IntPart(); limit < n {
		n = limit
	}
	if n < 0 {
		return 0
	}
	return n
}

// CartDiscount is the discount and discounted total shown on the cart page,
// before points and delivery.
func CartDiscount(subtotal decimal.Decimal, firstOrderOfferUsed bool) (discount, total decimal.Decimal) {
	discount = calc.OrderDiscount(subtotal, calc.OrderDiscountRate(firstOrderOfferUsed))
	return discount, subtotal.Sub(discount)
}

type LoyaltyState struct {
	FirstOrderOfferUsed bool  `json:"first_order_offer_used"`
	Points              int64 `json:"loyalty_points"`
	ConfirmedOrders     int64 `json:"confirmed_orders"`
	IsVIP               bool  `json:"vip_user"`
}

type PricingService struct {
	profileRepo repositories.ProfileRepository
	orderRepo   repositories.OrderRepository
}

func NewPricingService(profileRepo repositories.ProfileRepository, orderRepo repositories.OrderRepository) *PricingService {
	return &PricingService{profileRepo: profileRepo, orderRepo: orderRepo}
}

// LoyaltyState is the zero state for anonymous visitors.
func (s *PricingService) LoyaltyState(ctx context.Context, userID string) (*LoyaltyState, error) {
	if userID == "" {
		return &LoyaltyState{}, nil
	}
	profile, err := s.profileRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	confirmed, err := s.orderRepo.CountByUserAndStatus(ctx, nil, userID, models.OrderStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed orders: %w", err)
	}
	return &LoyaltyState{
		FirstOrderOfferUsed: profile.FirstOrderOfferUsed,
		Points:              profile.LoyaltyPoints,
		ConfirmedOrders:     confirmed,
		IsVIP:               confirmed >= VIPOrderThreshold,
	}, nil
}

func (s *PricingService) Quote(ctx context.Context, userID string, subtotal decimal.Decimal, pincode int, requestedPoints int64) (*Quote, *LoyaltyState, error) {
	state, err := s.LoyaltyState(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	q := CalculateQuote(PricingInput{
		Subtotal:            subtotal,
		FirstOrderOfferUsed: state.FirstOrderOfferUsed,
		PointsBalance:       state.Points,
		RequestedPoints:     requestedPoints,
		Pincode:             pincode,
		IsVIP:               state.IsVIP,
	})
	return &q, state, nil
}
