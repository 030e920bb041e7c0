package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
)

type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	productRepo  repositories.ProductRepositoryImpl
}

func NewWishlistService(wishlistRepo repositories.WishlistRepository, productRepo repositories.ProductRepositoryImpl) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// Add is a no-op when the product is already on the list.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load wishlist: %w", err)
	}
	if err := s.wishlistRepo.AddItem(ctx, wishlist.ID, productID); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// Remove is a no-op when the product is not on the list.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load wishlist: %w", err)
	}
	if err := s.wishlistRepo.RemoveItem(ctx, wishlist.ID, productID); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return s.wishlistRepo.ListItems(ctx, wishlist.ID)
}
