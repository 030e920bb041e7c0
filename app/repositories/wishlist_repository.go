package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

type WishlistRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Wishlist, error)
	AddItem(ctx context.Context, wishlistID, productID string) error
	RemoveItem(ctx context.Context, wishlistID, productID string) error
	ListItems(ctx context.Context, wishlistID string) ([]models.WishlistItem, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) GetOrCreate(ctx context.Context, userID string) (*models.Wishlist, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Wishlist{UserID: userID}).Error; err != nil {
		return nil, err
	}
	var wishlist models.Wishlist
	if err := db.First(&wishlist, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// AddItem relies on the (wishlist, product) unique index; a second add is
// silently ignored.
func (r *wishlistRepository) AddItem(ctx context.Context, wishlistID, productID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WishlistItem{WishlistID: wishlistID, ProductID: productID}).Error
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID string) error {
	return r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{}).Error
}

func (r *wishlistRepository) ListItems(ctx context.Context, wishlistID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product.Colors.Images").
		Where("wishlist_id = ?", wishlistID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
