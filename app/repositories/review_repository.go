package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.ProductReview) error
	ListByProduct(ctx context.Context, productID string) ([]models.ProductReview, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
