package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

type ProductColorRepository interface {
	GetByID(ctx context.Context, colorID string) (*models.ProductColor, error)
	GetForProduct(ctx context.Context, productID, colorID string) (*models.ProductColor, error)
	Create(ctx context.Context, color *models.ProductColor) error
	SetStock(ctx context.Context, colorID string, qty int) error
	AddImage(ctx context.Context, image *models.ProductImage) error
	// DecrementStock subtracts qty only while enough stock remains and
	// reports whether the row was updated.
	DecrementStock(ctx context.Context, tx *gorm.DB, colorID string, qty int) (bool, error)
}

type productColorRepository struct {
	db *gorm.DB
}

func NewProductColorRepository(db *gorm.DB) ProductColorRepository {
	return &productColorRepository{db: db}
}

func (r *productColorRepository) GetByID(ctx context.Context, colorID string) (*models.ProductColor, error) {
	var color models.ProductColor
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, created_at ASC") }).
		First(&color, "id = ?", colorID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &color, nil
}

func (r *productColorRepository) GetForProduct(ctx context.Context, productID, colorID string) (*models.ProductColor, error) {
	var color models.ProductColor
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, created_at ASC") }).
		Where("id = ? AND product_id = ?", colorID, productID).
		First(&color).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &color, nil
}

func (r *productColorRepository) Create(ctx context.Context, color *models.ProductColor) error {
	return r.db.WithContext(ctx).Create(color).Error
}

func (r *productColorRepository) SetStock(ctx context.Context, colorID string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.ProductColor{}).Where("id = ?", colorID).Update("qty", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productColorRepository) AddImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *productColorRepository) DecrementStock(ctx context.Context, tx *gorm.DB, colorID string, qty int) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductColor{}).
		Where("id = ? AND qty >= ?", colorID, qty).
		UpdateColumn("qty", gorm.Expr("qty - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
