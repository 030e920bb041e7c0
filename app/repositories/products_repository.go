package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

type ProductRepositoryImpl interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error)
	GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	UpdatePricing(ctx context.Context, id string, price decimal.Decimal, discount int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Colors.Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, created_at ASC") }).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Preload("Colors.Images").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (p *productRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Colors").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) UpdatePricing(ctx context.Context, id string, price decimal.Decimal, discount int) error {
	res := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"price": price, "discount": discount})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
