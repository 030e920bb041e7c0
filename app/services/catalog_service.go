package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
)

type CatalogService struct {
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	colorRepo    repositories.ProductColorRepository
	reviewRepo   repositories.ReviewRepository
}

func NewCatalogService(
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	colorRepo repositories.ProductColorRepository,
	reviewRepo repositories.ReviewRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		colorRepo:    colorRepo,
		reviewRepo:   reviewRepo,
	}
}

type ProductInput struct {
	CategoryID string          `json:"category_id" validate:"required"`
	Name       string          `json:"name" validate:"required,max=255"`
	ListPrice  decimal.Decimal `json:"list_price"`
	Discount   int             `json:"discount" validate:"gte=0,lte=100"`
}

type ProductDetail struct {
	*models.Product
	OriginalPrice decimal.Decimal `json:"original_price"`
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, image string) (*models.Category, error) {
	category := &models.Category{Name: name, Slug: helpers.GenerateSlug(name), Image: image}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) CategoryProducts(ctx context.Context, categoryID string) (*models.Category, []models.Product, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, ErrCategoryNotFound
	}
	products, err := s.productRepo.GetByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	return category, products, nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return &ProductDetail{Product: product, OriginalPrice: product.OriginalPrice()}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	return s.productRepo.GetPaginated(ctx, limit, offset)
}

// CreateProduct stores the discounted price computed from the list price.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.ListPrice.IsNegative() {
		return nil, NewValidationError(map[string]string{"list_price": "ListPrice must not be negative."})
	}
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	product := &models.Product{
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Slug:       helpers.GenerateSlug(in.Name),
		Price:      calc.DiscountedPrice(in.ListPrice, in.Discount),
		Discount:   in.Discount,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Reprice replaces the list price and discount of a product. Cart lines
// already holding the old price keep it.
func (s *CatalogService) Reprice(ctx context.Context, productID string, listPrice decimal.Decimal, discount int) (*models.Product, error) {
	if listPrice.IsNegative() || discount < 0 || discount > 100 {
		return nil, NewValidationError(map[string]string{"discount": "Discount must be between 0 and 100 and price not negative."})
	}
	price := calc.DiscountedPrice(listPrice, discount)
	if err := s.productRepo.UpdatePricing(ctx, productID, price, discount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.productRepo.GetByID(ctx, productID)
}

func (s *CatalogService) AddColor(ctx context.Context, productID, color string, qty int) (*models.ProductColor, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	pc := &models.ProductColor{ProductID: productID, Color: color, Qty: qty}
	if err := s.colorRepo.Create(ctx, pc); err != nil {
		return nil, fmt.Errorf("failed to create color: %w", err)
	}
	return pc, nil
}

func (s *CatalogService) SetStock(ctx context.Context, colorID string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if err := s.colorRepo.SetStock(ctx, colorID, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColorNotFound
		}
		return err
	}
	return nil
}

func (s *CatalogService) AddImage(ctx context.Context, colorID, path string, position int) (*models.ProductImage, error) {
	color, err := s.colorRepo.GetByID(ctx, colorID)
	if err != nil {
		return nil, err
	}
	if color == nil {
		return nil, ErrColorNotFound
	}
	image := &models.ProductImage{ColorID: colorID, Path: path, Position: position}
	if err := s.colorRepo.AddImage(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}
	return image, nil
}

func (s *CatalogService) Reviews(ctx context.Context, productID string) ([]models.ProductReview, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}

func (s *CatalogService) AddReview(ctx context.Context, userID, productID, body, image string) (*models.ProductReview, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	review := &models.ProductReview{ProductID: productID, UserID: userID, Body: body, Image: image}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}
