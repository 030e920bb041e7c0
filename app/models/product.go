package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
)

// Product.Price always holds the discounted price. The catalog service applies
// the discount when a price is written; reads never touch it.
type Product struct {
	ID         string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CategoryID string          `gorm:"size:36;index;not null" json:"category_id"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Slug       string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Discount   int             `gorm:"not null;default:0" json:"discount"`
	Colors     []ProductColor  `json:"colors,omitempty"`
	Reviews    []ProductReview `json:"reviews,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// OriginalPrice recovers the list price from the stored discounted price.
func (p *Product) OriginalPrice() decimal.Decimal {
	return calc.OriginalPrice(p.Price, p.Discount)
}

type ProductColor struct {
	ID        string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string         `gorm:"size:36;index;not null" json:"product_id"`
	Product   *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Color     string         `gorm:"size:50;not null" json:"color"`
	Qty       int            `gorm:"not null;default:0" json:"qty"`
	Images    []ProductImage `gorm:"foreignKey:ColorID" json:"images,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (pc *ProductColor) BeforeCreate(tx *gorm.DB) (err error) {
	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	return
}

// FirstImage is the representative image captured into cart lines.
func (pc *ProductColor) FirstImage() string {
	if len(pc.Images) == 0 {
		return ""
	}
	return pc.Images[0].Path
}

type ProductImage struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ColorID   string    `gorm:"size:36;index;not null" json:"color_id"`
	Path      string    `gorm:"size:255;not null" json:"path"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}

type ProductReview struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string    `gorm:"size:36;index;not null" json:"product_id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body      string    `gorm:"size:256;not null" json:"body"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *ProductReview) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
