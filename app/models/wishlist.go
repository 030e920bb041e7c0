package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wishlist struct {
	ID        string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string         `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	Items     []WishlistItem `json:"items,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (w *Wishlist) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

type WishlistItem struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	WishlistID string    `gorm:"size:36;not null;uniqueIndex:idx_wishlist_product" json:"wishlist_id"`
	ProductID  string    `gorm:"size:36;not null;uniqueIndex:idx_wishlist_product" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (wi *WishlistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if wi.ID == "" {
		wi.ID = uuid.New().String()
	}
	return
}
