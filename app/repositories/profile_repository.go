package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error)
	MarkFirstOrderUsed(ctx context.Context, tx *gorm.DB, userID string) error
	// DeductPoints subtracts points only while the balance covers them.
	DeductPoints(ctx context.Context, tx *gorm.DB, userID string, points int64) (bool, error)
	AddPoints(ctx context.Context, tx *gorm.DB, userID string, points int64) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error) {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Profile{UserID: userID}).Error; err != nil {
		return nil, err
	}
	var profile models.Profile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) MarkFirstOrderUsed(ctx context.Context, tx *gorm.DB, userID string) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ? AND first_order_offer_used = ?", userID, false).
		Update("first_order_offer_used", true).Error
}

func (r *profileRepository) DeductPoints(ctx context.Context, tx *gorm.DB, userID string, points int64) (bool, error) {
	if points <= 0 {
		return true, nil
	}
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ? AND loyalty_points >= ?", userID, points).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points - ?", points))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *profileRepository) AddPoints(ctx context.Context, tx *gorm.DB, userID string, points int64) error {
	if points <= 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error
}
