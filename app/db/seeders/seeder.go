package seeders

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/db/fakers"
	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
)

type Options struct {
	AdminEmail          string
	AdminPassword       string
	Customers           int
	ProductsPerCategory int
}

// DBSeed loads a demo catalog plus an admin and a few customers. Running it
// twice adds another batch of products; the admin is only created once.
func DBSeed(ctx context.Context, db *gorm.DB, opts Options, log *zap.Logger) error {
	users := repositories.NewUserRepository(db)
	categories := repositories.NewCategoryRepository(db)
	products := repositories.NewProductRepository(db)
	reviews := repositories.NewReviewRepository(db)

	existing, err := users.FindByEmail(ctx, opts.AdminEmail)
	if err != nil {
		return err
	}
	if existing == nil {
		hash, err := helpers.HashPassword(opts.AdminPassword)
		if err != nil {
			return err
		}
		admin := &models.User{Name: "Store Admin", Email: opts.AdminEmail, Password: hash, Role: models.RoleAdmin}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		log.Info("seeded admin user", zap.String("email", admin.Email))
	}

	customerHash, err := helpers.HashPassword("password123")
	if err != nil {
		return err
	}
	var customers []*models.User
	for i := 0; i < opts.Customers; i++ {
		user := fakers.UserFaker(customerHash)
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed customer: %w", err)
		}
		customers = append(customers, user)
	}

	for _, category := range fakers.CategoryFakers() {
		found, err := categories.GetAll(ctx)
		if err != nil {
			return err
		}
		if c := findCategory(found, category.Slug); c != nil {
			category = c
		} else if err := categories.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}

		for i := 0; i < opts.ProductsPerCategory; i++ {
			product := fakers.ProductFaker(category)
			if err := products.Create(ctx, product); err != nil {
				return fmt.Errorf("failed to seed product: %w", err)
			}
			if len(customers) > 0 {
				review := fakers.ReviewFaker(product.ID, customers[i%len(customers)].ID)
				if err := reviews.Create(ctx, review); err != nil {
					return fmt.Errorf("failed to seed review: %w", err)
				}
			}
		}
	}

	log.Info("seed complete",
		zap.Int("customers", len(customers)),
		zap.Int("products_per_category", opts.ProductsPerCategory),
	)
	return nil
}

func findCategory(categories []models.Category, slug string) *models.Category {
	for i := range categories {
		if categories[i].Slug == slug {
			return &categories[i]
		}
	}
	return nil
}
