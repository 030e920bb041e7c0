package fakers

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
)

var (
	categoryNames = []string{"Shirts", "Sarees", "Kurtas", "Footwear", "Accessories"}
	colorNames    = []string{"Black", "White", "Red", "Navy", "Olive", "Maroon"}
	imagePaths    = []string{
		"/images/products/ss.jpg",
		"/images/products/ss1.jpg",
		"/images/products/ss2.jpg",
	}
)

func CategoryFakers() []*models.Category {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, &models.Category{
			ID:    uuid.New().String(),
			Name:  name,
			Slug:  slug.Make(name),
			Image: "/images/categories/" + slug.Make(name) + ".jpg",
		})
	}
	return categories
}

// ProductFaker builds a product in category with one to three colors, each
// with stock and images. Prices are whole rupees with the discount applied.
func ProductFaker(category *models.Category) *models.Product {
	name := faker.Word() + " " + faker.Word()
	listPrice := decimal.NewFromInt(int64(rand.Intn(4900) + 100))
	discount := []int{0, 0, 5, 10, 20, 30}[rand.Intn(6)]

	product := &models.Product{
		ID:         uuid.New().String(),
		CategoryID: category.ID,
		Name:       name,
		Slug:       slug.Make(name + "-" + uuid.NewString()[:6]),
		Price:      calc.DiscountedPrice(listPrice, discount),
		Discount:   discount,
	}

	perm := rand.Perm(len(colorNames))
	numColors := rand.Intn(3) + 1
	for i := 0; i < numColors; i++ {
		color := models.ProductColor{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Color:     colorNames[perm[i]],
			Qty:       rand.Intn(20) + 1,
		}
		numImages := rand.Intn(len(imagePaths)) + 1
		for pos := 0; pos < numImages; pos++ {
			color.Images = append(color.Images, models.ProductImage{
				ID:       uuid.New().String(),
				ColorID:  color.ID,
				Path:     imagePaths[rand.Intn(len(imagePaths))],
				Position: pos,
			})
		}
		product.Colors = append(product.Colors, color)
	}
	return product
}

func ReviewFaker(productID, userID string) *models.ProductReview {
	body := faker.Sentence()
	if len(body) > 256 {
		body = body[:256]
	}
	return &models.ProductReview{ProductID: productID, UserID: userID, Body: body}
}
