package fakers

import (
	"strings"

	"github.com/go-faker/faker/v4"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

func UserFaker(passwordHash string) *models.User {
	return &models.User{
		Name:     faker.FirstName() + " " + faker.LastName(),
		Email:    strings.ToLower(faker.Email()),
		Password: passwordHash,
		Role:     models.RoleCustomer,
	}
}
