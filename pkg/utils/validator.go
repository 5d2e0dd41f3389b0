package utils

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"marketplace-api/internal/domain/listing"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// A tag that fails to register panics on first use anyway; fail at
	// startup with a usable message instead.
	mustRegister("user_role", validateUserRole)
	mustRegister("listing_category", validateListingCategory)
	mustRegister("username", validateUsername)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %q validation: %v", tag, err))
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	return role == "user" || role == "admin"
}

func validateListingCategory(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	for _, valid := range listing.Categories {
		if category == valid {
			return true
		}
	}
	return false
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{2,30}$`)

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
