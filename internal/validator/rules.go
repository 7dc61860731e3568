package validator

import (
	"log"
	"regexp"

	"github.com/go-playground/validator/v10"

	"storefront_backend/internal/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// registerCustomRules регистрирует правила на основе перечислений из models
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-payment-method", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.PaymentMethod(s).Valid() })
	})
	mustRegister("is-order-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.OrderStatus(s).Valid() })
	})
	mustRegister("is-category-type", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, oneOf(string(models.CategoryTypeMain), string(models.CategoryTypeMaterial)))
	})
	mustRegister("is-category-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, oneOf(string(models.CategoryStatusActive), string(models.CategoryStatusInactive)))
	})
	mustRegister("is-product-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, oneOf(string(models.ProductStatusDraft), string(models.ProductStatusActive)))
	})
	mustRegister("is-publish-status", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, oneOf(string(models.PublishStatusDraft), string(models.PublishStatusPublished)))
	})
	mustRegister("is-blog-category", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, func(s string) bool { return models.BlogCategory(s).Valid() })
	})
	mustRegister("is-facet-key", func(fl validator.FieldLevel) bool {
		return models.FacetKey(fl.Field().String()).Valid()
	})
	mustRegister("is-sign-in-method", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, oneOf(string(models.SignInMethodGoogle), string(models.SignInMethodManual)))
	})
	mustRegister("is-slug", func(fl validator.FieldLevel) bool {
		return emptyOr(fl, slugPattern.MatchString)
	})
}

// emptyOr - пустые значения пропускаем, для них есть 'required'
func emptyOr(fl validator.FieldLevel, check func(string) bool) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return check(value)
}

func oneOf(allowed ...string) func(string) bool {
	return func(s string) bool {
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
		return false
	}
}
