package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/filter"
	"github.com/prperemyshlev/user-service/internal/utils"
)

var customValidators = map[string]validator.Func{
	"filterfield": func(fl validator.FieldLevel) bool {
		_, ok := filter.ParseField(fl.Field().String())
		return ok
	},
	"filteroperator": func(fl validator.FieldLevel) bool {
		_, ok := filter.ParseOperator(fl.Field().String())
		return ok
	},
	"sortfield": func(fl validator.FieldLevel) bool {
		return domain.IsValidSortField(fl.Field().String())
	},
	"username": func(fl validator.FieldLevel) bool {
		return utils.ValidateUsername(utils.SanitizeUsername(fl.Field().String()))
	},
	"phone": func(fl validator.FieldLevel) bool {
		return utils.ValidatePhone(fl.Field().String())
	},
}

// RegisterValidators adds the request validation tags used by the dto package
// to gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	for tag, fn := range customValidators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}

	return nil
}

// validationDetails flattens validator errors into field -> failed tag
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return details
}
