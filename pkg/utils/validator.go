package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Only the data-URI header is checked; the base64 body is never decoded here,
// so a malformed payload with a correct prefix passes and fails at the media
// host instead.
const jpegDataURIPrefix = "data:image/jpeg;base64,"

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("image_data_uri", validateImageDataURI)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func validateImageDataURI(fl validator.FieldLevel) bool {
	return strings.HasPrefix(fl.Field().String(), jpegDataURIPrefix)
}
