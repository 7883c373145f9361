package plants

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultSerialPattern matches Growatt inverter serial numbers.
const DefaultSerialPattern = `^[A-Z0-9]{10}$`

// SerialValidator checks the format of user-entered serial numbers.
type SerialValidator struct {
	v *validator.Validate
}

type serialInput struct {
	SerialNumber string `validate:"required,serialno"`
}

// NewSerialValidator compiles pattern (DefaultSerialPattern when empty).
func NewSerialValidator(pattern string) (*SerialValidator, error) {
	if pattern == "" {
		pattern = DefaultSerialPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("serial pattern: %w", err)
	}
	v := validator.New()
	if err := v.RegisterValidation("serialno", func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	return &SerialValidator{v: v}, nil
}

// Validate returns the trimmed serial or an ErrValidation error.
func (s *SerialValidator) Validate(serial string) (string, error) {
	in := serialInput{SerialNumber: strings.TrimSpace(serial)}
	if err := s.v.Struct(in); err != nil {
		return "", fmt.Errorf("%w: invalid serial number %q", ErrValidation, in.SerialNumber)
	}
	return in.SerialNumber, nil
}
