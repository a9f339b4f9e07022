package httpserver

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator plugs go-playground/validator into echo's Context.Validate.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
