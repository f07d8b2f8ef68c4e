// Package forms performs local field validation for the auth and product
// views. Validation errors never reach the network layer: a form that
// fails here produces no API call.
package forms

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/canineracks/inventory-console/apperrors"
)

// Validator wraps the struct validator shared by all forms.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the shared form validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// LoginForm is the login page submission.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterForm is the registration page submission.
type RegisterForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// VerifyCodeForm is the emailed-code confirmation. Codes are five
// uppercase letters.
type VerifyCodeForm struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=5,alpha,uppercase"`
}

// ResetPasswordForm sets a new password after code verification.
type ResetPasswordForm struct {
	Email       string `validate:"required,email"`
	Code        string `validate:"required,len=5,alpha,uppercase"`
	NewPassword string `validate:"required,min=8"`
}

// ValidateLogin checks a login submission.
func (v *Validator) ValidateLogin(f LoginForm) error {
	return v.wrap(v.validate.Struct(f))
}

// ValidateRegister checks a registration submission.
func (v *Validator) ValidateRegister(f RegisterForm) error {
	return v.wrap(v.validate.Struct(f))
}

// ValidateVerifyCode checks a code confirmation submission.
func (v *Validator) ValidateVerifyCode(f VerifyCodeForm) error {
	return v.wrap(v.validate.Struct(f))
}

// ValidateResetPassword checks a password reset submission.
func (v *Validator) ValidateResetPassword(f ResetPasswordForm) error {
	return v.wrap(v.validate.Struct(f))
}

// wrap converts validator failures into the application's validation
// error, keyed per field.
func (v *Validator) wrap(err error) error {
	if err == nil {
		return nil
	}

	fields := make(map[string][]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			fields[name] = append(fields[name], messageFor(fe))
		}
		return apperrors.Validation("Please fill in all required fields.", fields)
	}
	return apperrors.Validation("Invalid input.", nil)
}

// messageFor renders one rule failure as a short display message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + fe.Param() + " characters."
	case "len":
		return "Must be exactly " + fe.Param() + " characters."
	case "alpha":
		return "Letters only."
	case "uppercase":
		return "Uppercase letters only."
	case "gte":
		return "Must be " + fe.Param() + " or more."
	case "gt":
		return "Must be greater than " + fe.Param() + "."
	case "datetime":
		return "Enter a date as YYYY-MM-DD."
	default:
		return "Invalid value."
	}
}
