package form

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance, set up once with the custom
// identifier and phone patterns.
var validate *validator.Validate

var (
	handleRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	phoneRe  = regexp.MustCompile(`^[0-9+-]+$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
}

// Register is the signup form. Valid() must hold before any registration
// request is issued.
type Register struct {
	UserID          string `validate:"required,handle,min=3,max=50"`
	UserName        string `validate:"required"`
	PhoneNumber     string `validate:"required,phone"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func (f Register) Validate() error { return validate.Struct(f) }

// Login is the signin form.
type Login struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (f Login) Validate() error { return validate.Struct(f) }

// Content gates tweet and reply bodies: required, at most 280 code points.
// validator's max counts runes for strings, matching the server limit.
type Content struct {
	Text string `validate:"required,max=280"`
}

func (f Content) Validate() error { return validate.Struct(f) }

// Valid reports whether err-free validation holds, for callers that only
// need the compound predicate.
func Valid(f interface{ Validate() error }) bool { return f.Validate() == nil }
