package fixtureapp

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Registration is the sign-up form. Form tags name the HTML inputs.
type Registration struct {
	Name          string `form:"name" validate:"required"`
	Company       string `form:"company" validate:"required"`
	Phone         string `form:"phoneNumber" validate:"required,skphone"`
	Email         string `form:"email" validate:"required,email"`
	TermsAccepted bool   `form:"terms" validate:"required"`
}

// FieldErrors maps a form input name to the message shown under it.
type FieldErrors map[string]string

var slovakPhone = regexp.MustCompile(`^\+421 ?\d{3} ?\d{3} ?\d{3}$`)

// messages are keyed by input name and then by the failing validation tag.
var messages = map[string]map[string]string{
	"name":        {"required": "Name is required."},
	"company":     {"required": "Company name is required."},
	"phoneNumber": {"required": "Phone number is required.", "skphone": "The phone number you entered is not valid."},
	"email":       {"required": "Email is required.", "email": "Email is not valid."},
	"terms":       {"required": "You must agree to the Terms and conditions."},
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	// Registration with a static tag name and func never fails.
	_ = v.RegisterValidation("skphone", func(fl validator.FieldLevel) bool {
		return slovakPhone.MatchString(fl.Field().String())
	})
	return v
}

// registrationFromRequest reads the posted sign-up form.
func registrationFromRequest(r *http.Request) Registration {
	return Registration{
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		Company:       strings.TrimSpace(r.PostFormValue("company")),
		Phone:         strings.TrimSpace(r.PostFormValue("phoneNumber")),
		Email:         strings.TrimSpace(r.PostFormValue("email")),
		TermsAccepted: r.PostFormValue("terms") != "",
	}
}

// validateRegistration returns nil when reg can be registered.
func (a *App) validateRegistration(reg Registration) FieldErrors {
	err := a.validate.Struct(reg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}
