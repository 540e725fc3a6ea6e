package fixtureapp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestValidateRegistration(t *testing.T) {
	app := newTestApp(t)
	valid := Registration{
		Name:          "Jana Nováková",
		Company:       "Tatra Logistics s.r.o.",
		Phone:         "+421 911 123 456",
		Email:         "jana@example.com",
		TermsAccepted: true,
	}

	tests := []struct {
		name   string
		modify func(r *Registration)
		want   FieldErrors
	}{
		{name: "valid", modify: func(r *Registration) {}},
		{
			name:   "missing name",
			modify: func(r *Registration) { r.Name = "" },
			want:   FieldErrors{"name": "Name is required."},
		},
		{
			name:   "empty email is required, not invalid",
			modify: func(r *Registration) { r.Email = "" },
			want:   FieldErrors{"email": "Email is required."},
		},
		{
			name:   "email without domain",
			modify: func(r *Registration) { r.Email = "invalid-email" },
			want:   FieldErrors{"email": "Email is not valid."},
		},
		{
			name:   "czech number",
			modify: func(r *Registration) { r.Phone = "+420 911 123 456" },
			want:   FieldErrors{"phoneNumber": "The phone number you entered is not valid."},
		},
		{
			name:   "too many digits",
			modify: func(r *Registration) { r.Phone = "+421 911 123 4567" },
			want:   FieldErrors{"phoneNumber": "The phone number you entered is not valid."},
		},
		{
			name: "terms and company",
			modify: func(r *Registration) {
				r.TermsAccepted = false
				r.Company = ""
			},
			want: FieldErrors{
				"company": "Company name is required.",
				"terms":   "You must agree to the Terms and conditions.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := valid
			tt.modify(&reg)

			got := app.validateRegistration(reg)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRegistration_SlovakMobileNumbersAccepted(t *testing.T) {
	app := newTestApp(t)

	rapid.Check(t, func(t *rapid.T) {
		groups := rapid.SliceOfN(rapid.IntRange(0, 999), 3, 3).Draw(t, "groups")
		sep := rapid.SampledFrom([]string{"", " "}).Draw(t, "sep")
		phone := fmt.Sprintf("+421%s%03d%s%03d%s%03d", sep, groups[0], sep, groups[1], sep, groups[2])

		errs := app.validateRegistration(Registration{
			Name:          "N",
			Company:       "C",
			Phone:         phone,
			Email:         "n@example.com",
			TermsAccepted: true,
		})
		if errs != nil {
			t.Fatalf("phone %q rejected: %v", phone, errs)
		}
	})
}
