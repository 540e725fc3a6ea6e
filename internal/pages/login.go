package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/transportqa/suite/internal/config"
)

// Login signs in through the login form. Callers obtain creds from
// config.Config.RequireCredentials so missing variables fail before this runs.
func Login(page playwright.Page, landing *LandingPage, creds config.Credentials) error {
	if _, err := page.Goto("/login"); err != nil {
		return fmt.Errorf("failed to navigate to login: %w", err)
	}
	if err := landing.FillEmail(creds.Email); err != nil {
		return err
	}
	if err := landing.FillPassword(creds.Password); err != nil {
		return err
	}
	if err := landing.SubmitLoginButton.Click(); err != nil {
		return fmt.Errorf("failed to click login: %w", err)
	}
	return nil
}
