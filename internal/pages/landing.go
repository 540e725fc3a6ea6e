// Package pages holds the page objects the scenarios drive: one type per
// screen of the application, exposing its locators and the actions a user
// performs on it.
package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/transportqa/suite/internal/testdata"
)

// RegisterURL matches the registration page with or without a trailing slash.
var RegisterURL = regexp.MustCompile(`/register/?$`)

// LandingPage is the registration form. It also hosts the login form fields.
type LandingPage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions

	NameInput         playwright.Locator
	CompanyNameInput  playwright.Locator
	PhoneNumberInput  playwright.Locator
	EmailInput        playwright.Locator
	TermsCheckbox     playwright.Locator
	SubmitButton      playwright.Locator
	PasswordInput     playwright.Locator
	SubmitLoginButton playwright.Locator
}

// NewLandingPage creates the page object for page.
func NewLandingPage(page playwright.Page, expect playwright.PlaywrightAssertions) *LandingPage {
	return &LandingPage{
		page:              page,
		expect:            expect,
		NameInput:         page.Locator("#name"),
		CompanyNameInput:  page.Locator("#company"),
		PhoneNumberInput:  page.Locator("#phoneNumber"),
		EmailInput:        page.Locator("#email"),
		TermsCheckbox:     page.GetByRole(*playwright.AriaRoleCheckbox, playwright.PageGetByRoleOptions{Name: "I agree with Terms and"}),
		SubmitButton:      page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Register"}),
		PasswordInput:     page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{Name: "Password*"}),
		SubmitLoginButton: page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Login"}),
	}
}

// Goto opens the registration page.
func (p *LandingPage) Goto() error {
	if _, err := p.page.Goto("/register"); err != nil {
		return fmt.Errorf("failed to open registration page: %w", err)
	}
	return nil
}

// WaitUntilLoaded waits for the registration URL and the first form fields.
func (p *LandingPage) WaitUntilLoaded() error {
	if err := p.page.WaitForURL(RegisterURL); err != nil {
		return fmt.Errorf("registration page did not load: %w", err)
	}
	visible := playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}
	if err := p.NameInput.WaitFor(visible); err != nil {
		return fmt.Errorf("name input not visible: %w", err)
	}
	if err := p.CompanyNameInput.WaitFor(visible); err != nil {
		return fmt.Errorf("company name input not visible: %w", err)
	}
	return nil
}

func (p *LandingPage) FillName(name string) error {
	return fill(p.NameInput, "name", name)
}

func (p *LandingPage) FillCompanyName(company string) error {
	return fill(p.CompanyNameInput, "company name", company)
}

func (p *LandingPage) FillPhoneNumber(phone string) error {
	return fill(p.PhoneNumberInput, "phone number", phone)
}

func (p *LandingPage) FillEmail(email string) error {
	return fill(p.EmailInput, "email", email)
}

func (p *LandingPage) FillPassword(password string) error {
	return fill(p.PasswordInput, "password", password)
}

// AcceptTerms ticks the terms and conditions checkbox.
func (p *LandingPage) AcceptTerms() error {
	if err := p.TermsCheckbox.Check(); err != nil {
		return fmt.Errorf("failed to accept terms: %w", err)
	}
	return nil
}

// FillRequiredFields fills every required field from reg and accepts the terms.
func (p *LandingPage) FillRequiredFields(reg testdata.Registration) error {
	steps := []func() error{
		func() error { return p.FillName(reg.Name) },
		func() error { return p.FillCompanyName(reg.Company) },
		func() error { return p.FillPhoneNumber(reg.Phone) },
		func() error { return p.FillEmail(reg.Email) },
		p.AcceptTerms,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// SubmitForm waits for the Register button and clicks it.
func (p *LandingPage) SubmitForm() error {
	if err := p.SubmitButton.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		return fmt.Errorf("register button not visible: %w", err)
	}
	if err := p.SubmitButton.Click(); err != nil {
		return fmt.Errorf("failed to click register: %w", err)
	}
	return nil
}

// ExpectError asserts that a visible message inside the form matches pattern.
func (p *LandingPage) ExpectError(pattern *regexp.Regexp) error {
	msg := p.page.Locator("form").GetByText(pattern).First()
	if err := p.expect.Locator(msg).ToBeVisible(); err != nil {
		return fmt.Errorf("no visible message matching %s: %w", pattern, err)
	}
	return nil
}

// ExpectStillOnRegister asserts the browser did not leave the registration page.
func (p *LandingPage) ExpectStillOnRegister() error {
	if err := p.expect.Page(p.page).ToHaveURL(RegisterURL); err != nil {
		return fmt.Errorf("left the registration page: %w", err)
	}
	return nil
}

func fill(loc playwright.Locator, field, value string) error {
	if err := loc.Fill(value); err != nil {
		return fmt.Errorf("failed to fill %s: %w", field, err)
	}
	return nil
}
