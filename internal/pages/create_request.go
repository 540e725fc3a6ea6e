package pages

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

var (
	// RequestListURL matches the request list with or without a trailing slash.
	RequestListURL = regexp.MustCompile(`/request/list/?$`)
	// RequestViewURL matches the detail page of a single request.
	RequestViewURL = regexp.MustCompile(`/request/view/\d+$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// CreateRequestPage covers the request list and the new transport request wizard.
type CreateRequestPage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions

	NewRequestLink    playwright.Locator
	ContinueButton    playwright.Locator
	CarriersTab       playwright.Locator
	ReviewTab         playwright.Locator
	SendRequestButton playwright.Locator

	PickupTypePickupPointRadio playwright.Locator
	PickupEarliestDateInput    playwright.Locator
	PickupLatestDateInput      playwright.Locator
	PickupCityInput            playwright.Locator
	PickupCountryCombobox      playwright.Locator

	DeliveryLatestDateInput playwright.Locator
	DeliveryCityInput       playwright.Locator
	DeliveryCountryCombobox playwright.Locator
}

// NewCreateRequestPage creates the page object for page.
func NewCreateRequestPage(page playwright.Page, expect playwright.PlaywrightAssertions) *CreateRequestPage {
	datePickers := page.Locator(`[data-test-id="dp-input"]`)
	deliveryCountry := page.Locator(`[id="waypoints[1].country"]`).
		Or(page.GetByRole(*playwright.AriaRoleCombobox, playwright.PageGetByRoleOptions{Name: "Country*"}))
	return &CreateRequestPage{
		page:                       page,
		expect:                     expect,
		NewRequestLink:             page.GetByRole(*playwright.AriaRoleLink, playwright.PageGetByRoleOptions{Name: "+ New request"}),
		ContinueButton:             page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Continue"}),
		CarriersTab:                page.GetByRole(*playwright.AriaRoleTab, playwright.PageGetByRoleOptions{Name: "Carriers"}),
		ReviewTab:                  page.GetByRole(*playwright.AriaRoleTab, playwright.PageGetByRoleOptions{Name: "Review"}),
		SendRequestButton:          page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: regexp.MustCompile(`(?i)send\s+request`)}),
		PickupTypePickupPointRadio: page.GetByRole(*playwright.AriaRoleRadio, playwright.PageGetByRoleOptions{Name: "Pickup point"}).First(),
		PickupEarliestDateInput:    datePickers.First(),
		PickupLatestDateInput:      datePickers.Nth(1),
		PickupCityInput:            page.Locator(`[id="waypoints[0].city"]`),
		PickupCountryCombobox:      page.Locator(`[id="waypoints[0].country"]`),
		DeliveryLatestDateInput:    datePickers.Nth(3),
		DeliveryCityInput:          page.Locator(`[id="waypoints[1].city"]`),
		DeliveryCountryCombobox:    deliveryCountry,
	}
}

func (p *CreateRequestPage) GoToNewRequest() error {
	return click(p.NewRequestLink, "new request link")
}

func (p *CreateRequestPage) GoToCarriers() error {
	return click(p.CarriersTab, "carriers tab")
}

func (p *CreateRequestPage) GoToReview() error {
	return click(p.ReviewTab, "review tab")
}

func (p *CreateRequestPage) Continue() error {
	return click(p.ContinueButton, "continue")
}

func (p *CreateRequestPage) SendRequest() error {
	return click(p.SendRequestButton, "send request")
}

func (p *CreateRequestPage) SelectPickupTypePickupPoint() error {
	if err := p.PickupTypePickupPointRadio.Check(); err != nil {
		return fmt.Errorf("failed to select pickup point: %w", err)
	}
	return nil
}

// SetPickupWindow types both pickup timestamps and asserts the pickers kept them.
func (p *CreateRequestPage) SetPickupWindow(earliest, latest string) error {
	if err := fill(p.PickupEarliestDateInput, "earliest pickup date", earliest); err != nil {
		return err
	}
	if err := fill(p.PickupLatestDateInput, "latest pickup date", latest); err != nil {
		return err
	}
	if err := p.expect.Locator(p.PickupEarliestDateInput).ToHaveValue(earliest); err != nil {
		return fmt.Errorf("earliest pickup date not kept: %w", err)
	}
	if err := p.expect.Locator(p.PickupLatestDateInput).ToHaveValue(latest); err != nil {
		return fmt.Errorf("latest pickup date not kept: %w", err)
	}
	return nil
}

func (p *CreateRequestPage) FillPickupCity(city string) error {
	return fill(p.PickupCityInput, "pickup city", city)
}

func (p *CreateRequestPage) SelectPickupCountry(country string) error {
	return p.selectCountry(p.PickupCountryCombobox, "pickup", country)
}

// SetDeliveryLatestDate types the latest delivery timestamp and asserts it was kept.
func (p *CreateRequestPage) SetDeliveryLatestDate(latest string) error {
	if err := fill(p.DeliveryLatestDateInput, "latest delivery date", latest); err != nil {
		return err
	}
	if err := p.expect.Locator(p.DeliveryLatestDateInput).ToHaveValue(latest); err != nil {
		return fmt.Errorf("latest delivery date not kept: %w", err)
	}
	return nil
}

func (p *CreateRequestPage) FillDeliveryCity(city string) error {
	return fill(p.DeliveryCityInput, "delivery city", city)
}

func (p *CreateRequestPage) SelectDeliveryCountry(country string) error {
	return p.selectCountry(p.DeliveryCountryCombobox, "delivery", country)
}

// SelectCarrier ticks the carrier checkbox whose id is carrierID.
func (p *CreateRequestPage) SelectCarrier(carrierID string) error {
	if err := p.page.Locator(fmt.Sprintf(`[id=%q]`, carrierID)).Check(); err != nil {
		return fmt.Errorf("failed to select carrier %s: %w", carrierID, err)
	}
	return nil
}

// FirstRequestIDOnList returns the trimmed label of the newest request on the list.
func (p *CreateRequestPage) FirstRequestIDOnList() (string, error) {
	id := p.page.Locator("span.fs-5.fw-bold").First()
	if err := p.expect.Locator(id).ToBeVisible(); err != nil {
		return "", fmt.Errorf("request list is empty: %w", err)
	}
	content, err := id.TextContent()
	if err != nil {
		return "", fmt.Errorf("failed to read request id: %w", err)
	}
	return strings.TrimSpace(content), nil
}

// RequiredFieldErrors locates every "This field is required." message.
func (p *CreateRequestPage) RequiredFieldErrors() playwright.Locator {
	return p.page.GetByText("This field is required.")
}

// RequestNumber strips everything but digits from a request label such as "#1042".
func RequestNumber(label string) string {
	return nonDigits.ReplaceAllString(label, "")
}

func (p *CreateRequestPage) selectCountry(combobox playwright.Locator, waypoint, country string) error {
	if err := combobox.Click(); err != nil {
		return fmt.Errorf("failed to open %s country list: %w", waypoint, err)
	}
	option := p.page.GetByRole(*playwright.AriaRoleOption, playwright.PageGetByRoleOptions{Name: country})
	if err := option.Click(); err != nil {
		return fmt.Errorf("failed to choose %s country %q: %w", waypoint, country, err)
	}
	return nil
}

func click(loc playwright.Locator, what string) error {
	if err := loc.Click(); err != nil {
		return fmt.Errorf("failed to click %s: %w", what, err)
	}
	return nil
}
