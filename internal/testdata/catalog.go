// Package testdata supplies the values scenarios type into forms: default
// locations, random people and companies, phone numbers, e-mail addresses and
// deliberately invalid inputs for negative tests.
package testdata

import (
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/transportqa/suite/internal/config"
	"github.com/transportqa/suite/internal/datetime"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	firstNames      = []string{"Branislav", "Marek", "Jana", "Lucia", "Peter", "Martin"}
	lastNames       = []string{"Novak", "Kovac", "Horvath", "Sipos", "Mraz", "Kral"}
	companyPrefixes = []string{"Test", "Acme", "Global", "Prime", "Nova", "Blue"}
	companySuffixes = []string{"Logistics", "Solutions", "Industries", "Systems", "Group", "Labs"}
)

// Registration holds every required field of the registration form.
type Registration struct {
	Name    string
	Company string
	Phone   string
	Email   string
}

// Catalog generates form values. It is safe for concurrent use.
type Catalog struct {
	locations config.Locations
	carrierID string
	clock     datetime.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRand makes the catalog draw from r, for reproducible values in tests.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) {
		c.rng = r
	}
}

// WithClock sets the clock used for e-mail suffixes.
func WithClock(clock datetime.Clock) Option {
	return func(c *Catalog) {
		c.clock = clock
	}
}

// New creates a catalog using the locations and carrier of cfg.
func New(cfg config.Config, opts ...Option) *Catalog {
	c := &Catalog{
		locations: cfg.Locations,
		carrierID: cfg.CarrierID,
		clock:     datetime.SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.carrierID == "" {
		c.carrierID = config.DefaultCarrierID
	}
	return c
}

func (c *Catalog) PickupCity() string { return c.locations.Pickup.City }
func (c *Catalog) PickupCountry() string { return c.locations.Pickup.Country }
func (c *Catalog) DeliveryCity() string { return c.locations.Delivery.City }
func (c *Catalog) DeliveryCountry() string { return c.locations.Delivery.Country }

// CarrierID is the id attribute of the carrier checkbox to select.
func (c *Catalog) CarrierID() string { return c.carrierID }

// UniqueEmail returns an example.com address whose local part is the tail of
// the base-36 millisecond clock plus two random characters. Collisions are
// unlikely at test volumes but not impossible.
func (c *Catalog) UniqueEmail() string {
	ts := strconv.FormatInt(c.clock.Now().UnixMilli(), 36)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return "u" + ts + c.randomBase36(2) + "@example.com"
}

// SlovakPhoneNumber returns a mobile number in the +421 911 ddd ddd format.
func (c *Catalog) SlovakPhoneNumber() string {
	return "+421 911 " + c.phoneGroup() + " " + c.phoneGroup()
}

// InvalidEmail is rejected by the registration form's e-mail validation.
func (c *Catalog) InvalidEmail() string { return "invalid-email" }

// InvalidPhone has a Czech prefix and one digit too many.
func (c *Catalog) InvalidPhone() string { return "+420 911 123 4567" }

func (c *Catalog) RandomName() string {
	return c.pick(firstNames) + " " + c.pick(lastNames)
}

func (c *Catalog) RandomCompany() string {
	return c.pick(companyPrefixes) + " " + c.pick(companySuffixes)
}

// RandomPassword satisfies upper, lower, digit and symbol rules.
func (c *Catalog) RandomPassword() string {
	return "Aa1!" + c.randomBase36(8)
}

// Registration returns a complete, valid set of registration fields.
func (c *Catalog) Registration() Registration {
	return Registration{
		Name:    c.RandomName(),
		Company: c.RandomCompany(),
		Phone:   c.SlovakPhoneNumber(),
		Email:   c.UniqueEmail(),
	}
}

func (c *Catalog) phoneGroup() string {
	return strconv.Itoa(100 + c.intN(900))
}

func (c *Catalog) pick(values []string) string {
	return values[c.intN(len(values))]
}

func (c *Catalog) randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[c.intN(len(base36))]
	}
	return string(b)
}

func (c *Catalog) intN(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}
