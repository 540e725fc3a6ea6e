package datetime

import (
	"time"

	"github.com/rickar/cal/v2"
)

// carrierHolidays are the public holidays of the default pickup (Slovakia)
// and delivery (Czechia) countries. Carriers do not collect on any of them.
var carrierHolidays = []*cal.Holiday{
	fixedHoliday("New Year's Day", time.January, 1),
	fixedHoliday("Epiphany", time.January, 6),
	{Name: "Good Friday", Type: cal.ObservancePublic, Offset: -2, Func: cal.CalcEasterOffset},
	{Name: "Easter Monday", Type: cal.ObservancePublic, Offset: 1, Func: cal.CalcEasterOffset},
	fixedHoliday("Labour Day", time.May, 1),
	fixedHoliday("Victory Day", time.May, 8),
	fixedHoliday("Saints Cyril and Methodius Day", time.July, 5),
	fixedHoliday("Jan Hus Day", time.July, 6),
	fixedHoliday("Slovak National Uprising Anniversary", time.August, 29),
	{Name: "Constitution Day", Type: cal.ObservancePublic, Month: time.September, Day: 1, Func: cal.CalcDayOfMonth, EndYear: 2023},
	fixedHoliday("Our Lady of Seven Sorrows", time.September, 15),
	fixedHoliday("St. Wenceslas Day", time.September, 28),
	fixedHoliday("Independent Czechoslovak State Day", time.October, 28),
	fixedHoliday("All Saints' Day", time.November, 1),
	fixedHoliday("Struggle for Freedom and Democracy Day", time.November, 17),
	fixedHoliday("Christmas Eve", time.December, 24),
	fixedHoliday("Christmas Day", time.December, 25),
	fixedHoliday("St. Stephen's Day", time.December, 26),
}

func fixedHoliday(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Day:   day,
		Func:  cal.CalcDayOfMonth,
	}
}

// NewCarrierCalendar returns a Monday to Friday calendar without carrier holidays.
func NewCarrierCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.SetWorkday(time.Saturday, false)
	c.SetWorkday(time.Sunday, false)
	c.AddHoliday(carrierHolidays...)
	return c
}
