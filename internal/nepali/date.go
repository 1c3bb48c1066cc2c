// Package nepali converts between Gregorian and Bikram Sambat (BS)
// dates using a fixed-offset approximation and handles Devanagari
// digit formatting. Dates are carried as YYYY-MM-DD strings in the
// BS calendar throughout the application.
package nepali

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Months of the BS calendar.
var Months = []string{
	"बैशाख", "जेठ", "आषाढ", "श्रावण", "भाद्र", "आश्विन",
	"कार्तिक", "मंसिर", "पौष", "माघ", "फाल्गुन", "चैत्र",
}

// Days of the week.
var Days = []string{
	"आइतबार", "सोमबार", "मंगलबार", "बुधबार", "बिहिबार", "शुक्रबार", "शनिबार",
}

const (
	englishDigits = "0123456789"
	nepaliDigits  = "०१२३४५६७८९"
)

// Date is a Bikram Sambat calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// FromGregorian approximates the BS date for a Gregorian date by
// shifting roughly 56 years 8 months. Exact conversion needs a
// per-year day table; the approximation is what the billing records
// have always used.
func FromGregorian(t time.Time) Date {
	m := int(t.Month()) - 1
	return Date{
		Year:  t.Year() + 57,
		Month: ((m + 8) % 12) + 1,
		Day:   t.Day(),
	}
}

// ToGregorian is the inverse approximation.
func (d Date) ToGregorian() time.Time {
	m := (d.Month + 3) % 12
	return time.Date(d.Year-57, time.Month(m+1), d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthName returns the BS month name.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return Months[d.Month-1]
}

// Valid reports whether the date is inside the supported BS range.
// Month lengths vary per year in the BS calendar; day is only bounded
// at 32 here, matching the entry forms.
func (d Date) Valid() bool {
	if d.Year < 2000 || d.Year > 2200 {
		return false
	}
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	if d.Day < 1 || d.Day > 32 {
		return false
	}
	return true
}

// Parse reads a YYYY-MM-DD BS date string.
func Parse(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid BS date %q: want YYYY-MM-DD", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("invalid BS date %q: %w", s, err)
		}
		nums[i] = n
	}

	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !d.Valid() {
		return Date{}, fmt.Errorf("BS date %q out of range", s)
	}
	return d, nil
}

// Today returns the current BS date.
func Today() Date {
	return FromGregorian(time.Now())
}

// ToNepaliDigits converts ASCII digits in s to Devanagari.
func ToNepaliDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if i := strings.IndexRune(englishDigits, r); i >= 0 {
			b.WriteString(string([]rune(nepaliDigits)[i]))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToEnglishDigits converts Devanagari digits in s to ASCII.
func ToEnglishDigits(s string) string {
	digits := []rune(nepaliDigits)
	var b strings.Builder
	for _, r := range s {
		idx := -1
		for i, d := range digits {
			if d == r {
				idx = i
				break
			}
		}
		if idx >= 0 {
			b.WriteByte(englishDigits[idx])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatBilingual renders a Gregorian date with its BS equivalent,
// e.g. "15/01/2025 (२०८१/९/१५ बि.स.)".
func FormatBilingual(t time.Time) string {
	bs := FromGregorian(t)
	nep := fmt.Sprintf("%s/%s/%s",
		ToNepaliDigits(strconv.Itoa(bs.Year)),
		ToNepaliDigits(strconv.Itoa(bs.Month)),
		ToNepaliDigits(strconv.Itoa(bs.Day)))
	return fmt.Sprintf("%s (%s बि.स.)", t.Format("02/01/2006"), nep)
}
