package model

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	NotAvailable = "N/A"
	Dash         = "—"
)

func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

// Truncate shortens s to max runes followed by "...", or returns a dash for empty input.
func Truncate(s string, max int) string {
	if s == "" {
		return Dash
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

func SponsorshipLevelLabel(level string) string {
	if level == "" {
		return Dash
	}
	return Capitalize(level)
}

var availabilityLabels = map[string]string{
	"full-event":    "Full Event",
	"day-1":         "Day 1",
	"day-2":         "Day 2",
	"day-3":         "Day 3",
	"multiple-days": "Multiple Days",
	"flexible":      "Flexible",
}

func AvailabilityLabel(code string) string {
	if code == "" {
		return Dash
	}
	if label, ok := availabilityLabels[code]; ok {
		return label
	}
	return code
}

// Money renders a price the way the listing pages do: whole numbers without decimals.
func Money(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', -1, 64)
}

func PriceLabel(price float64) string {
	if price == 0 {
		return "Free"
	}
	return Money(price)
}

func TicketPriceLabel(price float64) string {
	if price == 0 {
		return "Free"
	}
	return Money(price) + " per ticket"
}

// DateRangeLabel renders "January 2, 2006 @ 9:00 AM - January 3, 2006 @ 5:00 PM".
func DateRangeLabel(start, end Instant, startTime, endTime string) string {
	if !start.Valid {
		return ""
	}
	label := start.Time.Format("January 2, 2006")
	if startTime != "" {
		label += " @ " + startTime
	}
	if end.Valid && !end.Time.Equal(start.Time) {
		label += " - " + end.Time.Format("January 2, 2006")
		if endTime != "" {
			label += " @ " + endTime
		}
	} else if endTime != "" && endTime != startTime {
		label += " - " + endTime
	}
	return label
}

// ShortDateLabel renders "January 2 @ 9:00 AM" as used on the listing page.
func ShortDateLabel(date Instant, at string) string {
	if !date.Valid {
		return ""
	}
	label := date.Time.Format("January 2")
	if at != "" {
		label += " @ " + at
	}
	return label
}

// TruncateText cuts text to max runes and appends an ellipsis.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

func DateLabel(i Instant) string {
	return i.Format("2006-01-02", NotAvailable)
}

func DateTimeLabel(i Instant) string {
	return i.Format("2006-01-02 15:04", NotAvailable)
}

// DisplayName derives a greeting name from an email's local part.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Admin"
	}
	return Capitalize(local)
}

func FormDate(i Instant) string {
	return i.Format(time.DateOnly, "")
}

var moneyPrinter = message.NewPrinter(language.English)

// GroupedMoney renders a price with thousands separators, "$1,200".
func GroupedMoney(amount float64) string {
	return moneyPrinter.Sprintf("$%v", number.Decimal(amount, number.MaxFractionDigits(2)))
}
