package catalog

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol follows the amount, as in 50.000₫.
const CurrencySymbol = "₫"

// NotAvailable is shown for missing values.
const NotAvailable = "N/A"

// MonthStyle picks the vi-VN month label: "thg 1" or "tháng 1".
type MonthStyle int

const (
	MonthShort MonthStyle = iota
	MonthLong
)

var vietnamese = message.NewPrinter(language.Vietnamese)

var dateInputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatPrice formats an amount in dong with vi-VN digit grouping.
func FormatPrice(amount int64) string {
	return vietnamese.Sprintf("%d", amount) + CurrencySymbol
}

// FormatDate renders a backend timestamp as "15 thg 1, 2024 08:30". The
// timestamp keeps its own offset. Empty input gives N/A and input that cannot
// be parsed is returned unchanged.
func FormatDate(value string) string {
	return FormatDateStyle(value, MonthShort)
}

// FormatDateStyle is FormatDate with a choice of month label.
func FormatDateStyle(value string, style MonthStyle) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return NotAvailable
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return formatVietnameseDate(t, style)
		}
	}
	return value
}

// Years are written without grouping, so this does not go through the
// number printer.
func formatVietnameseDate(t time.Time, style MonthStyle) string {
	month := "thg"
	if style == MonthLong {
		month = "tháng"
	}
	return fmt.Sprintf("%d %s %d, %d %s", t.Day(), month, int(t.Month()), t.Year(), t.Format("15:04"))
}
