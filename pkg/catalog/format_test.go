package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0₫"},
		{500, "500₫"},
		{50000, "50.000₫"},
		{1250000, "1.250.000₫"},
		{100000000, "100.000.000₫"},
		{-45000, "-45.000₫"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.amount))
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"rfc3339_utc", "2024-01-15T08:30:00Z", "15 thg 1, 2024 08:30"},
		{"rfc3339_fraction", "2024-03-02T17:05:09.123Z", "2 thg 3, 2024 17:05"},
		{"keeps_offset", "2024-01-15T08:30:00+07:00", "15 thg 1, 2024 08:30"},
		{"sql_timestamp", "2024-12-31 23:59:00", "31 thg 12, 2024 23:59"},
		{"date_only", "2024-06-01", "1 thg 6, 2024 00:00"},
		{"empty", "", NotAvailable},
		{"blank", "   ", NotAvailable},
		{"unparsable", "last tuesday", "last tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.value))
		})
	}
}

func TestFormatDateStyle_LongMonth(t *testing.T) {
	assert.Equal(t, "15 tháng 1, 2024 08:30", FormatDateStyle("2024-01-15T08:30:00Z", MonthLong))
	assert.Equal(t, NotAvailable, FormatDateStyle("", MonthLong))
}
