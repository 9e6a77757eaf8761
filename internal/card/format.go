package card

import (
	"strconv"
	"strings"
	"time"
)

// Placeholder stands in for any value the order does not carry.
const Placeholder = "–"

const currencySymbol = "₹"

// FormatDate turns "YYYY-MM-DD" into "DD-Mon-YY". Input that is not three
// numeric segments naming a real calendar day is returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return Placeholder
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return s
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 {
		return s
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return s
	}

	return t.Format("02-Jan-06")
}

func FormatPrice(price string) string {
	if price == "" {
		return Placeholder
	}
	return currencySymbol + price
}
