// Package format renders currency amounts for reports and the web UI.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/overhang-risk/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Dollars returns a whole-dollar amount with separators (e.g., "$9,950", "-$1,200").
func Dollars(amount float64) string {
	rounded := mathutil.RoundDollars(amount)
	whole := printer.Sprintf("%d", int64(math.Abs(rounded)))
	if rounded < 0 {
		return "-$" + whole
	}
	return "$" + whole
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
