package admindashboard

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultCurrencySymbol = "₹"

// Formatter renders stat values for display.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

func NewFormatter(currencySymbol string, tag language.Tag) *Formatter {
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &Formatter{
		symbol:  currencySymbol,
		printer: message.NewPrinter(tag),
	}
}

// Revenue prints the amount with the currency symbol and locale digit grouping,
// e.g. "₹1,234,567.5".
func (f *Formatter) Revenue(amount float64) string {
	return f.symbol + f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(3)))
}

func (f *Formatter) Count(n int64) string {
	return strconv.FormatInt(n, 10)
}
