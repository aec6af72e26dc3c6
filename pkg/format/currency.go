// Package format renders report figures as locale-aware display strings.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats currency, percentages and ROI figures for one locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
	locale  string
}

// NewFormatter builds a Formatter for a BCP 47 locale (e.g. "en-PH") and a
// currency symbol (e.g. "PHP"). Empty values fall back to the defaults.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = constants.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol, locale: tag.String()}, nil
}

// Default returns a Formatter for the default locale and currency.
func Default() *Formatter {
	f, err := NewFormatter(constants.DefaultLocale, constants.DefaultCurrencySymbol)
	if err != nil {
		panic(fmt.Sprintf("default formatter: %v", err))
	}
	return f
}

// Locale returns the canonical locale tag in use.
func (f *Formatter) Locale() string {
	return f.locale
}

// Symbol returns the currency symbol in use.
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Currency returns an amount with the currency symbol, grouping separators and
// two decimals (e.g., "PHP 1,234.56", "-PHP 1,234.56").
func (f *Formatter) Currency(amount float64) string {
	return f.withSymbol(amount, 2)
}

// WholeCurrency returns an amount rounded to whole units (e.g., "PHP 250,000").
func (f *Formatter) WholeCurrency(amount float64) string {
	return f.withSymbol(amount, 0)
}

// NumericCurrency returns an amount with separators but without a symbol.
func (f *Formatter) NumericCurrency(amount float64) string {
	sign, abs := split(amount, 2)
	return sign + f.printer.Sprintf("%.2f", abs)
}

// Percent renders a fraction as a percentage with one decimal (0.25 -> "25.0%").
func (f *Formatter) Percent(fraction float64) string {
	return f.printer.Sprintf("%.1f%%", fraction*constants.PercentageMultiplier)
}

// ROI renders a payback estimate in months, or N/A when undefined.
func (f *Formatter) ROI(roi optimization.ROI) string {
	if !roi.Defined {
		return constants.NotAvailable
	}
	return f.printer.Sprintf("%.2f months", roi.Months)
}

func (f *Formatter) withSymbol(amount float64, decimals int) string {
	sign, abs := split(amount, decimals)
	return sign + f.symbol + " " + f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), abs)
}

// split separates the sign so that values which round to zero never print as "-0".
func split(amount float64, decimals int) (string, float64) {
	abs := math.Abs(amount)
	scale := math.Pow(10, float64(decimals))
	if amount < 0 && math.Round(abs*scale) != 0 {
		return "-", abs
	}
	return "", abs
}
