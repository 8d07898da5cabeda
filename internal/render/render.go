package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/octobees/house-price-estimator/internal/estimator"
)

// Kind selects how a View is presented.
type Kind int

const (
	KindNone Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "none"
	}
}

// Fixed copy of the result panel.
const (
	Headline   = "Estimated Price"
	Disclaimer = "Model output; actual market price may vary."
	ErrorLabel = "Error:"
)

// View is the complete content of the result panel. Each new View replaces
// the previous one.
type View struct {
	Kind     Kind
	Headline string
	Value    string
	Note     string
	Label    string
	Message  string
}

// Formatter renders estimates for one locale.
type Formatter struct {
	printer  *message.Printer
	currency string
	unit     string
}

// NewFormatter builds a formatter. An unparsable locale falls back to en-IN.
func NewFormatter(locale, currency, unit string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("en-IN")
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: strings.TrimSpace(currency),
		unit:     strings.TrimSpace(unit),
	}
}

// Number groups digits per the locale and keeps at most two fraction digits.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Price decorates Number with the configured currency and unit.
func (f *Formatter) Price(v float64) string {
	parts := make([]string, 0, 3)
	if f.currency != "" {
		parts = append(parts, f.currency)
	}
	parts = append(parts, f.Number(v))
	if f.unit != "" {
		parts = append(parts, f.unit)
	}
	return strings.Join(parts, " ")
}

// Success renders a numeric estimate.
func (f *Formatter) Success(price float64) View {
	return View{
		Kind:     KindSuccess,
		Headline: Headline,
		Value:    f.Price(price),
		Note:     Disclaimer,
	}
}

// Failure renders msg with the error label. Markup is stripped from msg.
func Failure(msg string) View {
	return View{
		Kind:    KindError,
		Label:   ErrorLabel,
		Message: Sanitize(msg),
	}
}

// Outcome maps the result of Orchestrator.Submit to a View. Submissions that
// were not accepted render nothing.
func (f *Formatter) Outcome(est estimator.Estimate, err error) View {
	if err == nil {
		return f.Success(est.Price)
	}
	if errors.Is(err, estimator.ErrBusy) || errors.Is(err, estimator.ErrCatalogUnavailable) {
		return View{}
	}
	if se, ok := estimator.AsSubmitError(err); ok {
		return Failure(se.Message)
	}
	return Failure(err.Error())
}

// Text writes v as plain text.
func Text(w io.Writer, v View) error {
	var err error
	switch v.Kind {
	case KindSuccess:
		_, err = fmt.Fprintf(w, "%s\n%s\n%s\n", v.Headline, v.Value, v.Note)
	case KindError:
		_, err = fmt.Fprintf(w, "%s %s\n", v.Label, v.Message)
	}
	return err
}

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// Sanitize strips all markup from untrusted text and returns plain text;
// escaping is left to the output layer.
func Sanitize(raw string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(raw)))
}
