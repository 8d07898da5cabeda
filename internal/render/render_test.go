package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/octobees/house-price-estimator/internal/estimator"
)

func TestFormatterNumber(t *testing.T) {
	f := NewFormatter("en-IN", "₹", "Lakhs")
	tests := map[float64]string{
		83.5:      "83.5",
		83:        "83",
		83.456:    "83.46",
		1234.5:    "1,234.5",
		123456.78: "1,23,456.78",
		10000000:  "1,00,00,000",
		100.001:   "100",
	}
	for in, want := range tests {
		if got := f.Number(in); got != want {
			t.Fatalf("Number(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatterPrice(t *testing.T) {
	f := NewFormatter("en-IN", "₹", "Lakhs")
	if got := f.Price(83.5); got != "₹ 83.5 Lakhs" {
		t.Fatalf("unexpected price %q", got)
	}

	bare := NewFormatter("not a locale!!", "", "")
	if got := bare.Price(83.5); got != "83.5" {
		t.Fatalf("unexpected bare price %q", got)
	}
}

func TestOutcome(t *testing.T) {
	f := NewFormatter("en-IN", "₹", "Lakhs")

	tests := map[string]struct {
		est  estimator.Estimate
		err  error
		want View
	}{
		"success": {
			est: estimator.Estimate{Price: 83.5},
			want: View{
				Kind:     KindSuccess,
				Headline: Headline,
				Value:    "₹ 83.5 Lakhs",
				Note:     Disclaimer,
			},
		},
		"backend error": {
			err:  &estimator.SubmitError{Kind: estimator.SubmitHTTPStatus, Message: "model not ready"},
			want: View{Kind: KindError, Label: ErrorLabel, Message: "model not ready"},
		},
		"markup stripped": {
			err:  &estimator.SubmitError{Kind: estimator.SubmitHTTPStatus, Message: "<script>alert(1)</script>bad <b>input</b>"},
			want: View{Kind: KindError, Label: ErrorLabel, Message: "bad input"},
		},
		"busy renders nothing": {
			err:  estimator.ErrBusy,
			want: View{},
		},
		"unavailable renders nothing": {
			err:  estimator.ErrCatalogUnavailable,
			want: View{},
		},
		"unexpected error": {
			err:  errors.New("boom"),
			want: View{Kind: KindError, Label: ErrorLabel, Message: "boom"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, f.Outcome(tt.est, tt.err)); diff != "" {
				t.Fatalf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestText(t *testing.T) {
	f := NewFormatter("en-IN", "₹", "Lakhs")

	var buf bytes.Buffer
	if err := Text(&buf, f.Success(83.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "83.5") || !strings.Contains(buf.String(), Disclaimer) {
		t.Fatalf("unexpected success text %q", buf.String())
	}

	buf.Reset()
	Text(&buf, Failure("model not ready"))
	if buf.String() != "Error: model not ready\n" {
		t.Fatalf("unexpected error text %q", buf.String())
	}

	buf.Reset()
	Text(&buf, View{})
	if buf.Len() != 0 {
		t.Fatalf("expected nothing for an empty view")
	}
}

func TestSanitizeReturnsPlainText(t *testing.T) {
	tests := map[string]string{
		"location can't be empty":        "location can't be empty",
		"sqft & bhk required":            "sqft & bhk required",
		"<img src=x onerror=alert(1)>hi": "hi",
		"  padded  ":                     "padded",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
