package catalog

import "testing"

func TestLabel(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"simple prefix":          {raw: "location_whitefield", want: "Whitefield"},
		"prefix with spaces":     {raw: "location_ banashankari  stage ii", want: "Banashankari Stage Ii"},
		"case insensitive":       {raw: "LOCATION_hsr layout", want: "Hsr Layout"},
		"no prefix":              {raw: "electronic city", want: "Electronic City"},
		"prefix only at start":   {raw: "old location_road", want: "Old Location_road"},
		"tabs and newlines":      {raw: "location_\tjp\n nagar  ", want: "Jp Nagar"},
		"digits and punctuation": {raw: "location_1st phase jp nagar", want: "1st Phase Jp Nagar"},
		"empty":                  {raw: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Label(tt.raw); got != tt.want {
				t.Fatalf("Label(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLabelIsPure(t *testing.T) {
	raw := "location_ banashankari  stage ii"
	first := Label(raw)
	second := Label(raw)
	if first != second {
		t.Fatalf("expected identical output, got %q and %q", first, second)
	}
	if Label(first) != first {
		t.Fatalf("expected label of a label to be stable, got %q", Label(first))
	}
	if raw != "location_ banashankari  stage ii" {
		t.Fatalf("raw key must not be modified")
	}
}
