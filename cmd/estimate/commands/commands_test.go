package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/octobees/house-price-estimator/internal/config"
	"github.com/octobees/house-price-estimator/internal/prompt"
)

type scriptedDriver struct {
	inputs    []string
	selectIdx int
	asked     int
}

func (s *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	if s.asked >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.asked]
	s.asked++
	return val, nil
}

func (s *scriptedDriver) Select(_ context.Context, _ prompt.SelectConfig) (int, error) {
	s.asked++
	return s.selectIdx, nil
}

type predictorStub struct {
	locations string
	status    int
	body      string
	payloads  []map[string]any
}

func (p *predictorStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get_location_names":
			w.Write([]byte(p.locations))
		case "/predict_home_price":
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			p.payloads = append(p.payloads, payload)
			w.WriteHeader(p.status)
			w.Write([]byte(p.body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, baseURL string, d prompt.Driver, tty bool, args ...string) (string, string, error) {
	t.Helper()
	e := &env{
		baseURL: baseURL,
		price:   config.PriceFormat{Locale: "en-IN", Currency: "₹", Unit: "Lakhs"},
		driver:  d,
		isTTY:   func() bool { return tty },
	}
	cmd := newRootCmd(e)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLocationsCommand(t *testing.T) {
	stub := &predictorStub{locations: `{"locations":["location_whitefield","location_hsr  layout"]}`}
	srv := stub.server(t)

	out, _, err := run(t, srv.URL, nil, false, "locations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Whitefield\tlocation_whitefield\nHsr Layout\tlocation_hsr  layout\n2 locations loaded\n"
	if out != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", out, want)
	}
}

func TestLocationsCommandBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, stderr, err := run(t, srv.URL, nil, false, "locations")
	var shown reportedError
	if !errors.As(err, &shown) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if !strings.Contains(stderr, "Failed to load locations. Check backend URL.") {
		t.Fatalf("expected failure hint, got %q", stderr)
	}
}

func TestPredictCommandFromFlags(t *testing.T) {
	stub := &predictorStub{locations: `["location_whitefield"]`, status: http.StatusOK, body: `{"estimated_price":1234.567}`}
	srv := stub.server(t)

	out, _, err := run(t, srv.URL, nil, false, "predict", "--sqft", "1200", "--bhk", "2", "--bath", "2", "--location", "Whitefield")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "₹ 1,234.57 Lakhs") {
		t.Fatalf("expected formatted price, got %q", out)
	}
	if len(stub.payloads) != 1 || stub.payloads[0]["location"] != "location_whitefield" || stub.payloads[0]["bhk"] != float64(2) {
		t.Fatalf("unexpected payloads: %+v", stub.payloads)
	}
}

func TestPredictCommandValidationSkipsBackend(t *testing.T) {
	stub := &predictorStub{locations: `["location_whitefield"]`, status: http.StatusOK, body: `{"estimated_price":1}`}
	srv := stub.server(t)

	out, _, err := run(t, srv.URL, nil, false, "predict", "--sqft", "50", "--bhk", "2", "--bath", "2", "--location", "location_whitefield")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(out, "Error: Please enter a valid square feet value (≥ 100).") {
		t.Fatalf("unexpected output %q", out)
	}
	if len(stub.payloads) != 0 {
		t.Fatalf("expected no prediction call, got %d", len(stub.payloads))
	}
}

func TestPredictCommandBackendError(t *testing.T) {
	stub := &predictorStub{locations: `["location_whitefield"]`, status: http.StatusBadRequest, body: `{"error":"<b>model</b> not ready"}`}
	srv := stub.server(t)

	out, _, err := run(t, srv.URL, nil, false, "predict", "--sqft", "1200", "--bhk", "2", "--bath", "2", "--location", "location_whitefield")
	if err == nil {
		t.Fatalf("expected error")
	}
	if out != "Error: model not ready\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPredictCommandInteractive(t *testing.T) {
	stub := &predictorStub{locations: `["location_whitefield","location_hsr layout"]`, status: http.StatusOK, body: `{"estimated_price":83.5}`}
	srv := stub.server(t)
	d := &scriptedDriver{inputs: []string{"2"}, selectIdx: 1}

	out, _, err := run(t, srv.URL, d, true, "predict", "--sqft", "1000", "--bhk", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.asked != 2 {
		t.Fatalf("expected bath and location prompts, got %d", d.asked)
	}
	if !strings.Contains(out, "₹ 83.5 Lakhs") {
		t.Fatalf("unexpected output %q", out)
	}
	if stub.payloads[0]["location"] != "location_hsr layout" {
		t.Fatalf("unexpected location sent: %v", stub.payloads[0]["location"])
	}
}

func TestPredictCommandNoPromptWithoutTerminal(t *testing.T) {
	stub := &predictorStub{locations: `["location_whitefield"]`, status: http.StatusOK, body: `{"estimated_price":1}`}
	srv := stub.server(t)

	out, _, err := run(t, srv.URL, nil, false, "predict", "--sqft", "1000", "--bhk", "3", "--bath", "2")
	if err == nil {
		t.Fatalf("expected missing location to fail validation")
	}
	if !strings.Contains(out, "Please select a location.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNewEnvReportsConfigErrors(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "http://predictor:5000")
	t.Setenv("RATE_LIMIT_PREDICT", "often")

	if _, err := newEnv(config.Load); err == nil || !strings.Contains(err.Error(), "RATE_LIMIT_PREDICT") {
		t.Fatalf("expected config error to surface, got %v", err)
	}
}

func TestNewEnvUsesConfiguredPredictor(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "http://predictor:5000/")
	t.Setenv("PREDICTOR_TIMEOUT", "4s")
	t.Setenv("RATE_LIMIT_PREDICT", "")

	e, err := newEnv(config.Load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.baseURL != "http://predictor:5000" || e.timeout != 4*time.Second {
		t.Fatalf("unexpected env: base=%s timeout=%s", e.baseURL, e.timeout)
	}
}
