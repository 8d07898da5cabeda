package estimator

// State is the request lifecycle of an Orchestrator.
type State int

const (
	Idle State = iota
	Loading
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Button captions for the submit trigger.
const (
	ButtonIdle = "Predict Price"
	ButtonBusy = "Predicting…"
)

// Status is a point-in-time view of an Orchestrator for the UI layer.
type Status struct {
	State          State  `json:"state"`
	LastOutcome    State  `json:"last_outcome"`
	Busy           bool   `json:"busy"`
	TriggerEnabled bool   `json:"trigger_enabled"`
	ButtonText     string `json:"button_text"`
	CatalogReady   bool   `json:"catalog_ready"`
	LocationCount  int    `json:"location_count"`
	Hint           string `json:"hint"`
}
