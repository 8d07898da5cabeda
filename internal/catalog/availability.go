package catalog

import "fmt"

// PendingHint is shown before the load has settled.
const PendingHint = "Loading locations…"

// Availability is the outcome of booting the catalog. It gates the
// prediction form: only a Ready availability enables submission.
type Availability struct {
	catalog *Catalog
	err     error
	settled bool
}

// Loaded wraps an already fetched catalog.
func Loaded(c *Catalog) Availability {
	return Availability{catalog: c, settled: true}
}

// Failed records a load failure.
func Failed(err error) Availability {
	return Availability{err: err, settled: true}
}

// Ready reports whether the catalog loaded with at least one entry.
func (a Availability) Ready() bool {
	return a.settled && a.err == nil && a.catalog.Len() > 0
}

// Settled reports whether the load has completed, successfully or not.
func (a Availability) Settled() bool {
	return a.settled
}

// Catalog returns the loaded catalog, or nil when not ready.
func (a Availability) Catalog() *Catalog {
	if !a.Ready() {
		return nil
	}
	return a.catalog
}

// Err returns the load failure, if any.
func (a Availability) Err() error {
	return a.err
}

// Count returns the number of loaded locations.
func (a Availability) Count() int {
	if !a.Ready() {
		return 0
	}
	return a.catalog.Len()
}

// Hint is the status line shown next to the form.
func (a Availability) Hint() string {
	switch {
	case !a.settled:
		return PendingHint
	case a.Ready():
		return fmt.Sprintf("%d locations loaded", a.catalog.Len())
	default:
		return FailureHint
	}
}
