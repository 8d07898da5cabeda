// Package estimator validates price-estimation input and drives the
// prediction request state machine.
//
// An Orchestrator moves Idle -> Loading -> Succeeded|Failed -> Idle. Only one
// request is ever outstanding: a Submit that arrives while another is in
// flight returns ErrBusy without touching the backend, and nothing is
// accepted until the location catalog has loaded.
package estimator
