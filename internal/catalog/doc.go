// Package catalog loads the set of location keys the prediction backend
// accepts and derives human-readable labels for them.
//
// The catalog is fetched once per page lifetime. A failed load leaves the
// catalog unset and the dependent form disabled; callers observe the outcome
// through Availability.
package catalog
