// Package commands implements the estimate CLI: listing the location catalog
// and requesting a price estimate from flags or interactive prompts.
package commands
