// Package resource throttles segment IO and accounts for the memory held by
// decoded blocks.
//
// A nil *Controller is valid and imposes no limits, so callers can thread an
// optional controller through without nil checks.
package resource
