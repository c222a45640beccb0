// Package types defines the core data types shared by the bubbles gateway,
// the HTTP server and the CLI.
//
// This package contains:
//   - Bubble: an immutable snapshot of a Bubble node as returned by the store
//   - Attributes: user-supplied field values prior to validation
//   - Error/ErrorKind: the tagged error used across package boundaries
//
// # Errors
//
// Callers branch on the error kind rather than on concrete types:
//
//	switch types.KindOf(err) {
//	case types.KindValidation:
//	    // show the message next to the form
//	case types.KindNotFound:
//	    // render a 404
//	}
package types
