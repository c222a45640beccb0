// Package utils holds small concurrency helpers shared by the bubbles
// packages: bounded fan-out with panic recovery.
package utils
