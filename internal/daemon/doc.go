// Package daemon combines the processing pipeline and the HTTP API into a
// single lifecycle with flock-based locking to prevent multiple instances.
package daemon
