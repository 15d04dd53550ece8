// Package prometheus bridges the authkit in-process metrics into a
// prometheus/client_golang Collector so they can be registered alongside
// an application's own metrics.
package prometheus
