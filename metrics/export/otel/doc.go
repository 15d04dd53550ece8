// Package otel bridges the authkit in-process metrics into OpenTelemetry
// observable instruments. Values are read lazily at collection time from
// a metrics snapshot; nothing is pushed.
package otel
