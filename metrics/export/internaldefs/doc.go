// Package internaldefs holds the shared metric definitions consumed by
// the exporter packages. It exists so the Prometheus and OpenTelemetry
// exporters emit identical metric names and bucket layouts.
package internaldefs
