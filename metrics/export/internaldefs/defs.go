package internaldefs

import (
	authkit "github.com/verazapp/authkit"
)

// CounterDef binds a core counter to its exported name and help text.
type CounterDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram to its exported name and help text.
type HistogramDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: authkit.MetricSignInSuccess, Name: "authkit_sign_in_success_total", Help: "Sign-ins that established a session."},
	{ID: authkit.MetricSignInFailure, Name: "authkit_sign_in_failure_total", Help: "Rejected or incomplete sign-ins."},
	{ID: authkit.MetricSignUpSuccess, Name: "authkit_sign_up_success_total", Help: "Registrations that established a session."},
	{ID: authkit.MetricSignUpFailure, Name: "authkit_sign_up_failure_total", Help: "Rejected or incomplete registrations."},
	{ID: authkit.MetricSignOut, Name: "authkit_sign_out_total", Help: "Sign-out operations."},
	{ID: authkit.MetricCheckCacheHit, Name: "authkit_check_cache_hit_total", Help: "Status checks answered from the snapshot cache."},
	{ID: authkit.MetricCheckLocalTrust, Name: "authkit_check_local_trust_total", Help: "Status checks answered by local token trust."},
	{ID: authkit.MetricCheckNetworkSuccess, Name: "authkit_check_network_success_total", Help: "Status checks verified by the backend."},
	{ID: authkit.MetricCheckFailure, Name: "authkit_check_failure_total", Help: "Status checks that tore the session down."},
	{ID: authkit.MetricRefreshSuccess, Name: "authkit_refresh_success_total", Help: "Token refreshes that adopted a new token."},
	{ID: authkit.MetricRefreshFailure, Name: "authkit_refresh_failure_total", Help: "Token refreshes that tore the session down."},
	{ID: authkit.MetricStaleResponseDropped, Name: "authkit_stale_response_dropped_total", Help: "Responses discarded because the session was superseded in flight."},
}

// HistogramDefs lists every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: authkit.MetricCheckLatency, Name: "authkit_check_latency_seconds", Help: "Status-check latency histogram."},
}

// HistogramBoundsSeconds are the upper bucket bounds, matching the core
// 5/10/25/50/100/250/500 millisecond layout plus the overflow bucket.
var HistogramBoundsSeconds = []float64{
	0.005,
	0.01,
	0.025,
	0.05,
	0.1,
	0.25,
	0.5,
}

// HistogramBoundSuffix names each bucket for backends that cannot carry
// a numeric label.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed
// 8-bucket layout.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// histogram backends expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
