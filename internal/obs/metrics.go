package obs

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// Names of the measurements the client emits.
const (
	MetricRequests       = "plainhttp_client_requests_total"       // label: method
	MetricErrors         = "plainhttp_client_errors_total"         // label: stage
	MetricRedirects      = "plainhttp_client_redirects_total"      // label: code
	MetricConnectRetries = "plainhttp_client_connect_retries_total" // no labels
	MetricRoundTripMs    = "plainhttp_client_roundtrip_ms"          // label: method
)
