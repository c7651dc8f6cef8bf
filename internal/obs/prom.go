package obs

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PromMeter bridges Meter to Prometheus. Vectors are created and
// registered on first use; the label keys of that first call fix the
// vector's label set, later calls with a different set are dropped.
type PromMeter struct {
	reg prometheus.Registerer

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	hists    map[string]*prometheus.HistogramVec
}

// NewPromMeter returns a meter registering into reg, or into the default
// registerer when reg is nil.
func NewPromMeter(reg prometheus.Registerer) *PromMeter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PromMeter{
		reg:      reg,
		counters: make(map[string]*prometheus.CounterVec),
		hists:    make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PromMeter) Counter(name string, value float64, labels ...Label) {
	if value < 0 {
		return
	}
	keys, vals := splitLabels(labels)
	cv := m.counterVec(name, keys)
	if cv == nil {
		return
	}
	c, err := cv.GetMetricWithLabelValues(vals...)
	if err != nil {
		return
	}
	c.Add(value)
}

func (m *PromMeter) Histogram(name string, value float64, labels ...Label) {
	keys, vals := splitLabels(labels)
	hv := m.histogramVec(name, keys)
	if hv == nil {
		return
	}
	h, err := hv.GetMetricWithLabelValues(vals...)
	if err != nil {
		return
	}
	h.Observe(value)
}

func (m *PromMeter) counterVec(name string, keys []string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cv, ok := m.counters[name]; ok {
		return cv
	}
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name}, keys)
	if err := m.reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil
		}
		cv = existing
	}
	m.counters[name] = cv
	return cv
}

func (m *PromMeter) histogramVec(name string, keys []string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hv, ok := m.hists[name]; ok {
		return hv
	}
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    name,
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	}, keys)
	if err := m.reg.Register(hv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil
		}
		hv = existing
	}
	m.hists[name] = hv
	return hv
}

func splitLabels(labels []Label) (keys, vals []string) {
	keys = make([]string, len(labels))
	vals = make([]string, len(labels))
	for i, l := range labels {
		keys[i] = l.Key
		vals[i] = l.Value
	}
	return keys, vals
}
