package httpx

import "dqx0.com/go/plainhttp/httpx/internal/http1"

// Header holds reply headers keyed by upper-cased field name. A name that
// appears more than once keeps its last value.
type Header map[string]string

func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h[http1.CanonicalKey(key)]
}

func (h Header) Has(key string) bool {
	if h == nil {
		return false
	}
	_, ok := h[http1.CanonicalKey(key)]
	return ok
}

func (h Header) Set(key, value string) {
	if h == nil {
		return
	}
	h[http1.CanonicalKey(key)] = value
}

func (h Header) Del(key string) {
	if h == nil {
		return
	}
	delete(h, http1.CanonicalKey(key))
}
