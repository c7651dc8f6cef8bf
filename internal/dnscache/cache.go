// Package dnscache memoizes hostname to numeric address lookups for the
// lifetime of the process.
package dnscache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is one remembered mapping.
type Entry struct {
	Host string
	Addr string
}

// Cache is an append-only list of entries behind a single mutex. Lookup
// returns the first match; Add does not check for duplicates. There is no
// eviction or TTL.
type Cache struct {
	mu      sync.Mutex
	entries []Entry
}

// Lookup scans the cache for host (case-sensitive).
func (c *Cache) Lookup(host string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.Host == host {
			return e.Addr, true
		}
	}
	return "", false
}

// Add appends a mapping.
func (c *Cache) Add(host, addr string) {
	c.mu.Lock()
	c.entries = append(c.entries, Entry{Host: host, Addr: addr})
	c.mu.Unlock()
}

// Len reports the number of stored entries, duplicates included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var (
	sharedOnce  sync.Once
	sharedCache *Cache
)

// Shared returns the process-wide cache, creating it on first use.
func Shared() *Cache {
	sharedOnce.Do(func() { sharedCache = &Cache{} })
	return sharedCache
}

// HostLookuper performs an uncached name resolution. *net.Resolver
// satisfies it.
type HostLookuper interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ErrNotFound is returned when the backend yields no usable address.
var ErrNotFound = errors.New("dnscache: no address for host")

// DefaultLookupTimeout bounds a shared backend lookup.
const DefaultLookupTimeout = 30 * time.Second

// Resolver answers from Cache and falls back to Backend on a miss,
// remembering the result. Concurrent misses for one host share a single
// backend call. The shared call is detached from every caller's context
// and bounded by LookupTimeout; each caller stops waiting only when its
// own context ends.
type Resolver struct {
	Cache         *Cache
	Backend       HostLookuper
	LookupTimeout time.Duration

	group singleflight.Group
}

// NewResolver returns a Resolver over the shared cache and the default
// system resolver.
func NewResolver() *Resolver {
	return &Resolver{Cache: Shared(), Backend: net.DefaultResolver}
}

// Resolve returns a numeric address for host.
func (r *Resolver) Resolve(ctx context.Context, host string) (string, error) {
	cache := r.Cache
	if cache == nil {
		cache = Shared()
	}
	if addr, ok := cache.Lookup(host); ok {
		return addr, nil
	}
	ch := r.group.DoChan(host, func() (interface{}, error) {
		if addr, ok := cache.Lookup(host); ok {
			return addr, nil
		}
		backend := r.Backend
		if backend == nil {
			backend = net.DefaultResolver
		}
		timeout := r.LookupTimeout
		if timeout <= 0 {
			timeout = DefaultLookupTimeout
		}
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		addrs, err := backend.LookupHost(lctx, host)
		if err != nil {
			return "", fmt.Errorf("dnscache: lookup %s: %w", host, err)
		}
		addr := pickAddr(addrs)
		if addr == "" {
			return "", fmt.Errorf("%w: %s", ErrNotFound, host)
		}
		cache.Add(host, addr)
		return addr, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// pickAddr prefers the first IPv4 address, then any parseable address.
func pickAddr(addrs []string) string {
	var fallback string
	for _, a := range addrs {
		ip := net.ParseIP(a)
		if ip == nil {
			continue
		}
		if ip.To4() != nil {
			return a
		}
		if fallback == "" {
			fallback = a
		}
	}
	return fallback
}
