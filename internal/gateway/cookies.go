package gateway

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"
)

type contextKey string

const cookiesKey contextKey = "backend-cookies"

// Cookies carries one browser's backend cookies through the calls made on its
// behalf. Cookies the backend sets are applied to later calls in the same
// request and kept for relaying to the browser.
type Cookies struct {
	mu      sync.Mutex
	current map[string]string
	changed []*http.Cookie
}

// NewCookies starts from the cookies the browser sent.
func NewCookies(forward []*http.Cookie) *Cookies {
	c := &Cookies{current: make(map[string]string)}
	for _, ck := range forward {
		c.current[ck.Name] = ck.Value
	}
	return c
}

// WithCookies attaches c to ctx.
func WithCookies(ctx context.Context, c *Cookies) context.Context {
	return context.WithValue(ctx, cookiesKey, c)
}

// CookiesFrom returns the cookies attached to ctx, or nil.
func CookiesFrom(ctx context.Context) *Cookies {
	c, _ := ctx.Value(cookiesKey).(*Cookies)
	return c
}

// Changed returns the cookies the backend set, oldest first.
func (c *Cookies) Changed() []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.changed)
}

// Drain returns the cookies the backend set and forgets them.
func (c *Cookies) Drain() []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.changed
	c.changed = nil
	return out
}

func (c *Cookies) apply(req *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range slices.Sorted(maps.Keys(c.current)) {
		req.AddCookie(&http.Cookie{Name: name, Value: c.current[name]})
	}
}

func (c *Cookies) absorb(set []*http.Cookie) {
	if len(set) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for _, ck := range set {
		c.changed = append(c.changed, ck)
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(now)) || ck.Value == "" {
			delete(c.current, ck.Name)
			continue
		}
		c.current[ck.Name] = ck.Value
	}
}
