// Package cookie persists list state in the browser cookie jar: a storage
// port over named cookies plus the URL-encoded JSON codec for the stored
// envelope. The cookie is the sole durable store and is overwritten
// wholesale on every change.
package cookie

import (
	"net/http"
	"time"
)

// TTL is the fixed lifetime applied to every cookie written.
const TTL = 365 * 24 * time.Hour

// Jar abstracts cookie access so the codec and stores can be exercised
// without HTTP plumbing. Set applies the fixed policy: 365-day expiry,
// path "/", SameSite=Lax.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string)
}

// HTTPJar reads cookies from a request and writes them to a response.
type HTTPJar struct {
	w http.ResponseWriter
	r *http.Request
}

// NewHTTPJar binds a jar to one request/response pair.
func NewHTTPJar(w http.ResponseWriter, r *http.Request) *HTTPJar {
	return &HTTPJar{w: w, r: r}
}

// Get returns the named request cookie's value.
func (j *HTTPJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set writes the named cookie on the response with the fixed policy.
func (j *HTTPJar) Set(name, value string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		SameSite: http.SameSiteLaxMode,
	})
}

// MemoryJar is a map-backed jar for tests and non-HTTP callers.
type MemoryJar struct {
	values map[string]string
}

// NewMemoryJar returns an empty in-memory jar.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{values: make(map[string]string)}
}

// Get returns the stored value for name.
func (j *MemoryJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

// Set stores the value for name.
func (j *MemoryJar) Set(name, value string) {
	j.values[name] = value
}
