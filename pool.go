package fluenthttp

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Version is the library version, reported in the default User-Agent.
const Version = "0.1.0"

const defaultUserAgent = "fluenthttp/" + Version

// Key identifies one pool entry. Keys are opaque; callers obtain them from
// Pool.Acquire and pass them to Builder constructors.
type Key string

// Entry is one pooled transport handle: an *http.Client with its own cloned
// transport and cookie jar, plus the mutable options shared by every Builder
// bound to the entry's key (cookie jar enablement, basic credentials, timeout,
// user-agent). The mutex guards the shared options; it is never held across a
// network call.
type Entry struct {
	mu sync.Mutex

	client     *http.Client
	jar        *cookiejar.Jar
	jarEnabled bool

	username string
	password string
	hasCreds bool

	userAgent string
}

func newEntry() *Entry {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	e := &Entry{
		jar:       jar,
		userAgent: defaultUserAgent,
	}
	e.client = &http.Client{
		Transport: &sharedOptionsTransport{entry: e, base: transport},
		Jar:       entryJar{entry: e},
	}
	return e
}

// Client returns the entry's underlying *http.Client for advanced use cases.
func (e *Entry) Client() *http.Client {
	return e.client
}

// CookiesEnabled reports whether a dispatch has enabled the entry's cookie jar.
func (e *Entry) CookiesEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.jarEnabled
}

// mergeUserAgent appends ua to the entry's identity header value unless its
// product tokens are already present as a whole. Callers hold e.mu.
func (e *Entry) mergeUserAgent(ua string) {
	want := strings.Fields(ua)
	if len(want) == 0 {
		return
	}
	have := strings.Fields(e.userAgent)
	if containsTokens(have, want) {
		return
	}
	e.userAgent = strings.Join(append(have, want...), " ")
}

// containsTokens reports whether want occurs as a consecutive run in have.
func containsTokens(have, want []string) bool {
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j := range want {
			if have[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// entryJar is the jar installed on every entry client at creation. It
// delegates to the entry's cookie jar only once a cookie merge has enabled
// it, so the enablement toggle is read under the entry mutex instead of
// swapping client.Jar while a dispatch is in flight.
type entryJar struct {
	entry *Entry
}

func (j entryJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.entry.mu.Lock()
	enabled := j.entry.jarEnabled
	j.entry.mu.Unlock()
	if enabled {
		j.entry.jar.SetCookies(u, cookies)
	}
}

func (j entryJar) Cookies(u *url.URL) []*http.Cookie {
	j.entry.mu.Lock()
	enabled := j.entry.jarEnabled
	j.entry.mu.Unlock()
	if !enabled {
		return nil
	}
	return j.entry.jar.Cookies(u)
}

// sharedOptionsTransport injects the entry's shared options (basic credentials,
// user-agent) into every request sent through the entry's client, so that
// option mutations made by one Builder are visible to all Builders sharing the
// entry.
type sharedOptionsTransport struct {
	entry *Entry
	base  http.RoundTripper
}

func (t *sharedOptionsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.entry.mu.Lock()
	username, password, hasCreds := t.entry.username, t.entry.password, t.entry.hasCreds
	ua := t.entry.userAgent
	t.entry.mu.Unlock()

	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())
	if hasCreds && req.Header.Get("Authorization") == "" {
		req.SetBasicAuth(username, password)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ua)
	}
	return t.base.RoundTrip(req)
}

// Pool is a registry of reusable transport handles. Builders hold a non-owning
// reference to exactly one entry by key; the pool owns every entry for the
// remainder of the process — entries are never evicted.
//
// A Pool is safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	entries map[Key]*Entry
	order   []Key
}

// NewPool creates an empty transport pool. Tests should inject a fresh pool
// per test for isolation; production callers typically share one pool (or use
// DefaultPool) so connections are reused.
func NewPool() *Pool {
	return &Pool{entries: make(map[Key]*Entry)}
}

// DefaultPool is the process-wide pool used by NewDefault.
var DefaultPool = NewPool()

// Acquire returns the key of the most-recently-inserted entry, creating a new
// entry when forceNew is true or the pool is empty. Repeated forced creation
// grows the pool without bound; eviction is deliberately the caller's concern.
func (p *Pool) Acquire(forceNew bool) Key {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !forceNew && len(p.order) > 0 {
		return p.order[len(p.order)-1]
	}

	key := Key(uuid.NewString())
	p.entries[key] = newEntry()
	p.order = append(p.order, key)
	return key
}

// Entry returns the pool entry for key, or nil if the key is unknown.
func (p *Pool) Entry(key Key) *Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries[key]
}

// Len returns the number of entries in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
