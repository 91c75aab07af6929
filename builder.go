package fluenthttp

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Builder accumulates request configuration through chained calls and is
// dispatched with Send or one of the method shorthands. A Builder is bound to
// exactly one pool entry at construction; the binding never changes.
//
// Configuration calls only mutate the Builder itself and never fail. Dispatch
// merges the accumulated state onto a fresh outgoing request and onto the
// bound entry's shared options — cookies, credentials, timeout, and identity
// configured here become visible to every other Builder sharing the same key.
//
// A Builder may be re-dispatched after a terminal call; it re-sends with
// whatever state it still holds. Builders are not safe for concurrent
// configuration. Dispatching distinct Builders concurrently is fine, with
// one caveat: a timeout merged onto a shared entry while another dispatch on
// the same entry is in flight is not synchronized with that dispatch (see
// WithTimeout).
type Builder struct {
	pool *Pool
	key  Key
	url  string

	body    bodyPayload
	cookies []*http.Cookie

	headers    []headerField
	headerSeen map[string]struct{}

	query     []queryParam
	querySeen map[string]struct{}

	username string
	password string
	hasCreds bool

	jsonOpts  JSONOptions
	timeout   time.Duration
	userAgent string

	logger zerolog.Logger
	tracer trace.Tracer
}

type headerField struct {
	name  string
	value string
}

type queryParam struct {
	name  string
	value string
}

// New creates a Builder for url bound to an entry of pool. When forceNew is
// false the Builder shares the pool's most recent entry with every other
// non-forced Builder; when true it gets a dedicated fresh entry.
func New(pool *Pool, url string, forceNew bool) *Builder {
	return &Builder{
		pool:       pool,
		key:        pool.Acquire(forceNew),
		url:        url,
		headerSeen: make(map[string]struct{}),
		querySeen:  make(map[string]struct{}),
		logger:     zerolog.Nop(),
	}
}

// NewDefault creates a Builder for url bound to the process-wide DefaultPool.
func NewDefault(url string, forceNew bool) *Builder {
	return New(DefaultPool, url, forceNew)
}

// Key returns the pool key the Builder is bound to.
func (b *Builder) Key() Key {
	return b.key
}

// WithBody sets the request body. A []byte payload is attached verbatim, a
// string payload is attached as text (optionally re-encoded per Charset), and
// any other payload is serialized as JSON at dispatch time using the
// Builder's JSONOptions.
func (b *Builder) WithBody(payload any, opts ...BodyOption) *Builder {
	var cfg bodyConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	b.body = classifyBody(payload, cfg)
	return b
}

// WithCookie appends a cookie. Cookies are merged into the bound entry's
// shared cookie jar at dispatch; once added they are never removed.
func (b *Builder) WithCookie(c *http.Cookie) *Builder {
	b.cookies = append(b.cookies, c)
	return b
}

// WithCookies appends multiple cookies in order.
func (b *Builder) WithCookies(cookies ...*http.Cookie) *Builder {
	b.cookies = append(b.cookies, cookies...)
	return b
}

// WithHeader adds a header. The first value written for a name wins; later
// duplicates are silently ignored. Headers reach the outgoing request in
// insertion order, attached without standard header validation.
func (b *Builder) WithHeader(name, value string) *Builder {
	if _, dup := b.headerSeen[name]; dup {
		return b
	}
	b.headerSeen[name] = struct{}{}
	b.headers = append(b.headers, headerField{name: name, value: value})
	return b
}

// WithHeaders adds every header in the map, with the same insert-if-absent
// semantics as WithHeader.
func (b *Builder) WithHeaders(headers map[string]string) *Builder {
	for name, value := range headers {
		b.WithHeader(name, value)
	}
	return b
}

// WithQuery adds a query parameter, insert-if-absent.
func (b *Builder) WithQuery(name, value string) *Builder {
	if _, dup := b.querySeen[name]; dup {
		return b
	}
	b.querySeen[name] = struct{}{}
	b.query = append(b.query, queryParam{name: name, value: value})
	return b
}

// WithQueryParams adds every query parameter in the map, insert-if-absent.
func (b *Builder) WithQueryParams(params map[string]string) *Builder {
	for name, value := range params {
		b.WithQuery(name, value)
	}
	return b
}

// WithBasicAuth sets the credential pair merged onto the bound entry at
// dispatch. Last writer wins across all Builders sharing the key.
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.username = username
	b.password = password
	b.hasCreds = true
	return b
}

// WithJSONOptions sets the serialization options used for structured bodies
// and JSON response decoding.
func (b *Builder) WithJSONOptions(opts JSONOptions) *Builder {
	b.jsonOpts = opts
	return b
}

// WithTimeout sets the timeout merged onto the bound entry at dispatch. The
// timeout covers the whole dispatch and applies to every Builder sharing the
// key; last writer wins. The merge overwrites the shared client's timeout
// and is not synchronized with dispatches already in flight on the same
// entry; callers that mix timeout merges with concurrent dispatches on one
// key must provide their own ordering.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

// WithUserAgent sets the identity string appended to the bound entry's
// default User-Agent at dispatch.
func (b *Builder) WithUserAgent(ua string) *Builder {
	b.userAgent = ua
	return b
}

// WithLogger sets the logger used to record dispatches. The default logger
// discards everything.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithTracer enables an OpenTelemetry span around each dispatch.
func (b *Builder) WithTracer(tracer trace.Tracer) *Builder {
	b.tracer = tracer
	return b
}
