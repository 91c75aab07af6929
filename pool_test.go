package fluenthttp

import (
	"net/url"
	"testing"
)

func TestPool_Acquire_CreatesWhenEmpty(t *testing.T) {
	p := NewPool()

	key := p.Acquire(false)
	if key == "" {
		t.Fatal("expected a non-empty key")
	}
	if p.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", p.Len())
	}
	if p.Entry(key) == nil {
		t.Error("expected entry for acquired key")
	}
}

func TestPool_Acquire_ReusesMostRecent(t *testing.T) {
	p := NewPool()

	first := p.Acquire(false)
	second := p.Acquire(false)
	if first != second {
		t.Errorf("expected non-forced acquire to reuse entry, got %s and %s", first, second)
	}

	forced := p.Acquire(true)
	if forced == first {
		t.Error("expected forced acquire to create a new entry")
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", p.Len())
	}

	// Non-forced acquire now picks the most-recently-inserted entry, not the
	// first one created.
	if got := p.Acquire(false); got != forced {
		t.Errorf("expected most recent key %s, got %s", forced, got)
	}
}

func TestPool_Acquire_ForcedGrowth(t *testing.T) {
	p := NewPool()

	seen := make(map[Key]bool)
	for i := 0; i < 5; i++ {
		key := p.Acquire(true)
		if seen[key] {
			t.Fatalf("duplicate key %s on forced acquire", key)
		}
		seen[key] = true
	}
	if p.Len() != 5 {
		t.Errorf("expected 5 entries, got %d", p.Len())
	}
}

func TestPool_Entry_UnknownKey(t *testing.T) {
	p := NewPool()
	if p.Entry("no-such-key") != nil {
		t.Error("expected nil entry for unknown key")
	}
}

func TestPool_EntryDefaults(t *testing.T) {
	p := NewPool()
	e := p.Entry(p.Acquire(false))

	if e.Client() == nil {
		t.Fatal("expected entry to carry a client")
	}
	if e.CookiesEnabled() {
		t.Error("expected cookie jar to start disabled")
	}

	// The jar is installed at creation but inert until a cookie merge
	// enables it.
	u, _ := url.Parse("http://example.test/")
	if got := e.Client().Jar.Cookies(u); len(got) != 0 {
		t.Errorf("expected no cookies from a disabled jar, got %v", got)
	}
}

func TestEntry_MergeUserAgent(t *testing.T) {
	p := NewPool()
	e := p.Entry(p.Acquire(false))

	merge := func(ua string) {
		e.mu.Lock()
		e.mergeUserAgent(ua)
		e.mu.Unlock()
	}

	// A token that happens to be a substring of the default identity must
	// still be appended.
	merge("fluent")
	if e.userAgent != defaultUserAgent+" fluent" {
		t.Errorf("expected substring token to be appended, got %q", e.userAgent)
	}

	// Re-merging an existing whole token is a no-op.
	merge("fluent")
	merge(defaultUserAgent)
	if e.userAgent != defaultUserAgent+" fluent" {
		t.Errorf("expected idempotent merge, got %q", e.userAgent)
	}

	// Multi-token identities dedup as a whole run.
	merge("lib/1 extra")
	merge("lib/1 extra")
	if e.userAgent != defaultUserAgent+" fluent lib/1 extra" {
		t.Errorf("expected multi-token merge once, got %q", e.userAgent)
	}
}
