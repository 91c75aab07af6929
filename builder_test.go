package fluenthttp

import (
	"net/http"
	"testing"
	"time"
)

func TestBuilder_ChainingReturnsSameBuilder(t *testing.T) {
	b := New(NewPool(), "http://example.test", false)

	got := b.
		WithHeader("Accept", "application/json").
		WithQuery("page", "1").
		WithTimeout(time.Second).
		WithUserAgent("test/1").
		WithBasicAuth("user", "pass").
		WithCookie(&http.Cookie{Name: "session", Value: "abc"})
	if got != b {
		t.Error("expected configuration calls to return the same builder")
	}
}

func TestBuilder_BindsOneKeyAtConstruction(t *testing.T) {
	p := NewPool()

	b1 := New(p, "http://example.test/a", false)
	b2 := New(p, "http://example.test/b", false)
	if b1.Key() != b2.Key() {
		t.Error("expected non-forced builders to share one pool key")
	}

	b3 := New(p, "http://example.test/c", true)
	if b3.Key() == b1.Key() {
		t.Error("expected forced builder to get its own pool key")
	}
}

func TestBuilder_HeaderInsertIfAbsent(t *testing.T) {
	b := New(NewPool(), "http://example.test", false).
		WithHeader("Accept", "text/plain").
		WithHeader("Accept", "application/json").
		WithHeaders(map[string]string{"Accept": "text/html", "X-Extra": "1"})

	if len(b.headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(b.headers))
	}
	if b.headers[0].name != "Accept" || b.headers[0].value != "text/plain" {
		t.Errorf("expected first-inserted Accept value to win, got %q", b.headers[0].value)
	}
	if b.headers[1].name != "X-Extra" {
		t.Errorf("expected insertion order to be preserved, got %q", b.headers[1].name)
	}
}

func TestBuilder_QueryInsertIfAbsent(t *testing.T) {
	b := New(NewPool(), "http://example.test", false).
		WithQuery("page", "1").
		WithQuery("page", "2")

	if len(b.query) != 1 {
		t.Fatalf("expected 1 query param, got %d", len(b.query))
	}
	if b.query[0].value != "1" {
		t.Errorf("expected first-inserted value to win, got %q", b.query[0].value)
	}
}

func TestBuilder_BodyClassification(t *testing.T) {
	b := New(NewPool(), "http://example.test", false)

	b.WithBody([]byte{0x01, 0x02})
	if _, ok := b.body.(bytesBody); !ok {
		t.Errorf("expected bytesBody, got %T", b.body)
	}

	b.WithBody("hello", Charset("utf-8"))
	if _, ok := b.body.(textBody); !ok {
		t.Errorf("expected textBody, got %T", b.body)
	}

	b.WithBody(map[string]int{"a": 1})
	if _, ok := b.body.(jsonBody); !ok {
		t.Errorf("expected jsonBody, got %T", b.body)
	}
}

func TestBuilder_CookiesAppendInOrder(t *testing.T) {
	b := New(NewPool(), "http://example.test", false).
		WithCookie(&http.Cookie{Name: "a", Value: "1"}).
		WithCookies(&http.Cookie{Name: "b", Value: "2"}, &http.Cookie{Name: "c", Value: "3"})

	if len(b.cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(b.cookies))
	}
	for i, name := range []string{"a", "b", "c"} {
		if b.cookies[i].Name != name {
			t.Errorf("cookie %d: expected %s, got %s", i, name, b.cookies[i].Name)
		}
	}
}
