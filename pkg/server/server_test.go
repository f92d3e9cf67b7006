package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mindtree-io/mindtree/pkg/cache"
	"github.com/mindtree-io/mindtree/pkg/diagram"
	"github.com/mindtree-io/mindtree/pkg/render/svg"
	"github.com/mindtree-io/mindtree/pkg/tree"
)

const sampleTree = `{"name":"root","children":[{"name":"a"},{"name":"b","children":[{"name":"c"}]}]}`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	return New(diagram.DefaultConfig(), opts...)
}

func createDiagram(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/diagrams", strings.NewReader(sampleTree))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp["id"] == "" || resp["url"] == "" {
		t.Fatalf("create response missing fields: %v", resp)
	}
	return resp["id"]
}

func TestCreateDiagram(t *testing.T) {
	h := newTestServer(t).Router()
	id := createDiagram(t, h)

	if len(id) != 36 {
		t.Errorf("id should be a UUID, got %q", id)
	}
}

func TestCreateRejectsInvalidTree(t *testing.T) {
	h := newTestServer(t).Router()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"null tree", `null`},
		{"wrong shape", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/diagrams", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp map[string]string
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["code"] != "INVALID_TREE" {
				t.Errorf("code = %q, want INVALID_TREE", resp["code"])
			}
		})
	}
}

func TestRenderDiagram(t *testing.T) {
	h := newTestServer(t).Router()
	id := createDiagram(t, h)

	req := httptest.NewRequest("GET", "/diagrams/"+id+".svg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, label := range []string{"root", "a", "b", "c"} {
		if !strings.Contains(body, ">"+label+"</tspan>") {
			t.Errorf("label %q missing from SVG", label)
		}
	}
	if !strings.Contains(body, "/diagrams/"+id+"/toggle/") {
		t.Errorf("node boxes should link to the toggle endpoint")
	}
}

func TestRenderUnknownDiagram(t *testing.T) {
	h := newTestServer(t).Router()

	req := httptest.NewRequest("GET", "/diagrams/a1b2c3d4-e5f6-7890-abcd-ef1234567890.svg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRenderInvalidID(t *testing.T) {
	h := newTestServer(t).Router()

	req := httptest.NewRequest("GET", "/diagrams/not-a-uuid.svg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

var toggleLinkRe = regexp.MustCompile(`/toggle/(\d+)`)

func TestToggleRoundTrip(t *testing.T) {
	h := newTestServer(t).Router()
	id := createDiagram(t, h)

	// Find a toggle target from the rendered SVG.
	req := httptest.NewRequest("GET", "/diagrams/"+id+".svg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	match := toggleLinkRe.FindStringSubmatch(rec.Body.String())
	if match == nil {
		t.Fatal("no toggle link in SVG")
	}

	req = httptest.NewRequest("GET", "/diagrams/"+id+"/toggle/"+match[1], nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("toggle status = %d, body %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if loc != "/diagrams/"+id+".svg?animate=1" {
		t.Errorf("redirect = %q", loc)
	}

	// Following the redirect serves the transition animation.
	req = httptest.NewRequest("GET", loc, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("animated render status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<animate") {
		t.Errorf("redirected render should carry animations")
	}
}

func TestToggleErrors(t *testing.T) {
	h := newTestServer(t).Router()
	id := createDiagram(t, h)

	tests := []struct {
		name string
		node string
		want int
	}{
		{"not a number", "abc", http.StatusBadRequest},
		{"never assigned", "99999", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/diagrams/"+id+"/toggle/"+tt.node, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDeleteDiagram(t *testing.T) {
	h := newTestServer(t).Router()
	id := createDiagram(t, h)

	req := httptest.NewRequest("DELETE", "/diagrams/"+id, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/diagrams/"+id+".svg", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("render after delete = %d, want 404", rec.Code)
	}
}

// countingCache wraps an in-memory map and counts operations.
type countingCache struct {
	mu           sync.Mutex
	data         map[string][]byte
	hits, misses int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.data[key]; ok {
		c.hits++
		return d, true, nil
	}
	c.misses++
	return nil, false, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

var _ cache.Cache = (*countingCache)(nil)

func TestRenderUsesArtifactCache(t *testing.T) {
	cc := newCountingCache()
	h := newTestServer(t, WithCache(cc)).Router()
	id := createDiagram(t, h)

	get := func() string {
		req := httptest.NewRequest("GET", "/diagrams/"+id+".svg", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		return rec.Body.String()
	}

	first := get()
	second := get()
	if first != second {
		t.Error("cached render should be byte-identical")
	}
	if cc.hits != 1 || cc.misses != 1 {
		t.Errorf("hits = %d, misses = %d; want 1 and 1", cc.hits, cc.misses)
	}

	// Toggling changes the collapse signature, so the next render misses.
	match := toggleLinkRe.FindStringSubmatch(first)
	if match == nil {
		t.Fatal("no toggle link in SVG")
	}
	req := httptest.NewRequest("GET", "/diagrams/"+id+"/toggle/"+match[1], nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	get()
	if cc.misses != 2 {
		t.Errorf("misses after toggle = %d, want 2", cc.misses)
	}
}

func TestRegistryExpiry(t *testing.T) {
	reg := NewRegistry(10 * time.Millisecond)
	eng, err := diagram.New(&tree.Node{Name: "x"}, diagram.DefaultConfig(), svg.Measurer())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := reg.Add(eng, "hash")
	if _, err := reg.Get(d.ID); err != nil {
		t.Fatalf("Get fresh: %v", err)
	}

	time.Sleep(25 * time.Millisecond)
	if _, err := reg.Get(d.ID); err != ErrDiagramExpired {
		t.Errorf("Get after TTL = %v, want ErrDiagramExpired", err)
	}

	if removed := reg.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d, want 1", removed)
	}
	if _, err := reg.Get(d.ID); err != ErrDiagramNotFound {
		t.Errorf("Get after cleanup = %v, want ErrDiagramNotFound", err)
	}
}

func TestRegistryAccessExtendsTTL(t *testing.T) {
	reg := NewRegistry(40 * time.Millisecond)
	eng, err := diagram.New(&tree.Node{Name: "x"}, diagram.DefaultConfig(), svg.Measurer())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d := reg.Add(eng, "hash")

	// Keep touching the diagram past its original deadline.
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		if _, err := reg.Get(d.ID); err != nil {
			t.Fatalf("Get during activity: %v", err)
		}
	}
}
