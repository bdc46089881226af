package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"homai-zigbee/internal/controller"
	"homai-zigbee/internal/transport"
	"homai-zigbee/internal/zcldb"
)

func newTestController(t *testing.T) *controller.Controller {
	t.Helper()
	schema := zcldb.NewDatabase()
	if err := schema.LoadFile("../../testdata/zcl/general.xml"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	c := controller.New(transport.NewLoopback(), schema, 2)
	t.Cleanup(c.Close)
	return c
}

func TestHealthReportsDegradedWhenDisconnected(t *testing.T) {
	schema := zcldb.NewDatabase()
	if err := schema.LoadFile("../../testdata/zcl/general.xml"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	ctrl := controller.New(transport.NewLoopback(), schema, 2)
	ctrl.Close() // force disconnected before building the router

	r := NewRouter(ctrl, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestListAndGetNode(t *testing.T) {
	ctrl := newTestController(t)
	n := ctrl.NodeByExt(0x0011223344556677)
	n.UserDescriptor = "test-bulb"

	r := NewRouter(ctrl, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nodes", nil)
	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list nodes: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/nodes/0x0011223344556677", nil)
	rec = httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get node: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/nodes/0xdeaddeaddeaddead", nil)
	rec = httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown node: expected 404, got %d", rec.Code)
	}
}

func TestGetNodeRejectsMalformedExt(t *testing.T) {
	ctrl := newTestController(t)
	r := NewRouter(ctrl, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nodes/not-hex", nil)
	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetNodeDoesNotCreateOnMiss(t *testing.T) {
	ctrl := newTestController(t)
	r := NewRouter(ctrl, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nodes/0x9999999999999999", nil)
	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	if len(ctrl.Nodes()) != 0 {
		t.Fatalf("GET must not create a cache entry on miss, found %d nodes", len(ctrl.Nodes()))
	}
}
