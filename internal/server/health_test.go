package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealthOK(t *testing.T) {
	db := newTestDB(t)
	h := handleHealth(testLogger(), db)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["sqlite"].Status != "ok" {
		t.Errorf("expected sqlite ok, got %+v", resp)
	}
}

func TestHandleHealthDatabaseDown(t *testing.T) {
	db := newTestDB(t)
	db.Close()
	h := handleHealth(testLogger(), db)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp HealthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["sqlite"].Status != "error" {
		t.Errorf("expected sqlite error, got %+v", resp)
	}
}
