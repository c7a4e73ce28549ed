package availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
)

// buildTestRouter wires the agenda endpoints against the in-memory store.
// The db-backed daily summary is not exercised here.
func buildTestRouter(store AgendaStore) *mux.Router {
	router := mux.NewRouter()
	handler := NewAvailabilityHandler(nil, store, nil)
	handler.RegisterRoutes(router)
	return router
}

func decodeDay(t *testing.T, body *httptest.ResponseRecorder) models.DayAvailability {
	t.Helper()
	var day models.DayAvailability
	if err := json.NewDecoder(body.Body).Decode(&day); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return day
}

func TestGetDayDefaultsWhenUnwritten(t *testing.T) {
	router := buildTestRouter(NewMemoryAgendaStore())

	req := httptest.NewRequest(http.MethodGet, "/guides/3/agenda/2024-06-10", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	day := decodeDay(t, resp)
	if day.Available || len(day.Slots) != 0 {
		t.Errorf("expected default record, got %+v", day)
	}
}

func TestPutThenGetDay(t *testing.T) {
	router := buildTestRouter(NewMemoryAgendaStore())

	body := `{"available":true,"slots":["10:00-14:00"]}`
	req := httptest.NewRequest(http.MethodPut, "/guides/3/agenda/2024-06-10", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/guides/3/agenda/2024-06-10", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	day := decodeDay(t, resp)
	if !day.Available || len(day.Slots) != 1 || day.Slots[0] != "10:00-14:00" {
		t.Errorf("round trip mismatch: %+v", day)
	}
}

func TestPutDayRejectsMalformedSlot(t *testing.T) {
	router := buildTestRouter(NewMemoryAgendaStore())

	body := `{"available":true,"slots":["10:00"]}`
	req := httptest.NewRequest(http.MethodPut, "/guides/3/agenda/2024-06-10", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.Code)
	}
}

func TestToggleEndpoint(t *testing.T) {
	router := buildTestRouter(NewMemoryAgendaStore())

	req := httptest.NewRequest(http.MethodPost, "/guides/3/agenda/2024-06-10/toggle", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	day := decodeDay(t, resp)
	if !day.Available {
		t.Error("first toggle should make the day available")
	}
	if len(day.Slots) != 1 || day.Slots[0] != DefaultSlot {
		t.Errorf("first toggle should seed the default slot, got %v", day.Slots)
	}

	req = httptest.NewRequest(http.MethodPost, "/guides/3/agenda/2024-06-10/toggle", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	day = decodeDay(t, resp)
	if day.Available || len(day.Slots) != 0 {
		t.Errorf("second toggle should clear the day, got %+v", day)
	}
}

func TestAddSlotEndpoint(t *testing.T) {
	store := NewMemoryAgendaStore()
	router := buildTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/guides/3/agenda/2024-06-10/slots",
		strings.NewReader(`{"slot":"09:00-13:00"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	day := decodeDay(t, resp)
	if !day.Available || len(day.Slots) != 1 {
		t.Errorf("unexpected day after add: %+v", day)
	}

	// Missing leading zero: rejected, nothing stored.
	req = httptest.NewRequest(http.MethodPost, "/guides/3/agenda/2024-06-10/slots",
		strings.NewReader(`{"slot":"9:00-17:00"}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for malformed slot, got %d", resp.Code)
	}
	stored, _ := store.GetAgenda(3, "2024-06-10")
	if len(stored.Slots) != 1 {
		t.Errorf("rejected slot must not be stored, got %v", stored.Slots)
	}
}

func TestRemoveSlotEndpoint(t *testing.T) {
	store := NewMemoryAgendaStore()
	store.SetAgenda(3, "2024-06-10", models.DayAvailability{
		Available: true,
		Slots:     []string{"08:00-10:00", "11:00-13:00"},
	})
	router := buildTestRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/guides/3/agenda/2024-06-10/slots/0", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	day := decodeDay(t, resp)
	if !day.Available || len(day.Slots) != 1 || day.Slots[0] != "11:00-13:00" {
		t.Errorf("unexpected day after removal: %+v", day)
	}

	req = httptest.NewRequest(http.MethodDelete, "/guides/3/agenda/2024-06-10/slots/0", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	day = decodeDay(t, resp)
	if day.Available || len(day.Slots) != 0 {
		t.Errorf("removing the last slot should clear the day, got %+v", day)
	}

	req = httptest.NewRequest(http.MethodDelete, "/guides/3/agenda/2024-06-10/slots/0", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404 for out-of-range index, got %d", resp.Code)
	}
}

func TestWeekViewEndpoint(t *testing.T) {
	store := NewMemoryAgendaStore()
	store.SetAgenda(3, "2024-06-12", models.DayAvailability{Available: true, Slots: []string{"09:00-17:00"}})
	router := buildTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/guides/3/agenda/week/2024-06-12", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var view struct {
		Dates []string                          `json:"dates"`
		Days  map[string]models.DayAvailability `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(view.Dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(view.Dates))
	}
	if view.Dates[0] != "2024-06-10" || view.Dates[6] != "2024-06-16" {
		t.Errorf("unexpected week bounds: %v", view.Dates)
	}
	if !view.Days["2024-06-12"].Available {
		t.Error("written day missing from week view")
	}
	if view.Days["2024-06-13"].Available {
		t.Error("unwritten day should default to unavailable")
	}
}
