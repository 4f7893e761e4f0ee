package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"agenda/internal/storage"
)

const testToken = "tok-alice"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewRepository(t.TempDir() + "/agenda.db")
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	if err := repo.InsertToken(context.Background(), testToken, "alice"); err != nil {
		t.Fatalf("InsertToken: %v", err)
	}
	s := NewServer(":0", repo, nil)
	t.Cleanup(func() {
		s.Shutdown(context.Background())
		repo.Close()
	})
	return s
}

// do runs an authenticated request against the routed handler and decodes the
// JSON response into out when out is non-nil.
func do(t *testing.T, s *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decode response of %s %s: %v", method, path, err)
		}
	}
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated GET /tasks = %d, want 401", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)

	var created map[string]any
	rec := do(t, s, http.MethodPost, "/tasks", map[string]any{
		"title":   "write report",
		"dueDate": "2026-09-15",
		"list":    "IMPORTANT",
	}, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task = %d: %s", rec.Code, rec.Body.String())
	}
	id := int64(created["id"].(float64))

	var tasks []map[string]any
	if rec := do(t, s, http.MethodGet, "/tasks", nil, &tasks); rec.Code != http.StatusOK {
		t.Fatalf("list tasks = %d", rec.Code)
	}
	if len(tasks) != 1 || tasks[0]["list"] != "IMPORTANT" {
		t.Errorf("tasks = %v", tasks)
	}

	var updated map[string]any
	rec = do(t, s, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), map[string]any{"completed": true}, &updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch task = %d: %s", rec.Code, rec.Body.String())
	}
	if updated["completed"] != true || updated["title"] != "write report" {
		t.Errorf("patched task = %v", updated)
	}

	if rec := do(t, s, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete task = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete missing task = %d, want 404", rec.Code)
	}
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "empty title", body: map[string]any{"title": " ", "dueDate": "2026-09-15", "list": "GOALS"}},
		{name: "bad list", body: map[string]any{"title": "x", "dueDate": "2026-09-15", "list": "SOMEDAY"}},
		{name: "bad date", body: map[string]any{"title": "x", "dueDate": "15/09/2026", "list": "GOALS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, http.MethodPost, "/tasks", tt.body, nil); rec.Code != http.StatusBadRequest {
				t.Errorf("create = %d, want 400", rec.Code)
			}
		})
	}
}

func TestMonthAgendaMerge(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/calendar/events", map[string]any{
		"title":  "conference",
		"date":   "2026-09-10",
		"allDay": true,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/daily/appointment", map[string]any{
		"title":     "dentist",
		"date":      "2026-09-12",
		"startTime": "09:00",
		"endTime":   "09:30",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create appointment = %d: %s", rec.Code, rec.Body.String())
	}

	var items []map[string]any
	if rec := do(t, s, http.MethodGet, "/calendar/events?year=2026&month=9", nil, &items); rec.Code != http.StatusOK {
		t.Fatalf("month agenda = %d", rec.Code)
	}
	if len(items) != 2 {
		t.Fatalf("agenda items = %d, want 2", len(items))
	}
	if items[0]["kind"] != "EVENT" || items[1]["kind"] != "APPOINTMENT" {
		t.Errorf("order = %v, %v; events must come first", items[0]["kind"], items[1]["kind"])
	}
	apt := items[1]
	if apt["id"] != "apt_1" {
		t.Errorf("appointment id = %v, want apt_1", apt["id"])
	}
	if apt["title"] != "09:00 dentist" {
		t.Errorf("appointment title = %v", apt["title"])
	}
	if apt["allDay"] != true {
		t.Error("merged appointment must be all-day")
	}
	if apt["color"] != "#BAE1FF" {
		t.Errorf("appointment color = %v, want default", apt["color"])
	}

	// Deleting via the prefixed agenda id removes the appointment and the
	// refreshed view drops it.
	if rec := do(t, s, http.MethodDelete, "/calendar/events/apt_1", nil, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete apt_1 = %d", rec.Code)
	}
	items = nil
	do(t, s, http.MethodGet, "/calendar/events?year=2026&month=9", nil, &items)
	if len(items) != 1 || items[0]["kind"] != "EVENT" {
		t.Errorf("agenda after delete = %v", items)
	}
}

func TestMonthAgendaInvalidMonth(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/calendar/events?year=2026&month=13", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("month 13 = %d, want 400", rec.Code)
	}
}

func TestRangeParamsRequired(t *testing.T) {
	s := newTestServer(t)

	// A read without a usable range must fail, never fall back to the
	// current month or day.
	paths := []string{
		"/calendar/events",
		"/calendar/events?year=2026",
		"/calendar/events?year=abc&month=9",
		"/finances/monthly",
		"/finances/monthly?month=9",
		"/finances/monthly?year=2026&month=ix",
		"/daily",
		"/daily?date=12-09-2026",
		"/daily/schedule",
		"/daily/schedule?date=someday",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, path, nil, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("GET %s = %d, want 400", path, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("GET %s should carry an error message, got %q", path, rec.Body.String())
			}
		})
	}
}

func TestAppointmentValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		start, end string
		wantStatus int
	}{
		{name: "valid", start: "09:00", end: "10:00", wantStatus: http.StatusCreated},
		{name: "bad clock", start: "9am", end: "10:00", wantStatus: http.StatusBadRequest},
		{name: "out of range", start: "24:00", end: "25:00", wantStatus: http.StatusBadRequest},
		{name: "end before start", start: "10:00", end: "09:00", wantStatus: http.StatusBadRequest},
		{name: "midnight rollover", start: "23:45", end: "00:15", wantStatus: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/daily/appointment", map[string]any{
				"title":     "x",
				"date":      "2026-09-12",
				"startTime": tt.start,
				"endTime":   tt.end,
			}, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("create = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestAppointmentPatchValidatesMergedState(t *testing.T) {
	s := newTestServer(t)

	var created map[string]any
	rec := do(t, s, http.MethodPost, "/daily/appointment", map[string]any{
		"title":     "standup",
		"date":      "2026-09-12",
		"startTime": "09:00",
		"endTime":   "09:30",
	}, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}
	id := int64(created["id"].(float64))

	// Moving only the end before the existing start must be rejected.
	rec = do(t, s, http.MethodPatch, fmt.Sprintf("/daily/appointment/%d", id),
		map[string]any{"endTime": "08:00"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("patch end before start = %d, want 400", rec.Code)
	}

	var updated map[string]any
	rec = do(t, s, http.MethodPatch, fmt.Sprintf("/daily/appointment/%d", id),
		map[string]any{"location": "room 2"}, &updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch location = %d", rec.Code)
	}
	if updated["location"] != "room 2" || updated["startTime"] != "09:00" {
		t.Errorf("patched = %v", updated)
	}
}

func TestDailyViewAndSchedule(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/calendar/events", map[string]any{
		"title": "holiday", "date": "2026-09-12", "allDay": true,
	}, nil)
	do(t, s, http.MethodPost, "/calendar/events", map[string]any{
		"title": "timed meeting", "date": "2026-09-12", "allDay": false,
	}, nil)
	do(t, s, http.MethodPost, "/daily/appointment", map[string]any{
		"title": "dentist", "date": "2026-09-12", "startTime": "09:15", "endTime": "09:45",
	}, nil)

	var daily map[string]any
	if rec := do(t, s, http.MethodGet, "/daily?date=2026-09-12", nil, &daily); rec.Code != http.StatusOK {
		t.Fatalf("daily = %d", rec.Code)
	}
	events := daily["events"].([]any)
	if len(events) != 1 {
		t.Errorf("daily events = %d, want only the all-day one", len(events))
	}
	if len(daily["appointments"].([]any)) != 1 {
		t.Errorf("daily appointments = %v", daily["appointments"])
	}

	var schedule map[string]any
	if rec := do(t, s, http.MethodGet, "/daily/schedule?date=2026-09-12", nil, &schedule); rec.Code != http.StatusOK {
		t.Fatalf("schedule = %d", rec.Code)
	}
	morning := schedule["morning"].([]any)
	afternoon := schedule["afternoon"].([]any)
	if len(morning) != 19 || len(afternoon) != 19 {
		t.Fatalf("columns = %d + %d slots, want 19 + 19", len(morning), len(afternoon))
	}
	first := morning[0].(map[string]any)
	if first["start"] != "05:00" {
		t.Errorf("first slot = %v, want 05:00", first["start"])
	}
	// 09:15 falls in the 09:00 slot.
	slot := morning[8].(map[string]any)
	if slot["start"] != "09:00" {
		t.Fatalf("slot 8 start = %v", slot["start"])
	}
	if len(slot["appointments"].([]any)) != 1 {
		t.Errorf("09:00 slot appointments = %v", slot["appointments"])
	}
	last := afternoon[18].(map[string]any)
	if last["start"] != "23:30" || last["suggestedEnd"] != "00:00" {
		t.Errorf("last slot = %v", last)
	}
}

func TestFinanceLifecycle(t *testing.T) {
	s := newTestServer(t)

	var income map[string]any
	rec := do(t, s, http.MethodPost, "/finances", map[string]any{
		"kind":        "INCOME",
		"amount":      1000.00,
		"description": "salary",
		"category":    "work",
		"date":        "2026-09-01",
	}, &income)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/finances", map[string]any{
		"kind":        "EXPENSE",
		"amount":      250.50,
		"description": "rent",
		"category":    "home",
		"date":        "2026-09-02",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d: %s", rec.Code, rec.Body.String())
	}

	var statement map[string]any
	if rec := do(t, s, http.MethodGet, "/finances/monthly?year=2026&month=9", nil, &statement); rec.Code != http.StatusOK {
		t.Fatalf("statement = %d", rec.Code)
	}
	totals := statement["totals"].(map[string]any)
	if totals["income"] != 1000.0 || totals["expense"] != 250.5 {
		t.Errorf("totals = %v", totals)
	}
	if statement["balance"] != 749.5 {
		t.Errorf("balance = %v, want 749.5", statement["balance"])
	}
	txs := statement["transactions"].([]any)
	if len(txs) != 2 {
		t.Fatalf("transactions = %d, want 2", len(txs))
	}
	// Newest date first.
	if txs[0].(map[string]any)["description"] != "rent" {
		t.Errorf("first transaction = %v", txs[0])
	}

	id := int64(income["id"].(float64))
	if rec := do(t, s, http.MethodDelete, fmt.Sprintf("/finances/%d", id), nil, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete transaction = %d", rec.Code)
	}

	statement = nil
	do(t, s, http.MethodGet, "/finances/monthly?year=2026&month=9", nil, &statement)
	if statement["balance"] != -250.5 {
		t.Errorf("balance after delete = %v, want -250.5", statement["balance"])
	}
}

func TestFinanceValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "bad kind", body: map[string]any{"kind": "TRANSFER", "amount": 10, "description": "x", "category": "y", "date": "2026-09-01"}},
		{name: "zero amount", body: map[string]any{"kind": "EXPENSE", "amount": 0, "description": "x", "category": "y", "date": "2026-09-01"}},
		{name: "negative amount", body: map[string]any{"kind": "EXPENSE", "amount": -5, "description": "x", "category": "y", "date": "2026-09-01"}},
		{name: "empty description", body: map[string]any{"kind": "EXPENSE", "amount": 10, "description": " ", "category": "y", "date": "2026-09-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, http.MethodPost, "/finances", tt.body, nil); rec.Code != http.StatusBadRequest {
				t.Errorf("create = %d, want 400", rec.Code)
			}
		})
	}
}

func TestOwnerIsolation(t *testing.T) {
	s := newTestServer(t)
	if err := s.repo.InsertToken(context.Background(), "tok-bob", "bob"); err != nil {
		t.Fatalf("InsertToken: %v", err)
	}

	var created map[string]any
	do(t, s, http.MethodPost, "/tasks", map[string]any{
		"title": "secret", "dueDate": "2026-09-15", "list": "GOALS",
	}, &created)
	id := int64(created["id"].(float64))

	if rec := doAs(t, s, "tok-bob", http.MethodGet, fmt.Sprintf("/tasks/%d", id)); rec.Code != http.StatusNotFound {
		t.Errorf("foreign task read = %d, want 404", rec.Code)
	}
}

func doAs(t *testing.T, s *Server, token, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAgendaDeleteOwnerIsolation(t *testing.T) {
	s := newTestServer(t)
	if err := s.repo.InsertToken(context.Background(), "tok-bob", "bob"); err != nil {
		t.Fatalf("InsertToken: %v", err)
	}

	var event map[string]any
	rec := do(t, s, http.MethodPost, "/calendar/events", map[string]any{
		"title": "offsite", "date": "2026-09-10", "allDay": true,
	}, &event)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event = %d", rec.Code)
	}
	eventID := int64(event["id"].(float64))

	rec = do(t, s, http.MethodPost, "/daily/appointment", map[string]any{
		"title": "dentist", "date": "2026-09-12", "startTime": "09:00", "endTime": "09:30",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create appointment = %d", rec.Code)
	}

	// Another owner deleting by event id or by prefixed agenda id gets a 404
	// and leaves the rows untouched.
	if rec := doAs(t, s, "tok-bob", http.MethodDelete, fmt.Sprintf("/calendar/events/%d", eventID)); rec.Code != http.StatusNotFound {
		t.Errorf("foreign event delete = %d, want 404", rec.Code)
	}
	if rec := doAs(t, s, "tok-bob", http.MethodDelete, "/calendar/events/apt_1"); rec.Code != http.StatusNotFound {
		t.Errorf("foreign appointment delete = %d, want 404", rec.Code)
	}

	var items []map[string]any
	if rec := do(t, s, http.MethodGet, "/calendar/events?year=2026&month=9", nil, &items); rec.Code != http.StatusOK {
		t.Fatalf("month agenda = %d", rec.Code)
	}
	if len(items) != 2 {
		t.Errorf("agenda after foreign deletes = %d items, want 2", len(items))
	}
}
