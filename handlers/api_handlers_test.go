package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"reschool-widgets/config"
	"reschool-widgets/db"
	"reschool-widgets/models"
	"reschool-widgets/retrieval"
	"reschool-widgets/widget"
	"reschool-widgets/writer"
)

type recordingNotifier struct{ kinds []widget.Kind }

func (r *recordingNotifier) ReloadAll(context.Context) error {
	r.kinds = append(r.kinds, "*")
	return nil
}

func (r *recordingNotifier) Reload(_ context.Context, k widget.Kind) error {
	r.kinds = append(r.kinds, k)
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *db.MemoryStore, *recordingNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Platform: config.PlatformMobile, SourceTimeout: time.Second}
	store := db.NewMemoryStore()
	notifier := &recordingNotifier{}
	chain := retrieval.ChainFor(cfg, store)
	chain.Logger = retrieval.Silent()

	router := gin.New()
	NewAPIHandler(writer.New(cfg, store, notifier), chain, 0).RegisterRoutes(router)
	return router, store, notifier
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestSaveThenReadSchedule(t *testing.T) {
	router, _, _ := setupRouter(t)
	doc := `{"date":"19 декабря","lessons":[{"num":1,"subject":"Математика","teacher":"Иванова","startTime":"08:30","endTime":"09:15","mark":"5","isPlaceholder":false}],"lastUpdated":"t"}`
	payload, _ := json.Marshal(map[string]string{"key": models.ScheduleKey, "data": doc})

	w := doRequest(router, http.MethodPost, "/api/widgets/data", string(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on save, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/widgets/schedule?family=small", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on read, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["source"] != "shared-store" || body["family"] != "small" {
		t.Errorf("unexpected envelope %v", body)
	}
	data := body["data"].(map[string]any)
	lessons := data["lessons"].([]any)
	if len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %d", len(lessons))
	}
	lesson := lessons[0].(map[string]any)
	if lesson["subject"] != "Математика" || lesson["mark"] != "5" || lesson["startTime"] != "08:30" {
		t.Errorf("lesson not returned verbatim: %v", lesson)
	}
	view := body["view"].(map[string]any)
	if view["subtitle"] != "19 декабря" || view["empty"] != false {
		t.Errorf("unexpected view %v", view)
	}
}

func TestSaveMissingFields(t *testing.T) {
	router, _, _ := setupRouter(t)

	for _, payload := range []string{`{"key":"widget_grades_data"}`, `{"data":"{}"}`, `{}`} {
		w := doRequest(router, http.MethodPost, "/api/widgets/data", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %s, got %d", payload, w.Code)
			continue
		}
		body := decodeBody(t, w)
		if body["code"] != writer.CodeInvalidArgs || body["error"] != "Missing key or data" {
			t.Errorf("unexpected error body %v", body)
		}
	}

	w := doRequest(router, http.MethodPost, "/api/widgets/data", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestReadWithoutDataReturnsEmptyState(t *testing.T) {
	router, store, _ := setupRouter(t)
	_ = store.Set(context.Background(), models.GradesKey, `{"grades":"broken"}`)

	for _, kind := range []string{"schedule", "homework", "grades"} {
		w := doRequest(router, http.MethodGet, "/api/widgets/"+kind, "")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 for %s, got %d", kind, w.Code)
			continue
		}
		body := decodeBody(t, w)
		if body["source"] != "" {
			t.Errorf("expected no source for %s, got %v", kind, body["source"])
		}
		view := body["view"].(map[string]any)
		if view["empty"] != true || view["emptyText"] == "" {
			t.Errorf("expected empty state for %s, got %v", kind, view)
		}
	}
}

func TestUnknownWidget(t *testing.T) {
	router, _, _ := setupRouter(t)
	if w := doRequest(router, http.MethodGet, "/api/widgets/weather", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestReloadEndpoints(t *testing.T) {
	router, _, notifier := setupRouter(t)

	if w := doRequest(router, http.MethodPost, "/api/widgets/reload", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on reload all, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/widgets/reload/HomeworkWidget", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on reload kind, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/widgets/reload/weather", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown kind, got %d", w.Code)
	}
	if len(notifier.kinds) != 2 || notifier.kinds[0] != "*" || notifier.kinds[1] != widget.Homework {
		t.Errorf("unexpected reloads %v", notifier.kinds)
	}
}

func TestExportWorkbook(t *testing.T) {
	router, store, _ := setupRouter(t)
	_ = store.Set(context.Background(), models.HomeworkKey, `{"items":[{"subject":"Химия","text":"§3","date":"22.12","hasFiles":false}]}`)

	w := doRequest(router, http.MethodGet, "/api/widgets/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	subject, _ := f.GetCellValue("Homework", "A2")
	if subject != "Химия" {
		t.Errorf("expected homework row in export, got %q", subject)
	}
}

func TestPing(t *testing.T) {
	router, _, _ := setupRouter(t)
	if w := doRequest(router, http.MethodGet, "/api/ping", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
