package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SaiManikanta3434/Digitly-ai/internal/config"
	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
	"github.com/SaiManikanta3434/Digitly-ai/internal/search"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1", Port: 0,
			ReadTimeout: 30 * time.Second, WriteTimeout: 60 * time.Second,
			IdleTimeout: 60 * time.Second, ShutdownTimeout: 30 * time.Second,
			RequestTimeout: 60 * time.Second,
		},
		Import: config.ImportConfig{
			MaxFileSize: 10 << 20, MaxConcurrent: 2,
			MaxWaitTime: time.Second, Timeout: time.Minute,
		},
		Rate:     config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{EnableCSP: true},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *core.Service) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	service := core.NewService(core.NewState(), cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)
	searcher := search.NewSearcher(nil, time.Minute, nil)
	return NewServer(service, searcher, cfg), service
}

func seedDataset(service *core.Service) {
	service.State().ReplaceDataset(core.Dataset{
		Clients: []core.ClientRecord{
			{ClientID: "C1", ClientName: "Acme", PriorityLevel: 5, GroupTag: "alpha"},
			{ClientID: "C2", ClientName: "Beta Corp", PriorityLevel: 2, GroupTag: "beta"},
		},
		Workers: []core.WorkerRecord{
			{WorkerID: "W1", WorkerName: "Ada", Skills: []string{"welding"}, HourlyRate: 40},
		},
		Tasks: []core.TaskRecord{
			{TaskID: "T1", TaskName: "Weld frame", Duration: 3, RequiredSkills: []string{"welding"}},
		},
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status  string             `json:"status"`
		Imports core.LimiterStatus `json:"imports"`
	}
	decodeBody(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Imports.MaxConcurrent != 2 {
		t.Errorf("imports.max_concurrent = %d, want 2", body.Imports.MaxConcurrent)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'none'") {
		t.Errorf("Content-Security-Policy = %q", got)
	}
}

func multipartImport(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, content := range files {
		fw, err := w.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	srv, service := newTestServer(t, nil)

	body, contentType := multipartImport(t, map[string]string{
		"clients": "Client ID,Client Name,Priority Level\nC1,Acme,3\n",
		"workers": "Worker ID,Worker Name,Skills\nW1,Ada,\"welding, painting\"\n",
		"tasks":   "Task ID,Task Name,Duration\nT1,Weld,2\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result core.ImportResult
	decodeBody(t, rec, &result)
	if result.ImportID == "" {
		t.Error("importId not set")
	}
	if len(result.Dataset.Clients) != 1 || len(result.Dataset.Workers) != 1 || len(result.Dataset.Tasks) != 1 {
		t.Errorf("unexpected dataset counts: %+v", result.Dataset)
	}

	ds := service.State().Dataset()
	if len(ds.Clients) != 1 || ds.Clients[0].ClientID != "C1" {
		t.Errorf("state not replaced by import: %+v", ds.Clients)
	}
}

func TestImportEndpointMissingFile(t *testing.T) {
	srv, service := newTestServer(t, nil)

	body, contentType := multipartImport(t, map[string]string{
		"clients": "Client ID,Client Name\nC1,Acme\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "FILE005" {
		t.Errorf("code = %s, want FILE005", resp.Code)
	}
	if got := service.State().Dataset(); len(got.Clients) != 0 {
		t.Errorf("failed import touched state: %+v", got.Clients)
	}
}

func TestQueryDataEndpoint(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodGet, "/api/data/clients?q=acme", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Kind    string              `json:"kind"`
		Records []core.ClientRecord `json:"records"`
		Total   int                 `json:"total"`
	}
	decodeBody(t, rec, &body)
	if body.Kind != "clients" || body.Total != 1 {
		t.Errorf("kind %q total %d, want clients/1", body.Kind, body.Total)
	}
	if len(body.Records) != 1 || body.Records[0].ClientID != "C1" {
		t.Errorf("records = %+v, want C1", body.Records)
	}
}

func TestQueryDataSorted(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodGet, "/api/data/clients?sort=PriorityLevel&dir=desc", nil)
	var body struct {
		Records []core.ClientRecord `json:"records"`
	}
	decodeBody(t, rec, &body)
	if len(body.Records) != 2 || body.Records[0].ClientID != "C1" {
		t.Errorf("descending priority sort = %+v, want C1 first", body.Records)
	}
}

func TestQueryDataToggleCycle(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	type gridBody struct {
		Records []core.ClientRecord `json:"records"`
		Sort    string              `json:"sort"`
		Dir     string              `json:"dir"`
	}

	// First click on a column sorts ascending.
	var body gridBody
	rec := doJSON(t, srv, http.MethodGet, "/api/data/clients?toggle=PriorityLevel", nil)
	decodeBody(t, rec, &body)
	if body.Sort != "PriorityLevel" || body.Dir != "asc" {
		t.Fatalf("first click sort/dir = %q/%q, want PriorityLevel/asc", body.Sort, body.Dir)
	}
	if len(body.Records) != 2 || body.Records[0].ClientID != "C2" {
		t.Errorf("ascending records = %+v, want C2 first", body.Records)
	}

	// Second click on the same column flips to descending.
	body = gridBody{}
	rec = doJSON(t, srv, http.MethodGet, "/api/data/clients?sort=PriorityLevel&dir=asc&toggle=PriorityLevel", nil)
	decodeBody(t, rec, &body)
	if body.Sort != "PriorityLevel" || body.Dir != "desc" {
		t.Fatalf("second click sort/dir = %q/%q, want PriorityLevel/desc", body.Sort, body.Dir)
	}
	if body.Records[0].ClientID != "C1" {
		t.Errorf("descending records = %+v, want C1 first", body.Records)
	}

	// Third click clears the sort.
	body = gridBody{}
	rec = doJSON(t, srv, http.MethodGet, "/api/data/clients?sort=PriorityLevel&dir=desc&toggle=PriorityLevel", nil)
	decodeBody(t, rec, &body)
	if body.Sort != "" || body.Dir != "" {
		t.Errorf("third click sort/dir = %q/%q, want cleared", body.Sort, body.Dir)
	}

	// Clicking a different column starts a fresh ascending sort.
	body = gridBody{}
	rec = doJSON(t, srv, http.MethodGet, "/api/data/clients?sort=PriorityLevel&dir=asc&toggle=ClientName", nil)
	decodeBody(t, rec, &body)
	if body.Sort != "ClientName" || body.Dir != "asc" {
		t.Errorf("new column sort/dir = %q/%q, want ClientName/asc", body.Sort, body.Dir)
	}
}

func TestQueryDataUnknownKind(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/data/teams", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "KIND001" {
		t.Errorf("code = %s, want KIND001", resp.Code)
	}
}

func TestUpdateCellEndpoint(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodPatch, "/api/data/clients/C1",
		map[string]any{"field": "PriorityLevel", "value": "not a number"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Record core.ClientRecord   `json:"record"`
		Notes  []core.CoercionNote `json:"coercionNotes"`
	}
	decodeBody(t, rec, &body)
	if body.Record.PriorityLevel != 1 {
		t.Errorf("PriorityLevel = %d, want fallback 1", body.Record.PriorityLevel)
	}
	if len(body.Notes) != 1 {
		t.Errorf("coercionNotes = %+v, want one substitution", body.Notes)
	}
}

func TestUpdateCellRenameIDReturnsRecord(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodPatch, "/api/data/clients/C1",
		map[string]any{"field": "ClientID", "value": "C10"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Record *core.ClientRecord `json:"record"`
	}
	decodeBody(t, rec, &body)
	if body.Record == nil {
		t.Fatal("record is null after an id edit")
	}
	if body.Record.ClientID != "C10" {
		t.Errorf("ClientID = %q, want C10", body.Record.ClientID)
	}
}

func TestUpdateCellNotFound(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodPatch, "/api/data/clients/C9",
		map[string]any{"field": "PriorityLevel", "value": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "REC001" {
		t.Errorf("code = %s, want REC001", resp.Code)
	}
}

func TestRulesEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/rules", map[string]any{
		"type":     "coRun",
		"enabled":  true,
		"priority": 3,
		"coRun":    map[string]any{"taskIds": []string{"T1", "T2"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created core.Rule
	decodeBody(t, rec, &created)
	if created.ID == "" || created.Type != core.RuleCoRun {
		t.Fatalf("created rule = %+v", created)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/rules", nil)
	var list struct {
		Rules []core.Rule `json:"rules"`
	}
	decodeBody(t, rec, &list)
	if len(list.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(list.Rules))
	}

	created.Priority = 9
	rec = doJSON(t, srv, http.MethodPut, "/api/rules/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/rules/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/rules/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateRuleInvalid(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/rules", map[string]any{
		"type":  "coRun",
		"coRun": map[string]any{"taskIds": []string{"T1"}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "RULE002" {
		t.Errorf("code = %s, want RULE002", resp.Code)
	}
}

func TestWeightsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/priorities", nil)
	var w core.Weights
	decodeBody(t, rec, &w)
	if w != core.DefaultWeights() {
		t.Errorf("initial weights = %+v, want defaults", w)
	}

	next := core.Weights{PriorityLevel: 2, TaskFulfillment: 1, Fairness: 1, WorkloadBalance: 1, Efficiency: 1}
	rec = doJSON(t, srv, http.MethodPut, "/api/priorities", next)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/priorities", nil)
	decodeBody(t, rec, &w)
	if w != next {
		t.Errorf("weights = %+v, want %+v stored as given", w, next)
	}
}

func TestFindingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/findings", map[string]any{
		"kind":     "clients",
		"entityId": "C1",
		"field":    "PriorityLevel",
		"severity": "warning",
		"message":  "priority outside the usual range",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created core.ValidationFinding
	decodeBody(t, rec, &created)
	if created.ID == "" {
		t.Fatal("finding id not assigned")
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/findings", nil)
	var list struct {
		Findings []core.ValidationFinding `json:"findings"`
	}
	decodeBody(t, rec, &list)
	if len(list.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(list.Findings))
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/findings/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("dismiss status = %d", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodPost, "/api/search", map[string]any{
		"query": "workers with welding",
		"kind":  "workers",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result search.Result
	decodeBody(t, rec, &result)
	if result.Source != "fallback" {
		t.Errorf("source = %q, want fallback with no provider configured", result.Source)
	}
	if len(result.Entities) != 1 || result.Entities[0].ID != "W1" {
		t.Errorf("entities = %+v, want W1", result.Entities)
	}
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/search", map[string]any{"query": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	srv, service := newTestServer(t, nil)
	seedDataset(service)

	rec := doJSON(t, srv, http.MethodGet, "/api/export/clients?format=json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "clients.json") {
		t.Errorf("content disposition = %q, want clients.json attachment", cd)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/export/clients?format=pdf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "FMT001" {
		t.Errorf("code = %s, want FMT001", resp.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/export/rules", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rules export status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "rules.json") {
		t.Errorf("content disposition = %q, want rules.json attachment", cd)
	}
}

func TestRateLimiting(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, ImportLimit: 1}
	srv, _ := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		if rec := doJSON(t, srv, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "RATE001" {
		t.Errorf("code = %s, want RATE001", resp.Code)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", fmt.Sprintf("test-%d", time.Now().UnixNano()))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
