package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
	"github.com/Harsh2563/flagright-relgraph/internal/logging"
	"github.com/Harsh2563/flagright-relgraph/internal/metrics"
	"github.com/Harsh2563/flagright-relgraph/internal/service"
)

type apiStubSource struct {
	mu      sync.Mutex
	users   map[string]domain.UserRelationshipResponse
	tx      domain.TransactionRelationshipResponse
	path    domain.ShortestPathResponse
	err     error
	pingErr error
	calls   []string
}

func (s *apiStubSource) UserRelationships(_ context.Context, userID string) ([]domain.UserRelationshipResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, userID)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	resp, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []domain.UserRelationshipResponse{resp}, nil
}

func (s *apiStubSource) TransactionRelationships(context.Context, string) (domain.TransactionRelationshipResponse, error) {
	return s.tx, s.err
}

func (s *apiStubSource) ShortestPath(context.Context, string, string) (domain.ShortestPathResponse, error) {
	return s.path, s.err
}

func (s *apiStubSource) Ping(context.Context) error {
	return s.pingErr
}

func newTestRouter(src service.Source, m *metrics.Metrics, origins ...string) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewExplorerService(src, logger, m, 2)

	deps := RouterDependencies{
		Health:         svc,
		API:            NewAPIHandlers(logger, svc),
		AllowedOrigins: origins,
	}
	if m != nil {
		deps.Metrics = m.Handler()
	}
	return NewRouter(logger, deps)
}

func sharedEmail(userID string) domain.UserRelationshipResponse {
	return domain.UserRelationshipResponse{
		Status: "success",
		Data: &domain.UserRelationshipData{
			DirectRelationships: []domain.RelationshipRecord{{
				RelationshipType: domain.ParseRelationshipLabel("SHARED_EMAIL"),
				User:             domain.User{ID: userID},
			}},
		},
	}
}

type graphPayload struct {
	Nodes []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"nodes"`
	Edges []struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Label  string `json:"label"`
	} `json:"edges"`
	Stats struct {
		NodeCount int `json:"nodeCount"`
		EdgeCount int `json:"edgeCount"`
	} `json:"stats"`
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetUserGraph(t *testing.T) {
	src := &apiStubSource{users: map[string]domain.UserRelationshipResponse{"u1": sharedEmail("u2")}}
	router := newTestRouter(src, nil)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/graph/users/u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(logging.RequestIDHeader) == "" {
		t.Error("expected a generated request id header")
	}

	var payload graphPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 2 || payload.Nodes[0].ID != "u1" || payload.Nodes[0].Type != "center" {
		t.Fatalf("unexpected nodes %+v", payload.Nodes)
	}
	if len(payload.Edges) != 1 || payload.Edges[0].Label != "SHARED_EMAIL" {
		t.Fatalf("unexpected edges %+v", payload.Edges)
	}
	if payload.Stats.NodeCount != 2 || payload.Stats.EdgeCount != 1 {
		t.Errorf("unexpected stats %+v", payload.Stats)
	}
}

func TestGetUserGraphsParsesAnchors(t *testing.T) {
	src := &apiStubSource{users: map[string]domain.UserRelationshipResponse{
		"u1": sharedEmail("u3"),
		"u2": sharedEmail("u3"),
	}}
	router := newTestRouter(src, nil)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/graph/users?anchor=u1&anchor=,u2&center=u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(src.calls) != 2 {
		t.Fatalf("expected 2 source calls, got %v", src.calls)
	}

	var payload graphPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Nodes[0].ID != "u1" {
		t.Errorf("expected u1 as center, got %q", payload.Nodes[0].ID)
	}
}

func TestGetUserGraphsRequiresAnchor(t *testing.T) {
	router := newTestRouter(&apiStubSource{}, nil)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/graph/users?center=u1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{name: "not found", target: "/graph/users/missing", want: http.StatusNotFound},
		{name: "source failure", target: "/graph/transactions/t1", err: errors.New("connection refused"), want: http.StatusBadGateway},
		{name: "missing path ids", target: "/graph/path?sourceUserId=u1", want: http.StatusBadRequest},
		{name: "unknown route", target: "/graph/unknown", want: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&apiStubSource{err: tc.err}, nil)
			rec := serve(t, router, httptest.NewRequest(http.MethodGet, tc.target, nil))
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected error message in body")
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	src := &apiStubSource{path: domain.ShortestPathResponse{
		Status: "success",
		Data: &domain.ShortestPathData{
			Path: domain.Path{
				Nodes: []domain.PathNode{
					domain.UserNode(domain.User{ID: "u2"}),
					domain.TransactionNode(domain.Transaction{ID: "t1"}),
					domain.UserNode(domain.User{ID: "u1"}),
				},
				Relationships: []domain.PathRelationship{
					{Type: domain.RelReceivedBy, StartNodeID: "t1", EndNodeID: "u2"},
					{Type: domain.RelSent, StartNodeID: "u1", EndNodeID: "t1"},
				},
			},
			Length: 2,
		},
	}}
	router := newTestRouter(src, nil)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/graph/path?sourceUserId=u1&targetUserId=u2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Nodes []struct {
			Type       string `json:"type"`
			Properties struct {
				ID string `json:"id"`
			} `json:"properties"`
		} `json:"nodes"`
		Steps []struct {
			Label string `json:"label"`
		} `json:"steps"`
		Complete bool         `json:"complete"`
		Length   int          `json:"length"`
		Graph    graphPayload `json:"graph"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var order []string
	for _, n := range payload.Nodes {
		order = append(order, n.Properties.ID)
	}
	if strings.Join(order, ",") != "u1,t1,u2" {
		t.Fatalf("unexpected node order %v", order)
	}
	if len(payload.Steps) != 2 || payload.Steps[0].Label != "SENT" || payload.Steps[1].Label != "RECEIVED_BY" {
		t.Fatalf("unexpected steps %+v", payload.Steps)
	}
	if !payload.Complete || payload.Length != 2 {
		t.Errorf("expected complete path of length 2, got complete=%v length=%d", payload.Complete, payload.Length)
	}
	if len(payload.Graph.Nodes) != 3 || len(payload.Graph.Edges) != 2 {
		t.Errorf("unexpected path graph %+v", payload.Graph)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&apiStubSource{pingErr: errors.New("upstream down")}, nil)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Errorf("expected degraded status, got %s", rec.Body.String())
	}

	router = newTestRouter(&apiStubSource{}, nil)
	rec = serve(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	src := &apiStubSource{users: map[string]domain.UserRelationshipResponse{"u1": sharedEmail("u2")}}

	rec := serve(t, newTestRouter(src, nil), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected metrics to be disabled, got %d", rec.Code)
	}

	router := newTestRouter(src, metrics.New())
	serve(t, router, httptest.NewRequest(http.MethodGet, "/graph/users/u1", nil))

	rec = serve(t, router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "relgraph_graph_builds_total") {
		t.Errorf("expected build counter in metrics output")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(&apiStubSource{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(logging.RequestIDHeader, "req-123")
	rec := serve(t, router, req)

	if got := rec.Header().Get(logging.RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id req-123, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(&apiStubSource{}, nil, "http://ui.test")

	req := httptest.NewRequest(http.MethodOptions, "/graph/users/u1", nil)
	req.Header.Set("Origin", "http://ui.test")
	rec := serve(t, router, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://ui.test" {
		t.Errorf("unexpected allow origin %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodOptions, "/graph/users/u1", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = serve(t, router, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected forbidden preflight, got %d", rec.Code)
	}
}
