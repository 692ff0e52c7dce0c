package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
)

// TestAPIKey is the key the fake Plane server accepts.
const TestAPIKey = "plane_api_testkey0123456789"

// RecordedRequest is one request received by PlaneServer.
type RecordedRequest struct {
	Method string
	Path   string // relative to /workspaces/{slug}, e.g. /projects/
	Query  url.Values
	APIKey string
	Body   map[string]any
}

// PlaneServer is an in-memory stand-in for the Plane REST API, backed by httptest.
type PlaneServer struct {
	Server    *httptest.Server
	Workspace string
	APIKey    string

	// PageSize > 0 makes list endpoints paginate with cursors.
	PageSize int
	// BareArrays makes list endpoints return plain JSON arrays instead of envelopes.
	BareArrays bool

	mu       sync.Mutex
	projects []models.Project
	issues   map[string][]models.Issue
	states   map[string]string
	statuses map[string]int
	requests []RecordedRequest
}

// NewPlaneServer starts a fake Plane API for workspace "test-space".
// It is closed automatically when the test ends.
func NewPlaneServer(t *testing.T) *PlaneServer {
	t.Helper()

	s := &PlaneServer{
		Workspace: "test-space",
		APIKey:    TestAPIKey,
		issues:    make(map[string][]models.Issue),
		states:    make(map[string]string),
		statuses:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Server.Close)
	return s
}

// BaseURL returns the API root, as PLANE_BASE_URL would be configured.
func (s *PlaneServer) BaseURL() string {
	return s.Server.URL + "/api/v1"
}

// Config returns a Plane configuration pointing at this server.
func (s *PlaneServer) Config() *config.PlaneConfig {
	return &config.PlaneConfig{
		APIKey:        s.APIKey,
		BaseURL:       s.BaseURL(),
		WorkspaceSlug: s.Workspace,
		HTTPTimeout:   5 * time.Second,
		PageSize:      100,
		MaxPages:      50,
	}
}

// AddProject seeds a project and returns it.
func (s *PlaneServer) AddProject(identifier, name string) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Project{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Name:       name,
		Network:    models.NetworkPublic,
	}
	s.projects = append(s.projects, p)
	return p
}

// IssueOption customizes a seeded issue.
type IssueOption func(s *PlaneServer, issue *models.Issue)

// WithPriority sets the issue priority.
func WithPriority(p models.Priority) IssueOption {
	return func(_ *PlaneServer, issue *models.Issue) { issue.Priority = p }
}

// WithState sets the workflow state and its expanded detail.
func WithState(id, name string) IssueOption {
	return func(s *PlaneServer, issue *models.Issue) {
		s.states[id] = name
		issue.State = id
		issue.StateDetail = &models.StateDetail{ID: id, Name: name}
	}
}

// WithAssignees sets the assignee IDs.
func WithAssignees(ids ...string) IssueOption {
	return func(_ *PlaneServer, issue *models.Issue) { issue.Assignees = ids }
}

// WithLabels sets the label IDs.
func WithLabels(ids ...string) IssueOption {
	return func(_ *PlaneServer, issue *models.Issue) { issue.Labels = ids }
}

// AddIssue seeds an issue with the next sequence ID of the project.
func (s *PlaneServer) AddIssue(projectID, name string, opts ...IssueOption) models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := models.Issue{
		ID:         uuid.NewString(),
		SequenceID: len(s.issues[projectID]) + 1,
		Name:       name,
		Priority:   models.PriorityNone,
		Project:    projectID,
	}
	for _, opt := range opts {
		opt(s, &issue)
	}
	s.issues[projectID] = append(s.issues[projectID], issue)
	return issue
}

// SetStatus forces every request matching method and path (relative to the
// workspace, e.g. "/projects/") to answer with status.
func (s *PlaneServer) SetStatus(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[method+" "+path] = status
}

// Requests returns a copy of every request received so far.
func (s *PlaneServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// CountRequests counts received requests with the given method.
func (s *PlaneServer) CountRequests(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request with the given method.
func (s *PlaneServer) LastRequest(method string) (RecordedRequest, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i], true
		}
	}
	return RecordedRequest{}, false
}

// Issue returns the stored issue.
func (s *PlaneServer) Issue(projectID, issueID string) (models.Issue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, issue := range s.issues[projectID] {
		if issue.ID == issueID {
			return issue, true
		}
	}
	return models.Issue{}, false
}

// HasProject reports whether a project with id exists.
func (s *PlaneServer) HasProject(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectIndex(projectID) >= 0
}

func (s *PlaneServer) projectIndex(projectID string) int {
	for i, p := range s.projects {
		if p.ID == projectID {
			return i
		}
	}
	return -1
}

func (s *PlaneServer) handle(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/workspaces/" + s.Workspace
	if !strings.HasPrefix(r.URL.Path, prefix+"/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workspace not found"})
		return
	}
	rel := strings.TrimPrefix(r.URL.Path, prefix)

	rec := RecordedRequest{
		Method: r.Method,
		Path:   rel,
		Query:  r.URL.Query(),
		APIKey: r.Header.Get("X-API-Key"),
	}
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &rec.Body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, rec)

	if rec.APIKey != s.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid API key"})
		return
	}

	if status, ok := s.statuses[r.Method+" "+rel]; ok {
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}

	parts := strings.Split(strings.Trim(rel, "/"), "/")
	if len(parts) == 0 || parts[0] != "projects" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	switch {
	case len(parts) == 1:
		s.handleProjects(w, r, rec)
	case len(parts) == 2:
		s.handleProject(w, r, parts[1])
	case len(parts) == 3 && parts[2] == "issues":
		s.handleIssues(w, r, parts[1], rec)
	case len(parts) == 4 && parts[2] == "issues":
		s.handleIssue(w, r, parts[1], parts[3], rec)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (s *PlaneServer) handleProjects(w http.ResponseWriter, r *http.Request, rec RecordedRequest) {
	switch r.Method {
	case http.MethodGet:
		s.writeList(w, r, toAny(s.projects))
	case http.MethodPost:
		name, _ := rec.Body["name"].(string)
		identifier, _ := rec.Body["identifier"].(string)
		if name == "" || identifier == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and identifier are required"})
			return
		}
		for _, p := range s.projects {
			if strings.EqualFold(p.Identifier, identifier) {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "identifier already exists"})
				return
			}
		}
		p := models.Project{ID: uuid.NewString(), Identifier: identifier, Name: name}
		p.Description, _ = rec.Body["description"].(string)
		if network, ok := rec.Body["network"].(float64); ok {
			p.Network = models.Network(network)
		}
		s.projects = append(s.projects, p)
		writeJSON(w, http.StatusCreated, p)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *PlaneServer) handleProject(w http.ResponseWriter, r *http.Request, projectID string) {
	idx := s.projectIndex(projectID)
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.projects[idx])
	case http.MethodDelete:
		s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
		delete(s.issues, projectID)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *PlaneServer) handleIssues(w http.ResponseWriter, r *http.Request, projectID string, rec RecordedRequest) {
	if s.projectIndex(projectID) < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.writeList(w, r, toAny(s.issues[projectID]))
	case http.MethodPost:
		name, _ := rec.Body["name"].(string)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}
		issue := models.Issue{
			ID:         uuid.NewString(),
			SequenceID: len(s.issues[projectID]) + 1,
			Project:    projectID,
			Priority:   models.PriorityNone,
		}
		s.applyIssueFields(&issue, rec.Body)
		s.issues[projectID] = append(s.issues[projectID], issue)
		writeJSON(w, http.StatusCreated, issue)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *PlaneServer) handleIssue(w http.ResponseWriter, r *http.Request, projectID, issueID string, rec RecordedRequest) {
	issues := s.issues[projectID]
	for i := range issues {
		if issues[i].ID != issueID {
			continue
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, issues[i])
		case http.MethodPatch:
			s.applyIssueFields(&issues[i], rec.Body)
			writeJSON(w, http.StatusOK, issues[i])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Issue not found"})
}

func (s *PlaneServer) applyIssueFields(issue *models.Issue, body map[string]any) {
	if v, ok := body["name"].(string); ok && v != "" {
		issue.Name = v
	}
	if v, ok := body["description_html"].(string); ok {
		issue.DescriptionHTML = v
	}
	if v, ok := body["priority"].(string); ok && v != "" {
		issue.Priority = models.Priority(v)
	}
	if v, ok := body["state"].(string); ok && v != "" {
		issue.State = v
		issue.StateDetail = nil
		if name, known := s.states[v]; known {
			issue.StateDetail = &models.StateDetail{ID: v, Name: name}
		}
	}
	if v, ok := body["assignees"].([]any); ok {
		issue.Assignees = toStrings(v)
	}
	if v, ok := body["labels"].([]any); ok {
		issue.Labels = toStrings(v)
	}
	if v, ok := body["start_date"].(string); ok && v != "" {
		issue.StartDate = &v
	}
	if v, ok := body["target_date"].(string); ok && v != "" {
		issue.TargetDate = &v
	}
}

// writeList answers a list request as a bare array, a single envelope, or a
// cursor-paginated envelope depending on the server settings.
func (s *PlaneServer) writeList(w http.ResponseWriter, r *http.Request, items []any) {
	if s.BareArrays {
		writeJSON(w, http.StatusOK, items)
		return
	}

	if s.PageSize <= 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"results":           items,
			"next_cursor":       "",
			"next_page_results": false,
			"total_results":     len(items),
		})
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("cursor"))
	if offset < 0 || offset > len(items) {
		offset = len(items)
	}
	end := offset + s.PageSize
	if end > len(items) {
		end = len(items)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":           items[offset:end],
		"next_cursor":       strconv.Itoa(end),
		"next_page_results": end < len(items),
		"total_results":     len(items),
	})
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}

func toStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
