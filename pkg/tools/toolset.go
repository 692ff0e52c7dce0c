// Package tools implements the Plane operations. Each takes one JSON object
// of parameters and returns a Result.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
	"github.com/ekaya-inc/plane-mcp/pkg/plane"
	"github.com/ekaya-inc/plane-mcp/pkg/services"
)

// Tool names.
const (
	CreateProjectTool = "create_plane_project"
	DeleteProjectTool = "delete_plane_project"
	ListProjectsTool  = "list_plane_projects"
	CreateIssueTool   = "create_plane_issue"
	ListIssuesTool    = "list_plane_issues"
	UpdateIssueTool   = "update_plane_issue"
	GetIssueIDTool    = "get_plane_issue_id"
)

// Operation is the shape shared by every Plane operation.
type Operation func(ctx context.Context, params string) Result

// Definition describes one operation.
type Definition struct {
	Name        string
	Description string
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
	Run         Operation
}

// Toolset holds the services behind the operations. It has no mutable
// state and is safe for concurrent use.
type Toolset struct {
	projects  services.ProjectService
	issues    services.IssueService
	resolver  services.IssueResolver
	workspace string
	logger    *zap.Logger
}

// NewToolset creates a Toolset from its services.
func NewToolset(
	projects services.ProjectService,
	issues services.IssueService,
	resolver services.IssueResolver,
	workspace string,
	logger *zap.Logger,
) *Toolset {
	return &Toolset{
		projects:  projects,
		issues:    issues,
		resolver:  resolver,
		workspace: workspace,
		logger:    logger.Named("tools"),
	}
}

// New wires a Plane client and the services from configuration.
func New(cfg *config.PlaneConfig, logger *zap.Logger) *Toolset {
	client := plane.NewClient(cfg, logger)
	resolver := services.NewIssueResolver(client, logger)
	return NewToolset(
		services.NewProjectService(client, logger),
		services.NewIssueService(client, resolver, logger),
		resolver,
		client.Workspace(),
		logger,
	)
}

// Workspace returns the Plane workspace slug the operations act on.
func (t *Toolset) Workspace() string {
	return t.workspace
}

// catalog describes every operation in a stable order. Run is bound per
// Toolset by Definitions.
var catalog = []Definition{
	{
		Name:        CreateProjectTool,
		Description: "Create a new project in the Plane workspace. Requires a name and a short identifier (e.g. CLT) used in issue codes.",
	},
	{
		Name:        DeleteProjectTool,
		Description: "Permanently delete a Plane project and all its issues. Requires confirm=true.",
		Destructive: true,
		Idempotent:  true,
	},
	{
		Name:        ListProjectsTool,
		Description: "List every project in the Plane workspace with its ID.",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        CreateIssueTool,
		Description: "Create an issue in a Plane project. Returns the issue name and its sequence number.",
	},
	{
		Name:        ListIssuesTool,
		Description: "List the issues of a Plane project, optionally filtered by state, priority, assignee or label.",
		ReadOnly:    true,
		Idempotent:  true,
	},
	{
		Name:        UpdateIssueTool,
		Description: "Update an issue. issue_id is either the issue UUID (with project_id) or an issue code such as CLT-37.",
		Idempotent:  true,
	},
	{
		Name:        GetIssueIDTool,
		Description: "Resolve an issue code such as CLT-37 to the issue UUID, project UUID, name and current state.",
		ReadOnly:    true,
		Idempotent:  true,
	},
}

// Catalog returns the operation descriptions without Run functions.
func Catalog() []Definition {
	return append([]Definition(nil), catalog...)
}

// Definitions lists every operation in a stable order, bound to t.
func (t *Toolset) Definitions() []Definition {
	ops := map[string]Operation{
		CreateProjectTool: t.CreateProject,
		DeleteProjectTool: t.DeleteProject,
		ListProjectsTool:  t.ListProjects,
		CreateIssueTool:   t.CreateIssue,
		ListIssuesTool:    t.ListIssues,
		UpdateIssueTool:   t.UpdateIssue,
		GetIssueIDTool:    t.GetIssueID,
	}

	defs := Catalog()
	for i := range defs {
		defs[i].Run = ops[defs[i].Name]
	}
	return defs
}

// Lookup returns the definition named name.
func (t *Toolset) Lookup(name string) (Definition, bool) {
	for _, def := range t.Definitions() {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Invoke runs the operation named name.
func (t *Toolset) Invoke(ctx context.Context, name, params string) Result {
	def, ok := t.Lookup(name)
	if !ok {
		return Result{Kind: KindInvalidInput, Message: fmt.Sprintf("Unknown tool %q", name)}
	}
	return def.Run(ctx, params)
}

// CreateProject creates a project. Parameters: name, identifier, description, network.
func (t *Toolset) CreateProject(ctx context.Context, params string) Result {
	var p createProjectParams
	if err := decodeParams(params, &p); err != nil {
		return t.fail(CreateProjectTool, err)
	}
	req, err := p.request()
	if err != nil {
		return t.fail(CreateProjectTool, err)
	}

	project, err := t.projects.CreateProject(ctx, req)
	if err != nil {
		return t.fail(CreateProjectTool, err)
	}

	r := success(fmt.Sprintf("Project created: %s (%s)", project.Name, project.Identifier))
	r.Data = project
	return r
}

// DeleteProject deletes a project. Parameters: project_id, confirm.
func (t *Toolset) DeleteProject(ctx context.Context, params string) Result {
	var p deleteProjectParams
	if err := decodeParams(params, &p); err != nil {
		return t.fail(DeleteProjectTool, err)
	}

	project, err := t.projects.DeleteProject(ctx, p.ProjectID.String(), bool(p.Confirm))
	if err != nil {
		return t.fail(DeleteProjectTool, err)
	}

	r := success(fmt.Sprintf("Project deleted successfully: %s (%s)", project.Name, project.Identifier))
	r.Data = project
	return r
}

// ListProjects lists the workspace projects. Parameters are validated as JSON
// and otherwise ignored.
func (t *Toolset) ListProjects(ctx context.Context, params string) Result {
	var p map[string]json.RawMessage
	if err := decodeParams(params, &p); err != nil {
		return t.fail(ListProjectsTool, err)
	}

	projects, err := t.projects.ListProjects(ctx)
	if err != nil {
		return t.fail(ListProjectsTool, err)
	}

	if len(projects) == 0 {
		r := success("No projects found in workspace " + t.workspace)
		r.Data = projects
		return r
	}

	var b strings.Builder
	b.WriteString("Projects:")
	for _, project := range projects {
		fmt.Fprintf(&b, "\n%s (ID: %s)", project.Name, project.ID)
	}

	r := success(b.String())
	r.Data = projects
	return r
}

// CreateIssue creates an issue. Parameters: project_id, name, description,
// priority, state_id, assignee_ids, label_ids, start_date, target_date.
func (t *Toolset) CreateIssue(ctx context.Context, params string) Result {
	var p createIssueParams
	if err := decodeParams(params, &p); err != nil {
		return t.fail(CreateIssueTool, err)
	}

	issue, err := t.issues.CreateIssue(ctx, p.ProjectID.String(), p.request())
	if err != nil {
		return t.fail(CreateIssueTool, err)
	}

	r := success(fmt.Sprintf("Issue created: %s (#%d)", issue.Name, issue.SequenceID))
	r.Data = issue
	return r
}

// ListIssues lists a project's issues. Parameters: project_id, state_id,
// priority, assignee_id, label_id.
func (t *Toolset) ListIssues(ctx context.Context, params string) Result {
	var p listIssuesParams
	if err := decodeParams(params, &p); err != nil {
		return t.fail(ListIssuesTool, err)
	}

	listing, err := t.issues.ListIssues(ctx, p.ProjectID.String(), p.filter())
	if err != nil {
		return t.fail(ListIssuesTool, err)
	}

	var r Result
	switch {
	case listing.Total == 0:
		r = success("No issues found in project " + listing.Project.Name)
	case len(listing.Issues) == 0:
		r = success("No issues match the specified filters")
	default:
		var b strings.Builder
		b.WriteString("Issues in " + listing.Project.Name + ":")
		for i := range listing.Issues {
			issue := &listing.Issues[i]
			fmt.Fprintf(&b, "\n%d. %s", issue.SequenceID, issue.Name)
			if issue.Priority != "" && issue.Priority != models.PriorityNone {
				fmt.Fprintf(&b, " - %s Priority", issue.Priority.Label())
			}
			b.WriteString(" - " + issue.StateName())
		}
		r = success(b.String())
	}
	r.Data = listing.Issues
	return r
}

// UpdateIssue updates an issue. Parameters: issue_id (UUID or code such as
// CLT-37), project_id, and the fields to change.
func (t *Toolset) UpdateIssue(ctx context.Context, params string) Result {
	var p updateIssueParams
	if err := decodeParams(params, &p); err != nil {
		return t.fail(UpdateIssueTool, err)
	}

	update := p.update()
	issue, err := t.issues.UpdateIssue(ctx, p.ProjectID.String(), p.IssueID.String(), update)
	if err != nil {
		return t.fail(UpdateIssueTool, err)
	}

	msg := fmt.Sprintf("Issue updated: %s (#%d)", issue.Name, issue.SequenceID)
	if changes := update.Changes(); len(changes) > 0 {
		msg += " - " + strings.Join(changes, ", ")
	}

	r := success(msg)
	r.Data = issue
	return r
}

// GetIssueID resolves an issue code. Parameters: issue_code. The message is
// the JSON encoding of the resolved reference.
func (t *Toolset) GetIssueID(ctx context.Context, params string) Result {
	var p getIssueIDParams
	if err := decodeParams(params, &p); err != nil {
		return t.fail(GetIssueIDTool, err)
	}

	ref, err := t.resolver.Resolve(ctx, p.IssueCode.String())
	if err != nil {
		return t.fail(GetIssueIDTool, err)
	}

	data, err := json.Marshal(ref)
	if err != nil {
		return t.fail(GetIssueIDTool, err)
	}

	r := success(string(data))
	r.Data = ref
	return r
}

func (t *Toolset) fail(tool string, err error) Result {
	r := failure(err)
	fields := []zap.Field{
		zap.String("tool", tool),
		zap.String("kind", string(r.Kind)),
		zap.String("message", r.Message),
	}
	if r.StatusCode != 0 {
		fields = append(fields, zap.Int("status_code", r.StatusCode))
	}
	if r.Kind == KindInternal || r.Kind == KindNetwork {
		t.logger.Error("Operation failed", fields...)
	} else {
		t.logger.Debug("Operation failed", fields...)
	}
	return r
}
