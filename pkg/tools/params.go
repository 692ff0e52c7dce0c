package tools

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/jsonutil"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
)

// decodeParams parses the JSON parameter object of an operation.
// An empty string is treated as {}. Unknown keys are ignored.
func decodeParams(params string, out any) error {
	params = strings.TrimSpace(params)
	if params == "" {
		return nil
	}
	if !strings.HasPrefix(params, "{") {
		return apperrors.Invalid("Invalid JSON parameters")
	}
	if err := json.Unmarshal([]byte(params), out); err != nil {
		return apperrors.Invalid("Invalid JSON parameters")
	}
	return nil
}

type createProjectParams struct {
	Name        jsonutil.FlexibleString `json:"name"`
	Identifier  jsonutil.FlexibleString `json:"identifier"`
	Description jsonutil.FlexibleString `json:"description"`
	Network     jsonutil.FlexibleString `json:"network"`
}

func (p *createProjectParams) request() (models.CreateProjectRequest, error) {
	req := models.CreateProjectRequest{
		Name:        p.Name.String(),
		Identifier:  p.Identifier.String(),
		Description: p.Description.String(),
		Network:     models.DefaultNetwork,
	}
	if p.Network != "" {
		n, err := strconv.Atoi(p.Network.String())
		if err != nil {
			return req, apperrors.Invalid("Invalid network %q. Expected 0 (secret) or 2 (public)", p.Network.String())
		}
		req.Network = models.Network(n)
	}
	return req, nil
}

type deleteProjectParams struct {
	ProjectID jsonutil.FlexibleString `json:"project_id"`
	Confirm   jsonutil.FlexibleBool   `json:"confirm"`
}

type createIssueParams struct {
	ProjectID   jsonutil.FlexibleString      `json:"project_id"`
	Name        jsonutil.FlexibleString      `json:"name"`
	Description jsonutil.FlexibleString      `json:"description"`
	Priority    jsonutil.FlexibleString      `json:"priority"`
	StateID     jsonutil.FlexibleString      `json:"state_id"`
	AssigneeIDs jsonutil.FlexibleStringSlice `json:"assignee_ids"`
	LabelIDs    jsonutil.FlexibleStringSlice `json:"label_ids"`
	StartDate   jsonutil.FlexibleString      `json:"start_date"`
	TargetDate  jsonutil.FlexibleString      `json:"target_date"`
}

func (p *createIssueParams) request() models.CreateIssueRequest {
	return models.CreateIssueRequest{
		Name:        p.Name.String(),
		Description: p.Description.String(),
		Priority:    priority(p.Priority),
		State:       p.StateID.String(),
		Assignees:   p.AssigneeIDs,
		Labels:      p.LabelIDs,
		StartDate:   p.StartDate.String(),
		TargetDate:  p.TargetDate.String(),
	}
}

type listIssuesParams struct {
	ProjectID  jsonutil.FlexibleString `json:"project_id"`
	StateID    jsonutil.FlexibleString `json:"state_id"`
	Priority   jsonutil.FlexibleString `json:"priority"`
	AssigneeID jsonutil.FlexibleString `json:"assignee_id"`
	LabelID    jsonutil.FlexibleString `json:"label_id"`
}

func (p *listIssuesParams) filter() models.IssueFilter {
	return models.IssueFilter{
		StateID:    p.StateID.String(),
		Priority:   priority(p.Priority),
		AssigneeID: p.AssigneeID.String(),
		LabelID:    p.LabelID.String(),
	}
}

type updateIssueParams struct {
	ProjectID   jsonutil.FlexibleString      `json:"project_id"`
	IssueID     jsonutil.FlexibleString      `json:"issue_id"`
	StateID     jsonutil.FlexibleString      `json:"state_id"`
	Name        jsonutil.FlexibleString      `json:"name"`
	Description jsonutil.FlexibleString      `json:"description"`
	Priority    jsonutil.FlexibleString      `json:"priority"`
	AssigneeIDs jsonutil.FlexibleStringSlice `json:"assignee_ids"`
	LabelIDs    jsonutil.FlexibleStringSlice `json:"label_ids"`
	StartDate   jsonutil.FlexibleString      `json:"start_date"`
	TargetDate  jsonutil.FlexibleString      `json:"target_date"`
}

func (p *updateIssueParams) update() models.IssueUpdate {
	return models.IssueUpdate{
		State:       p.StateID.String(),
		Name:        p.Name.String(),
		Description: p.Description.String(),
		Priority:    priority(p.Priority),
		Assignees:   p.AssigneeIDs,
		Labels:      p.LabelIDs,
		StartDate:   p.StartDate.String(),
		TargetDate:  p.TargetDate.String(),
	}
}

type getIssueIDParams struct {
	IssueCode jsonutil.FlexibleString `json:"issue_code"`
}

func priority(s jsonutil.FlexibleString) models.Priority {
	return models.Priority(strings.ToLower(s.String()))
}
