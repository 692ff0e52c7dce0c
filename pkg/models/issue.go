package models

import (
	"fmt"
	"html"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Priority is the Plane issue priority.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every valid priority, lowest first.
var Priorities = []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is one of the Plane priorities.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Label returns the display form, e.g. "High".
func (p Priority) Label() string {
	return cases.Title(language.English).String(string(p))
}

// PriorityNames returns the priorities as plain strings.
func PriorityNames() []string {
	names := make([]string, len(Priorities))
	for i, p := range Priorities {
		names[i] = string(p)
	}
	return names
}

// StateDetail is the expanded workflow state Plane may attach to an issue.
type StateDetail struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// Issue is a Plane work item.
type Issue struct {
	ID              string       `json:"id"`
	SequenceID      int          `json:"sequence_id"`
	Name            string       `json:"name"`
	DescriptionHTML string       `json:"description_html,omitempty"`
	Priority        Priority     `json:"priority"`
	State           string       `json:"state"`
	StateDetail     *StateDetail `json:"state_detail,omitempty"`
	Assignees       []string     `json:"assignees"`
	Labels          []string     `json:"labels"`
	StartDate       *string      `json:"start_date,omitempty"`
	TargetDate      *string      `json:"target_date,omitempty"`
	Project         string       `json:"project,omitempty"`
}

// Code returns the display code, e.g. "CLT-37".
func (i *Issue) Code(projectIdentifier string) string {
	return fmt.Sprintf("%s-%d", projectIdentifier, i.SequenceID)
}

// StateName returns the expanded state name, or "Unknown State".
func (i *Issue) StateName() string {
	if i.StateDetail != nil && i.StateDetail.Name != "" {
		return i.StateDetail.Name
	}
	return "Unknown State"
}

// HasAssignee reports whether userID is among the issue's assignees.
func (i *Issue) HasAssignee(userID string) bool {
	return slices.Contains(i.Assignees, userID)
}

// HasLabel reports whether labelID is among the issue's labels.
func (i *Issue) HasLabel(labelID string) bool {
	return slices.Contains(i.Labels, labelID)
}

// IssueRef is the result of resolving an issue code.
type IssueRef struct {
	IssueID      string  `json:"issue_id"`
	ProjectID    string  `json:"project_id"`
	Name         string  `json:"name"`
	CurrentState *string `json:"current_state"`
}

// CreateIssueRequest is the POST body for creating an issue.
// Plane names the relation fields state/assignees/labels.
type CreateIssueRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"description_html"`
	Priority        Priority `json:"priority"`
	State           string   `json:"state,omitempty"`
	Assignees       []string `json:"assignees,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	StartDate       string   `json:"start_date,omitempty"`
	TargetDate      string   `json:"target_date,omitempty"`
}

// IssueUpdate is the PATCH body for updating an issue. Only set fields are sent.
type IssueUpdate struct {
	State           string   `json:"state,omitempty"`
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	Priority        Priority `json:"priority,omitempty"`
	Assignees       []string `json:"assignees,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	StartDate       string   `json:"start_date,omitempty"`
	TargetDate      string   `json:"target_date,omitempty"`
}

// IsEmpty reports whether the update carries no field.
func (u *IssueUpdate) IsEmpty() bool {
	return len(u.Changes()) == 0
}

// Changes describes the fields being updated, in a fixed order.
func (u *IssueUpdate) Changes() []string {
	var changes []string
	if u.State != "" {
		changes = append(changes, "status changed")
	}
	if u.Name != "" {
		changes = append(changes, "title updated")
	}
	if u.Description != "" {
		changes = append(changes, "description updated")
	}
	if u.Priority != "" {
		changes = append(changes, "priority set to "+string(u.Priority))
	}
	if len(u.Assignees) > 0 {
		changes = append(changes, "assignees updated")
	}
	if len(u.Labels) > 0 {
		changes = append(changes, "labels updated")
	}
	if u.StartDate != "" || u.TargetDate != "" {
		changes = append(changes, "dates updated")
	}
	return changes
}

// IssueFilter holds the client-side filters for listing issues.
// All non-empty fields must match.
type IssueFilter struct {
	StateID    string
	Priority   Priority
	AssigneeID string
	LabelID    string
}

// IsEmpty reports whether no filter is set.
func (f IssueFilter) IsEmpty() bool {
	return f.StateID == "" && f.Priority == "" && f.AssigneeID == "" && f.LabelID == ""
}

// Matches reports whether issue satisfies every set filter.
func (f IssueFilter) Matches(issue *Issue) bool {
	if f.StateID != "" && issue.State != f.StateID {
		return false
	}
	if f.Priority != "" && issue.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != "" && !issue.HasAssignee(f.AssigneeID) {
		return false
	}
	if f.LabelID != "" && !issue.HasLabel(f.LabelID) {
		return false
	}
	return true
}

// Apply returns the issues matching f, preserving order.
func (f IssueFilter) Apply(issues []Issue) []Issue {
	if f.IsEmpty() {
		return issues
	}
	matched := make([]Issue, 0, len(issues))
	for i := range issues {
		if f.Matches(&issues[i]) {
			matched = append(matched, issues[i])
		}
	}
	return matched
}

// DescriptionHTML renders a plain-text description as Plane's HTML twin.
func DescriptionHTML(description string) string {
	return "<p>" + html.EscapeString(description) + "</p>"
}
