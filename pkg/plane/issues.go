package plane

import (
	"context"
	"net/http"

	"github.com/ekaya-inc/plane-mcp/pkg/models"
)

// ListIssues returns every issue in a project.
func (c *Client) ListIssues(ctx context.Context, projectID string) ([]models.Issue, error) {
	return listAll[models.Issue](ctx, c, projectID, "issues")
}

// CreateIssue creates an issue in a project. Plane answers 201 Created.
func (c *Client) CreateIssue(ctx context.Context, projectID string, req models.CreateIssueRequest) (*models.Issue, error) {
	endpoint, err := c.projectsURL(nil, projectID, "issues")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, req)
	if err != nil {
		return nil, err
	}
	if err := c.expect(http.MethodPost, endpoint, resp, http.StatusCreated); err != nil {
		return nil, err
	}

	var issue models.Issue
	if err := decode(resp.Body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue patches an issue and returns the updated resource.
func (c *Client) UpdateIssue(ctx context.Context, projectID, issueID string, update models.IssueUpdate) (*models.Issue, error) {
	endpoint, err := c.projectsURL(nil, projectID, "issues", issueID)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPatch, endpoint, update)
	if err != nil {
		return nil, err
	}
	if err := c.expect(http.MethodPatch, endpoint, resp, http.StatusOK); err != nil {
		return nil, err
	}

	var issue models.Issue
	if err := decode(resp.Body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
