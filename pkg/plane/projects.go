package plane

import (
	"context"
	"net/http"

	"github.com/ekaya-inc/plane-mcp/pkg/models"
)

// ListProjects returns every project in the workspace.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	return listAll[models.Project](ctx, c)
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	endpoint, err := c.projectsURL(nil, projectID)
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if err := c.expect(http.MethodGet, endpoint, resp, http.StatusOK); err != nil {
		return nil, err
	}

	var project models.Project
	if err := decode(resp.Body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project. Plane answers 201 Created.
func (c *Client) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	endpoint, err := c.projectsURL(nil)
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

	var project models.Project
	if err := decode(resp.Body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project. Plane answers 204 No Content.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	endpoint, err := c.projectsURL(nil, projectID)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	return c.expect(http.MethodDelete, endpoint, resp, http.StatusNoContent)
}
