package services

import (
	"context"
	"errors"
	"time"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
	"github.com/ekaya-inc/plane-mcp/pkg/plane"
)

// PlaneAPI is the subset of the Plane REST API the services depend on.
// *plane.Client implements it.
type PlaneAPI interface {
	Workspace() string
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	ListIssues(ctx context.Context, projectID string) ([]models.Issue, error)
	CreateIssue(ctx context.Context, projectID string, req models.CreateIssueRequest) (*models.Issue, error)
	UpdateIssue(ctx context.Context, projectID, issueID string, update models.IssueUpdate) (*models.Issue, error)
}

var _ PlaneAPI = (*plane.Client)(nil)

// dateLayout is the format Plane uses for start and target dates.
const dateLayout = "2006-01-02"

func validatePriority(p models.Priority) error {
	if p == "" || p.Valid() {
		return nil
	}
	return apperrors.Invalid("Invalid priority %q. Expected one of: none, low, medium, high, urgent", string(p))
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return apperrors.Invalid("Invalid %s %q. Expected format: YYYY-MM-DD", field, value)
	}
	return nil
}

// withStatus wraps a Plane status failure with a message naming the status
// code. Other errors are returned unchanged.
func withStatus(err error, format string) error {
	var statusErr *plane.StatusError
	if errors.As(err, &statusErr) {
		return apperrors.Wrap(err, format, statusErr.StatusCode)
	}
	return err
}
