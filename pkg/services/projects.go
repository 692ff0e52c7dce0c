package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
	"github.com/ekaya-inc/plane-mcp/pkg/plane"
)

// ProjectService defines the interface for project operations.
type ProjectService interface {
	// CreateProject validates and creates a project. Network defaults to public.
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)

	// ListProjects returns every project in the workspace.
	ListProjects(ctx context.Context) ([]models.Project, error)

	// DeleteProject deletes a project after confirming it exists.
	// Nothing is sent to Plane unless confirm is true.
	// Returns the project as it was before deletion.
	DeleteProject(ctx context.Context, projectID string, confirm bool) (*models.Project, error)
}

type projectService struct {
	api    PlaneAPI
	logger *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(api PlaneAPI, logger *zap.Logger) ProjectService {
	return &projectService{
		api:    api,
		logger: logger.Named("projects"),
	}
}

func (s *projectService) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Identifier = strings.TrimSpace(req.Identifier)

	if req.Name == "" {
		return nil, apperrors.Invalid("Project name is required")
	}
	if req.Identifier == "" {
		return nil, apperrors.Invalid("Project identifier is required")
	}
	if !req.Network.Valid() {
		return nil, apperrors.Invalid("Invalid network %d. Expected 0 (secret) or 2 (public)", int(req.Network))
	}

	project, err := s.api.CreateProject(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("identifier", project.Identifier))
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.api.ListProjects(ctx)
}

func (s *projectService) DeleteProject(ctx context.Context, projectID string, confirm bool) (*models.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, apperrors.Invalid("Project ID is required")
	}
	if !confirm {
		return nil, apperrors.New(apperrors.ErrConfirmationRequired, "Please confirm deletion by setting 'confirm': true")
	}

	project, err := s.api.GetProject(ctx, projectID)
	if err != nil {
		return nil, deleteError(err, "Project not found or access denied (Status code: %d)")
	}

	if err := s.api.DeleteProject(ctx, projectID); err != nil {
		return nil, deleteError(err, "Failed to delete project (Status code: %d)")
	}

	s.logger.Info("Project deleted",
		zap.String("project_id", project.ID),
		zap.String("identifier", project.Identifier))
	return project, nil
}

// deleteError maps 404 and 403 to their dedicated messages and any other
// status to fallback.
func deleteError(err error, fallback string) error {
	var statusErr *plane.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	switch statusErr.StatusCode {
	case http.StatusNotFound:
		return apperrors.Wrap(err, "Project not found")
	case http.StatusForbidden:
		return apperrors.Wrap(err, "Permission denied to delete project")
	}
	return apperrors.Wrap(err, fallback, statusErr.StatusCode)
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
