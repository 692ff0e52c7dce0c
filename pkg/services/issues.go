package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
)

// IssueListing is a project's issues after filtering.
type IssueListing struct {
	Project *models.Project
	// Issues that matched the filter, in Plane's order.
	Issues []models.Issue
	// Total is the number of issues in the project before filtering.
	Total int
}

// IssueService defines the interface for issue operations.
type IssueService interface {
	// CreateIssue validates and creates an issue in projectID.
	CreateIssue(ctx context.Context, projectID string, req models.CreateIssueRequest) (*models.Issue, error)

	// ListIssues returns every issue in projectID that matches filter.
	ListIssues(ctx context.Context, projectID string, filter models.IssueFilter) (*IssueListing, error)

	// UpdateIssue patches an issue. issueID is either a UUID, in which case
	// projectID is required, or an issue code such as CLT-37 that is resolved
	// first.
	UpdateIssue(ctx context.Context, projectID, issueID string, update models.IssueUpdate) (*models.Issue, error)
}

type issueService struct {
	api      PlaneAPI
	resolver IssueResolver
	logger   *zap.Logger
}

// NewIssueService creates a new issue service.
func NewIssueService(api PlaneAPI, resolver IssueResolver, logger *zap.Logger) IssueService {
	return &issueService{
		api:      api,
		resolver: resolver,
		logger:   logger.Named("issues"),
	}
}

func (s *issueService) CreateIssue(ctx context.Context, projectID string, req models.CreateIssueRequest) (*models.Issue, error) {
	projectID = strings.TrimSpace(projectID)
	req.Name = strings.TrimSpace(req.Name)

	if projectID == "" {
		return nil, apperrors.Invalid("Project ID is required")
	}
	if req.Name == "" {
		return nil, apperrors.Invalid("Issue name is required")
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNone
	}
	if err := validatePriority(req.Priority); err != nil {
		return nil, err
	}
	if err := validateDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if err := validateDate("target_date", req.TargetDate); err != nil {
		return nil, err
	}
	req.DescriptionHTML = models.DescriptionHTML(req.Description)

	issue, err := s.api.CreateIssue(ctx, projectID, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Issue created",
		zap.String("project_id", projectID),
		zap.String("issue_id", issue.ID),
		zap.Int("sequence_id", issue.SequenceID))
	return issue, nil
}

func (s *issueService) ListIssues(ctx context.Context, projectID string, filter models.IssueFilter) (*IssueListing, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, apperrors.Invalid("Project ID is required")
	}
	if err := validatePriority(filter.Priority); err != nil {
		return nil, err
	}

	project, err := s.api.GetProject(ctx, projectID)
	if err != nil {
		return nil, withStatus(err, "Failed to get project details - %d")
	}

	issues, err := s.api.ListIssues(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &IssueListing{
		Project: project,
		Issues:  filter.Apply(issues),
		Total:   len(issues),
	}, nil
}

func (s *issueService) UpdateIssue(ctx context.Context, projectID, issueID string, update models.IssueUpdate) (*models.Issue, error) {
	projectID = strings.TrimSpace(projectID)
	issueID = strings.TrimSpace(issueID)

	if issueID == "" {
		return nil, apperrors.Invalid("Issue ID is required")
	}
	if update.IsEmpty() {
		return nil, apperrors.New(apperrors.ErrNothingToUpdate, "No update parameters provided")
	}
	if err := validatePriority(update.Priority); err != nil {
		return nil, err
	}
	if err := validateDate("start_date", update.StartDate); err != nil {
		return nil, err
	}
	if err := validateDate("target_date", update.TargetDate); err != nil {
		return nil, err
	}

	if isUUID(issueID) {
		if projectID == "" {
			return nil, apperrors.Invalid("Project ID is required")
		}
	} else {
		ref, err := s.resolver.Resolve(ctx, issueID)
		if err != nil {
			return nil, apperrors.Wrap(err, "Could not resolve issue code %s to a UUID. Details: %s", issueID, apperrors.Message(err))
		}
		issueID = ref.IssueID
		projectID = ref.ProjectID
	}

	if update.Description != "" {
		update.DescriptionHTML = models.DescriptionHTML(update.Description)
	}

	issue, err := s.api.UpdateIssue(ctx, projectID, issueID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Issue updated",
		zap.String("project_id", projectID),
		zap.String("issue_id", issue.ID),
		zap.Strings("changes", update.Changes()))
	return issue, nil
}

// isUUID reports whether s is a UUID in its canonical 36-character form.
func isUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// Ensure issueService implements IssueService at compile time.
var _ IssueService = (*issueService)(nil)
