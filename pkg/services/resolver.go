package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/models"
)

// issueCodePattern matches display codes such as CLT-37.
var issueCodePattern = regexp.MustCompile(`^([A-Za-z]+)-(\d+)$`)

// IssueResolver turns a human-readable issue code into Plane identifiers.
type IssueResolver interface {
	// Resolve finds the issue for code (e.g. "CLT-37"). The project identifier
	// is matched case-insensitively.
	Resolve(ctx context.Context, code string) (*models.IssueRef, error)
}

type issueResolver struct {
	api    PlaneAPI
	logger *zap.Logger
}

// NewIssueResolver creates a resolver backed by the Plane API.
func NewIssueResolver(api PlaneAPI, logger *zap.Logger) IssueResolver {
	return &issueResolver{
		api:    api,
		logger: logger.Named("resolver"),
	}
}

// ParseIssueCode splits an issue code into its project identifier and
// sequence number.
func ParseIssueCode(code string) (string, int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", 0, apperrors.Invalid("Issue code is required")
	}

	m := issueCodePattern.FindStringSubmatch(code)
	if m == nil {
		return "", 0, apperrors.Invalid("Invalid issue code format. Expected format: PROJECT_CODE-NUMBER (e.g. CLT-37)")
	}

	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, apperrors.Invalid("Invalid issue code format. Expected format: PROJECT_CODE-NUMBER (e.g. CLT-37)")
	}
	return m[1], seq, nil
}

func (r *issueResolver) Resolve(ctx context.Context, code string) (*models.IssueRef, error) {
	projectCode, seq, err := ParseIssueCode(code)
	if err != nil {
		return nil, err
	}

	projects, err := r.api.ListProjects(ctx)
	if err != nil {
		return nil, withStatus(err, "Failed to get projects - %d")
	}

	var project *models.Project
	for i := range projects {
		if strings.EqualFold(projects[i].Identifier, projectCode) {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "No project found with identifier %s", projectCode)
	}

	issues, err := r.api.ListIssues(ctx, project.ID)
	if err != nil {
		return nil, withStatus(err, "Failed to get issues - %d")
	}

	for i := range issues {
		if issues[i].SequenceID != seq {
			continue
		}
		ref := &models.IssueRef{
			IssueID:   issues[i].ID,
			ProjectID: project.ID,
			Name:      issues[i].Name,
		}
		if issues[i].State != "" {
			state := issues[i].State
			ref.CurrentState = &state
		}
		r.logger.Debug("Resolved issue code",
			zap.String("code", issues[i].Code(project.Identifier)),
			zap.String("issue_id", ref.IssueID))
		return ref, nil
	}

	return nil, apperrors.New(apperrors.ErrNotFound, "No issue found with sequence ID %d in project %s", seq, projectCode)
}

// Ensure issueResolver implements IssueResolver at compile time.
var _ IssueResolver = (*issueResolver)(nil)
