package tools

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/plane"
)

func TestFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantText string
		wantCode int
	}{
		{
			name:     "invalid input",
			err:      apperrors.Invalid("Project ID is required"),
			wantKind: KindInvalidInput,
			wantText: "Error: Project ID is required",
		},
		{
			name:     "confirmation",
			err:      apperrors.New(apperrors.ErrConfirmationRequired, "confirm"),
			wantKind: KindInvalidInput,
			wantText: "Error: confirm",
		},
		{
			name:     "status 404",
			err:      &plane.StatusError{StatusCode: 404},
			wantKind: KindNotFound,
			wantText: "Error: API request failed with status code 404",
			wantCode: 404,
		},
		{
			name:     "status 500 wrapped",
			err:      apperrors.Wrap(&plane.StatusError{StatusCode: 500}, "Failed to get projects - 500"),
			wantKind: KindUpstream,
			wantText: "Error: Failed to get projects - 500",
			wantCode: 500,
		},
		{
			name:     "forbidden",
			err:      &plane.StatusError{StatusCode: 403},
			wantKind: KindUpstream,
			wantText: "Error: API request failed with status code 403",
			wantCode: 403,
		},
		{
			name:     "transport",
			err:      &plane.TransportError{Err: errors.New("connection refused")},
			wantKind: KindNetwork,
			wantText: "Error: Network error - connection refused",
		},
		{
			name:     "unexpected",
			err:      fmt.Errorf("failed to parse response: %w", errors.New("bad json")),
			wantKind: KindInternal,
			wantText: "Error: Unexpected error - failed to parse response: bad json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := failure(tt.err)
			assert.False(t, r.OK())
			assert.Equal(t, tt.wantKind, r.Kind)
			assert.Equal(t, tt.wantText, r.String())
			assert.Equal(t, tt.wantCode, r.StatusCode)
		})
	}
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "done", success("done").String())
	assert.Equal(t, "Error: nope", Result{Kind: KindNotFound, Message: "nope"}.String())
}
