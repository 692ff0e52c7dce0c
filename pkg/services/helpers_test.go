package services

import (
	"testing"

	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/plane"
	"github.com/ekaya-inc/plane-mcp/pkg/testhelpers"
)

func newTestAPI(t *testing.T) (*plane.Client, *testhelpers.PlaneServer) {
	t.Helper()
	srv := testhelpers.NewPlaneServer(t)
	return plane.NewClient(srv.Config(), zap.NewNop()), srv
}
