package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/config"
	"github.com/ekaya-inc/plane-mcp/pkg/testhelpers"
)

// testApp returns an App whose configuration points at a fake Plane server.
func testApp(t *testing.T) (*App, *testhelpers.PlaneServer) {
	t.Helper()
	srv := testhelpers.NewPlaneServer(t)

	app := &App{
		Version: "1.2.3",
		LoadConfig: func(version, _ string) (*config.Config, error) {
			return &config.Config{
				Env:      "test",
				LogLevel: "error",
				Version:  version,
				Plane:    *srv.Config(),
				MCP: config.MCPConfig{
					Transport: config.TransportStdio,
					BindAddr:  "127.0.0.1",
					Port:      "0",
				},
			}, nil
		},
		NewLogger: func(*config.Config) (*zap.Logger, error) {
			return zap.NewNop(), nil
		},
	}
	return app, srv
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "plane-mcp 1.2.3\n", out)
}

func TestToolsCmd_ListsEveryOperation(t *testing.T) {
	app, srv := testApp(t)

	out, err := executeCmd(t, app, "", "tools")
	require.NoError(t, err)

	for _, name := range []string{
		"create_plane_project", "delete_plane_project", "list_plane_projects",
		"create_plane_issue", "list_plane_issues", "update_plane_issue", "get_plane_issue_id",
	} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "destructive")
	assert.Contains(t, out, "read-only")
	assert.Empty(t, srv.Requests(), "listing tools must not call Plane")
}

func TestCallCmd_ListProjects(t *testing.T) {
	app, srv := testApp(t)
	project := srv.AddProject("CLT", "Client")

	out, err := executeCmd(t, app, "", "call", "list_plane_projects")
	require.NoError(t, err)
	assert.Equal(t, "Projects:\nClient (ID: "+project.ID+")\n", out)
}

func TestCallCmd_JSONArgument(t *testing.T) {
	app, srv := testApp(t)
	project := srv.AddProject("CLT", "Client")

	out, err := executeCmd(t, app, "", "call", "create_plane_issue",
		`{"project_id":"`+project.ID+`","name":"Bug Fix","priority":"high"}`)
	require.NoError(t, err)
	assert.Equal(t, "Issue created: Bug Fix (#1)\n", out)

	req, ok := srv.LastRequest(http.MethodPost)
	require.True(t, ok)
	assert.Equal(t, "Bug Fix", req.Body["name"])
	assert.Equal(t, "high", req.Body["priority"])
}

func TestCallCmd_YAMLParamsFile(t *testing.T) {
	app, srv := testApp(t)
	project := srv.AddProject("CLT", "Client")

	path := writeFile(t, "issue.yaml", strings.Join([]string{
		"project_id: " + project.ID,
		"name: From YAML",
		"description: Steps to reproduce",
		"target_date: 2024-03-01",
		"assignee_ids:",
		"  - user-1",
	}, "\n"))

	out, err := executeCmd(t, app, "", "call", "create_plane_issue", "--params-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Issue created: From YAML")

	req, ok := srv.LastRequest(http.MethodPost)
	require.True(t, ok)
	assert.Equal(t, "<p>Steps to reproduce</p>", req.Body["description_html"])
	assert.Equal(t, "2024-03-01", req.Body["target_date"])
	assert.Equal(t, []any{"user-1"}, req.Body["assignees"])
}

func TestCallCmd_ParamsFromStdin(t *testing.T) {
	app, srv := testApp(t)
	project := srv.AddProject("CLT", "Client")
	srv.AddIssue(project.ID, "Login broken")

	out, err := executeCmd(t, app, `{"issue_code": "clt-1"}`, "call", "get_plane_issue_id", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"project_id":"`+project.ID+`"`)
	assert.Contains(t, out, `"name":"Login broken"`)
}

func TestCallCmd_FailedResultExitsNonZero(t *testing.T) {
	app, srv := testApp(t)

	out, err := executeCmd(t, app, "", "call", "create_plane_project", `{"identifier":"NEW"}`)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "Error: Project name is required\n", out)
	assert.Empty(t, srv.Requests())
}

func TestCallCmd_JSONOutput(t *testing.T) {
	app, srv := testApp(t)
	srv.AddProject("CLT", "Client")

	out, err := executeCmd(t, app, "", "call", "list_plane_projects", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "ok", got["kind"])
	assert.Len(t, got["data"], 1)
}

func TestCallCmd_JSONOutputCarriesStatusCode(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "", "call", "list_plane_issues", `{"project_id":"missing"}`, "--json")
	require.Error(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, false, got["ok"])
	assert.Equal(t, "not_found", got["kind"])
	assert.Equal(t, float64(http.StatusNotFound), got["status_code"])
}

func TestCallCmd_UsageErrors(t *testing.T) {
	app, _ := testApp(t)
	path := writeFile(t, "p.json", `{}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown tool", []string{"call", "drop_everything"}, `unknown tool "drop_everything"`},
		{"argument and file", []string{"call", "list_plane_projects", "{}", "-f", path}, "not both"},
		{"missing file", []string{"call", "list_plane_projects", "-f", filepath.Join(t.TempDir(), "nope.yaml")}, "failed to read parameters"},
		{"no tool", []string{"call"}, "accepts between 1 and 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCallCmd_ConfigError(t *testing.T) {
	app, _ := testApp(t)
	app.LoadConfig = func(string, string) (*config.Config, error) {
		return nil, errors.New("invalid plane configuration: PLANE_API_KEY is required")
	}

	_, err := executeCmd(t, app, "", "call", "list_plane_projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLANE_API_KEY")
}

func TestRootCmd_ConfigFlagReachesLoader(t *testing.T) {
	app, _ := testApp(t)
	load := app.LoadConfig
	var gotPath string
	app.LoadConfig = func(version, path string) (*config.Config, error) {
		gotPath = path
		return load(version, path)
	}

	_, err := executeCmd(t, app, "", "--config", "/etc/plane-mcp.yaml", "call", "list_plane_projects")
	require.NoError(t, err)
	assert.Equal(t, "/etc/plane-mcp.yaml", gotPath)
}

func TestServeCmd_RejectsUnknownTransport(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "", "serve", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mcp transport")
}

func TestServeOptions_Apply(t *testing.T) {
	app, _ := testApp(t)
	cfg, err := app.LoadConfig("dev", "")
	require.NoError(t, err)

	opts := &serveOptions{transport: "HTTP", addr: "0.0.0.0:8080"}
	require.NoError(t, opts.apply(cfg))
	assert.Equal(t, config.TransportHTTP, cfg.MCP.Transport)
	assert.Equal(t, "0.0.0.0:8080", cfg.MCP.Addr())

	bad := &serveOptions{addr: "8080"}
	assert.Error(t, bad.apply(cfg))
}

func TestBuildMCPServer_RegistersTools(t *testing.T) {
	app, _ := testApp(t)
	cfg, err := app.LoadConfig("dev", "")
	require.NoError(t, err)

	s := buildMCPServer(cfg, zap.NewNop())
	result := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	resultBytes, err := json.Marshal(result)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resultBytes, &response))

	var names []string
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.Len(t, names, 8)
	assert.Contains(t, names, "create_plane_issue")
	assert.Contains(t, names, "health")
}

func TestReadParamsFile(t *testing.T) {
	t.Run("empty file is an empty object", func(t *testing.T) {
		got, err := readParamsFile(writeFile(t, "empty.yaml", "\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, "{}", got)
	})

	t.Run("json file", func(t *testing.T) {
		got, err := readParamsFile(writeFile(t, "p.json", `{"confirm": true, "project_id": "p1"}`), nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"confirm": true, "project_id": "p1"}`, got)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := readParamsFile(writeFile(t, "list.yaml", "- a\n- b\n"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse parameters")
	})
}

func TestPrintError_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, "Error: boom")
	assert.Equal(t, "Error: boom\n", buf.String())
	assert.False(t, isTerminal(&buf))
}
