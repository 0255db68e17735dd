package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/weddingplanner/internal/api"
	"github.com/mcoot/weddingplanner/internal/api/response"
	"github.com/mcoot/weddingplanner/internal/config"
	"github.com/mcoot/weddingplanner/internal/factory"
	"github.com/mcoot/weddingplanner/internal/testutil"
)

const adminPassword = "e2e-admin-password"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	dir        string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "wedplan-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wedplan")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		dir:        t.TempDir(),
	}
}

// run executes the binary as actor; each actor has its own cookie file
func (r *cliRunner) run(actor string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--cookie-file", filepath.Join(r.dir, actor+".cookies"),
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "WEDPLAN_LANG=en", "WEDPLAN_ADMIN_PASSWORD=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the real server wiring over sqlite on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{
		"WEDPLAN_DB_PATH":        filepath.Join(t.TempDir(), "wedplan.db"),
		"WEDPLAN_ADMIN_PASSWORD": adminPassword,
		"WEDPLAN_PIN_HASHER":     "argon2",
		"WEDPLAN_PIN_PEPPER":     "e2e-pin-pepper",
	})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	logger := testutil.NopLogger()
	app, err := factory.New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(app.Handler(), api.DefaultServerConfig(), logger)
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("guest", "health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decode[response.Health](t, output).Status)
}

func TestCLI_PairingFlow(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// Min starts the couple
	output, err := cli.run("min", "auth", "register", "--name", "Min", "--pin", "1234", "--role", "groom")
	require.NoError(t, err, "output: %s", output)
	founder := decode[response.AuthResponse](t, output)
	assert.Equal(t, "groom", founder.Member.Role)
	code := founder.Couple.InviteCode
	assert.Len(t, code, 6)

	// Yuna previews and joins
	output, err = cli.run("yuna", "auth", "invite", code)
	require.NoError(t, err, "output: %s", output)
	preview := decode[response.InvitePreview](t, output)
	assert.True(t, preview.Valid)
	assert.Equal(t, "bride", preview.AssignedRole)
	assert.Equal(t, "Min", preview.PartnerName)

	output, err = cli.run("yuna", "auth", "join", "--name", "Yuna", "--pin", "5678", "--code", code)
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, founder.Couple.ID, decode[response.AuthResponse](t, output).Couple.ID)

	// The session cookie persists between invocations
	output, err = cli.run("min", "auth", "me")
	require.NoError(t, err, "output: %s", output)
	me := decode[response.MeResponse](t, output)
	require.NotNil(t, me.Partner)
	assert.Equal(t, "Yuna", me.Partner.Name)

	// The couple is complete
	output, err = cli.run("guest", "auth", "join", "--name", "Jisoo", "--pin", "0000", "--code", code)
	assert.Error(t, err)
	assert.Equal(t, "COUPLE_ALREADY_COMPLETE", decode[errorResponse](t, output).Code)

	// Logout clears the session
	_, err = cli.run("min", "auth", "logout")
	require.NoError(t, err)
	output, err = cli.run("min", "auth", "me")
	require.NoError(t, err)
	assert.Nil(t, decode[response.MeResponse](t, output).Member)
}

func TestCLI_ChecklistFlow(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	_, err := cli.run("min", "auth", "register", "--name", "Min", "--pin", "1234", "--role", "bride")
	require.NoError(t, err)

	output, err := cli.run("min", "checklist", "add", "Book venue", "--category", "venue", "--due", "2026-06-01")
	require.NoError(t, err, "output: %s", output)
	item := decode[response.ChecklistItem](t, output)
	require.NotNil(t, item.DueDate)
	assert.Equal(t, "2026-06-01", *item.DueDate)

	output, err = cli.run("min", "checklist", "done", item.ID)
	require.NoError(t, err, "output: %s", output)
	assert.True(t, decode[response.ChecklistItem](t, output).Done)

	output, err = cli.run("min", "checklist", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Len(t, decode[[]response.ChecklistItem](t, output), 1)

	// Another couple cannot see or touch the item
	_, err = cli.run("other", "auth", "register", "--name", "Dana", "--pin", "4321", "--role", "groom")
	require.NoError(t, err)
	output, err = cli.run("other", "checklist", "rm", item.ID)
	assert.Error(t, err)
	assert.Equal(t, "NOT_FOUND", decode[errorResponse](t, output).Code)

	_, err = cli.run("min", "checklist", "rm", item.ID)
	require.NoError(t, err)
	output, err = cli.run("min", "checklist", "list")
	require.NoError(t, err)
	assert.Empty(t, decode[[]response.ChecklistItem](t, output))
}

func TestCLI_AdminFlow(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("min", "auth", "register", "--name", "Min", "--pin", "1234", "--role", "groom")
	require.NoError(t, err, "output: %s", output)
	founder := decode[response.AuthResponse](t, output)

	output, err = cli.run("ops", "admin", "couples")
	assert.Error(t, err)
	assert.Equal(t, "FORBIDDEN", decode[errorResponse](t, output).Code)

	_, err = cli.run("ops", "admin", "login", "--password", adminPassword)
	require.NoError(t, err)

	output, err = cli.run("ops", "admin", "couples")
	require.NoError(t, err, "output: %s", output)
	couples := decode[[]response.CoupleWithMembers](t, output)
	require.Len(t, couples, 1)
	assert.Equal(t, "half_paired", couples[0].State)

	_, err = cli.run("ops", "admin", "delete-couple", founder.Couple.ID)
	require.NoError(t, err)

	output, err = cli.run("min", "auth", "me")
	require.NoError(t, err)
	assert.Nil(t, decode[response.MeResponse](t, output).Member)
}

func TestCLI_ErrorHandling(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// Checklist without a session
	output, err := cli.run("guest", "checklist", "list")
	assert.Error(t, err)
	resp := decode[errorResponse](t, output)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
	assert.Equal(t, "Please log in first", resp.Error)

	// Bad PIN format
	output, err = cli.run("guest", "auth", "register", "--name", "Min", "--pin", "12ab", "--role", "groom")
	assert.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorResponse](t, output).Code)
}
