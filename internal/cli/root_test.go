package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/viking/internal/cli"
	"github.com/pkordes/viking/internal/config"
)

// ---- helpers ---------------------------------------------------------------

// testConfig points the file backends into a fresh temp dir.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Storage: config.StorageConfig{
			CSVPath:    filepath.Join(dir, "tasks.csv"),
			SQLitePath: filepath.Join(dir, "tasks.db"),
		},
		Log: config.LogConfig{Level: "warn"},
	}
}

// invoke runs one CLI invocation, as a separate process would, and returns
// its stdout.
func invoke(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := cli.NewRootCommand(cfg, &out, &errOut).Execute(context.Background(), args)
	return out.String(), err
}

func mustInvoke(t *testing.T, cfg config.Config, args ...string) string {
	t.Helper()
	out, err := invoke(t, cfg, args...)
	require.NoError(t, err)
	return out
}

// ---- usage -----------------------------------------------------------------

func TestRoot_NoArgs_PrintsUsage(t *testing.T) {
	out, err := invoke(t, testConfig(t))

	require.NoError(t, err)
	assert.Contains(t, out, "Usage")
}

func TestRoot_UnknownBackend(t *testing.T) {
	_, err := invoke(t, testConfig(t), "redis", "list")

	assert.Error(t, err)
}

func TestRoot_MissingName(t *testing.T) {
	_, err := invoke(t, testConfig(t), "csv", "add")

	assert.Error(t, err)
}

// ---- csv scenario ----------------------------------------------------------

func TestCSV_AddCompleteTwice(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, "Task added 'X'\n", mustInvoke(t, cfg, "csv", "add", "X"))
	assert.Equal(t, "Task 'X' completed\n", mustInvoke(t, cfg, "csv", "complete", "X"))
	assert.Equal(t, "Task 'X' already completed\n", mustInvoke(t, cfg, "csv", "complete", "X"))
	assert.Equal(t, "[x] - X\n", mustInvoke(t, cfg, "csv", "get", "X"))
}

func TestCSV_TaskNames(t *testing.T) {
	for _, name := range []string{"Read a book", "Eat Popcorn", "Go to sleep"} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)

			assert.Equal(t, "Task added '"+name+"'\n", mustInvoke(t, cfg, "csv", "add", name))
			assert.Equal(t, "[ ] - "+name+"\n", mustInvoke(t, cfg, "csv", "get", name))
			assert.Contains(t, mustInvoke(t, cfg, "csv", "list"), name)
			assert.Equal(t, "Task removed '"+name+"'\n", mustInvoke(t, cfg, "csv", "remove", name))
			assert.Equal(t, "Task '"+name+"' not found\n", mustInvoke(t, cfg, "csv", "get", name))
		})
	}
}

func TestCSV_List(t *testing.T) {
	cfg := testConfig(t)
	mustInvoke(t, cfg, "csv", "add", "first")
	mustInvoke(t, cfg, "csv", "add", "second")
	mustInvoke(t, cfg, "csv", "complete", "first")

	out := mustInvoke(t, cfg, "csv", "list")

	// Completing rewrites the row at the end of the file.
	assert.Equal(t, "[ ] - second\n[x] - first\n", out)
}

func TestCSV_NotFound(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, "Task 'ghost' not found\n", mustInvoke(t, cfg, "csv", "get", "ghost"))
	assert.Equal(t, "Task 'ghost' not found\n", mustInvoke(t, cfg, "csv", "remove", "ghost"))
	assert.Equal(t, "Task 'ghost' not found\n", mustInvoke(t, cfg, "csv", "complete", "ghost"))
}

// TestCSV_RemoveFirstMatchOnly verifies that remove drops one task even when
// several share the name.
func TestCSV_RemoveFirstMatchOnly(t *testing.T) {
	cfg := testConfig(t)
	mustInvoke(t, cfg, "csv", "add", "dup")
	mustInvoke(t, cfg, "csv", "add", "dup")

	mustInvoke(t, cfg, "csv", "remove", "dup")

	assert.Equal(t, "[ ] - dup\n", mustInvoke(t, cfg, "csv", "list"))
}

func TestCSV_BlankName(t *testing.T) {
	cfg := testConfig(t)

	_, err := invoke(t, cfg, "csv", "add", "  ")

	require.Error(t, err)
	assert.NoFileExists(t, cfg.Storage.CSVPath)
}

// TestCSV_PathFlagOverridesConfig verifies --csv-path wins over the
// configured path.
func TestCSV_PathFlagOverridesConfig(t *testing.T) {
	cfg := testConfig(t)
	other := filepath.Join(t.TempDir(), "other.csv")

	mustInvoke(t, cfg, "csv", "--csv-path", other, "add", "X")

	assert.FileExists(t, other)
	assert.NoFileExists(t, cfg.Storage.CSVPath)
}

// ---- other backends --------------------------------------------------------

// TestMemory_ForgetsBetweenInvocations verifies each invocation gets a fresh
// in-memory repository.
func TestMemory_ForgetsBetweenInvocations(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, "Task added 'X'\n", mustInvoke(t, cfg, "memory", "add", "X"))
	assert.Equal(t, "Task 'X' not found\n", mustInvoke(t, cfg, "memory", "get", "X"))
}

func TestSQLite_Persists(t *testing.T) {
	cfg := testConfig(t)

	mustInvoke(t, cfg, "sqlite", "add", "X")
	mustInvoke(t, cfg, "sqlite", "complete", "X")

	assert.Equal(t, "[x] - X\n", mustInvoke(t, cfg, "sqlite", "list"))
	info, err := os.Stat(cfg.Storage.SQLitePath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPostgres_RequiresDatabaseURL(t *testing.T) {
	_, err := invoke(t, testConfig(t), "postgres", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
