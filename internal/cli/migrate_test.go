package cli_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickershop/internal/cli"
	orderrepo "stickershop/internal/repository/order"
)

func runMigrate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ORDERS_DB_DSN", "")
	root := cli.NewMigrateCmdForTest()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	missing := filepath.Join(t.TempDir(), "none.env")
	root.SetArgs(append(args, "--env-file", missing))
	err := root.Execute()
	return out.String(), err
}

func TestCheckCmd_NotConfigured(t *testing.T) {
	out, err := runMigrate(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "not configured")
}

func TestUpCmd_RequiresDSN(t *testing.T) {
	_, err := runMigrate(t, "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDERS_DB_DSN is not set")
}

func TestDownCmd_RequiresDSN(t *testing.T) {
	_, err := runMigrate(t, "down", "--steps", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDERS_DB_DSN is not set")
}

func TestReportProbe(t *testing.T) {
	var out bytes.Buffer
	err := cli.ReportProbeForTest(&out, orderrepo.Probe{Configured: true, Connected: true, TableExists: true, OrderCount: 3, CheckedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "orders database: ok, 3 orders (checked 2026-03-01T00:00:00Z)\n", out.String())

	out.Reset()
	err = cli.ReportProbeForTest(&out, orderrepo.Probe{Configured: true, Connected: true, Err: orderrepo.ErrTableMissing})
	require.ErrorIs(t, err, orderrepo.ErrTableMissing)
	assert.Contains(t, out.String(), "orders table missing")

	out.Reset()
	err = cli.ReportProbeForTest(&out, orderrepo.Probe{Configured: true, Err: errors.New("dial tcp")})
	require.Error(t, err)
	assert.Contains(t, out.String(), "unreachable: dial tcp")
}
