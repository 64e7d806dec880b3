package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"eventadmin/internal/docstore"
	"eventadmin/internal/domain/admindashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// flag values outlive a single Execute
	statsDriver, statsConcurrency, statsJSON = "", 0, false
	migrateSteps = 1

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dashctl version dev\n", out)
}

func TestStatsCommandMemory(t *testing.T) {
	out, err := execute(t, "stats", "--driver", "memory")
	require.NoError(t, err)

	assert.Contains(t, out, "METRIC")
	assert.Contains(t, out, "Total Users")
	assert.Contains(t, out, "Contact Messages")
	assert.Contains(t, out, "₹0")
}

func TestStatsCommandJSON(t *testing.T) {
	out, err := execute(t, "stats", "--driver", "memory", "--json")
	require.NoError(t, err)

	var got admindashboard.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, admindashboard.Stats{}, got)
}

func TestStatsCommandUnknownDriver(t *testing.T) {
	_, err := execute(t, "stats", "--driver", "sqlite")
	assert.ErrorIs(t, err, docstore.ErrUnknownDriver)
}

func TestStatsCommandPostgresNeedsDatabase(t *testing.T) {
	t.Setenv("DB_ADDR", "")

	_, err := execute(t, "stats", "--driver", "postgres")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestMigrateNeedsDatabase(t *testing.T) {
	t.Setenv("DB_ADDR", "")

	_, err := execute(t, "migrate", "up")
	assert.ErrorIs(t, err, errNoDatabase)

	_, err = execute(t, "migrate", "down", "--steps", "2")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestComputeStats(t *testing.T) {
	m := docstore.NewMemory()
	require.NoError(t, m.Put("users", docstore.Document{ID: "u1"}))
	require.NoError(t, m.Put("users", docstore.Document{ID: "u2"}))
	require.NoError(t, m.Put("users/u1/orders", docstore.Document{ID: "o1", Fields: map[string]any{"totalCost": 250, "status": "pending"}}))
	require.NoError(t, m.Put("users/u2/orders", docstore.Document{ID: "o2", Fields: map[string]any{"totalCost": 750, "status": "shipped"}}))
	require.NoError(t, m.Put("contacts", docstore.Document{ID: "c1"}))

	for _, n := range []int{1, 4} {
		got, err := computeStats(context.Background(), m, n)
		require.NoError(t, err)
		assert.Equal(t, admindashboard.Stats{
			TotalUsers:    2,
			TotalOrders:   2,
			TotalRevenue:  1000,
			PendingOrders: 1,
			TotalContacts: 1,
		}, got)
	}
}

func TestPrintStats(t *testing.T) {
	var out bytes.Buffer
	f := admindashboard.NewFormatter("$", language.English)

	err := printStats(&out, admindashboard.Stats{
		TotalUsers:    1200,
		TotalOrders:   3,
		TotalRevenue:  1234567.5,
		PendingOrders: 1,
		TotalContacts: 9,
	}, f)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 6)
	assert.Contains(t, out.String(), "$1,234,567.5")
	assert.Contains(t, string(lines[1]), "Total Users")
	assert.Contains(t, string(lines[5]), "Contact Messages")
}
