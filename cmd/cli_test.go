package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestClientListWithoutLedgerFile(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "clients: 0")
	assert.Contains(t, stdout, "No clients registered yet.")
}

func TestClientListShowsBalances(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "clients: 2")
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "-20 USD (owes)")
	assert.Contains(t, stdout, "[ended]")
}

func TestClientListJSONOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "client", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"Name\": \"Alice\"")
	assert.Contains(t, stdout, "\"Name\": \"Bob\"")
}

func TestReportClientHappyPath(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "report", "client", "Alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Client report: Alice")
	assert.Contains(t, stdout, "Status: active")
}

func TestReportClientUnknownName(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	_, _, err := executeCLI(t, home, "report", "client", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client not found")
}

func TestReportFinancialPrintsTotalsAndChart(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "report", "financial", "--period", "yearly")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Financial report (yearly)")
	assert.Contains(t, stdout, "Total: 30.00")
	assert.Contains(t, stdout, "Revenue (yearly)")
	assert.Contains(t, stdout, "| 30.00")
}

func TestReportFinancialJSONOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "report", "financial", "--period", "yearly", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"amount\": \"30\"")
}

func TestReportFinancialWithoutPayments(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "report", "financial", "--period", "daily")
	require.NoError(t, err)
	assert.Equal(t, "No payments found for the daily report.\n", stdout)
}

func TestReportFinancialRejectsUnknownPeriod(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "report", "financial", "--period", "hourly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported period")
}

func TestReportScheduleTomorrow(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "report", "schedule", "--day", "tomorrow")
	require.NoError(t, err)
	assert.Contains(t, stdout, "- Alice at 14:00")
	assert.NotContains(t, stdout, "- 14:00")
	assert.Contains(t, stdout, "- 15:00")
}

func TestReportScheduleAcceptsCalendarDate(t *testing.T) {
	home := t.TempDir()
	now := time.Now().UTC()
	require.NoError(t, writeLedgerFixture(home, now))

	stdout, _, err := executeCLI(t, home, "report", "schedule", "--day", now.AddDate(0, 0, 1).Format("2006/01/02"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "- Alice at 14:00")

	stdout, _, err = executeCLI(t, home, "report", "schedule", "--day", " Today ")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Schedule for "+now.Format("2006-01-02"))
}

func TestReportScheduleJSONOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeLedgerFixture(home, time.Now().UTC()))

	stdout, _, err := executeCLI(t, home, "report", "schedule", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"ClientName\": \"Alice\"")
}

func TestReportScheduleRejectsBadDate(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "report", "schedule", "--day", "someday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date/time not recognized")
}

func TestInvalidTimezoneFailsWiring(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PL_CALENDAR_TIMEZONE", "Mars/Olympus")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load timezone")
}

func TestUnknownCommand(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("PL_CALENDAR_KIND", "gregorian")
	t.Setenv("PL_CALENDAR_TIMEZONE", "UTC")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeLedgerFixture writes Alice (USD 50, one session tomorrow at 14:00,
// paid 30 at now) and an ended client Bob.
func writeLedgerFixture(home string, now time.Time) error {
	ledgerDir := filepath.Join(home, ".config", "practice-ledger")
	if err := os.MkdirAll(ledgerDir, 0o700); err != nil {
		return err
	}

	tomorrow := now.AddDate(0, 0, 1)
	next := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 14, 0, 0, 0, time.UTC).Format(time.RFC3339)
	paidAt := now.Truncate(time.Second).Format(time.RFC3339)

	ledger := fmt.Sprintf(`version = 1

[[clients]]
id = "c-alice"
name = "Alice"
currency = "USD"
session_fee = "50"
cadence = "weekly"
next_session = %[1]q
sessions_count = 0
cancellations = 0
reschedules = 0
payments_total = "30"
balance = "-20"
active = true

[[clients]]
id = "c-bob"
name = "Bob"
currency = "EUR"
session_fee = "40"
cadence = "variable"
sessions_count = 0
cancellations = 0
reschedules = 0
payments_total = "0"
balance = "0"
active = false

[[sessions]]
id = "s-1"
client_name = "Alice"
starts_at = %[1]q
duration_minutes = 60
status = "scheduled"
fee = "50"
payment = "0"

[[payments]]
id = "p-1"
client_name = "Alice"
paid_at = %[2]q
amount = "30"
currency = "USD"
method = "manual"
`, next, paidAt)

	return os.WriteFile(filepath.Join(ledgerDir, "ledger.toml"), []byte(ledger), 0o600)
}
