package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-dev/spendwise/internal/activity"
	"github.com/spendwise-dev/spendwise/internal/commands"
	"github.com/spendwise-dev/spendwise/internal/id"
	"github.com/spendwise-dev/spendwise/internal/textparse"
	"github.com/spendwise-dev/spendwise/internal/tracker"
)

type harness struct {
	dir string
	now time.Time
	ids func() string
}

func newHarness(t *testing.T, initArgs ...string) *harness {
	t.Helper()
	h := &harness{
		dir: t.TempDir(),
		now: time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC),
		ids: id.Sequence("t"),
	}
	_, err := h.run(append([]string{"init"}, initArgs...)...)
	require.NoError(t, err)
	return h
}

func (h *harness) run(args ...string) (string, error) {
	cmd := commands.NewRootCommand(
		commands.WithClock(func() time.Time { return h.now }),
		commands.WithIDs(h.ids),
		commands.WithParser(textparse.NewRulesParser()),
	)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", h.dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(args...)
	require.NoError(t, err, "spendwise %s", strings.Join(args, " "))
	return out
}

func TestInit_WritesConfigAndState(t *testing.T) {
	h := newHarness(t, "--budget", "1800", "--currency", "€")

	cfg, err := os.ReadFile(filepath.Join(h.dir, "spendwise.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "backend: file")
	assert.FileExists(t, filepath.Join(h.dir, "data", "spendwise_budget.json"))
	assert.DirExists(t, filepath.Join(h.dir, "logs"))
	assert.DirExists(t, filepath.Join(h.dir, "import", "processed"))

	assert.Contains(t, h.mustRun(t, "budget", "show"), "€1800.00")

	_, err = h.run("init")
	assert.ErrorContains(t, err, "already initialized")
}

func TestInit_RejectsBadBackend(t *testing.T) {
	h := &harness{dir: t.TempDir(), ids: id.Sequence("t")}
	_, err := h.run("init", "--backend", "postgres")
	assert.ErrorContains(t, err, "config validation failed")
}

func TestAdd_ListAndDashboard(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "add", "--desc", "Flight", "--vendor", "Delta", "--amount", "2500", "--category", "travel", "--date", "2025-04-05")
	assert.Contains(t, out, "Added t-1")
	assert.Contains(t, out, "(Travel)")

	list := h.mustRun(t, "list")
	assert.Contains(t, list, "2025-04-05")
	assert.Contains(t, list, "Flight")
	assert.Contains(t, list, "$2500.00")

	dash := h.mustRun(t, "dashboard")
	assert.Contains(t, dash, "APRIL 2025 SPENDING")
	assert.Contains(t, dash, "You're $500.00 over limit.")
	assert.Contains(t, dash, "Travel")

	ytd := h.mustRun(t, "dashboard", "--timeframe", "ytd")
	assert.Contains(t, ytd, "YTD SPENDING")
	assert.Contains(t, ytd, "Goal: $2000.00")
	assert.Contains(t, ytd, "You're $500.00 over limit.", "status uses the monthly budget for every window")

	march := h.mustRun(t, "dashboard", "--month", "2025-03")
	assert.Contains(t, march, "MARCH 2025 SPENDING")
	assert.Contains(t, march, "No spending in this period.")
}

func TestAdd_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "--desc", "Coffee", "--amount", "4.50")
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)
	assert.ErrorContains(t, err, "vendor")

	_, err = h.run("add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "0")
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	_, err = h.run("add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "abc")
	assert.ErrorContains(t, err, "invalid amount")

	assert.Contains(t, h.mustRun(t, "list"), "No transactions yet.")
}

func TestAdd_TextFillsMissingFields(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "add", "--text", "lunch with team 18.40", "--vendor", "Sushi Place")
	assert.Contains(t, out, "$18.40")
	assert.Contains(t, out, "(Dining)")

	out = h.mustRun(t, "add", "--text", "lunch 9.99", "--vendor", "Cafe", "--amount", "12", "--category", "Other", "--desc", "Team lunch")
	assert.Contains(t, out, "Team lunch $12.00 (Other)", "given fields win over the guess")
}

func TestEditAndDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4.50", "--category", "Dining", "--date", "2025-04-02")

	out := h.mustRun(t, "edit", "t-1", "--amount", "5.25")
	assert.Contains(t, out, "Updated t-1: Coffee $5.25 (Dining) on 2025-04-02")

	_, err := h.run("edit", "missing", "--amount", "1")
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	h.mustRun(t, "delete", "t-1")
	assert.Contains(t, h.mustRun(t, "list"), "No transactions yet.")

	_, err = h.run("delete", "t-1")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestList_Filters(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4", "--category", "Dining", "--date", "2025-04-02")
	h.mustRun(t, "add", "--desc", "Tires", "--vendor", "Shop", "--amount", "400", "--category", "Automotive", "--date", "2025-03-02")

	march := h.mustRun(t, "list", "--month", "2025-03")
	assert.Contains(t, march, "Tires")
	assert.NotContains(t, march, "Coffee")

	dining := h.mustRun(t, "list", "--category", "dining")
	assert.Contains(t, dining, "Coffee")
	assert.NotContains(t, dining, "Tires")

	months := h.mustRun(t, "months")
	assert.Contains(t, months, "* 2025-04")
	assert.Contains(t, months, "2025-03")
}

func TestBudget(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun(t, "budget"), "$2000.00")

	assert.Contains(t, h.mustRun(t, "budget", "set", "1500"), "$1500.00")
	assert.Contains(t, h.mustRun(t, "budget", "show"), "$1500.00")

	_, err := h.run("budget", "set", "--", "-5")
	assert.ErrorIs(t, err, tracker.ErrNegativeBudget)
	assert.Contains(t, h.mustRun(t, "budget", "show"), "$1500.00")
}

func TestSubscriptionLifecycle(t *testing.T) {
	h := newHarness(t)
	h.now = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	out := h.mustRun(t, "add", "--desc", "Gym", "--vendor", "Equinox", "--amount", "220", "--category", "Fitness", "--recurring")
	assert.Contains(t, out, "Subscription t-2 created, billed on day 31")
	assert.Contains(t, h.mustRun(t, "proposals"), "Nothing due this month.")

	h.now = time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	due := h.mustRun(t, "proposals", "list")
	assert.Contains(t, due, "1 pending this month")
	assert.Contains(t, due, "due Apr 30")

	accepted := h.mustRun(t, "proposals", "accept", "t-2")
	assert.Contains(t, accepted, "on 2025-04-30")
	assert.Contains(t, h.mustRun(t, "proposals", "list"), "Nothing due this month.")
	assert.Contains(t, h.mustRun(t, "subscriptions", "list"), "fulfilled")

	_, err := h.run("proposals", "accept", "t-2")
	assert.ErrorIs(t, err, tracker.ErrNotProposed)

	h.now = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	assert.Contains(t, h.mustRun(t, "proposals"), "due May 31")

	h.mustRun(t, "subscriptions", "delete", "t-2")
	assert.Contains(t, h.mustRun(t, "proposals"), "Nothing due this month.")
	assert.Contains(t, h.mustRun(t, "list"), "Gym", "transactions survive subscription removal")

	_, err = h.run("proposals", "delete", "t-2")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4.50", "--category", "Dining")

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	out := h.mustRun(t, "export", "--output", backupPath)
	assert.Contains(t, out, "Exported 1 transactions")
	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportedAt"`)

	stdout := h.mustRun(t, "export", "-o", "-")
	assert.Contains(t, stdout, `"Coffee"`)

	replacement := filepath.Join(t.TempDir(), "replace.json")
	require.NoError(t, os.WriteFile(replacement, []byte(`{"transactions":[],"subscriptions":[],"budget":1500}`), 0o644))
	h.mustRun(t, "import", replacement)
	assert.Contains(t, h.mustRun(t, "budget", "show"), "$1500.00")
	assert.Contains(t, h.mustRun(t, "list"), "No transactions yet.")

	h.mustRun(t, "import", backupPath)
	assert.Contains(t, h.mustRun(t, "list"), "Coffee")
	assert.Contains(t, h.mustRun(t, "budget", "show"), "$2000.00")
}

func TestImport_MalformedLeavesStateAlone(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4.50")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"transactions": [`), 0o644))
	_, err := h.run("import", bad)
	require.Error(t, err)

	assert.Contains(t, h.mustRun(t, "list"), "Coffee")
}

func TestImportCSV_ScansImportDir(t *testing.T) {
	h := newHarness(t)
	data, err := os.ReadFile(filepath.Join("..", "importer", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "import", "chase_checking.csv"), data, 0o644))

	out := h.mustRun(t, "import-csv")
	assert.Contains(t, out, "chase_checking.csv: 5 added, 0 skipped")
	assert.FileExists(t, filepath.Join(h.dir, "import", "processed", "chase_checking.csv"))
	assert.NoFileExists(t, filepath.Join(h.dir, "import", "chase_checking.csv"))

	assert.Contains(t, h.mustRun(t, "import-csv"), "No CSV files")
}

func TestImportCSV_File(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "spend.csv")
	csv := "date,description,vendor,amount,category\n" +
		"2025-04-01,Groceries,Safeway,84.20,Groceries\n" +
		"2025-04-02,Morning coffee,Starbucks,5.10,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out := h.mustRun(t, "import-csv", path)
	assert.Contains(t, out, "spend.csv: 2 added, 0 skipped")

	dining := h.mustRun(t, "list", "--category", "Dining")
	assert.Contains(t, dining, "Morning coffee", "missing category is guessed from the description")

	bogus := filepath.Join(t.TempDir(), "bogus.csv")
	require.NoError(t, os.WriteFile(bogus, []byte("a,b\n1,2\n"), 0o644))
	_, err := h.run("import-csv", bogus)
	assert.ErrorContains(t, err, "unrecognized CSV header")
}

func TestImportCSV_OneWriteForWholeFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "mixed.csv")
	csv := "date,description,vendor,amount,category\n" +
		"2025-04-01,Groceries,Safeway,84.20,Groceries\n" +
		"2025-04-02,Refund,Safeway,0,Groceries\n" +
		"2025-04-03,Gas,Shell,40.00,Automotive\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	before, err := activity.New(h.dir).Read()
	require.NoError(t, err)

	out := h.mustRun(t, "import-csv", path)
	assert.Contains(t, out, "mixed.csv: 2 added, 1 skipped")

	after, err := activity.New(h.dir).Read()
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Equal(t, activity.ActionImport, last.Action)
	assert.Equal(t, "2 transactions from mixed.csv", last.Details)

	list := h.mustRun(t, "list")
	assert.Less(t, strings.Index(list, "Gas"), strings.Index(list, "Groceries"), "later rows sit above earlier ones")
}

func TestParse(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "parse", "coffee", "at", "blue", "bottle", "4.50")
	assert.Contains(t, out, "Amount:      $4.50")
	assert.Contains(t, out, "Category:    Dining")
}

func TestLog(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun(t, "log"), "No activity recorded.")

	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4.50")
	h.mustRun(t, "budget", "set", "2500")

	out := h.mustRun(t, "log")
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "Coffee, Cafe 4.50 (Other)")
	assert.Contains(t, out, "set to 2500.00")

	tail := h.mustRun(t, "log", "-n", "1")
	assert.NotContains(t, tail, "Coffee")
}

func TestChart(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4.50", "--category", "Dining", "--date", "2025-04-03")

	out := h.mustRun(t, "chart")
	assert.Contains(t, out, filepath.Join(h.dir, "charts", "trend.png"))
	assert.FileExists(t, filepath.Join(h.dir, "charts", "categories.png"))

	empty := h.mustRun(t, "chart", "--month", "2025-01", "-o", filepath.Join(t.TempDir(), "jan"))
	assert.Contains(t, empty, "category chart skipped")
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t, "--backend", "sqlite")
	assert.FileExists(t, filepath.Join(h.dir, "spendwise.db"))

	h.mustRun(t, "add", "--desc", "Coffee", "--vendor", "Cafe", "--amount", "4.50")
	h.mustRun(t, "budget", "set", "900")

	assert.Contains(t, h.mustRun(t, "list"), "Coffee")
	assert.Contains(t, h.mustRun(t, "budget", "show"), "$900.00")
}

func TestVersion(t *testing.T) {
	h := &harness{dir: t.TempDir(), ids: id.Sequence("t")}
	out, err := h.run("--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
