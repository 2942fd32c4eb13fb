package entries

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/storage/sqlite"
)

// fakePrompter answers prompts from fixed values and records what it was asked.
type fakePrompter struct {
	text    string
	confirm bool
	err     error

	edited    bool
	initial   string
	confirmed bool
}

func (f *fakePrompter) EditEntry(title, initial string) (string, error) {
	f.edited = true
	f.initial = initial
	return f.text, f.err
}

func (f *fakePrompter) Confirm(title string) (bool, error) {
	f.confirmed = true
	return f.confirm, f.err
}

var today = calendar.Date{Year: 2025, Month: 3, Day: 5}

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer, *fakePrompter) {
	t.Helper()
	ctx := context.Background()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "journal.db"), nil)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	prompt := &fakePrompter{}
	c := cli.NewContext(ctx, store, nil)
	c.Out = out
	c.Prompt = prompt
	c.Today = today
	return c, out, prompt
}

func storedText(t *testing.T, c *cli.Context, d calendar.Date) (string, bool) {
	t.Helper()
	entries, err := c.Store.FetchRange(c.Ctx(), d, d)
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if len(entries) == 0 {
		return "", false
	}
	return entries[0].Text, true
}

func TestWriteWithText(t *testing.T) {
	c, out, prompt := setupContext(t)

	cmd := &WriteCmd{Date: "2025-03-01", Text: []string{"went", "hiking"}}
	if err := cmd.Run(c); err != nil {
		t.Fatalf("WriteCmd.Run() error = %v", err)
	}
	if prompt.edited {
		t.Error("editor should not open when text is given")
	}
	if text, ok := storedText(t, c, calendar.Date{Year: 2025, Month: 3, Day: 1}); !ok || text != "went hiking" {
		t.Errorf("stored = %q, %v", text, ok)
	}
	if !strings.Contains(out.String(), "Saved entry for March 1, 2025") {
		t.Errorf("output = %q", out.String())
	}
}

func TestWriteWithEditor(t *testing.T) {
	c, _, prompt := setupContext(t)
	if err := c.Store.Upsert(c.Ctx(), today, "draft"); err != nil {
		t.Fatal(err)
	}

	prompt.text = "final\n"
	if err := (&WriteCmd{Date: "today"}).Run(c); err != nil {
		t.Fatalf("WriteCmd.Run() error = %v", err)
	}
	if !prompt.edited || prompt.initial != "draft" {
		t.Errorf("editor edited=%v initial=%q", prompt.edited, prompt.initial)
	}
	if text, _ := storedText(t, c, today); text != "final" {
		t.Errorf("stored = %q, want %q", text, "final")
	}
}

func TestWriteEmptyRemoves(t *testing.T) {
	c, out, prompt := setupContext(t)
	if err := c.Store.Upsert(c.Ctx(), today, "draft"); err != nil {
		t.Fatal(err)
	}

	prompt.text = ""
	if err := (&WriteCmd{Date: "today"}).Run(c); err != nil {
		t.Fatalf("WriteCmd.Run() error = %v", err)
	}
	if _, ok := storedText(t, c, today); ok {
		t.Error("entry should be removed")
	}
	if !strings.Contains(out.String(), "Removed entry") {
		t.Errorf("output = %q", out.String())
	}
}

func TestWriteAborted(t *testing.T) {
	c, _, prompt := setupContext(t)
	prompt.err = cli.ErrAborted

	if err := (&WriteCmd{Date: "today"}).Run(c); !errors.Is(err, cli.ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
}

func TestWriteInvalidDate(t *testing.T) {
	c, _, _ := setupContext(t)
	err := (&WriteCmd{Date: "2023-02-29", Text: []string{"x"}}).Run(c)
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		yes     bool
		confirm bool
		deleted bool
		output  string
	}{
		{"confirmed", false, true, true, "Deleted entry"},
		{"declined", false, false, false, "Cancelled"},
		{"yes flag", true, false, true, "Deleted entry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out, prompt := setupContext(t)
			if err := c.Store.Upsert(c.Ctx(), today, "secret"); err != nil {
				t.Fatal(err)
			}
			prompt.confirm = tt.confirm

			if err := (&DeleteCmd{Date: "2025-03-05", Yes: tt.yes}).Run(c); err != nil {
				t.Fatalf("DeleteCmd.Run() error = %v", err)
			}
			if prompt.confirmed == tt.yes {
				t.Errorf("confirm asked = %v with --yes=%v", prompt.confirmed, tt.yes)
			}
			if _, ok := storedText(t, c, today); ok == tt.deleted {
				t.Errorf("entry present = %v, want deleted = %v", ok, tt.deleted)
			}
			if !strings.Contains(out.String(), tt.output) {
				t.Errorf("output = %q, want %q", out.String(), tt.output)
			}
		})
	}
}

func TestDeleteMissingEntry(t *testing.T) {
	c, out, prompt := setupContext(t)
	if err := (&DeleteCmd{Date: "today"}).Run(c); err != nil {
		t.Fatalf("DeleteCmd.Run() error = %v", err)
	}
	if prompt.confirmed {
		t.Error("should not ask to delete a missing entry")
	}
	if !strings.Contains(out.String(), "No entry for March 5, 2025") {
		t.Errorf("output = %q", out.String())
	}
}

func TestShow(t *testing.T) {
	c, out, _ := setupContext(t)
	if err := c.Store.Upsert(c.Ctx(), calendar.Date{Year: 2025, Month: 3, Day: 4}, "tuesday notes"); err != nil {
		t.Fatal(err)
	}

	if err := (&ShowCmd{Date: "yesterday"}).Run(c); err != nil {
		t.Fatalf("ShowCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "March 4, 2025") || !strings.Contains(out.String(), "tuesday notes") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&ShowCmd{}).Run(c); err != nil {
		t.Fatalf("ShowCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "(no entry)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestMonth(t *testing.T) {
	c, out, _ := setupContext(t)
	for _, d := range []calendar.Date{{Year: 2025, Month: 1, Day: 31}, {Year: 2025, Month: 2, Day: 14}, {Year: 2025, Month: 2, Day: 28}} {
		if err := c.Store.Upsert(c.Ctx(), d, "x"); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		cmd   MonthCmd
		title string
		count string
	}{
		{"current", MonthCmd{}, "March 2025", "No entries this month."},
		{"explicit", MonthCmd{Month: 2, Year: 2025}, "February 2025", "2 entries this month."},
		{"shift back", MonthCmd{Shift: -2}, "January 2025", "1 entry this month."},
		{"shift across year", MonthCmd{Month: 1, Year: 2025, Shift: -1}, "December 2024", "No entries this month."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := tt.cmd.Run(c); err != nil {
				t.Fatalf("MonthCmd.Run() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.title) || !strings.Contains(out.String(), tt.count) {
				t.Errorf("output = %q, want %q and %q", out.String(), tt.title, tt.count)
			}
		})
	}

	if err := (&MonthCmd{Month: 13}).Run(c); !errors.Is(err, calendar.ErrInvalidMonth) {
		t.Errorf("MonthCmd{13} error = %v, want ErrInvalidMonth", err)
	}
}

func TestRecent(t *testing.T) {
	c, out, _ := setupContext(t)
	for _, s := range []string{"2020-01-01", "2099-01-01", "2010-01-01"} {
		d, _ := calendar.ParseDate(s)
		if err := c.Store.Upsert(c.Ctx(), d, "entry "+s); err != nil {
			t.Fatal(err)
		}
	}

	if err := (&RecentCmd{N: 2}).Run(c); err != nil {
		t.Fatalf("RecentCmd.Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "2010-01-01") || !strings.Contains(lines[1], "2099-01-01") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&RecentCmd{N: -1}).Run(c); err == nil {
		t.Error("expected error for negative -n")
	}
}
