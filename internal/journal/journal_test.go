package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/storage/sqlite"
)

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "journal.db"), nil)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func openJournal(t *testing.T, store storage.Provider, today calendar.Date) *Journal {
	t.Helper()
	j := New(store, nil, today)
	if err := j.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return j
}

func date(y, m, d int) calendar.Date {
	return calendar.Date{Year: y, Month: m, Day: d}
}

func TestOpenFocusesToday(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	if err := store.Upsert(ctx, date(2025, 3, 5), "hello"); err != nil {
		t.Fatal(err)
	}

	j := openJournal(t, store, date(2025, 3, 5))

	if j.MonthTitle() != "March 2025" {
		t.Errorf("MonthTitle() = %q", j.MonthTitle())
	}
	if got := j.Focus().Date(); got != date(2025, 3, 5) {
		t.Errorf("focus = %v", got)
	}
	if j.Focus().Entry() != "hello" {
		t.Errorf("focus entry = %q, want populated text", j.Focus().Entry())
	}
	// focus is the same Day the month holds
	day, err := j.Month().Lookup(5)
	if err != nil || day != j.Focus() {
		t.Errorf("focus day is not the month's day: %p vs %p (%v)", j.Focus(), day, err)
	}
}

func TestGetMonthPopulates(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	for _, d := range []calendar.Date{date(2024, 1, 31), date(2024, 2, 1), date(2024, 2, 29), date(2024, 3, 1)} {
		if err := store.Upsert(ctx, d, d.String()); err != nil {
			t.Fatal(err)
		}
	}

	j := New(store, nil, date(2024, 2, 10))
	m, err := j.GetMonth(ctx, 2, 2024)
	if err != nil {
		t.Fatalf("GetMonth failed: %v", err)
	}

	withEntries := 0
	for _, d := range m.Days() {
		if d.HasEntry() {
			withEntries++
			if d.Entry() != d.Date().String() {
				t.Errorf("day %v has entry %q", d.Date(), d.Entry())
			}
		}
	}
	if withEntries != 2 {
		t.Errorf("expected 2 populated days, got %d", withEntries)
	}

	if _, err := j.GetMonth(ctx, 13, 2024); !errors.Is(err, calendar.ErrInvalidMonth) {
		t.Errorf("GetMonth(13) error = %v, want ErrInvalidMonth", err)
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		name  string
		today calendar.Date
		delta int
		want  calendar.Date
		title string
	}{
		{"next month", date(2025, 3, 5), 1, date(2025, 4, 5), "April 2025"},
		{"clamps to shorter month", date(2024, 1, 31), 1, date(2024, 2, 29), "February 2024"},
		{"clamps non-leap", date(2023, 1, 31), 1, date(2023, 2, 28), "February 2023"},
		{"back across year", date(2020, 1, 15), -1, date(2019, 12, 15), "December 2019"},
		{"forward across year", date(2019, 12, 15), 1, date(2020, 1, 15), "January 2020"},
		{"twelve months", date(2021, 6, 30), 12, date(2022, 6, 30), "June 2022"},
		{"zero refreshes", date(2021, 6, 30), 0, date(2021, 6, 30), "June 2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := openJournal(t, setupStore(t), tt.today)
			if err := j.Shift(context.Background(), tt.delta); err != nil {
				t.Fatalf("Shift failed: %v", err)
			}
			if got := j.Focus().Date(); got != tt.want {
				t.Errorf("focus = %v, want %v", got, tt.want)
			}
			if j.MonthTitle() != tt.title {
				t.Errorf("MonthTitle() = %q, want %q", j.MonthTitle(), tt.title)
			}
		})
	}
}

func TestShiftStopsAtLastStorableYear(t *testing.T) {
	j := openJournal(t, setupStore(t), date(calendar.MaxYear, 12, 15))

	if err := j.Shift(context.Background(), 1); !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("Shift past year %d error = %v, want ErrInvalidDate", calendar.MaxYear, err)
	}
	if got := j.Focus().Date(); got != date(calendar.MaxYear, 12, 15) {
		t.Errorf("focus moved to %s after failed shift", got)
	}
	if got := j.MonthTitle(); got != "December 9999" {
		t.Errorf("MonthTitle() = %q", got)
	}
}

func TestShiftSeesNewEntries(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	j := openJournal(t, store, date(2025, 3, 5))

	if err := store.Upsert(ctx, date(2025, 4, 5), "april"); err != nil {
		t.Fatal(err)
	}
	if err := j.Shift(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if j.Focus().Entry() != "april" {
		t.Errorf("focus entry = %q, want %q", j.Focus().Entry(), "april")
	}
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	// March 2025 starts on a Saturday: row 0 cols 0-4 are padding
	j := openJournal(t, setupStore(t), date(2025, 3, 20))

	if err := j.Select(ctx, 0, 0); !errors.Is(err, models.ErrEmptyCell) {
		t.Errorf("Select(0,0) error = %v, want ErrEmptyCell", err)
	}
	if got := j.Focus().Date(); got != date(2025, 3, 20) {
		t.Errorf("focus changed after failed select: %v", got)
	}

	if err := j.Select(ctx, 0, 5); err != nil {
		t.Fatalf("Select(0,5) failed: %v", err)
	}
	if got := j.Focus().Date(); got != date(2025, 3, 1) {
		t.Errorf("focus = %v, want 2025-03-01", got)
	}

	if err := j.Select(ctx, 6, 0); err == nil {
		t.Error("expected error for row outside grid")
	}
}

func TestSelectDate(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	if err := store.Upsert(ctx, date(1999, 12, 31), "party"); err != nil {
		t.Fatal(err)
	}
	j := openJournal(t, store, date(2025, 3, 5))

	if err := j.SelectDate(ctx, date(1999, 12, 31)); err != nil {
		t.Fatalf("SelectDate failed: %v", err)
	}
	if j.MonthTitle() != "December 1999" || j.Focus().Entry() != "party" {
		t.Errorf("title %q entry %q", j.MonthTitle(), j.Focus().Entry())
	}

	if err := j.SelectDate(ctx, date(2023, 2, 29)); !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("SelectDate(2023-02-29) error = %v, want ErrInvalidDate", err)
	}
	if j.Focus().Date() != date(1999, 12, 31) {
		t.Errorf("focus moved after invalid date: %v", j.Focus().Date())
	}
}

func TestSaveAndClear(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	j := openJournal(t, store, date(2025, 3, 5))

	if err := j.Save(ctx, "first draft"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if j.Focus().Entry() != "first draft" {
		t.Errorf("focus entry = %q", j.Focus().Entry())
	}
	entries, err := store.FetchRange(ctx, date(2025, 3, 5), date(2025, 3, 5))
	if err != nil || len(entries) != 1 || entries[0].Text != "first draft" {
		t.Fatalf("stored entries = %+v, %v", entries, err)
	}

	// saving empty text removes the row
	if err := j.Save(ctx, ""); err != nil {
		t.Fatalf("Save(\"\") failed: %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expected row deleted, count = %d", n)
	}
	if j.Focus().HasEntry() {
		t.Error("focus should be empty after saving empty text")
	}

	if err := j.Save(ctx, "again"); err != nil {
		t.Fatal(err)
	}
	if err := j.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 || j.Focus().HasEntry() {
		t.Errorf("Clear left count=%d entry=%q", n, j.Focus().Entry())
	}
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t, setupStore(t), date(2025, 3, 5))

	for _, d := range []calendar.Date{date(2020, 1, 1), date(2099, 1, 1), date(2010, 1, 1)} {
		if err := j.SelectDate(ctx, d); err != nil {
			t.Fatal(err)
		}
		if err := j.Save(ctx, d.String()); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []calendar.Date{date(2010, 1, 1), date(2099, 1, 1), date(2020, 1, 1)}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i].Date != want[i] {
			t.Errorf("entries[%d] = %v, want %v", i, entries[i].Date, want[i])
		}
	}
}

func TestNotOpen(t *testing.T) {
	j := New(setupStore(t), nil, date(2025, 3, 5))
	ctx := context.Background()

	if j.MonthTitle() != "" || j.Focus() != nil || j.Month() != nil {
		t.Error("unopened journal should have no focus")
	}
	for name, err := range map[string]error{
		"Shift":  j.Shift(ctx, 1),
		"Select": j.Select(ctx, 0, 0),
		"Save":   j.Save(ctx, "x"),
		"Clear":  j.Clear(ctx),
	} {
		if !errors.Is(err, ErrNotOpen) {
			t.Errorf("%s error = %v, want ErrNotOpen", name, err)
		}
	}
}

// failingStore fails every data operation.
type failingStore struct {
	storage.Provider
	err error
}

func (f failingStore) Upsert(context.Context, calendar.Date, string) error { return f.err }
func (f failingStore) Delete(context.Context, calendar.Date) error         { return f.err }
func (f failingStore) FetchRange(context.Context, calendar.Date, calendar.Date) ([]models.Entry, error) {
	return nil, f.err
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	if err := store.Upsert(ctx, date(2025, 3, 5), "kept"); err != nil {
		t.Fatal(err)
	}
	j := openJournal(t, store, date(2025, 3, 5))

	cause := &storage.StorageError{Op: storage.OpUpsert, Err: errors.New("disk full")}
	j.store = failingStore{err: cause}

	if err := j.Save(ctx, "lost"); err != cause {
		t.Errorf("Save error = %v, want the store's error unchanged", err)
	}
	if j.Focus().Entry() != "kept" {
		t.Errorf("model changed after failed save: %q", j.Focus().Entry())
	}

	if err := j.Clear(ctx); err != cause {
		t.Errorf("Clear error = %v", err)
	}
	if !j.Focus().HasEntry() {
		t.Error("model cleared after failed delete")
	}

	if err := j.Shift(ctx, 1); !errors.Is(err, storage.ErrStorage) {
		t.Errorf("Shift error = %v, want StorageError", err)
	}
	if j.MonthTitle() != "March 2025" || j.Focus().Date() != date(2025, 3, 5) {
		t.Errorf("focus moved after failed shift: %s %v", j.MonthTitle(), j.Focus().Date())
	}
}

// strayStore returns an entry outside any requested range.
type strayStore struct {
	storage.Provider
}

func (strayStore) FetchRange(context.Context, calendar.Date, calendar.Date) ([]models.Entry, error) {
	return []models.Entry{{Date: date(2025, 3, 1), Text: "ok"}, {Date: date(2025, 4, 1), Text: "stray"}}, nil
}

func TestGetMonthRejectsStrayEntries(t *testing.T) {
	j := New(strayStore{}, nil, date(2025, 3, 5))
	_, err := j.GetMonth(context.Background(), 3, 2025)

	var mbe *models.MonthBoundaryError
	if !errors.As(err, &mbe) {
		t.Fatalf("error = %v, want MonthBoundaryError", err)
	}
	if mbe.Date != date(2025, 4, 1) {
		t.Errorf("offending date = %v", mbe.Date)
	}
}
