// Package diskv stores journal entries as one JSON file per day on disk,
// laid out as <base>/entries/<year>/<month>/<day>.
package diskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

const (
	entryCollection = "entries"
	metaCollection  = "meta"
	seqKey          = metaCollection + "-seq"
	versionKey      = metaCollection + "-version"
	formatVersion   = "1"
)

// record is the on-disk form of an entry. Seq orders writes for FetchRecent.
type record struct {
	Date  string `json:"date"`
	Entry string `json:"entry"`
	Seq   int64  `json:"seq"`
}

type Store struct {
	basePath string
	d        *diskv.Diskv
	logger   *log.Logger

	// guards the read-modify-write of the sequence counter
	mu sync.Mutex
}

func NewStore(basePath string, l *log.Logger) *Store {
	return &Store{
		basePath: basePath,
		logger:   logger.OrDiscard(l),
	}
}

func (s *Store) open() {
	if s.d != nil {
		return
	}
	s.d = diskv.New(diskv.Options{
		BasePath:          s.basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})
}

func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.basePath, 0700); err != nil {
		return storage.Wrap(storage.OpInit, fmt.Errorf("failed to create journal directory: %w", err))
	}
	s.open()
	if !s.d.Has(versionKey) {
		if err := s.d.Write(versionKey, []byte(formatVersion)); err != nil {
			return storage.Wrap(storage.OpInit, err)
		}
		s.logger.Info("Initialized diskv journal", "path", s.basePath)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.d != nil {
		return nil
	}
	if _, err := os.Stat(s.basePath); os.IsNotExist(err) {
		return storage.Wrap(storage.OpLoad, fmt.Errorf("journal not initialized, run '%s init' first", constants.AppName))
	}
	s.open()

	v, err := s.d.Read(versionKey)
	if err != nil {
		s.d = nil
		return storage.Wrap(storage.OpLoad, fmt.Errorf("reading format version: %w", err))
	}
	if strings.TrimSpace(string(v)) != formatVersion {
		s.d = nil
		return storage.Wrap(storage.OpLoad, fmt.Errorf("unsupported journal format version %q", v))
	}
	return nil
}

func (s *Store) Close() error {
	s.d = nil
	return nil
}

func (s *Store) Upsert(ctx context.Context, date calendar.Date, text string) error {
	if s.d == nil {
		return storage.Wrap(storage.OpUpsert, storage.ErrNotLoaded)
	}
	if !date.Valid() {
		return storage.Wrap(storage.OpUpsert, calendar.ErrInvalidDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.nextSeq()
	if err != nil {
		return storage.Wrap(storage.OpUpsert, err)
	}
	data, err := json.Marshal(record{Date: date.String(), Entry: text, Seq: seq})
	if err != nil {
		return storage.Wrap(storage.OpUpsert, err)
	}
	if err := s.d.Write(toKey(date), data); err != nil {
		return storage.Wrap(storage.OpUpsert, err)
	}
	s.logger.Info("entry saved", "date", date, "seq", seq)
	return nil
}

func (s *Store) nextSeq() (int64, error) {
	var seq int64
	if s.d.Has(seqKey) {
		raw, err := s.d.Read(seqKey)
		if err != nil {
			return 0, fmt.Errorf("reading sequence: %w", err)
		}
		if seq, err = strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64); err != nil {
			return 0, fmt.Errorf("parsing sequence: %w", err)
		}
	}
	seq++
	if err := s.d.Write(seqKey, []byte(strconv.FormatInt(seq, 10))); err != nil {
		return 0, fmt.Errorf("writing sequence: %w", err)
	}
	return seq, nil
}

func (s *Store) FetchRange(ctx context.Context, start, end calendar.Date) ([]models.Entry, error) {
	s.logger.Debug("fetching entries", "start", start, "end", end)
	records, err := s.scan(ctx, storage.OpFetchRange, func(d calendar.Date) bool {
		return !d.Before(start) && !d.After(end)
	})
	if err != nil {
		return nil, err
	}
	return toEntries(storage.OpFetchRange, records)
}

func (s *Store) Delete(ctx context.Context, date calendar.Date) error {
	if s.d == nil {
		return storage.Wrap(storage.OpDelete, storage.ErrNotLoaded)
	}
	key := toKey(date)
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return storage.Wrap(storage.OpDelete, err)
	}
	s.logger.Info("entry deleted", "date", date)
	return nil
}

func (s *Store) FetchRecent(ctx context.Context, n int) ([]models.Entry, error) {
	if n <= 0 {
		return []models.Entry{}, nil
	}
	records, err := s.scan(ctx, storage.OpFetchRecent, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Seq > records[j].Seq
	})
	if len(records) > n {
		records = records[:n]
	}
	return toEntries(storage.OpFetchRecent, records)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	records, err := s.scan(ctx, storage.OpCount, nil)
	return len(records), err
}

func (s *Store) GetConfigPath() string {
	return s.basePath
}

// scan reads every entry record whose date satisfies keep (all when nil).
func (s *Store) scan(ctx context.Context, op string, keep func(calendar.Date) bool) ([]record, error) {
	if s.d == nil {
		return nil, storage.Wrap(op, storage.ErrNotLoaded)
	}

	// cancelling stops the key walker if we return early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := []record{}
	for key := range s.d.Keys(ctx.Done()) {
		date, ok := fromKey(key)
		if !ok {
			continue
		}
		if keep != nil && !keep(date) {
			continue
		}
		raw, err := s.d.Read(key)
		if err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("%s: %w", key, err))
		}
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("%s: %w", key, err))
		}
		records = append(records, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, storage.Wrap(op, err)
	}
	return records, nil
}

func toEntries(op string, records []record) ([]models.Entry, error) {
	entries := make([]models.Entry, 0, len(records))
	for _, r := range records {
		e, err := models.ParseEntry(r.Date, r.Entry)
		if err != nil {
			return nil, storage.Wrap(op, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `entries-YYYY-MM-DD`
func toKey(d calendar.Date) string {
	return entryCollection + "-" + d.String()
}

func fromKey(key string) (calendar.Date, bool) {
	rest, ok := strings.CutPrefix(key, entryCollection+"-")
	if !ok {
		return calendar.Date{}, false
	}
	d, err := calendar.ParseDate(rest)
	if err != nil {
		return calendar.Date{}, false
	}
	return d, true
}

var errNotDiskv = errors.New("not a diskv location")

// PathFromURL strips the diskv:// prefix from a location.
func PathFromURL(location string) (string, error) {
	path, ok := strings.CutPrefix(location, constants.DiskvURLPrefix)
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %q", errNotDiskv, location)
	}
	return path, nil
}
