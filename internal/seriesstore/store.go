// Package seriesstore persists route sample series as append-only CSV files.
package seriesstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/sirupsen/logrus"
)

// CSVStore keeps one traffic_<key>.csv file per route under a data directory.
// Writers for the same key are serialized through traffic_<key>.csv.lock.
type CSVStore struct {
	dir string
	loc *time.Location
}

// New returns a store rooted at dir. Timestamps are written and read in local time.
func New(dir string) *CSVStore {
	return &CSVStore{dir: dir, loc: time.Local}
}

// Path implements contract.SeriesStore.
func (s *CSVStore) Path(routeKey string) string {
	return filepath.Join(s.dir, schema.SeriesFileName(routeKey))
}

func (s *CSVStore) lockPath(routeKey string) string {
	return s.Path(routeKey) + ".lock"
}

// Persist implements contract.SeriesStore.
func (s *CSVStore) Persist(routeKey string, samples []schema.Sample) (path string, err error) {
	path = s.Path(routeKey)

	lock := flock.New(s.lockPath(routeKey))
	if err := lock.Lock(); err != nil {
		return path, &contract.IOError{Op: "lock", Path: lock.Path(), Err: err}
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return path, &contract.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &contract.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return path, &contract.IOError{Op: "stat", Path: path, Err: err}
	}
	fresh := info.Size() == 0

	if !fresh && len(samples) == 0 {
		return path, nil
	}

	var buf bytes.Buffer
	if !fresh {
		// A file cut off mid-line must not glue its last row to ours.
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			return path, &contract.IOError{Op: "read", Path: path, Err: err}
		}
		if last[0] != '\n' {
			buf.WriteByte('\n')
		}
	}
	if err := encodeRows(&buf, samples, fresh); err != nil {
		return path, &contract.IOError{Op: "encode", Path: path, Err: err}
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		rollback(f, info.Size())
		return path, &contract.IOError{Op: "append", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		rollback(f, info.Size())
		return path, &contract.IOError{Op: "sync", Path: path, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"route": routeKey,
		"rows":  len(samples),
		"fresh": fresh,
	}).Debug("series persisted")
	return path, nil
}

// rollback cuts the file back to size so a short write leaves no fragment behind.
func rollback(f *os.File, size int64) {
	if err := f.Truncate(size); err != nil {
		logrus.WithError(err).WithField("path", f.Name()).Warn("series rollback failed")
		return
	}
	_ = f.Sync()
}

// encodeRows writes samples as CSV, preceded by the header when withHeader is set.
func encodeRows(w io.Writer, samples []schema.Sample, withHeader bool) error {
	cw := csv.NewWriter(w)
	if withHeader {
		if err := cw.Write(schema.SeriesHeader); err != nil {
			return err
		}
	}
	for _, sm := range samples {
		if err := cw.Write(FormatRow(sm)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRow renders one sample in series column order.
func FormatRow(sm schema.Sample) []string {
	return []string{
		strconv.Itoa(sm.DayOfWeek),
		sm.Timestamp.Format(schema.SeriesTimeLayout),
		strconv.FormatFloat(sm.DurationMinutes, 'f', -1, 64),
	}
}

// Load implements contract.SeriesStore. A missing series is an IOError wrapping fs.ErrNotExist.
func (s *CSVStore) Load(routeKey string) ([]schema.Sample, error) {
	path := s.Path(routeKey)
	if _, err := os.Stat(path); err != nil {
		return nil, &contract.IOError{Op: "stat", Path: path, Err: err}
	}

	lock := flock.New(s.lockPath(routeKey))
	if err := lock.RLock(); err != nil {
		return nil, &contract.IOError{Op: "lock", Path: lock.Path(), Err: err}
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.Open(path)
	if err != nil {
		return nil, &contract.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	samples, err := s.decodeRows(f)
	if err != nil {
		return nil, &contract.IOError{Op: "read", Path: path, Err: err}
	}
	return samples, nil
}

func (s *CSVStore) decodeRows(r io.Reader) ([]schema.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(schema.SeriesHeader)

	var samples []schema.Sample
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
		if row == 1 && slices.Equal(rec, schema.SeriesHeader) {
			continue
		}
		sm, err := s.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", row, err)
		}
		samples = append(samples, sm)
	}
}

func (s *CSVStore) parseRow(rec []string) (schema.Sample, error) {
	dow, err := strconv.Atoi(rec[0])
	if err != nil || dow < 0 || dow > 6 {
		return schema.Sample{}, fmt.Errorf("bad day_of_week %q", rec[0])
	}
	ts, err := time.ParseInLocation(schema.SeriesTimeLayout, rec[1], s.loc)
	if err != nil {
		return schema.Sample{}, fmt.Errorf("bad datetime %q: %w", rec[1], err)
	}
	minutes, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return schema.Sample{}, fmt.Errorf("bad duration_minutes %q: %w", rec[2], err)
	}
	return schema.Sample{DayOfWeek: dow, Timestamp: ts, DurationMinutes: minutes}, nil
}

var _ contract.SeriesStore = &CSVStore{}
