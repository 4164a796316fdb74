package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

// Snapshot is the state of the most recently loaded data source.
type Snapshot struct {
	// Path names the source. It is empty before anything is loaded.
	Path   string
	Series *chart.Series
	// Done is set once the whole source has been read.
	Done bool
	Err  error
}

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

type sourceState struct {
	snapshot Snapshot
	// changed is closed and replaced whenever snapshot changes.
	changed chan struct{}
	// session identifies the reader allowed to publish.
	session int
	cancel  context.CancelFunc
	watched string
	events  chan fsnotify.Event
}

// PublishInterval bounds how often a growing source publishes snapshots.
const PublishInterval = 100 * time.Millisecond

// Datasource loads x,y CSV data and keeps following the file as it grows.
type Datasource struct {
	logger  *log.Logger
	watcher *fsnotify.Watcher
	appCtx  context.Context
	state   RWBox[sourceState]
}

func NewDatasource(appCtx context.Context, logger *log.Logger) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	ds := &Datasource{
		logger:  logger,
		watcher: watcher,
		appCtx:  appCtx,
	}
	ds.state.Write(func(s *sourceState) {
		s.changed = make(chan struct{})
	})
	go ds.watchLoop()
	return ds, nil
}

// Close stops the current reader and the file watcher.
func (d *Datasource) Close() error {
	d.state.Write(func(s *sourceState) {
		if s.cancel != nil {
			s.cancel()
		}
	})
	return d.watcher.Close()
}

// Stream emits the current snapshot and then every change to it until ctx is
// done. Intermediate snapshots may be skipped by slow readers.
func (d *Datasource) Stream(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		for {
			var snap Snapshot
			var changed chan struct{}
			d.state.Read(func(s *sourceState) {
				snap, changed = s.snapshot, s.changed
			})
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Current returns the latest snapshot.
func (d *Datasource) Current() Snapshot {
	var snap Snapshot
	d.state.Read(func(s *sourceState) {
		snap = s.snapshot
	})
	return snap
}

// Load starts reading the CSV file at path, replacing any previous source.
// The file is watched and appended rows are picked up as they are written.
func (d *Datasource) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("failed opening %q: %w", path, err)
		d.startSession(path, nil, false)
		d.publishError(path, err)
		return err
	}
	d.startSession(path, f, true)
	return nil
}

// LoadReader starts reading CSV data from r, replacing any previous source.
// name is only used to label the snapshot.
func (d *Datasource) LoadReader(name string, r io.ReadCloser) {
	d.startSession(name, r, false)
}

// FileChooser asks the user to pick a file. *explorer.Explorer implements
// it.
type FileChooser interface {
	ChooseFile(extensions ...string) (io.ReadCloser, error)
}

// LoadFromFile asks the user for a CSV file. It blocks until the user
// chooses, so callers should run it on its own goroutine. Files with a path
// on disk are followed like Load; anything else is read once.
func (d *Datasource) LoadFromFile(chooser FileChooser) error {
	file, err := chooser.ChooseFile("csv")
	if err != nil {
		return fmt.Errorf("failed choosing file: %w", err)
	}
	if f, ok := file.(interface{ Name() string }); ok {
		if _, statErr := os.Stat(f.Name()); statErr == nil {
			file.Close()
			return d.Load(f.Name())
		}
	}
	d.LoadReader("chosen file", file)
	return nil
}

func (d *Datasource) startSession(path string, r io.ReadCloser, watch bool) {
	ctx, cancel := context.WithCancel(d.appCtx)
	events := make(chan fsnotify.Event, 1)
	var session int
	var oldWatch string
	d.state.Write(func(s *sourceState) {
		if s.cancel != nil {
			s.cancel()
		}
		oldWatch = s.watched
		s.session++
		session = s.session
		s.cancel = cancel
		s.events = events
		s.watched = ""
		if watch {
			s.watched = filepath.Clean(path)
		}
		s.snapshot = Snapshot{Path: path, Series: &chart.Series{}}
		close(s.changed)
		s.changed = make(chan struct{})
	})
	if oldWatch != "" {
		if err := d.watcher.Remove(oldWatch); err != nil {
			d.logger.Debug("failed removing watch", "path", oldWatch, "err", err)
		}
	}
	if r == nil {
		cancel()
		return
	}
	if watch {
		if err := d.watcher.Add(path); err != nil {
			d.logger.Warn("not watching file for changes", "path", path, "err", err)
			watch = false
		}
	}
	if !watch {
		events = nil
	}
	go d.readSource(ctx, session, path, r, events)
}

// publish replaces the snapshot if session is still current.
func (d *Datasource) publish(session int, snap Snapshot) {
	d.state.Write(func(s *sourceState) {
		if s.session != session {
			return
		}
		s.snapshot = snap
		close(s.changed)
		s.changed = make(chan struct{})
	})
}

func (d *Datasource) publishError(path string, err error) {
	d.state.Write(func(s *sourceState) {
		s.snapshot = Snapshot{Path: path, Done: true, Err: err}
		close(s.changed)
		s.changed = make(chan struct{})
	})
}

// watchLoop forwards file events to the session watching that file.
func (d *Datasource) watchLoop() {
	for {
		select {
		case <-d.appCtx.Done():
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			var events chan fsnotify.Event
			d.state.Read(func(s *sourceState) {
				if s.watched != "" && s.watched == filepath.Clean(ev.Name) {
					events = s.events
				}
			})
			if events == nil {
				continue
			}
			select {
			case events <- ev:
			default:
				// A pending event already wakes the reader.
			}
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Error("file watcher failed", "err", err)
		}
	}
}

// readSource parses r as x,y rows and publishes the growing series. When
// events is non-nil, reaching the end of the data waits for the file to be
// written again instead of finishing.
func (d *Datasource) readSource(ctx context.Context, session int, path string, r io.ReadCloser, events <-chan fsnotify.Event) {
	defer r.Close()
	lines := NewLineReader(r)
	csvReader := csv.NewReader(lines)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.ReuseRecord = true

	var points []chart.DataPoint
	limiter := rate.NewLimiter(rate.Every(PublishInterval), 1)
	pending := false
	flush := func(done bool, err error) {
		d.publish(session, Snapshot{
			Path:   path,
			Series: &chart.Series{Points: slices.Clone(points)},
			Done:   done,
			Err:    err,
		})
		pending = false
	}
	line := 0
readLoop:
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if events == nil {
					if p, ok := lastRecord(lines.Rest()); ok {
						points = append(points, p)
					}
					flush(true, nil)
					d.logger.Debug("finished reading source", "path", path, "points", len(points))
					return
				}
				if pending {
					flush(false, nil)
				}
				for {
					select {
					case <-ctx.Done():
						return
					case ev := <-events:
						if ev.Has(fsnotify.Write) {
							continue readLoop
						}
						if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
							d.logger.Info("source file went away", "path", path)
							flush(true, nil)
							return
						}
					}
				}
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				d.logger.Warn("skipping malformed row", "path", path, "err", err)
				continue
			}
			err = fmt.Errorf("failed reading %q: %w", path, err)
			d.logger.Error("could not read source", "err", err)
			flush(true, err)
			return
		}
		line++
		if ctx.Err() != nil {
			return
		}
		p, err := parseRecord(rec)
		if err != nil {
			if line > 1 {
				d.logger.Warn("skipping row", "path", path, "line", line, "err", err)
			}
			continue
		}
		points = append(points, p)
		pending = true
		if limiter.Allow() {
			flush(false, nil)
		}
	}
}

// parseRecord converts one x,y row. A numeric x becomes a number and anything
// else is kept as text.
func parseRecord(rec []string) (chart.DataPoint, error) {
	if len(rec) < 2 {
		return chart.DataPoint{}, fmt.Errorf("expected 2 fields, got %d", len(rec))
	}
	ys := strings.TrimSpace(rec[1])
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return chart.DataPoint{}, fmt.Errorf("failed parsing y value %q: %w", ys, err)
	}
	xs := strings.TrimSpace(rec[0])
	x := chart.Text(xs)
	if f, err := strconv.ParseFloat(xs, 64); err == nil {
		x = chart.Number(f)
	}
	return chart.DataPoint{X: x, Y: y}, nil
}

// lastRecord parses an unterminated final line.
func lastRecord(rest []byte) (chart.DataPoint, bool) {
	if len(bytes.TrimSpace(rest)) == 0 {
		return chart.DataPoint{}, false
	}
	rec, err := csv.NewReader(bytes.NewReader(rest)).Read()
	if err != nil {
		return chart.DataPoint{}, false
	}
	p, err := parseRecord(rec)
	return p, err == nil
}

// ParseCSV reads every x,y row of r. A first row that does not parse is
// treated as a header.
func ParseCSV(r io.Reader) (*chart.Series, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	series := &chart.Series{}
	for line := 1; ; line++ {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return series, nil
		} else if err != nil {
			return nil, fmt.Errorf("failed reading csv: %w", err)
		}
		p, err := parseRecord(rec)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		series.Points = append(series.Points, p)
	}
}

// lineReader is a specialized reader that ensures only entire newline-delimited lines are
// read at a time. This is useful when attempting to parse a file that is being actively
// written to as a CSV, as you don't actually attempt to parse any partial lines.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	data, err := l.r.ReadBytes(byte('\n'))
	if err != nil {
		l.partial = append(l.partial, data...)
		return 0, io.EOF
	}
	var n int
	if len(l.partial) > 0 {
		n = copy(b, l.partial)
		l.partial = l.partial[:copy(l.partial, l.partial[n:])]
		b = b[n:]
	}
	return n + copy(b, data), nil
}

// Rest returns the unterminated data buffered after the last EOF.
func (l *lineReader) Rest() []byte {
	return l.partial
}
