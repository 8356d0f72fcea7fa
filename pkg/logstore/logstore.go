// Package logstore is the log sink behind the console redirects: it keeps a
// bounded in-memory ring of recent records and, when configured with a file
// path, persists records with a write-behind buffer flushed on a ticker.
package logstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexflint/go-filemutex"
	"github.com/sirupsen/logrus"

	"github.com/Benefit-Zebra/ballistica/pkg/ds"
	"github.com/Benefit-Zebra/ballistica/pkg/utilds"
	"github.com/Benefit-Zebra/ballistica/pkg/utilfn"
)

// FlushIntervalMs is the interval in milliseconds at which the write-behind
// buffer is flushed to disk
const FlushIntervalMs = 1000

const DefaultMaxMemoryLines = 10000

type Store struct {
	lines       *utilds.CirBuf[ds.LogLine]
	nextLineNum atomic.Int64

	file  *os.File // nil when persistence is disabled
	flock *filemutex.FileMutex

	bufferLock sync.Mutex
	buffer     []ds.LogLine
	stopChan   chan struct{}
	stopOnce   sync.Once
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

var _ ds.LogSink = (*Store)(nil)

// MakeStore creates a Store from cfg. LogFilePath "-" disables persistence;
// "" falls back to ds.LogFileEnvName and then to no persistence.
func MakeStore(cfg ds.Config) (*Store, error) {
	maxLines := cfg.MaxMemoryLines
	if maxLines <= 0 {
		maxLines = DefaultMaxMemoryLines
	}
	s := &Store{
		lines:    utilds.MakeCirBuf[ds.LogLine](maxLines),
		stopChan: make(chan struct{}),
	}

	path := cfg.LogFilePath
	if path == "" {
		path = os.Getenv(ds.LogFileEnvName)
	}
	if path != "" && path != "-" {
		path = utilfn.ExpandHomeDir(path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		flock, err := filemutex.New(path + ".lock")
		if err != nil {
			return nil, fmt.Errorf("failed to create log file lock: %w", err)
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		s.file = file
		s.flock = flock
	}

	s.wg.Add(1)
	go s.flushLoop()
	return s, nil
}

// EmitLog stores one finished record. Safe from any goroutine; the caller
// (the console redirect) guarantees per-channel ships never overlap.
func (s *Store) EmitLog(line string, dest ds.LogDestination) {
	logLine := ds.LogLine{
		LineNum: s.nextLineNum.Add(1),
		Ts:      time.Now().UnixMilli(),
		Msg:     line,
		Dest:    dest,
	}
	s.lines.Write(logLine)

	if s.file == nil {
		return
	}
	s.bufferLock.Lock()
	s.buffer = append(s.buffer, logLine)
	s.bufferLock.Unlock()
}

// GetRecent returns up to n of the most recent records, oldest first.
func (s *Store) GetRecent(n int) []ds.LogLine {
	all := s.lines.GetAll()
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// TotalLines returns the number of records emitted over the store's lifetime.
func (s *Store) TotalLines() int64 {
	return s.nextLineNum.Load()
}

// flushLoop periodically flushes the write-behind buffer to disk
func (s *Store) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Duration(FlushIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.stopChan:
			// final flush before exiting
			s.flush()
			return
		}
	}
}

// flush takes the current write-behind buffer and appends it to the file in
// one write, holding the cross-process file lock for the duration.
func (s *Store) flush() {
	if s.file == nil {
		return
	}
	s.bufferLock.Lock()
	pending := s.buffer
	s.buffer = nil
	s.bufferLock.Unlock()

	if len(pending) == 0 {
		return
	}

	var buf bytes.Buffer
	for _, logLine := range pending {
		buf.WriteString(LogLineToString(logLine))
	}

	if err := s.flock.Lock(); err != nil {
		logrus.Errorf("logstore: failed to lock log file: %v", err)
		return
	}
	defer s.flock.Unlock()
	if _, err := s.file.Write(buf.Bytes()); err != nil {
		// log and keep going; persistence is best-effort
		logrus.Errorf("logstore: error writing to log file: %v", err)
	}
}

// Flush forces a synchronous flush of the write-behind buffer.
func (s *Store) Flush() {
	s.flush()
}

// Dispose stops the flush loop, writes out buffered records, and closes the
// file. Safe to call more than once.
func (s *Store) Dispose() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()

	if s.file == nil {
		return nil
	}
	var err error
	s.closeOnce.Do(func() {
		err = s.file.Close()
	})
	return err
}
