package appender

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/philipp01105/logtree/core"
)

// FileConfig holds configuration for file appender
type FileConfig struct {
	Options
	// Filename is the path to the log file
	Filename string
	// Truncate empties an existing file instead of appending to it
	Truncate bool
	// BufferSize enables a write buffer of this many bytes (0 = unbuffered)
	BufferSize int
	// MaxSize is the maximum size in bytes before rotation (0 = no size rotation)
	MaxSize int64
	// MaxAge is the maximum age before rotation (0 = no time rotation)
	MaxAge time.Duration
	// MaxBackups is the maximum number of old log files to retain (0 = keep all)
	MaxBackups int
	// RotateInterval is the interval for time-based rotation (0 = no interval rotation)
	RotateInterval time.Duration
}

// backupLayout is the timestamp suffix rotate appends to backup names
const backupLayout = "2006-01-02T15-04-05.000000000"

// File writes events to a file with rotation support
type File struct {
	Skeleton
	filename       string
	mu             sync.Mutex
	file           *os.File
	buf            *bufio.Writer
	bufferSize     int
	maxSize        int64
	maxAge         time.Duration
	maxBackups     int
	rotateInterval time.Duration
	currentSize    int64
	lastRotateTime time.Time
	rotations      int
}

// NewFile opens (or creates) the file and returns the appender
func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	dir := filepath.Dir(cfg.Filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if cfg.Truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(cfg.Filename, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	a := &File{
		filename:       cfg.Filename,
		file:           file,
		bufferSize:     cfg.BufferSize,
		maxSize:        cfg.MaxSize,
		maxAge:         cfg.MaxAge,
		maxBackups:     cfg.MaxBackups,
		rotateInterval: cfg.RotateInterval,
		currentSize:    info.Size(),
		lastRotateTime: time.Now(),
	}
	if a.bufferSize > 0 {
		a.buf = bufio.NewWriterSize(file, a.bufferSize)
	}
	a.Init(cfg.Options)
	return a, nil
}

// Filename returns the active file path
func (a *File) Filename() string { return a.filename }

// Rotations returns how many times the file has been rotated
func (a *File) Rotations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rotations
}

// DoAppend formats e and writes it to the file
func (a *File) DoAppend(e *core.Event) {
	if !a.Accepts(e) {
		return
	}
	if err := a.write(e); err != nil {
		a.Fail("write failed", err, e)
	}
}

func (a *File) write(e *core.Event) error {
	data, err := a.Formatter().Format(e)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return ErrClosed
	}
	if err := a.rotateIfNeeded(); err != nil {
		return err
	}

	var n int
	if a.buf != nil {
		n, err = a.buf.Write(data)
	} else {
		n, err = a.file.Write(data)
	}
	a.currentSize += int64(n)
	return err
}

// Flush writes buffered data to the file
func (a *File) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf == nil || a.file == nil {
		return nil
	}
	return a.buf.Flush()
}

// rotateIfNeeded checks and performs rotation if needed
func (a *File) rotateIfNeeded() error {
	needRotate := a.maxSize > 0 && a.currentSize >= a.maxSize
	if a.maxAge > 0 && time.Since(a.lastRotateTime) >= a.maxAge {
		needRotate = true
	}
	if a.rotateInterval > 0 && time.Since(a.lastRotateTime) >= a.rotateInterval {
		needRotate = true
	}
	if !needRotate {
		return nil
	}
	return a.rotate()
}

// rotate renames the current file with a timestamp suffix and opens a
// fresh one in its place
func (a *File) rotate() error {
	if a.buf != nil {
		if err := a.buf.Flush(); err != nil {
			return err
		}
	}
	if err := a.file.Sync(); err != nil {
		return err
	}
	if err := a.file.Close(); err != nil {
		return err
	}

	rotatedName := fmt.Sprintf("%s.%s", a.filename, time.Now().Format(backupLayout))
	if err := os.Rename(a.filename, rotatedName); err != nil {
		file, openErr := os.OpenFile(a.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr != nil {
			a.file = nil
			return fmt.Errorf("rotation failed: %w, reopen failed: %v", err, openErr)
		}
		a.resetFile(file)
		return fmt.Errorf("rotation failed: %w", err)
	}

	if a.maxBackups > 0 {
		a.cleanupOldBackups()
	}

	file, err := os.OpenFile(a.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		a.file = nil
		return fmt.Errorf("reopen log file: %w", err)
	}
	a.resetFile(file)
	a.currentSize = 0
	a.lastRotateTime = time.Now()
	a.rotations++
	return nil
}

func (a *File) resetFile(f *os.File) {
	a.file = f
	if a.buf != nil {
		a.buf.Reset(f)
	}
}

// Backups lists rotated files, oldest first
func (a *File) Backups() []string {
	return backups(a.filename)
}

func backups(filename string) []string {
	base := filepath.Base(filename)
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(filename), base+".*"))
	if err != nil {
		return nil
	}

	var out []string
	for _, match := range matches {
		if isBackup(base, filepath.Base(match)) {
			out = append(out, match)
		}
	}
	// the timestamp suffix sorts chronologically
	sort.Strings(out)
	return out
}

// isBackup reports whether name is a backup of base as rotate names them.
// Other files sharing the prefix are left alone.
func isBackup(base, name string) bool {
	suffix, ok := strings.CutPrefix(name, base+".")
	if !ok {
		return false
	}
	_, err := time.Parse(backupLayout, suffix)
	return err == nil
}

// cleanupOldBackups removes old backup files based on MaxBackups
func (a *File) cleanupOldBackups() {
	old := backups(a.filename)
	if len(old) <= a.maxBackups {
		return
	}
	for _, f := range old[:len(old)-a.maxBackups] {
		if err := os.Remove(f); err != nil {
			a.Fail("remove old backup", err, nil)
			return
		}
	}
}

// Close flushes and closes the file
func (a *File) Close() error {
	if !a.MarkClosed() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}

	var err error
	if a.buf != nil {
		err = a.buf.Flush()
	}
	if syncErr := a.file.Sync(); err == nil {
		err = syncErr
	}
	if closeErr := a.file.Close(); err == nil {
		err = closeErr
	}
	a.file = nil
	return err
}
