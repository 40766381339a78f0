package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/philipp01105/logtree/core"
)

// keyPrefix namespaces event keys. A key is prefix, 8 bytes of big-endian
// unix nanoseconds, 8 bytes of sequence.
var keyPrefix = []byte("ev/")

const keyLen = 3 + 8 + 8

// Options configures a Store
type Options struct {
	// Dir is the path to the pebble database directory
	Dir string
	// Sync forces a WAL fsync on every write
	Sync bool
	// PebbleOptions allows advanced tuning. If nil, defaults are used.
	PebbleOptions *pebble.Options
}

// Store is a pebble-backed event log
type Store struct {
	db        *pebble.DB
	writeSync bool
	seq       atomic.Uint64
	closeOnce sync.Once
	closeErr  error
}

// Open creates or opens the database in opts.Dir
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("store: Options.Dir is required")
	}
	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	db, err := pebble.Open(opts.Dir, po)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", opts.Dir, err)
	}

	s := &Store{db: db, writeSync: opts.Sync}
	last, err := s.lastSeq()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.seq.Store(last)
	return s, nil
}

// lastSeq finds the highest sequence stored so far
func (s *Store) lastSeq() (uint64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: prefixEnd(keyPrefix),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var max uint64
	// time order and sequence order can disagree for events logged with
	// skewed timestamps, so every key is checked
	for iter.First(); iter.Valid(); iter.Next() {
		if k := iter.Key(); len(k) == keyLen {
			if seq := binary.BigEndian.Uint64(k[11:]); seq > max {
				max = seq
			}
		}
	}
	return max, iter.Error()
}

func eventKey(t int64, seq uint64) []byte {
	k := make([]byte, keyLen)
	copy(k, keyPrefix)
	binary.BigEndian.PutUint64(k[3:], uint64(t)^(1<<63))
	binary.BigEndian.PutUint64(k[11:], seq)
	return k
}

// timeBound returns the first key at or after t
func timeBound(t time.Time) []byte {
	return eventKey(t.UnixNano(), 0)
}

func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	end[len(end)-1]++
	return end
}

func (s *Store) syncMode() *pebble.WriteOptions {
	if s.writeSync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// Put stores e and returns its sequence number
func (s *Store) Put(e *core.Event) (uint64, error) {
	seqs, err := s.PutBatch([]*core.Event{e})
	if err != nil {
		return 0, err
	}
	return seqs[0], nil
}

// PutBatch stores events atomically and returns their sequence numbers
func (s *Store) PutBatch(events []*core.Event) ([]uint64, error) {
	b := s.db.NewBatch()
	defer b.Close()

	seqs := make([]uint64, len(events))
	for i, e := range events {
		seq := s.seq.Add(1)
		r := NewRecord(seq, e)
		val, err := encodeRecord(&r)
		if err != nil {
			return nil, fmt.Errorf("encode event: %w", err)
		}
		if err := b.Set(eventKey(r.Time, seq), val, nil); err != nil {
			return nil, err
		}
		seqs[i] = seq
	}
	if err := b.Commit(s.syncMode()); err != nil {
		return nil, fmt.Errorf("commit events: %w", err)
	}
	return seqs, nil
}

// Query selects stored records. Zero values mean "no constraint".
type Query struct {
	From, To time.Time
	// MinLevel drops records below this level
	MinLevel core.Level
	// Logger keeps records of this logger and its descendants
	Logger string
	// Contains keeps records whose message contains the substring
	Contains string
	// Limit stops after this many matches
	Limit int
	// Reverse yields newest first
	Reverse bool
}

func (q Query) matches(r *Record) bool {
	if q.MinLevel != core.InheritLevel && r.Level < q.MinLevel {
		return false
	}
	if q.Logger != "" && r.Logger != q.Logger && !strings.HasPrefix(r.Logger, q.Logger+".") {
		return false
	}
	if q.Contains != "" && !strings.Contains(r.Message, q.Contains) {
		return false
	}
	return true
}

// Scan calls fn for each record matching q in time order. Returning an
// error from fn stops the scan and returns that error.
func (s *Store) Scan(ctx context.Context, q Query, fn func(Record) error) error {
	opts := &pebble.IterOptions{LowerBound: keyPrefix, UpperBound: prefixEnd(keyPrefix)}
	if !q.From.IsZero() {
		opts.LowerBound = timeBound(q.From)
	}
	if !q.To.IsZero() {
		opts.UpperBound = timeBound(q.To)
	}
	iter, err := s.db.NewIter(opts)
	if err != nil {
		return err
	}
	defer iter.Close()

	first, next := iter.First, iter.Next
	if q.Reverse {
		first, next = iter.Last, iter.Prev
	}

	n := 0
	for ok := first(); ok; ok = next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := decodeRecord(iter.Value())
		if err != nil {
			return fmt.Errorf("decode record %x: %w", iter.Key(), err)
		}
		if !q.matches(&r) {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
		n++
		if q.Limit > 0 && n >= q.Limit {
			break
		}
	}
	return iter.Error()
}

// Records collects the records matching q
func (s *Store) Records(ctx context.Context, q Query) ([]Record, error) {
	var out []Record
	err := s.Scan(ctx, q, func(r Record) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// Prune deletes every record older than before
func (s *Store) Prune(before time.Time) error {
	return s.db.DeleteRange(keyPrefix, timeBound(before), s.syncMode())
}

// LastSeq returns the most recently assigned sequence number
func (s *Store) LastSeq() uint64 {
	return s.seq.Load()
}

// Close closes the database. Calling it more than once is a no-op.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
