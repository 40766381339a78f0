package store

import (
	"errors"
	"time"

	"github.com/ugorji/go/codec"

	"github.com/philipp01105/logtree/core"
)

var msgpackHandle codec.MsgpackHandle

// Record is the stored form of an event. Field values are kept as text.
type Record struct {
	Seq       uint64            `codec:"q"`
	Time      int64             `codec:"t"`
	Level     core.Level        `codec:"l"`
	Logger    string            `codec:"n"`
	Message   string            `codec:"m"`
	Error     string            `codec:"e,omitempty"`
	Goroutine uint64            `codec:"g,omitempty"`
	Fields    map[string]string `codec:"f,omitempty"`
	File      string            `codec:"cf,omitempty"`
	Line      int               `codec:"cl,omitempty"`
}

// NewRecord converts e into a Record
func NewRecord(seq uint64, e *core.Event) Record {
	r := Record{
		Seq:       seq,
		Time:      e.Time.UnixNano(),
		Level:     e.Level,
		Logger:    e.LoggerName,
		Message:   e.Message,
		Error:     e.CauseString(),
		Goroutine: e.Goroutine,
	}
	if len(e.Fields) > 0 {
		r.Fields = make(map[string]string, len(e.Fields))
		for _, f := range e.Fields {
			r.Fields[f.Key] = f.StringValue()
		}
	}
	if e.Caller.Defined {
		r.File = e.Caller.File
		r.Line = e.Caller.Line
	}
	return r
}

// Event rebuilds an event for formatting. Field order is not preserved
// and every field comes back as a string.
func (r Record) Event() *core.Event {
	e := &core.Event{
		Time:       time.Unix(0, r.Time).UTC(),
		Level:      r.Level,
		LoggerName: r.Logger,
		Message:    r.Message,
		Goroutine:  r.Goroutine,
	}
	if r.Error != "" {
		e.Cause = errors.New(r.Error)
	}
	for k, v := range r.Fields {
		e.Fields = append(e.Fields, core.Field{Key: k, Type: core.StringType, Str: v})
	}
	if r.File != "" {
		e.Caller = core.CallerInfo{File: r.File, ShortFile: shortFile(r.File), Line: r.Line, Defined: true}
	}
	return e
}

func shortFile(path string) string {
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func encodeRecord(r *Record) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, &msgpackHandle).Encode(r)
	return b, err
}

func decodeRecord(b []byte) (Record, error) {
	var r Record
	err := codec.NewDecoderBytes(b, &msgpackHandle).Decode(&r)
	return r, err
}
