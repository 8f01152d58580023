package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// LineTimeLayout is the timestamp prefix of sink lines
const LineTimeLayout = "15:04:05"

// Sink is a zap core that turns log entries into short "[HH:MM:SS] message" lines
// for the activity log panel. Lines are buffered until a subscriber is attached.
type Sink struct {
	level zapcore.LevelEnabler

	mu      sync.Mutex
	handler func(line string)
	pending []string
	limit   int
}

// NewSink creates a sink that accepts entries at or above level
func NewSink(level zapcore.LevelEnabler) *Sink {
	return &Sink{level: level, limit: 200}
}

// Subscribe sets the line handler and flushes buffered lines into it.
// A nil handler detaches the current one.
func (s *Sink) Subscribe(handler func(line string)) {
	s.mu.Lock()
	s.handler = handler
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if handler == nil {
		return
	}
	for _, line := range pending {
		handler(line)
	}
}

// Core returns the zapcore.Core to tee into a logger
func (s *Sink) Core() zapcore.Core {
	return &sinkCore{sink: s}
}

func (s *Sink) emit(line string) {
	s.mu.Lock()
	handler := s.handler
	if handler == nil {
		s.pending = append(s.pending, line)
		if len(s.pending) > s.limit {
			s.pending = s.pending[len(s.pending)-s.limit:]
		}
	}
	s.mu.Unlock()

	if handler != nil {
		handler(line)
	}
}

// FormatLine renders an entry the way the activity log shows it
func FormatLine(ent zapcore.Entry) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(ent.Time.Format(LineTimeLayout))
	b.WriteString("] ")
	if ent.Level >= zapcore.ErrorLevel {
		b.WriteString("ERROR: ")
	} else if ent.Level == zapcore.WarnLevel {
		b.WriteString("WARNING: ")
	}
	b.WriteString(ent.Message)
	return b.String()
}

type sinkCore struct {
	sink   *Sink
	fields []zapcore.Field
}

func (c *sinkCore) Enabled(lvl zapcore.Level) bool {
	return c.sink.level.Enabled(lvl)
}

func (c *sinkCore) With(fields []zapcore.Field) zapcore.Core {
	return &sinkCore{sink: c.sink, fields: append(append([]zapcore.Field(nil), c.fields...), fields...)}
}

func (c *sinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write drops structured fields; the panel only shows messages
func (c *sinkCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	c.sink.emit(FormatLine(ent))
	return nil
}

func (c *sinkCore) Sync() error {
	return nil
}
