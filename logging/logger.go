package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalLogger is disabled until a command configures it. Each package creates its own sub-logger from it.
var GlobalLogger = NewLogger(zerolog.Disabled)

// Logger describes a logging object that can log events to any number of channels, with specialized formatting for
// unstructured (console-like) output.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// context holds the key-value pairs attached by NewSubLogger, in insertion order.
	context [][2]string

	// structuredWriters receive JSON events.
	structuredWriters []io.Writer

	// unstructuredWriters receive human readable events without ANSI coloring.
	unstructuredWriters []io.Writer

	// unstructuredColorWriters receive human readable events with coloring.
	unstructuredColorWriters []io.Writer

	logger zerolog.Logger
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. Writers are attached with AddWriter.
func NewLogger(level zerolog.Level) *Logger {
	l := &Logger{level: level}
	l.rebuild()
	return l
}

// ParseLevel wraps zerolog.ParseLevel with a stack carrying error.
func ParseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. Each service has its own
// sub-logger so that logs are "grep-able" by service.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:                    l.level,
		context:                  append(append([][2]string{}, l.context...), [2]string{key, value}),
		structuredWriters:        l.structuredWriters,
		unstructuredWriters:      l.unstructuredWriters,
		unstructuredColorWriters: l.unstructuredColorWriters,
	}
	sub.rebuild()
	return sub
}

// AddWriter will add a writer to the list of channels where log output will be sent. Adding a writer twice is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	list := l.writerList(format, colored)
	for _, w := range *list {
		if w == writer {
			return
		}
	}
	*list = append(*list, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	list := l.writerList(format, colored)
	for i, w := range *list {
		if w == writer {
			*list = append((*list)[:i], (*list)[i+1:]...)
			break
		}
	}
	l.rebuild()
}

func (l *Logger) writerList(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog logger after the writer set or the level changed.
func (l *Logger) rebuild() {
	writers := make([]io.Writer, 0)
	writers = append(writers, l.structuredWriters...)
	for _, w := range l.unstructuredWriters {
		writers = append(writers, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level, false))
	}
	for _, w := range l.unstructuredColorWriters {
		writers = append(writers, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w}, l.level, true))
	}

	if len(writers) == 0 {
		l.logger = zerolog.New(io.Discard).Level(zerolog.Disabled)
		return
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(l.level).With().Timestamp()
	for _, kv := range l.context {
		ctx = ctx.Str(kv[0], kv[1])
	}
	l.logger = ctx.Logger()
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.emit(l.logger.Trace(), args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.emit(l.logger.Debug(), args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.emit(l.logger.Info(), args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.emit(l.logger.Warn(), args...)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.emit(l.logger.Error(), args...)
}

func (l *Logger) emit(event *zerolog.Event, args ...any) {
	// Disabled levels return a nil event
	if event == nil {
		return
	}
	msg, err, info := buildMsg(args...)
	if err != nil {
		event = event.Err(err)
		if l.level <= zerolog.DebugLevel {
			event = event.Stack()
		}
	}
	if info != nil {
		event = event.Any("info", info)
	}
	event.Msg(msg)
}

// buildMsg takes a variadic list of arguments of any type and returns the message together with, optionally, an error
// and a StructuredLogInfo object to attach to the event.
func buildMsg(args ...any) (string, error, StructuredLogInfo) {
	var info StructuredLogInfo
	var err error
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch t := arg.(type) {
		case StructuredLogInfo:
			// Only one structured log info can be provided for each log message
			info = t
		case error:
			// Only one error can be provided for each log message
			err = t
		default:
			parts = append(parts, fmt.Sprintf("%v", t))
		}
	}
	return strings.Join(parts, ""), err, info
}

// setupDefaultFormatting drops timestamps from human readable output and replaces level names with short glyphs.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level, colored bool) zerolog.ConsoleWriter {
	profile := termenv.Ascii
	if colored {
		profile = termenv.ANSI
	}
	paint := func(s string, c termenv.ANSIColor) string {
		return profile.String(s).Foreground(profile.Convert(c)).Bold().String()
	}

	writer.FormatTimestamp = func(i any) string {
		return ""
	}
	writer.FormatLevel = func(i any) string {
		s, _ := i.(string)
		lvl, err := zerolog.ParseLevel(s)
		if err != nil {
			return s
		}
		switch lvl {
		case zerolog.TraceLevel:
			return paint(zerolog.LevelTraceValue, termenv.ANSICyan)
		case zerolog.DebugLevel:
			return paint(zerolog.LevelDebugValue, termenv.ANSIBlue)
		case zerolog.InfoLevel:
			return paint(LEFT_ARROW, termenv.ANSIGreen)
		case zerolog.WarnLevel:
			return paint(zerolog.LevelWarnValue, termenv.ANSIYellow)
		default:
			return paint(s, termenv.ANSIRed)
		}
	}

	// Above debug level the service tag is noise on a terminal
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{SERVICE_KEY}
	}
	return writer
}

// NewFileWriter creates "log-<unix timestamp>.log" in directory, creating the directory if needed.
func NewFileWriter(directory string) (*os.File, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, errors.WithStack(err)
	}
	filename := "log-" + strconv.FormatInt(time.Now().Unix(), 10) + ".log"
	f, err := os.Create(filepath.Join(directory, filename))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}
