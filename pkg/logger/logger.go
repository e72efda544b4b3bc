package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MainComponent is the component name of the process-level logger.
const MainComponent = "MainApp"

// Options controls where component loggers write.
type Options struct {
	Dir     string // one file per component lands here
	Level   string // debug, info, warn, error
	Console bool   // mirror to stderr with colored levels
}

var (
	// Log is the MainApp logger. Usable before Init (writes nowhere).
	Log = zap.NewNop()

	mu      sync.Mutex
	opts    = Options{Dir: "logs", Level: "info", Console: true}
	loggers = map[string]*zap.Logger{}
	files   []*os.File
)

// ANSI colors per level, console only.
var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  "\x1b[36m",
	zapcore.InfoLevel:   "\x1b[32m",
	zapcore.WarnLevel:   "\x1b[33m",
	zapcore.ErrorLevel:  "\x1b[31m",
	zapcore.DPanicLevel: "\x1b[1;31m",
	zapcore.PanicLevel:  "\x1b[1;31m",
	zapcore.FatalLevel:  "\x1b[1;31m",
}

const colorReset = "\x1b[0m"

// Init configures the facility and builds the MainApp logger.
// Loggers handed out before Init keep their old sinks.
func Init(o Options) error {
	mu.Lock()
	if o.Dir == "" {
		o.Dir = "logs"
	}
	if o.Level == "" {
		o.Level = "info"
	}
	opts = o
	delete(loggers, MainComponent)
	mu.Unlock()

	l, err := build(MainComponent)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Named returns the logger of one component, creating its dated file on first use.
// If the file cannot be opened the component falls back to console only.
func Named(name string) *zap.Logger {
	l, err := build(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %s: %v\n", name, err)
		return consoleOnly(name)
	}
	return l
}

// Sync flushes every component logger and closes their files.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
	for _, f := range files {
		_ = f.Close()
	}
	loggers = map[string]*zap.Logger{}
	files = nil
}

// FileName is the log file of a component for the given day.
func FileName(dir, name string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", name, day.Format("20060102")))
}

func build(name string) (*zap.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[name]; ok {
		return l, nil
	}

	level := parseLevel(opts.Level)
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(FileName(opts.Dir, name, time.Now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	files = append(files, f)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(paddedLevel)), zapcore.AddSync(f), level),
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(colorLevel)), zapcore.Lock(os.Stderr), level))
	}

	l := zap.New(zapcore.NewTee(cores...)).Named(name)
	loggers[name] = l
	return l, nil
}

func consoleOnly(name string) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(colorLevel)), zapcore.Lock(os.Stderr), parseLevel(opts.Level))
	return zap.New(core).Named(name)
}

// encoderConfig renders "2006-01-02 15:04:05,000 | INFO     | Name | message".
func encoderConfig(lvl zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000"),
		EncodeLevel:      lvl,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " | ",
	}
}

func paddedLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fmt.Sprintf("%-8s", l.CapitalString()))
}

func colorLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(levelColors[l] + fmt.Sprintf("%-8s", l.CapitalString()) + colorReset)
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
