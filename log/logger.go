package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	mu     *sync.Mutex
	writer io.Writer
	exit   func(int)

	Name  string
	Level Level

	TimeFormat string
	NoColor    bool
	JSON       bool
}

// Options configures where and how a Logger writes.
type Options struct {
	Name  string
	Level Level

	// Terminal receives the terminal output, defaults to os.Stdout.
	Terminal io.Writer
	// File enables an additional rotating log file.
	File       string
	NoTerminal bool
	NoColor    bool
	JSON       bool

	Rotation *Rotation
}

type Rotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func New(opts Options) *Logger {
	var writers []io.Writer

	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stdout
	}

	if !opts.NoTerminal {
		writers = append(writers, terminal)
	}

	if opts.File != "" {
		rotation := opts.Rotation
		if rotation == nil {
			rotation = &Rotation{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
			}
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    rotation.MaxSize,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAge,
			Compress:   rotation.Compress,
		})
	}

	if len(writers) == 0 {
		writers = append(writers, terminal)
	}

	l := NewWithWriter(opts.Name, opts.Level, io.MultiWriter(writers...))
	l.JSON = opts.JSON
	l.NoColor = opts.NoColor || opts.NoTerminal

	return l
}

// NewWithWriter creates an uncoloured logger writing to w.
func NewWithWriter(name string, level Level, w io.Writer) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		writer: w,
		exit:   os.Exit,

		Name:  name,
		Level: level,

		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter("", Fatal+1, io.Discard)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || level < l.Level {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formattedMsg := fmt.Sprintf(msg, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.Name,
			Message:   formattedMsg,
		}

		jsonBytes, _ := json.Marshal(entry)
		fmt.Fprintf(l.writer, "%s\n", jsonBytes)
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if l.Name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
		}

		if !l.NoColor {
			fmt.Fprintf(l.writer, "%s%s %s%s\n", color(level), prefix, formattedMsg, colorReset)
		} else {
			fmt.Fprintf(l.writer, "%s %s\n", prefix, formattedMsg)
		}
	}

	if level == Fatal {
		l.exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

// Named returns a child logger sharing the same writer, e.g. "s3fs/router".
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}

	child := *l
	if l.Name != "" {
		child.Name = fmt.Sprintf("%s/%s", l.Name, name)
	} else {
		child.Name = name
	}

	return &child
}
