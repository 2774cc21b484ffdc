package log

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString parses a level name. Unknown names fall back to INFO.
func LevelFromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Logger prefixes lines with the markers used across the CLI output:
// "[.]" debug, "[*]" info, "[!]" warning, "[-]" error.
type Logger struct {
	logger *log.Logger
	level  Level
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(out, "", log.LstdFlags),
		level:  level,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, LevelNone)
}

// Default writes to stderr at INFO.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l != nil && l.level <= LevelDebug {
		l.logger.Printf("[.] "+format, v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l != nil && l.level <= LevelInfo {
		l.logger.Printf("[*] "+format, v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil && l.level <= LevelWarn {
		l.logger.Printf("[!] "+format, v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l != nil && l.level <= LevelError {
		l.logger.Printf("[-] "+format, v...)
	}
}

func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) Level() Level {
	return l.level
}
