//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"strings"

	"github.com/go-playground/log"
	"github.com/obinnaokechukwu/spgo/reaper"
)

// Logger receives session diagnostics and libspotify's own log output.
type Logger interface {
	reaper.Logger
	Infof(format string, v ...interface{})
}

type playgroundLogger struct{}

func (playgroundLogger) Debugf(format string, v ...interface{}) { log.Debugf(format, v...) }
func (playgroundLogger) Infof(format string, v ...interface{})  { log.Infof(format, v...) }
func (playgroundLogger) Warnf(format string, v ...interface{})  { log.Warnf(format, v...) }
func (playgroundLogger) Errorf(format string, v ...interface{}) { log.Errorf(format, v...) }

// DefaultLogger writes to the go-playground/log handlers.
var DefaultLogger Logger = playgroundLogger{}

// LogLevel is the severity letter of a libspotify log line.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarning:
		return "warning"
	case LogError:
		return "error"
	default:
		return "unknown"
	}
}

var levelLetters = map[byte]LogLevel{
	'D': LogDebug,
	'I': LogInfo,
	'W': LogWarning,
	'E': LogError,
}

// LogMessage is one line from libspotify's log_message callback.
type LogMessage struct {
	Time   string // "HH:MM:SS.mmm", empty if the line had none
	Level  LogLevel
	Source string // e.g. "ap:1752"
	Text   string
}

func (m LogMessage) String() string {
	if m.Source == "" {
		return m.Text
	}
	return "[" + m.Source + "] " + m.Text
}

// ParseLogMessage splits a line such as
//
//	17:34:22.321 I [ap:1752] Connecting to AP ap.spotify.com:4070
//
// Lines that don't follow the format come back whole as LogInfo.
func ParseLogMessage(line string) LogMessage {
	line = strings.TrimRight(line, "\r\n")
	m := LogMessage{Level: LogInfo, Text: line}

	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 || !isLogTime(fields[0]) || len(fields[1]) != 1 {
		return m
	}
	level, ok := levelLetters[fields[1][0]]
	if !ok {
		return m
	}
	m.Time, m.Level = fields[0], level

	rest := fields[2]
	if strings.HasPrefix(rest, "[") {
		if end := strings.IndexByte(rest, ']'); end > 0 {
			m.Source = rest[1:end]
			rest = strings.TrimLeft(rest[end+1:], " ")
		}
	}
	m.Text = rest
	return m
}

func isLogTime(s string) bool {
	if len(s) != len("00:00:00.000") {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 2, 5:
			if s[i] != ':' {
				return false
			}
		case 8:
			if s[i] != '.' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// logMessage forwards m to l at the matching level.
func logMessage(l Logger, m LogMessage) {
	switch m.Level {
	case LogDebug:
		l.Debugf("libspotify: %s", m)
	case LogWarning:
		l.Warnf("libspotify: %s", m)
	case LogError:
		l.Errorf("libspotify: %s", m)
	default:
		l.Infof("libspotify: %s", m)
	}
}
