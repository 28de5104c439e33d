//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogMessage(t *testing.T) {
	tests := []struct {
		line string
		want LogMessage
	}{
		{
			line: "17:34:22.321 I [ap:1752] Connecting to AP ap.spotify.com:4070\n",
			want: LogMessage{Time: "17:34:22.321", Level: LogInfo, Source: "ap:1752", Text: "Connecting to AP ap.spotify.com:4070"},
		},
		{
			line: "01:02:03.004 E [offline-mgr:2082] Storage has been cleared",
			want: LogMessage{Time: "01:02:03.004", Level: LogError, Source: "offline-mgr:2082", Text: "Storage has been cleared"},
		},
		{
			line: "23:59:59.999 W no source here",
			want: LogMessage{Time: "23:59:59.999", Level: LogWarning, Text: "no source here"},
		},
		{
			line: "12:00:00.000 D [c:1]",
			want: LogMessage{Time: "12:00:00.000", Level: LogDebug, Source: "c:1", Text: ""},
		},
		{
			line: "12:00:00.000 X [c:1] unknown level",
			want: LogMessage{Level: LogInfo, Text: "12:00:00.000 X [c:1] unknown level"},
		},
		{
			line: "plain text",
			want: LogMessage{Level: LogInfo, Text: "plain text"},
		},
		{
			line: "",
			want: LogMessage{Level: LogInfo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogMessage(tt.line))
		})
	}
}

func TestLogMessageString(t *testing.T) {
	assert.Equal(t, "[ap:1] hello", LogMessage{Source: "ap:1", Text: "hello"}.String())
	assert.Equal(t, "hello", LogMessage{Text: "hello"}.String())
}

func TestLogMessageLevels(t *testing.T) {
	l := &captureLogger{}
	logMessage(l, ParseLogMessage("00:00:00.000 D [a:1] dbg"))
	logMessage(l, ParseLogMessage("00:00:00.000 I [a:1] inf"))
	logMessage(l, ParseLogMessage("00:00:00.000 W [a:1] wrn"))
	logMessage(l, ParseLogMessage("00:00:00.000 E [a:1] err"))
	logMessage(l, ParseLogMessage("garbage"))

	assert.Equal(t, 1, l.count(regexp.MustCompile(`^D libspotify: \[a:1\] dbg$`)))
	assert.Equal(t, 1, l.count(regexp.MustCompile(`^I libspotify: \[a:1\] inf$`)))
	assert.Equal(t, 1, l.count(regexp.MustCompile(`^W libspotify: \[a:1\] wrn$`)))
	assert.Equal(t, 1, l.count(regexp.MustCompile(`^E libspotify: \[a:1\] err$`)))
	assert.Equal(t, 1, l.count(regexp.MustCompile(`^I libspotify: garbage$`)))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "warning", LogWarning.String())
	assert.Equal(t, "unknown", LogLevel(9).String())
}
