//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"fmt"
	"os"
	"regexp"
	"sync"
	"testing"
)

// requireLibspotify skips the test if libspotify is not available.
func requireLibspotify(t *testing.T) {
	t.Helper()
	if err := Init(); err != nil {
		t.Skipf("libspotify not available: %v", err)
	}
}

// requireAppKey skips the test unless SPGO_APPKEY names a key file.
func requireAppKey(t *testing.T) []byte {
	t.Helper()
	requireLibspotify(t)
	path := os.Getenv("SPGO_APPKEY")
	if path == "" {
		t.Skip("SPGO_APPKEY not set")
	}
	key, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("reading application key: %v", err)
	}
	return key
}

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLogger) add(level, format string, v ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, level+" "+fmt.Sprintf(format, v...))
}

func (c *captureLogger) Debugf(format string, v ...interface{}) { c.add("D", format, v...) }
func (c *captureLogger) Infof(format string, v ...interface{})  { c.add("I", format, v...) }
func (c *captureLogger) Warnf(format string, v ...interface{})  { c.add("W", format, v...) }
func (c *captureLogger) Errorf(format string, v ...interface{}) { c.add("E", format, v...) }

func (c *captureLogger) count(re *regexp.Regexp) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		if re.MatchString(l) {
			n++
		}
	}
	return n
}
