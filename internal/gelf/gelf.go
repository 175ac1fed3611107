package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Syslog severity levels used in GELF payloads.
const (
	levelError = 3
	levelWarn  = 4
	levelInfo  = 6
)

// Writer ships log lines to a GELF endpoint over UDP. It implements
// io.Writer so it can sit behind log.SetOutput via io.MultiWriter.
type Writer struct {
	conn    net.Conn
	host    string
	service string
}

// New dials addr (e.g. "172.17.0.1:12201") and returns a writer tagging
// every message with the given service name.
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	if host == "" {
		host = service
	}
	return &Writer{conn: conn, host: host, service: service}, nil
}

// Write sends one GELF message per call. Delivery is fire-and-forget:
// a log call never fails because the collector is down.
func (w *Writer) Write(p []byte) (int, error) {
	short := stripLogPrefix(strings.TrimRight(string(p), "\n"))

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.host,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         severity(short),
		"_service":      w.service,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}

// stripLogPrefix removes the stdlib log date/time prefix
// ("2006/01/02 15:04:05 ", exactly 20 characters when present).
func stripLogPrefix(s string) string {
	if len(s) > 20 && s[4] == '/' && s[7] == '/' && s[10] == ' ' && s[13] == ':' {
		return s[20:]
	}
	return s
}

func severity(s string) int {
	switch {
	case strings.Contains(s, "PANIC:") || strings.Contains(s, "Fatal"):
		return levelError
	case strings.HasPrefix(s, "Warning:"):
		return levelWarn
	default:
		return levelInfo
	}
}
