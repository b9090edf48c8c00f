package sse

import (
	"strconv"
	"strings"
	"time"
)

// Format frames message as one SSE event. A single-line message becomes
// exactly "data: <message>\n\n". Line breaks (\n, \r\n, \r) split the
// message into one data line each, which clients rejoin with "\n".
func Format(message string) []byte {
	if !strings.ContainsAny(message, "\r\n") {
		b := make([]byte, 0, len(message)+8)
		b = append(b, "data: "...)
		b = append(b, message...)
		return append(b, '\n', '\n')
	}

	normalized := strings.ReplaceAll(message, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")

	var sb strings.Builder
	sb.Grow(len(normalized) + 7*len(lines) + 1)
	for _, line := range lines {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

// KeepAliveComment returns the comment frame sent on idle streams.
// Clients ignore comment lines.
func KeepAliveComment(t time.Time) []byte {
	return []byte(": keepalive " + strconv.FormatInt(t.Unix(), 10) + "\n\n")
}
