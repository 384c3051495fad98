package market

import (
	"bytes"
	"errors"
	"strconv"
)

var (
	ErrMarkerNotFound     = errors.New("marker not found")
	ErrTerminatorNotFound = errors.New("terminator not found")
	ErrFieldTooLong       = errors.New("field exceeds capacity")
)

// Extract returns the bytes between the first occurrence of marker in payload
// and the next stop byte. The scan never goes past len(payload). A span longer
// than maxLen is rejected rather than truncated.
func Extract(payload []byte, marker string, stop byte, maxLen int) (string, error) {
	start := bytes.Index(payload, []byte(marker))
	if start < 0 {
		return "", ErrMarkerNotFound
	}
	rest := payload[start+len(marker):]
	end := bytes.IndexByte(rest, stop)
	if end < 0 {
		return "", ErrTerminatorNotFound
	}
	if end > maxLen {
		return "", ErrFieldTooLong
	}
	return string(rest[:end]), nil
}

// ParseFloat converts the longest numeric prefix of s, atof style.
// Unparsable text yields 0.
func ParseFloat(s string) float64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	s = s[i:]
	n := numericPrefix(s)
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0
	}
	return v
}

// numericPrefix reports the length of the leading [+-]digits[.digits][e[+-]digits] run.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
