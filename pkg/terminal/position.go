// ABOUTME: Platform-independent decoding of the DSR cursor position report.
// ABOUTME: The Position and SetSize entry points live in position_unix.go and position_windows.go.

package terminal

import (
	"bytes"
	"fmt"
	"strconv"
)

// parseCursorReport decodes a cursor position report of the form
// ESC[row;colR into 0-based coordinates. Bytes preceding the report,
// such as typed-ahead input that arrived before the query, are skipped.
func parseCursorReport(report []byte) (x, y int, err error) {
	start := bytes.LastIndex(report, []byte("\x1b["))
	if start < 0 {
		return 0, 0, fmt.Errorf("cursor report %q: missing CSI", report)
	}
	end := bytes.IndexByte(report[start:], 'R')
	if end < 0 {
		return 0, 0, fmt.Errorf("cursor report %q: missing terminator", report)
	}
	body := report[start+2 : start+end]
	sep := bytes.IndexByte(body, ';')
	if sep < 0 {
		return 0, 0, fmt.Errorf("cursor report %q: missing separator", report)
	}
	row, err := strconv.Atoi(string(body[:sep]))
	if err != nil {
		return 0, 0, fmt.Errorf("cursor report %q: bad row: %w", report, err)
	}
	col, err := strconv.Atoi(string(body[sep+1:]))
	if err != nil {
		return 0, 0, fmt.Errorf("cursor report %q: bad column: %w", report, err)
	}
	if row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("cursor report %q: coordinates out of range", report)
	}
	return col - 1, row - 1, nil
}
