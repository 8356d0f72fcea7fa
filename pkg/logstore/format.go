package logstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Benefit-Zebra/ballistica/pkg/ds"
)

// LogLineToString converts a LogLine to the persisted string format
// Format: linenum timestampmilli destination:msg
func LogLineToString(logLine ds.LogLine) string {
	dest := logLine.Dest
	if dest == "" {
		dest = ds.DestPrimary
	}
	nlMarker := ""
	if !strings.HasSuffix(logLine.Msg, "\n") {
		nlMarker = "\n"
	}
	return fmt.Sprintf("%d %d %s:%s%s", logLine.LineNum, logLine.Ts, dest, logLine.Msg, nlMarker)
}

// StringToLogLine converts a persisted string back to a LogLine
// Format: linenum timestampmilli destination:msg
func StringToLogLine(line string) (ds.LogLine, error) {
	line = strings.TrimSuffix(line, "\n")
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return ds.LogLine{}, fmt.Errorf("invalid log line format: %s", line)
	}

	prefix := strings.Fields(parts[0])
	if len(prefix) != 3 {
		return ds.LogLine{}, fmt.Errorf("invalid log line prefix: %s", parts[0])
	}

	lineNum, err := strconv.ParseInt(prefix[0], 10, 64)
	if err != nil {
		return ds.LogLine{}, fmt.Errorf("invalid line number: %s", prefix[0])
	}

	ts, err := strconv.ParseInt(prefix[1], 10, 64)
	if err != nil {
		return ds.LogLine{}, fmt.Errorf("invalid timestamp: %s", prefix[1])
	}

	dest := ds.LogDestination(prefix[2])
	if dest != ds.DestPrimary && dest != ds.DestSecondary {
		return ds.LogLine{}, fmt.Errorf("invalid destination: %s", prefix[2])
	}

	return ds.LogLine{
		LineNum: lineNum,
		Ts:      ts,
		Msg:     parts[1],
		Dest:    dest,
	}, nil
}
