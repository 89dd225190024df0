// Package telemetry emits structured JSON log lines on stdout, one object per
// line with ts, level, msg, and caller-supplied fields.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Info logs at info level.
func Info(msg string, fields map[string]any) {
	emit("info", msg, fields)
}

// Error logs at error level.
func Error(msg string, fields map[string]any) {
	emit("error", msg, fields)
}

func emit(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg

	// os.Stdout is resolved per call so tests can redirect it.
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stdout, `{"ts":%q,"level":"error","msg":"log entry not serializable","err":%q}`+"\n",
			time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(os.Stdout, string(data))
}
