//go:build !wasip1

package pluginsdk

import (
	"fmt"
	"io"
	"os"
)

// Output receives log lines when the plugin runs outside the host, e.g. in
// its own unit tests.
var Output io.Writer = os.Stderr

func send(level, msg string) {
	_, _ = fmt.Fprintf(Output, "%s %s: %s\n", level, Name(), msg)
}

// Debug logs msg at debug level.
func Debug(msg string) { send("DBG", msg) }

// Info logs msg at info level.
func Info(msg string) { send("INF", msg) }

// Error logs msg at error level.
func Error(msg string) { send("ERR", msg) }
