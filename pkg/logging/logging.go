package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// Init sets up apex with a line handler and a log level from the
// SNAPMATCH_LOG env variable. Unset or unknown levels mean "warn".
func Init() {
	level, err := log.ParseLevel(strings.ToLower(os.Getenv("SNAPMATCH_LOG")))
	if err != nil {
		level = log.WarnLevel
	}
	log.SetHandler(&lineHandler{})
	log.SetLevel(level)
}

// lineHandler writes one line per entry to stderr: timestamp, one-letter
// level, message, then any fields in sorted order.
type lineHandler struct{}

// HandleLog implements the log.Handler interface.
func (h *lineHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	fmt.Fprintf(os.Stderr, "%s %.1s %s", timestamp, level, e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(os.Stderr, " %s=%v", name, e.Fields.Get(name))
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
