package hooks

import (
	"runtime"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// contextHook adds the file:line of the logging callsite to every entry.
type contextHook struct {
	trimPrefix string
}

// NewContextHook trims file paths up to and including "dispatch/".
func NewContextHook() contextHook {
	return contextHook{trimPrefix: "dispatch/"}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "sirupsen/logrus") && !strings.Contains(frame.File, "context_hook.go") {
			file := frame.File
			if i := strings.LastIndex(file, hook.trimPrefix); i >= 0 {
				file = file[i+len(hook.trimPrefix):]
			}
			entry.Data["file:line"] = file + ":" + strconv.Itoa(frame.Line)
			return nil
		}
		if !more {
			return nil
		}
	}
}

