// Package dump implements parsing of textual JVM thread-dump snapshots.
package dump

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tdump-analysis/pkg/model"
)

// lineKind tags the classification of a single dump line.
type lineKind int

const (
	lineUnrecognized lineKind = iota
	lineHeader
	lineState
	lineFrame
)

// classified is the tagged result of classifying one line. Exactly one of
// the payload fields is meaningful for a given kind.
type classified struct {
	kind  lineKind
	name  string            // lineHeader
	id    int64             // lineHeader, -1 when absent
	hint  model.ThreadState // lineHeader, provisional state from the trailer
	state model.ThreadState // lineState
	frame string            // lineFrame, without the "at " marker
}

// Thread header: a quoted name, an optional #NN id, and a free-form trailer.
// Example: "http-nio-8080-exec-3" #27 daemon prio=5 os_prio=0 ... runnable
var headerRegex = regexp.MustCompile(`^"([^"]*)"(?:\s+#(\d+))?(.*)$`)

// Explicit state line following a header.
// Example:    java.lang.Thread.State: TIMED_WAITING (parking)
var stateRegex = regexp.MustCompile(`^\s*java\.lang\.Thread\.State:\s+(\S+)`)

// Stack frame line.
// Example:    at com.example.Worker.process(Worker.java:42)
var frameRegex = regexp.MustCompile(`^\s*at\s+(\S.*)$`)

// headerStateHints maps trailer phrasings to provisional states, evaluated
// in order. An explicit state line always overrides the hint.
var headerStateHints = []struct {
	token string
	state model.ThreadState
}{
	{"waiting for monitor entry", model.StateBlocked},
	{"waiting on condition", model.StateWaiting},
	{"in Object.wait()", model.StateWaiting},
	{"sleeping", model.StateTimedWaiting},
	{"runnable", model.StateRunnable},
}

// classifyLine applies the line pattern rules in fixed precedence order:
// header, state, frame. Anything else is unrecognized, not an error.
func classifyLine(line string) classified {
	if strings.HasPrefix(line, `"`) {
		if m := headerRegex.FindStringSubmatch(line); m != nil {
			id := int64(-1)
			if m[2] != "" {
				if parsed, err := strconv.ParseInt(m[2], 10, 64); err == nil {
					id = parsed
				}
			}
			return classified{
				kind: lineHeader,
				name: m[1],
				id:   id,
				hint: hintFromTrailer(m[3]),
			}
		}
	}

	if m := stateRegex.FindStringSubmatch(line); m != nil {
		return classified{kind: lineState, state: model.ParseThreadState(m[1])}
	}

	if m := frameRegex.FindStringSubmatch(line); m != nil {
		return classified{kind: lineFrame, frame: strings.TrimSpace(m[1])}
	}

	return classified{kind: lineUnrecognized}
}

// hintFromTrailer derives a provisional thread state from the header trailer.
func hintFromTrailer(trailer string) model.ThreadState {
	for _, h := range headerStateHints {
		if strings.Contains(trailer, h.token) {
			return h.state
		}
	}
	return model.StateUnknown
}
