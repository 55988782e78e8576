// Package hook adapts the agent hook protocol to the decision engine.
//
// A hook invocation reads one JSON payload from stdin:
//
//	{"tool_name": "Bash", "tool_input": {"command": "..."}}
//	{"tool_name": "Edit", "tool_input": {"file_path": "..."}}
//
// and signals the decision through the process exit code: 0 allows the
// operation, 2 blocks it with the reason on stderr. Every failure mode
// (missing config, malformed payload, internal fault) resolves to allow:
// the filter must never block by default on its own errors.
package hook

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/richardoros/unified-defense/internal/audit"
	"github.com/richardoros/unified-defense/internal/engine"
	"github.com/richardoros/unified-defense/internal/model"
	"github.com/richardoros/unified-defense/internal/policy"
)

// Exit codes of the hook protocol.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// stderrTag prefixes every line the hook writes to its error channel.
const stderrTag = "[unified-defense]"

// Request is the hook payload.
type Request struct {
	ToolName  string         `json:"tool_name"`
	ToolInput map[string]any `json:"tool_input"`
}

// Command returns the shell command from the payload, if any.
func (r Request) Command() string {
	s, _ := r.ToolInput["command"].(string)
	return s
}

// editPathFields is the field-name fallback order for edit payloads.
// Different tool surfaces name the target path differently.
var editPathFields = []string{"file_path", "path", "target", "file"}

// FilePath returns the edit target path from the payload, trying each known
// field name in order. First present wins.
func (r Request) FilePath() string {
	for _, field := range editPathFields {
		if s, ok := r.ToolInput[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// RunBash evaluates a Bash hook invocation and returns the process exit code.
func RunBash(stdin io.Reader, stderr io.Writer, configPath string) int {
	return run(stdin, stderr, configPath, audit.KindBash, func(req Request, pol *policy.Policy) (model.Verdict, string) {
		cmd := req.Command()
		return engine.EvaluateCommand(cmd, pol), cmd
	})
}

// RunEdit evaluates an Edit hook invocation and returns the process exit code.
func RunEdit(stdin io.Reader, stderr io.Writer, configPath string) int {
	return run(stdin, stderr, configPath, audit.KindEdit, func(req Request, pol *policy.Policy) (model.Verdict, string) {
		path := req.FilePath()
		return engine.EvaluateEdit(path, pol), path
	})
}

func run(stdin io.Reader, stderr io.Writer, configPath string, kind audit.Kind,
	evaluate func(Request, *policy.Policy) (model.Verdict, string)) (code int) {

	// Any internal fault resolves to allow.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "%s Hook error: %v. Allowing by default.\n", stderrTag, r)
			code = ExitAllow
		}
	}()

	var req Request
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		fmt.Fprintf(stderr, "%s Warning: invalid JSON input, allowing by default.\n", stderrTag)
		return ExitAllow
	}

	pol, err := policy.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s Warning: %v. Allowing by default.\n", stderrTag, err)
		return ExitAllow
	}

	verdict, subject := evaluate(req, pol)

	if pol.LoggingEnabled() {
		logPath := pol.LogPath()
		if logPath == "" {
			logPath = policy.DefaultLogFile
		}
		audit.NewLogger(logPath).Record(kind, verdict, subject)
	}

	if !verdict.Allowed() {
		fmt.Fprintf(stderr, "%s %s\n", stderrTag, verdict.Reason)
		return ExitBlock
	}
	return ExitAllow
}
