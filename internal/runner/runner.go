// Package runner executes external commands with a merged environment, an
// optional working directory, and either captured or streamed output.
//
// It is used for tools that have no Go equivalent, such as the Jekyll site
// build (`bundle exec jekyll`). A binary missing from PATH is reported as an
// apperr.MissingDependency so the command layer can suggest how to install it.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/meddata-hub/meddata-cli/internal/apperr"
)

// Options controls a single command execution.
type Options struct {
	// Dir is the working directory. Default: current directory.
	Dir string

	// Env is merged over the process environment.
	Env map[string]string

	// Check turns a non-zero exit code into an *ExitError.
	Check bool

	// Stdout and Stderr receive streamed output. When nil, output is only
	// captured into the Result.
	Stdout io.Writer
	Stderr io.Writer

	// OnLine is called for every complete output line, stdout and stderr.
	OnLine func(line string)

	// InstallHint is shown when the binary is not on PATH.
	InstallHint string
}

// Result is the outcome of a finished command.
type Result struct {
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError reports a command that exited non-zero while Check was set.
type ExitError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Runner runs commands.
type Runner struct {
	logger *slog.Logger
}

// New creates a Runner. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes args[0] with args[1:].
func (r *Runner) Run(ctx context.Context, args []string, opts Options) (*Result, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command given")
	}

	path, err := exec.LookPath(args[0])
	if err != nil {
		hint := opts.InstallHint
		if hint == "" {
			hint = "install " + args[0]
		}
		return nil, apperr.Wrap(apperr.MissingDependency, err, "%s is not installed", args[0]).
			With("dependency", args[0]).
			With("install", hint)
	}

	r.logger.Debug("running command", "cmd", strings.Join(args, " "), "dir", opts.Dir)

	cmd := exec.CommandContext(ctx, path, args[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = MergeEnv(os.Environ(), opts.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = sink(&stdout, opts.Stdout, opts.OnLine)
	cmd.Stderr = sink(&stderr, opts.Stderr, opts.OnLine)

	runErr := cmd.Run()
	flushLines(cmd.Stdout)
	flushLines(cmd.Stderr)

	result := &Result{
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("failed to execute %s: %w", args[0], runErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	if opts.Check && result.ExitCode != 0 {
		return result, &ExitError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}

	return result, nil
}

// Output runs a command without Check and returns stdout, stderr and the
// exit code. Start failures are reported as exit code 1 with the error text
// on stderr.
func (r *Runner) Output(ctx context.Context, args ...string) (string, string, int) {
	res, err := r.Run(ctx, args, Options{})
	if err != nil {
		return "", err.Error(), 1
	}
	return res.Stdout, res.Stderr, res.ExitCode
}

// MergeEnv overlays extra onto base (KEY=VALUE form). Keys in extra are
// appended in sorted order so the result is deterministic.
func MergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+extra[k])
	}

	return merged
}

// =============================================================================
// OUTPUT SINKS
// =============================================================================

// lineWriter splits written bytes into lines for a callback.
type lineWriter struct {
	buf    bytes.Buffer
	onLine func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line; keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.onLine(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if w.buf.Len() > 0 {
		w.onLine(w.buf.String())
		w.buf.Reset()
	}
}

// multiSink remembers its lineWriter so trailing output can be flushed.
type multiSink struct {
	io.Writer
	lines *lineWriter
}

func sink(capture *bytes.Buffer, stream io.Writer, onLine func(string)) io.Writer {
	writers := []io.Writer{capture}
	if stream != nil {
		writers = append(writers, stream)
	}

	var lw *lineWriter
	if onLine != nil {
		lw = &lineWriter{onLine: onLine}
		writers = append(writers, lw)
	}

	return &multiSink{Writer: io.MultiWriter(writers...), lines: lw}
}

func flushLines(w io.Writer) {
	if ms, ok := w.(*multiSink); ok && ms.lines != nil {
		ms.lines.flush()
	}
}
