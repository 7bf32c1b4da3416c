// Package engine provides the Lisp tuning console for the play volume.
// It wraps zygomys in a sandboxed environment whose builtins read and
// mutate the live tuning configuration between simulation ticks.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/caldway/playvolume/pkg/config"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in console input.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result bundles the output of one console evaluation.
type Result struct {
	Output string
	Errors []EvalError
}

// Engine wraps the zygomys interpreter around a tuning config. Each
// call to Eval creates a fresh sandboxed environment; only the config
// edits persist across calls.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	cfg        *config.Config
}

// New creates an Engine operating on the given config.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Eval runs console source against the tuning config.
//
// Return semantics:
//   - On success: Result with the printed value of the last form.
//   - On parse/eval failure: Result carrying eval errors, nil error.
//   - On fatal failure (timeout, panic): nil Result and an error.
func (e *Engine) Eval(source string) (*Result, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, err := e.evaluate(source)
		ch <- evalOutcome{result: res, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, error) {
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil
	}

	// Sandbox mode prevents console input from reaching the
	// filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.cfg)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return &Result{Errors: parseZygomysError(err)}, nil
	}

	value, err := env.Run()
	if err != nil {
		return &Result{Errors: parseZygomysError(err)}, nil
	}

	out := ""
	if value != nil {
		out = value.SexpString(nil)
	}
	return &Result{Output: out}, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers where the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
