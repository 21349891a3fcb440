// Package condition evaluates the optional constraint expressions attached to
// encounter table entries. Expressions are CEL over a single "entity" map.
package condition

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region engine

// Engine compiles and caches condition programs. Safe for concurrent use.
type Engine struct {
	env   *cel.Env
	cache map[string]cel.Program
	mu    sync.RWMutex
}

// NewEngine builds the CEL environment shared by every condition.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("entity", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	return &Engine{env: env, cache: make(map[string]cel.Program)}, nil
}

// Compile checks that expr is a valid boolean condition and caches its program.
func (e *Engine) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

func (e *Engine) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, hit := e.cache[expr]
	e.mu.RUnlock()
	if hit {
		return prg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, hit = e.cache[expr]; hit {
		return prg, nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsAssignableType(cel.BoolType) {
		return nil, fmt.Errorf("compile %q: result type %s is not bool", expr, ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	e.cache[expr] = prg
	return prg, nil
}

// Eval runs expr against vars. An empty expression always holds.
func (e *Engine) Eval(expr string, vars map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(map[string]any{"entity": vars})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("eval %q: result not boolean", expr)
	}
	return ok, nil
}

// #endregion engine

// #region vars

// Vars exposes a snapshot to condition expressions. Numbers are widened to
// int64 so expressions can compare against plain integer literals.
func Vars(s entity.Snapshot) map[string]any {
	return map[string]any{
		"species":      int64(s.Species()),
		"form":         int64(s.Form()),
		"format":       int64(s.Format()),
		"generation":   int64(s.Generation()),
		"version":      s.Version(),
		"pid":          int64(s.PID()),
		"level":        int64(s.CurrentLevel()),
		"met_level":    int64(s.MetLevel()),
		"met_location": int64(s.MetLocation()),
		"egg_location": int64(s.EggLocation()),
		"is_egg":       s.IsEgg(),
		"tid":          int64(s.TID()),
		"sid":          int64(s.SID()),
		"ot_name":      s.OTName(),
	}
}

// #endregion vars
