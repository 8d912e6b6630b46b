// Package script embeds a Lua interpreter and exposes the caret model to
// scripts as a `caret` module, for macros and editor automation.
package script

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multicaret/internal/caret"
)

// Engine runs Lua scripts against a caret model. It must be created and
// used on the model's owner goroutine.
type Engine struct {
	L     *lua.LState
	model caret.Model
}

// New creates an engine bound to a model.
func New(model caret.Model) *Engine {
	e := &Engine{
		L:     lua.NewState(),
		model: model,
	}
	e.register()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// Run executes a script from source.
func (e *Engine) Run(src string) error {
	if err := e.L.DoString(src); err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

// RunFile executes a script file.
func (e *Engine) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	if err := e.L.DoString(string(data)); err != nil {
		return fmt.Errorf("running script %s: %w", path, err)
	}
	return nil
}

// register installs the caret module as a global table.
func (e *Engine) register() {
	mod := e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"offset":           e.luaOffset,
		"line":             e.luaLine,
		"column":           e.luaColumn,
		"count":            e.luaCount,
		"all":              e.luaAll,
		"move_to":          e.luaMoveTo,
		"move_to_position": e.luaMoveToPosition,
		"move":             e.luaMove,
		"add":              e.luaAdd,
		"remove_secondary": e.luaRemoveSecondary,
		"select":           e.luaSelect,
		"selection":        e.luaSelection,
		"has_selection":    e.luaHasSelection,
		"for_each":         e.luaForEach,
	})
	e.L.SetGlobal("caret", mod)
}

// current returns the caret that script operations read from: the one
// being processed inside for_each, the primary otherwise.
func (e *Engine) current() *caret.Caret {
	return e.model.CurrentCaret()
}

func (e *Engine) luaOffset(L *lua.LState) int {
	L.Push(lua.LNumber(e.current().Offset()))
	return 1
}

func (e *Engine) luaLine(L *lua.LState) int {
	L.Push(lua.LNumber(e.current().LogicalPosition().Line))
	return 1
}

func (e *Engine) luaColumn(L *lua.LState) int {
	L.Push(lua.LNumber(e.current().LogicalPosition().Column))
	return 1
}

func (e *Engine) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(len(e.model.AllCarets())))
	return 1
}

func (e *Engine) luaAll(L *lua.LState) int {
	t := L.NewTable()
	for i, c := range e.model.AllCarets() {
		t.RawSetInt(i+1, lua.LNumber(c.Offset()))
	}
	L.Push(t)
	return 1
}

func (e *Engine) luaMoveTo(L *lua.LState) int {
	e.model.MoveToOffset(L.CheckInt(1))
	return 0
}

func (e *Engine) luaMoveToPosition(L *lua.LState) int {
	e.model.MoveToLogicalPosition(caret.LogicalPosition{
		Line:   L.CheckInt(1),
		Column: L.CheckInt(2),
	})
	return 0
}

func (e *Engine) luaMove(L *lua.LState) int {
	cols := L.CheckInt(1)
	lines := L.CheckInt(2)
	withSel := L.OptBool(3, false)
	e.model.MoveCaretRelatively(cols, lines, withSel, false, false)
	return 0
}

func (e *Engine) luaAdd(L *lua.LState) int {
	c := e.model.AddCaret(caret.VisualPosition{
		Line:   L.CheckInt(1),
		Column: L.CheckInt(2),
	})
	L.Push(lua.LBool(c != nil))
	return 1
}

func (e *Engine) luaRemoveSecondary(L *lua.LState) int {
	e.model.RemoveSecondaryCarets()
	return 0
}

func (e *Engine) luaSelect(L *lua.LState) int {
	e.model.SetSelection(L.CheckInt(1), L.CheckInt(2))
	return 0
}

func (e *Engine) luaSelection(L *lua.LState) int {
	sel := e.current().Selection()
	L.Push(lua.LNumber(sel.Start()))
	L.Push(lua.LNumber(sel.End()))
	return 2
}

func (e *Engine) luaHasSelection(L *lua.LState) int {
	L.Push(lua.LBool(e.current().HasSelection()))
	return 1
}

func (e *Engine) luaForEach(L *lua.LState) int {
	fn := L.CheckFunction(1)
	var callErr error
	e.model.RunForEachCaret(func() {
		if callErr != nil {
			return
		}
		callErr = L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if callErr != nil {
		L.RaiseError("for_each: %v", callErr)
	}
	return 0
}
