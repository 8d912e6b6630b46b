package script

import (
	"testing"

	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/caret"
	"github.com/dshills/multicaret/internal/fold"
	"github.com/dshills/multicaret/internal/layout"
)

func newEngine(t *testing.T, text string) (*Engine, *caret.MultiModel) {
	t.Helper()
	buf := buffer.FromString(text)
	folds := fold.NewRegistry()
	buf.OnEdit(folds.Transform)
	model := caret.NewModel(buf, folds, layout.NewMapper(buf, folds))
	e := New(model)
	t.Cleanup(e.Close)
	return e, model
}

func TestScriptMovesCaret(t *testing.T) {
	e, m := newEngine(t, "hello\nworld")

	if err := e.Run(`caret.move_to(3)`); err != nil {
		t.Fatal(err)
	}
	if m.Offset() != 3 {
		t.Errorf("expected offset 3, got %d", m.Offset())
	}

	if err := e.Run(`caret.move_to_position(1, 2)`); err != nil {
		t.Fatal(err)
	}
	if m.Offset() != 8 {
		t.Errorf("expected offset 8, got %d", m.Offset())
	}
}

func TestScriptReadsPosition(t *testing.T) {
	e, m := newEngine(t, "hello\nworld")
	m.MoveToOffset(8)

	err := e.Run(`
		if caret.offset() ~= 8 then error("offset") end
		if caret.line() ~= 1 then error("line") end
		if caret.column() ~= 2 then error("column") end
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestScriptAddsAndCountsCarets(t *testing.T) {
	e, m := newEngine(t, "hello\nworld")

	err := e.Run(`
		if not caret.add(1, 0) then error("add failed") end
		if caret.add(1, 0) then error("duplicate add should fail") end
		if caret.count() ~= 2 then error("count") end
	`)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Run(`caret.remove_secondary()`); err != nil {
		t.Fatal(err)
	}
	if got := len(m.AllCarets()); got != 1 {
		t.Errorf("expected 1 caret, got %d", got)
	}
}

func TestScriptSelection(t *testing.T) {
	e, _ := newEngine(t, "hello world")

	err := e.Run(`
		caret.select(2, 7)
		local s, e = caret.selection()
		if s ~= 2 or e ~= 7 then error("selection bounds") end
		if not caret.has_selection() then error("has_selection") end
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestScriptForEach(t *testing.T) {
	e, m := newEngine(t, "aaa\nbbb\nccc")
	m.AddCaret(caret.VisualPosition{Line: 1, Column: 0})
	m.AddCaret(caret.VisualPosition{Line: 2, Column: 0})

	err := e.Run(`
		visited = 0
		caret.for_each(function()
			visited = visited + 1
			caret.move(1, 0, false)
		end)
	`)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.L.GetGlobal("visited").String(); got != "3" {
		t.Errorf("expected 3 visits, got %s", got)
	}
	for _, c := range m.AllCarets() {
		if c.LogicalPosition().Column != 1 {
			t.Errorf("expected every caret at column 1, got %s", c.LogicalPosition())
		}
	}
}

func TestScriptErrorsSurface(t *testing.T) {
	e, _ := newEngine(t, "hello")
	if err := e.Run(`caret.move_to("not a number")`); err == nil {
		t.Error("expected a type error from the script")
	}
}

func TestRunFileMissing(t *testing.T) {
	e, _ := newEngine(t, "hello")
	if err := e.RunFile("/does/not/exist.lua"); err == nil {
		t.Error("expected an error for a missing script file")
	}
}
