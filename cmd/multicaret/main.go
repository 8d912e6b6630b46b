// Package main is the entry point for the multicaret demo editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/caret"
	"github.com/dshills/multicaret/internal/config"
	"github.com/dshills/multicaret/internal/fold"
	"github.com/dshills/multicaret/internal/layout"
	"github.com/dshills/multicaret/internal/script"
	"github.com/dshills/multicaret/internal/view"
)

// Version information (set via ldflags during build).
var version = "dev"

const demoText = "multicaret demo\n" +
	"\tarrows move, shift extends the selection, ctrl steps cells\n" +
	"\tctrl-d adds a caret below, esc removes secondary carets\n" +
	"\tctrl-q quits\n" +
	"wide runes: 日本語 ok\n"

// quitRequest is posted into the event loop by the signal handler.
type quitRequest struct{}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	text := demoText
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		text = string(data)
	}

	buf := buffer.FromString(text)
	folds := fold.NewRegistry()
	buf.OnEdit(folds.Transform)
	mapper := layout.NewMapper(buf, folds,
		layout.WithTabWidth(cfg.Editor.TabWidth),
		layout.WithWrapWidth(cfg.Editor.WrapColumn),
	)

	// Script mode runs headless: execute against the buffer and print
	// the resulting caret set.
	if opts.scriptPath != "" {
		return runScript(opts.scriptPath, cfg, buf, folds, mapper)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	_, height := screen.Size()
	vp := view.NewViewport(height, cfg.Editor.ScrollOff)
	attrs, _ := cfg.TextAttributes()

	var model caret.Model
	if cfg.Editor.MultiCaret {
		model = caret.NewModel(buf, folds, mapper,
			caret.WithScroller(vp), caret.WithTextAttributes(attrs))
	} else {
		model = caret.NewSingleModel(buf, folds, mapper,
			caret.WithScroller(vp), caret.WithTextAttributes(attrs))
	}

	caretColor, _ := colorful.Hex(cfg.Colors.Caret)
	renderer := view.NewRenderer(screen, model, mapper, vp, caretColor)

	// Config changes and signals are posted into the event loop so all
	// model mutations stay on this goroutine.
	if opts.configPath != "" {
		watcher, err := config.Watch(opts.configPath,
			func(c config.Config) { _ = screen.PostEvent(tcell.NewEventInterrupt(c)) },
			nil)
		if err == nil {
			defer watcher.Close()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		_ = screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
	}()

	for {
		renderer.Render()
		switch ev := screen.PollEvent().(type) {
		case nil:
			return 0
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case quitRequest:
				return 0
			case config.Config:
				applyConfig(data, mapper, vp, model)
			}
		case *tcell.EventKey:
			if !handleKey(ev, model, mapper) {
				return 0
			}
		}
	}
}

// runScript executes a Lua caret script headless and prints the
// resulting caret set, one caret per line.
func runScript(path string, cfg config.Config, buf *buffer.Buffer, folds *fold.Registry, mapper *layout.Mapper) int {
	var model caret.Model
	if cfg.Editor.MultiCaret {
		model = caret.NewModel(buf, folds, mapper)
	} else {
		model = caret.NewSingleModel(buf, folds, mapper)
	}

	engine := script.New(model)
	defer engine.Close()
	if err := engine.RunFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, c := range model.AllCarets() {
		pos := c.LogicalPosition()
		if c.HasSelection() {
			sel := c.Selection()
			fmt.Printf("%d:%d offset %d selection [%d,%d)\n",
				pos.Line, pos.Column, c.Offset(), sel.Start(), sel.End())
			continue
		}
		fmt.Printf("%d:%d offset %d\n", pos.Line, pos.Column, c.Offset())
	}
	return 0
}

func applyConfig(cfg config.Config, mapper *layout.Mapper, vp *view.Viewport, model caret.Model) {
	mapper.SetTabWidth(cfg.Editor.TabWidth)
	mapper.SetWrapWidth(cfg.Editor.WrapColumn)
	// Widths changed under the carets: refresh their derived positions.
	model.Reconcile()
	vp.ScrollTo(model.VisualPosition())
}

// handleKey dispatches one key event. Returns false to quit.
func handleKey(ev *tcell.EventKey, model caret.Model, mapper *layout.Mapper) bool {
	shift := ev.Modifiers()&tcell.ModShift != 0
	block := ev.Modifiers()&tcell.ModAlt != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return false
	case tcell.KeyEscape:
		model.RemoveSecondaryCarets()
	case tcell.KeyLeft:
		// Ctrl steps one visual cell, crossing line ends and skipping
		// collapsed folds; the plain arrow clamps at the line edge.
		if ctrl {
			model.MoveToOffset(mapper.PrevOffset(model.Offset()))
			break
		}
		model.MoveCaretRelatively(-1, 0, shift, block, true)
	case tcell.KeyRight:
		if ctrl {
			model.MoveToOffset(mapper.NextOffset(model.Offset()))
			break
		}
		model.MoveCaretRelatively(1, 0, shift, block, true)
	case tcell.KeyUp:
		model.MoveCaretRelatively(0, -1, shift, block, true)
	case tcell.KeyDown:
		model.MoveCaretRelatively(0, 1, shift, block, true)
	case tcell.KeyHome:
		model.MoveToOffset(model.VisualLineStart())
	case tcell.KeyEnd:
		model.MoveToOffsetBeforeWrap(model.VisualLineEnd(), true)
	case tcell.KeyCtrlD:
		pos := model.PrimaryCaret().VisualPosition()
		model.AddCaret(caret.VisualPosition{Line: pos.Line + 1, Column: pos.Column})
	}
	return true
}

type options struct {
	configPath string
	scriptPath string
	file       string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua script to run on startup")
	flag.StringVar(&opts.scriptPath, "s", "", "Lua script to run on startup (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "multicaret - multi-caret editing demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: multicaret [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("multicaret %s\n", version)
		os.Exit(0)
	}

	opts.file = flag.Arg(0)
	return opts
}
