package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/dkoosis/lens/internal/config"
	"github.com/dkoosis/lens/internal/logging"
	"github.com/dkoosis/lens/internal/orchestrator"
	"github.com/dkoosis/lens/internal/progress"
	"github.com/dkoosis/lens/pkg/export"
	"github.com/dkoosis/lens/pkg/job"
	"github.com/dkoosis/lens/pkg/panel"
	"github.com/dkoosis/lens/pkg/render"
)

// app holds the process streams and flag values for one invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	flags config.CliFlags
	open  bool
	code  int
}

// dispatcher is the single place views are written.
type dispatcher struct {
	mu       sync.Mutex
	w        io.Writer
	renderer render.Renderer
}

func (d *dispatcher) Notify(v render.View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.w, d.renderer.Render(v))
}

func (a *app) runJob(ctx context.Context, cfg *config.ResolvedConfig, kind job.Kind, folder string) error {
	logger := logging.New(cfg.Debug, a.stderr)
	defer func() { _ = logger.Sync() }()
	logger.Debug("config resolved",
		zap.String("file", cfg.File),
		zap.String("interpreter", cfg.Interpreter),
		zap.String("interpreter_source", cfg.InterpreterSource),
		zap.String("format", cfg.Format),
		zap.String("format_source", cfg.FormatSource))

	format := resolveFormat(cfg.Format, a.stdout)
	theme := render.ThemeByName(cfg.Theme)
	if cfg.NoColor {
		theme = render.MonoTheme()
	}
	renderer, err := render.ForFormat(render.Format(format), theme, termWidth(a.stdout))
	if err != nil {
		return usageError{err}
	}
	out := &dispatcher{w: a.stdout, renderer: renderer}
	interactive := isTTY(a.stdin) && isTTY(a.stdout) && !cfg.CI

	orch := orchestrator.New(
		job.NewInvoker(cfg.Interpreter, cfg.TestsInterpreter, cfg.ResolvedScriptDir(), cfg.ScriptMap()),
		job.NewExecRunner(cfg.MaxBufferSize, logger),
		a.selector(folder, interactive),
		orchestrator.WithNotifier(out),
		orchestrator.WithProgress(progress.New(a.stderr, format == string(render.FormatTerminal) && !cfg.CI)),
		orchestrator.WithLogger(logger),
	)

	view := orch.Invoke(ctx, kind)
	out.Notify(view)
	if view.IsError() {
		a.code = 1
	}
	if view.Panel == nil {
		return nil
	}

	if err := a.showPanel(ctx, cfg, view.Panel, interactive && format == string(render.FormatTerminal), logger); err != nil {
		out.Notify(render.Error(kind, err.Error()))
		a.code = 1
	}
	return nil
}

func (a *app) selector(folder string, interactive bool) orchestrator.Selector {
	if folder != "" || !interactive {
		return orchestrator.StaticSelector(folder)
	}
	return orchestrator.SelectorFunc(func(ctx context.Context, _ job.Kind) (string, error) {
		return panel.PickFolder(ctx, "")
	})
}

// showPanel delivers a diagram panel to every surface the config asks for:
// an HTML file, an SVG export, the browser and the terminal viewer.
func (a *app) showPanel(ctx context.Context, cfg *config.ResolvedConfig, p *render.Panel, tui bool, logger *zap.Logger) error {
	opts := render.HTMLOptions{MermaidURL: cfg.MermaidURL}
	browser := a.open || cfg.Panel == config.PanelHTML

	htmlPath := cfg.HTMLOut
	if htmlPath == "" && (browser || cfg.ExportSVG != "") {
		f, err := os.CreateTemp("", "lens-architecture-*.html")
		if err != nil {
			return fmt.Errorf("create panel file: %w", err)
		}
		htmlPath = f.Name()
		_ = f.Close()
	}
	if htmlPath != "" {
		if err := export.WriteHTML(htmlPath, p, opts); err != nil {
			return err
		}
		logger.Debug("panel written", zap.String("path", htmlPath))
	}

	if cfg.ExportSVG != "" {
		err := export.WriteSVG(ctx, htmlPath, cfg.ExportSVG, export.BrowserOptions{Bin: cfg.BrowserBin})
		if err != nil {
			return fmt.Errorf("SVG export failed: %w", err)
		}
		logger.Debug("svg exported", zap.String("path", cfg.ExportSVG))
	}

	if browser {
		if err := export.Open(htmlPath); err != nil {
			return err
		}
	}

	if cfg.Panel != config.PanelTUI || !tui {
		return nil
	}
	final, err := panel.Run(ctx, p, a.opener(opts, htmlPath))
	if err != nil {
		return err
	}
	logger.Debug("panel closed", zap.Float64("zoom", final.Zoom.Scale()))
	return nil
}

// opener writes the panel at its current zoom and opens it in the browser.
func (a *app) opener(opts render.HTMLOptions, htmlPath string) panel.Opener {
	return func(p *render.Panel) error {
		path := htmlPath
		if path == "" {
			path = filepath.Join(os.TempDir(), "lens-"+p.ID+".html")
		}
		if err := export.WriteHTML(path, p, opts); err != nil {
			return err
		}
		return export.Open(path)
	}
}
