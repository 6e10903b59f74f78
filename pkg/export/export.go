// Package export writes diagram panels to disk as HTML documents and uses a
// headless browser to render them to SVG.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/dkoosis/lens/pkg/render"
)

// DefaultTimeout bounds page load plus mermaid rendering.
const DefaultTimeout = 30 * time.Second

// ErrNoDiagram is returned when the page never produced an SVG.
var ErrNoDiagram = errors.New("diagram did not render")

// WriteHTML renders the panel document and writes it to path.
func WriteHTML(path string, p *render.Panel, opts render.HTMLOptions) error {
	doc, err := render.HTML(p, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Open shows a written panel document in the system browser.
func Open(path string) error {
	u, err := fileURL(path)
	if err != nil {
		return err
	}
	launcher.Open(u)
	return nil
}

// BrowserOptions selects the browser used for SVG export.
type BrowserOptions struct {
	// ControlURL attaches to a running browser's DevTools endpoint.
	ControlURL string
	// Bin is the browser executable to launch. Empty lets rod find or
	// download one.
	Bin     string
	Timeout time.Duration
}

// SVG loads the panel document at htmlPath in a headless browser and
// returns the SVG mermaid rendered into it.
func SVG(ctx context.Context, htmlPath string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	target, err := fileURL(htmlPath)
	if err != nil {
		return "", err
	}

	controlURL := opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(true)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return "", fmt.Errorf("launch browser: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	page = page.Timeout(opts.Timeout)
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", target, err)
	}

	el, err := page.Element(".mermaid svg")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoDiagram, err)
	}
	svg, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("read svg: %w", err)
	}
	return svg, nil
}

// WriteSVG exports the document at htmlPath to svgPath.
func WriteSVG(ctx context.Context, htmlPath, svgPath string, opts BrowserOptions) error {
	svg, err := SVG(ctx, htmlPath, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", svgPath, err)
	}
	return nil
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if filepath.VolumeName(abs) != "" {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}
