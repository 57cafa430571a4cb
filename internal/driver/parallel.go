package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"htmlizer/internal/pipeline"
	"htmlizer/internal/trace"
)

// TemplateExts are the extensions collected when a directory is given.
var TemplateExts = []string{".html", ".htm", ".tpl"}

// ExpandPaths replaces directories by the template files below them,
// sorted for a deterministic order. Files are kept as given.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isTemplateFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

func isTemplateFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range TemplateExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Check parses and prepares every file in parallel.
func (s *Session) Check(ctx context.Context, paths []string) ([]*FileResult, error) {
	return s.run(ctx, "check", paths, modeCheck)
}

// Render renders every file against Options.Data in parallel.
func (s *Session) Render(ctx context.Context, paths []string) ([]*FileResult, error) {
	return s.run(ctx, "render", paths, modeRender)
}

func (s *Session) run(ctx context.Context, name string, paths []string, m mode) ([]*FileResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, name, trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	results := make([]*FileResult, len(paths))
	if len(paths) == 0 {
		span.End("no files")
		return results, nil
	}
	display := make([]string, len(paths))
	for i, p := range paths {
		display[i] = s.display(p)
	}
	pipeline.EmitQueued(s.opts.Progress, display)

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			res, err := s.process(gctx, path, m)
			results[i] = res
			return err
		})
	}
	err := g.Wait()
	span.End(fmt.Sprintf("%d file(s)", len(paths)))
	return results, err
}
