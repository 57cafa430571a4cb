package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"htmlizer/internal/blocks"
	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/observ"
	"htmlizer/internal/pipeline"
	"htmlizer/internal/project"
	"htmlizer/internal/source"
	"htmlizer/internal/template"
	"htmlizer/internal/trace"
)

// Options configures a Session.
type Options struct {
	NoConflict     bool
	MaxDiagnostics int
	// Jobs bounds parallel file processing; 0 means GOMAXPROCS.
	Jobs int
	// Data is the render data; every file gets its own deep copy.
	Data map[string]any
	// Components are template-backed component classes.
	Components []project.Component
	// OutDir receives rendered files; empty keeps output in memory only.
	OutDir   string
	BaseDir  string
	Progress pipeline.ProgressSink
	Timer    *observ.Timer
	// Cache replays check results of unchanged files; nil disables it.
	Cache *DiskCache
}

// FileResult is the outcome of processing one template file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Template *template.Template
	Blocks   *blocks.Table
	// Output is the rendered markup; empty for check runs.
	Output string
	// OutPath is where Output was written, when Options.OutDir is set.
	OutPath string
	Cached  bool
	Elapsed time.Duration
	Timings pipeline.Timings
}

// Failed reports whether the file has error diagnostics.
func (r *FileResult) Failed() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Session processes template files against one FileSet and one set of
// template-backed components.
type Session struct {
	opts    Options
	fs      *source.FileSet
	comps   *component.Registry
	compBag *diag.Bag
}

// NewSession loads the configured component templates. Component template
// problems are collected in ComponentDiagnostics; a missing component file
// is an error.
func NewSession(opts Options) (*Session, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	s := &Session{
		opts:    opts,
		fs:      source.NewFileSetWithBase(opts.BaseDir),
		compBag: diag.NewBag(opts.MaxDiagnostics),
	}
	comps, err := loadComponents(s.fs, opts.Components, template.Options{
		NoConflict: opts.NoConflict,
		Reporter:   diag.BagReporter{Bag: s.compBag},
	})
	if err != nil {
		return nil, err
	}
	s.comps = comps
	return s, nil
}

func (s *Session) FileSet() *source.FileSet { return s.fs }

// Components returns the registry of template-backed components.
func (s *Session) Components() *component.Registry { return s.comps }

// ComponentDiagnostics holds the findings of component templates.
func (s *Session) ComponentDiagnostics() *diag.Bag { return s.compBag }

// mode selects how far a file is processed.
type mode uint8

const (
	modeCheck mode = iota
	modeRender
)

func (s *Session) display(path string) string {
	return pipeline.DisplayPath(path, s.fs.BaseDir())
}

// process runs one file through load, parse, prepare and optionally render.
// Problems end up in the result bag; the error is only for cancellation.
func (s *Session) process(ctx context.Context, path string, m mode) (*FileResult, error) {
	start := time.Now()
	name := s.display(path)
	tracer := trace.FromContext(ctx)
	span := trace.BeginFile(tracer, name, trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	res := &FileResult{Path: path, Bag: diag.NewBag(s.opts.MaxDiagnostics)}
	defer func() {
		res.Elapsed = time.Since(start)
		span.End(fmt.Sprintf("%d diagnostic(s)", res.Bag.Len()))
	}()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	stage := func(st pipeline.Stage, fn func() error) bool {
		pipeline.Emit(s.opts.Progress, pipeline.Event{File: name, Stage: st, Status: pipeline.StatusWorking})
		end := s.opts.Timer.Begin(string(st))
		phase := span.Child(tracer, trace.ScopePass, string(st))
		t0 := time.Now()
		err := fn()
		res.Timings.Add(st, time.Since(t0))
		phase.End("")
		end("")
		if err != nil {
			pipeline.Emit(s.opts.Progress, pipeline.Event{File: name, Stage: st, Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start)})
			return false
		}
		return true
	}

	var file *source.File
	if !stage(pipeline.StageLoad, func() error {
		id, err := s.fs.Load(path)
		if err != nil {
			res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
			return err
		}
		res.FileID = id
		file = s.fs.Get(id)
		return nil
	}) {
		return res, nil
	}

	key := s.cacheKey(file)
	if m == modeCheck && s.replay(res, key) {
		pipeline.Emit(s.opts.Progress, pipeline.Event{File: name, Status: pipeline.StatusCached, Elapsed: time.Since(start)})
		return res, nil
	}

	// foreach items repeat the same failing binding at the same span
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	opts := template.Options{
		NoConflict: s.opts.NoConflict,
		Components: s.comps,
		Reporter:   reporter,
		Tracer:     tracer,
		File:       file,
		Name:       name,
	}
	ok := s.compile(res, file, opts, stage)
	if m == modeCheck {
		s.store(res, key)
	}
	if !ok {
		return res, nil
	}

	if m == modeRender {
		if !stage(pipeline.StageRender, func() error {
			v := res.Template.NewView(cloneData(s.opts.Data), nil)
			// component failures are reported; the output is still usable
			out, _ := v.Render(ctx)
			res.Output = dom.String(out)
			return ctx.Err()
		}) {
			return res, ctx.Err()
		}
		if s.opts.OutDir != "" && !stage(pipeline.StageWrite, func() error {
			return s.write(res, name)
		}) {
			return res, nil
		}
	}

	status := pipeline.StatusDone
	if res.Failed() {
		status = pipeline.StatusError
	}
	pipeline.Emit(s.opts.Progress, pipeline.Event{File: name, Status: status, Elapsed: time.Since(start)})
	return res, nil
}

// compile parses and prepares file into res.Template.
func (s *Session) compile(res *FileResult, file *source.File, opts template.Options, stage func(pipeline.Stage, func() error) bool) bool {
	frag := dom.NewFragment()
	if !stage(pipeline.StageParse, func() error {
		parsed, err := dom.ParseFragment(string(file.Content))
		if err != nil {
			diag.ReportError(opts.Reporter, diag.DirMarkupParse, file.WholeFile(), err.Error()).Emit()
			return err
		}
		frag = parsed
		return nil
	}) {
		return false
	}
	return stage(pipeline.StagePrepare, func() error {
		tpl, err := template.FromFragment(frag, opts)
		if err != nil {
			return err
		}
		res.Template = tpl
		res.Blocks, _ = tpl.Blocks()
		return nil
	})
}

func (s *Session) write(res *FileResult, name string) error {
	out := filepath.Join(s.opts.OutDir, filepath.FromSlash(name))
	if filepath.IsAbs(name) {
		out = filepath.Join(s.opts.OutDir, filepath.Base(name))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to create output directory: "+err.Error()))
		return err
	}
	// #nosec G306 -- rendered markup is public output
	if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to write output: "+err.Error()))
		return err
	}
	res.OutPath = out
	return nil
}
