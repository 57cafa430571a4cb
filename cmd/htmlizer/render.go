package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"htmlizer/internal/dataload"
	"htmlizer/internal/driver"
	"htmlizer/internal/observ"
	"htmlizer/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file|directory>...",
	Short: "Render templates against a data file",
	Long: `Render every template against the data file (JSON, TOML or msgpack).
Output goes to stdout, or below --out keeping the relative layout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("data", "", "data file (.json, .toml, .mp; - for JSON on stdin)")
	renderCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	renderCmd.Flags().String("ui", "auto", "progress screen (auto|on|off)")
	renderCmd.Flags().String("out", "", "directory for rendered files")
}

func runRender(cmd *cobra.Command, args []string) error {
	dataPath, err := cmd.Flags().GetString("data")
	if err != nil {
		return fmt.Errorf("failed to get data flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	if dataPath == "" {
		dataPath = st.manifest.DataPath()
	}
	data, err := dataload.Load(dataPath)
	if err != nil {
		return err
	}
	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}

	opts := st.sessionOptions()
	opts.Data = data
	opts.OutDir = outDir
	if jobs > 0 {
		opts.Jobs = jobs
	}
	if st.timings {
		opts.Timer = observ.NewTimer()
	}

	var sess *driver.Session
	run := func(ctx context.Context, sink pipeline.ProgressSink) ([]*driver.FileResult, error) {
		o := opts
		o.Progress = sink
		s, err := driver.NewSession(o)
		if err != nil {
			return nil, err
		}
		sess = s
		return s.Render(ctx, paths)
	}

	var results []*driver.FileResult
	if shouldUseTUI(mode, outDir == "") && !st.quiet {
		names := pipeline.DisplayPaths(paths, st.baseDir)
		results, err = runWithUI(cmd.Context(), "render", names, run)
	} else {
		results, err = run(cmd.Context(), nil)
	}
	if err != nil {
		return err
	}

	if outDir == "" {
		writeOutputs(cmd.OutOrStdout(), results)
	}
	bag := collect(sess.ComponentDiagnostics(), results)
	if err := printDiagnostics(cmd.ErrOrStderr(), bag, sess.FileSet(), formatPretty, st.color); err != nil {
		return err
	}
	if st.timings {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if bag.HasErrors() {
		return errHasErrors
	}
	return nil
}

// writeOutputs prints every rendered file, one per line, in argument order.
func writeOutputs(w io.Writer, results []*driver.FileResult) {
	for _, res := range results {
		if res == nil || res.Template == nil {
			continue
		}
		fmt.Fprintln(w, res.Output)
	}
}
