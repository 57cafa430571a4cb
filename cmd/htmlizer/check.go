package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"htmlizer/internal/driver"
	"htmlizer/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>...",
	Short: "Parse templates and report diagnostics",
	Long:  `Parse and prepare templates, print their diagnostics and exit non-zero when any of them has errors`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Bool("cache", false, "replay results of unchanged files from the disk cache")
	checkCmd.Flags().Bool("drop-cache", false, "clear the disk cache before checking")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatStr)
	if err != nil {
		return err
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	dropCache, err := cmd.Flags().GetBool("drop-cache")
	if err != nil {
		return fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
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

	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}

	opts := st.sessionOptions()
	if jobs > 0 {
		opts.Jobs = jobs
	}
	if st.timings {
		opts.Timer = observ.NewTimer()
	}
	if useCache || dropCache {
		cache, err := driver.OpenDiskCache("htmlizer")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if dropCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to drop cache: %w", err)
			}
		}
		if useCache {
			opts.Cache = cache
		}
	}

	sess, err := driver.NewSession(opts)
	if err != nil {
		return err
	}
	results, err := sess.Check(cmd.Context(), paths)
	if err != nil {
		return err
	}

	bag := collect(sess.ComponentDiagnostics(), results)
	if st.timings && format == formatJSON {
		driver.AppendTimings(bag, "check", opts.Timer.Report(), results)
	}
	if err := printDiagnostics(cmd.OutOrStdout(), bag, sess.FileSet(), format, st.color); err != nil {
		return err
	}
	if st.timings && format != formatJSON {
		printStageTimings(cmd.ErrOrStderr(), stageTotals(results))
	}
	if !st.quiet && format == formatPretty {
		cached := 0
		for _, res := range results {
			if res.Cached {
				cached++
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s), %d from cache, %d diagnostic(s)\n", len(results), cached, bag.Len())
	}
	if bag.HasErrors() {
		return errHasErrors
	}
	return nil
}
