package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"htmlizer/internal/driver"
	"htmlizer/internal/project"
)

// settings merges the persistent flags with htmlizer.toml. Flags given on
// the command line win over the manifest.
type settings struct {
	manifest       *project.Manifest
	baseDir        string
	noConflict     bool
	maxDiagnostics int
	color          bool
	quiet          bool
	timings        bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()
	s := &settings{}
	var err error
	if s.noConflict, err = flags.GetBool("no-conflict"); err != nil {
		return nil, fmt.Errorf("failed to get no-conflict flag: %w", err)
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if s.color, err = readColor(colorFlag); err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	s.baseDir = cwd
	manifest, ok, err := project.Load(cwd)
	if err != nil {
		return nil, err
	}
	if ok {
		s.manifest = manifest
		s.baseDir = manifest.Root
		if !flags.Changed("no-conflict") {
			s.noConflict = manifest.Config.Render.NoConflict
		}
	}
	return s, nil
}

// sessionOptions is the driver configuration shared by every command.
func (s *settings) sessionOptions() driver.Options {
	return driver.Options{
		NoConflict:     s.noConflict,
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.manifest.Jobs(),
		Components:     s.manifest.Components(),
		BaseDir:        s.baseDir,
	}
}
