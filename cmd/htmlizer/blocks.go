package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"htmlizer/internal/driver"
	"htmlizer/internal/source"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks <file>",
	Short: "Print the statement blocks of a template",
	Long:  `Print every paired comment statement as key, start and end position`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocks,
}

func runBlocks(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	fs := source.NewFileSetWithBase(st.baseDir)
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := driver.MatchBlocks(fs.Get(id), st.noConflict)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSTART\tEND")
	for _, r := range rows {
		start, _ := fs.Resolve(r.Start)
		end, _ := fs.Resolve(r.End)
		fmt.Fprintf(tw, "%s\t%d:%d\t%d:%d\n", r.Key, start.Line, start.Col, end.Line, end.Col)
	}
	return tw.Flush()
}
