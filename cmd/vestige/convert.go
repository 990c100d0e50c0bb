package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vestige/internal/snapshot"
)

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Convert an index snapshot between formats",
	Long: `Re-encode an index snapshot. The codecs follow the file names:
.json or .yaml/.yml, each optionally wrapped in .gz.

Examples:
  vestige convert index.json index.yaml
  vestige convert index.yaml index.json.gz`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}
	if err := snapshot.Save(snap, args[1]); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d units)\n", args[1], len(snap.Units))
	return nil
}
