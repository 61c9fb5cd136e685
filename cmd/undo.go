package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"morph/internal/renamer"
	"morph/internal/undo"
)

var undoNoProgress bool

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the last applied rename batch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := journalPath()
		if err != nil {
			return err
		}
		l, err := undo.Load(appFs, path)
		if err != nil {
			return err
		}

		r := renamer.New(appFs, l)
		var undoErr error
		report := runWithProgress("morph undo", undoNoProgress || l.Len() == 0, func(updates chan<- renamer.ProgressUpdate) renamer.Report {
			report, err := r.Undo(updates)
			undoErr = err
			return report
		})
		if errors.Is(undoErr, renamer.ErrNothingToUndo) {
			fmt.Fprintln(os.Stdout, dimStyle.Render(undoErr.Error()))
			return nil
		}
		if undoErr != nil {
			return undoErr
		}

		if err := undo.Save(appFs, path, r.Log()); err != nil {
			return err
		}
		return finishReport(report, "Restored")
	},
}

func init() {
	undoCmd.Flags().BoolVar(&undoNoProgress, "no-progress", false, "disable the progress view")
	rootCmd.AddCommand(undoCmd)
}
