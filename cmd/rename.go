package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"morph/internal/metadata"
	"morph/internal/naming"
	"morph/internal/recipes"
	"morph/internal/renamer"
	"morph/internal/tui"
	"morph/internal/undo"
)

var errRenameFailed = errors.New("some renames failed")

var (
	renameScan        scanFlags
	renameRecipe      string
	renameApply       bool
	renameBottomToTop bool
	renameNoProgress  bool
	renameSaveRecipe  string
	renameNextStep    string
)

var renameCmd = &cobra.Command{
	Use:   "rename [dir]",
	Short: "Preview or apply a rename over a directory listing",
	Long: "rename runs every listed entry through the rename pipeline. Without --apply it only prints the plan.\n" +
		"Settings come from a saved recipe (--recipe) and from the setting flags; when both are given the flags run as an extra final step.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}

		store, err := recipeStore()
		if err != nil {
			return err
		}

		layer := changedSettings(cmd.Flags())
		if renameSaveRecipe != "" {
			if err := saveRecipe(store, renameSaveRecipe, renameNextStep, layer); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, okStyle.Render("saved recipe "+renameSaveRecipe))
		}

		cfgs, err := buildConfigs(store, renameRecipe, layer)
		if err != nil {
			return err
		}

		entries, err := renameScan.list(dir)
		if err != nil {
			return err
		}
		selection := make([]string, len(entries))
		for i, e := range entries {
			selection[i] = e.Path
		}

		pipeline := naming.NewPipeline(appFs, metadata.NewReader(appFs))
		items := renamer.Plan(pipeline, selection, cfgs, renamer.PlanOptions{
			Flat:        renameScan.depth == 0,
			BottomToTop: renameBottomToTop,
			Reversed:    renameScan.reverse,
		})

		if !renameApply {
			fmt.Fprintln(os.Stdout, tui.RenderPreview(items))
			fmt.Fprintln(os.Stdout, dimStyle.Render("preview only, pass --apply to rename"))
			return nil
		}

		r := renamer.New(appFs, &undo.Log{})
		report := runWithProgress("morph rename", renameNoProgress, func(updates chan<- renamer.ProgressUpdate) renamer.Report {
			return r.Run(context.Background(), items, updates)
		})

		if err := saveJournal(r.Log()); err != nil {
			return err
		}
		return finishReport(report, "Renamed")
	},
}

// saveRecipe stores layer under name once it parses as a valid config.
func saveRecipe(store *recipes.Store, name, next string, layer map[string]any) error {
	if _, err := naming.ConfigFromSettings(layer); err != nil {
		return err
	}
	return store.Save(recipes.Recipe{Name: name, Settings: layer, Next: next})
}

// buildConfigs turns a recipe chain plus the flag layer into pipeline
// steps.
func buildConfigs(store *recipes.Store, recipe string, layer map[string]any) ([]naming.Config, error) {
	var cfgs []naming.Config
	if recipe != "" {
		chain, err := store.Chain(recipe)
		if err != nil {
			return nil, err
		}
		for _, r := range chain {
			cfg, err := naming.ConfigFromSettings(r.Settings)
			if err != nil {
				return nil, fmt.Errorf("recipe %s: %w", r.Name, err)
			}
			cfgs = append(cfgs, cfg)
		}
	}

	if recipe == "" || len(layer) > 0 {
		cfg, err := naming.ConfigFromSettings(layer)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

// addSettingFlags registers one flag per rename setting, typed after its
// default.
func addSettingFlags(fs *pflag.FlagSet) {
	defaults := naming.DefaultSettings()
	for _, key := range naming.SettingKeys() {
		name := settingFlagName(key)
		usage := "rename setting " + key
		switch v := defaults[key].(type) {
		case bool:
			fs.Bool(name, v, usage)
		case int:
			fs.Int(name, v, usage)
		default:
			fs.String(name, fmt.Sprint(v), usage)
		}
	}
}

// changedSettings collects the setting flags given on the command line.
func changedSettings(fs *pflag.FlagSet) map[string]any {
	defaults := naming.DefaultSettings()
	layer := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		key := naming.NormalizeKey(f.Name)
		if _, ok := defaults[key]; ok {
			layer[key] = f.Value.String()
		}
	})
	return layer
}

func settingFlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func recipeStore() (*recipes.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return recipes.NewStore(appFs, filepath.Join(dir, recipes.FileName)), nil
}

func journalPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, undo.JournalName), nil
}

func saveJournal(l *undo.Log) error {
	path, err := journalPath()
	if err != nil {
		return err
	}
	return undo.Save(appFs, path, l)
}

// runProgram shows the progress view until it quits.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}

// runWithProgress runs fn while a progress view reads its updates.
func runWithProgress(title string, quiet bool, fn func(chan<- renamer.ProgressUpdate) renamer.Report) renamer.Report {
	if quiet {
		return fn(nil)
	}

	updates := make(chan renamer.ProgressUpdate, 64)

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		if err := runProgram(tui.NewModel(title, updates)); err != nil {
			log.Debug().Err(err).Msg("progress view stopped")
		}
		// The view can quit before fn finishes sending.
		for range updates {
		}
	}()

	report := fn(updates)
	close(updates)
	<-uiDone
	return report
}

func finishReport(report renamer.Report, verb string) error {
	rows := []tui.SummaryRow{
		{Label: "Items", Value: fmt.Sprintf("%d", report.Total)},
		{Label: verb, Value: fmt.Sprintf("%d", report.Renamed)},
		{Label: "Unchanged", Value: fmt.Sprintf("%d", report.Skipped)},
		{Label: "Errors", Value: fmt.Sprintf("%d", len(report.Errors))},
	}
	fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))

	for _, err := range report.Errors {
		fmt.Fprintln(os.Stderr, warnStyle.Render(err.Error()))
	}
	if report.Err != nil {
		return report.Err
	}
	if len(report.Errors) > 0 {
		return fmt.Errorf("%w: %d of %d", errRenameFailed, len(report.Errors), report.Total)
	}
	return nil
}

func init() {
	renameScan.register(renameCmd.Flags())
	addSettingFlags(renameCmd.Flags())

	renameCmd.Flags().StringVar(&renameRecipe, "recipe", "", "run a saved recipe and its next steps")
	renameCmd.Flags().BoolVar(&renameApply, "apply", false, "perform the renames instead of previewing them")
	renameCmd.Flags().BoolVar(&renameBottomToTop, "bottom-to-top", false, "in flat listings, rename from the last entry up")
	renameCmd.Flags().BoolVar(&renameNoProgress, "no-progress", false, "disable the progress view")
	renameCmd.Flags().StringVar(&renameSaveRecipe, "save-recipe", "", "save the setting flags as a recipe")
	renameCmd.Flags().StringVar(&renameNextStep, "next-step", "", "recipe to chain after the saved one")

	rootCmd.AddCommand(renameCmd)
}

