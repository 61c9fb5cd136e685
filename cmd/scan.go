package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"morph/internal/scanner"
	"morph/internal/tui"
)

// scanFlags are the listing options shared by scan and rename.
type scanFlags struct {
	depth      int
	mask       string
	extensions []string
	noFolders  bool
	noFiles    bool
	hidden     bool
	minLen     int
	maxLen     int
	filesFirst bool
	reverse    bool
}

func (f *scanFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.depth, "depth", "d", 0, "directory levels to descend (-1 for unlimited)")
	fs.StringVar(&f.mask, "mask", "", "regular expression names must match from the start")
	fs.StringSliceVar(&f.extensions, "ext", nil, "only names ending with one of these suffixes")
	fs.BoolVar(&f.noFolders, "no-folders", false, "leave folders out of the listing")
	fs.BoolVar(&f.noFiles, "no-files", false, "leave files out of the listing")
	fs.BoolVar(&f.hidden, "hidden", false, "include hidden entries and descend into hidden folders")
	fs.IntVar(&f.minLen, "min-len", 0, "minimum name length")
	fs.IntVar(&f.maxLen, "max-len", 255, "maximum name length (-1 for no limit)")
	fs.BoolVar(&f.filesFirst, "files-first", false, "list files before folders in flat listings")
	fs.BoolVar(&f.reverse, "reverse", false, "reverse the sort order")
}

func (f *scanFlags) options() scanner.Options {
	return scanner.Options{
		Mask:       f.mask,
		Extensions: f.extensions,
		Folders:    !f.noFolders,
		Files:      !f.noFiles,
		Hidden:     f.hidden,
		MinLen:     f.minLen,
		MaxLen:     f.maxLen,
		Depth:      f.depth,
	}
}

// list scans dir and returns the entries in display order.
func (f *scanFlags) list(dir string) ([]scanner.Entry, error) {
	res, err := scanner.Scan(appFs, dir, f.options())
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, warnStyle.Render("skipped "+w.Error()))
	}
	return scanner.Sort(res.Entries, f.depth, f.filesFirst, f.reverse), nil
}

var scanOpts scanFlags

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "List the entries a rename would see",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}

		entries, err := scanOpts.list(dir)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, dirStyle.Render(dir))
		printListing(dir, entries)
		fmt.Fprintln(os.Stdout, tui.RenderSummary(listingSummary(entries)))
		return nil
	},
}

func printListing(root string, entries []scanner.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(os.Stdout, "  %s %s\n", bulletStyle.Render("-"), dimStyle.Render("none"))
		return
	}
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil {
			rel = e.Path
		}
		if e.IsDir {
			fmt.Fprintf(os.Stdout, "  %s %s\n", bulletStyle.Render("-"), dirStyle.Render(rel+string(filepath.Separator)))
			continue
		}
		fmt.Fprintf(os.Stdout, "  %s %s\n", bulletStyle.Render("-"), fileStyle.Render(rel))
	}
}

func listingSummary(entries []scanner.Entry) []tui.SummaryRow {
	var dirs, files int
	for _, e := range entries {
		if e.IsDir {
			dirs++
		} else {
			files++
		}
	}
	return []tui.SummaryRow{
		{Label: "Folders", Value: fmt.Sprintf("%d", dirs)},
		{Label: "Files", Value: fmt.Sprintf("%d", files)},
	}
}

var (
	dirStyle    = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	fileStyle   = lipgloss.NewStyle().Foreground(tui.ColorInk)
	keyStyle    = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	dimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
	bulletStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
	okStyle     = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	warnStyle   = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)

func init() {
	scanOpts.register(scanCmd.Flags())
	rootCmd.AddCommand(scanCmd)
}
