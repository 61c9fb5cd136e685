package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"morph/internal/metadata"
	"morph/internal/tui"
	"morph/pkg/mediautil"
)

var tagsSet []string

var tagsCmd = &cobra.Command{
	Use:   "tags <path>...",
	Short: "Print embedded tags usable as {tag} tokens",
	Long:  "tags prints the audio and image tags of each file. With --set, Vorbis comments of FLAC files are rewritten; other formats are skipped.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updates, err := parseTagUpdates(tagsSet)
		if err != nil {
			return err
		}

		paths := make([]string, len(args))
		for i, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			paths[i] = abs
		}

		reader := metadata.NewReader(appFs)
		reports := metadata.Collect(context.Background(), reader, paths, 0)

		if len(updates) > 0 {
			for _, report := range reports {
				if report.Kind != mediautil.KindFLAC {
					fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("skipped %s: tag writing needs a FLAC file", report.Path)))
					continue
				}
				if err := metadata.WriteFLACTags(report.Path, updates); err != nil {
					fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("skipped %s: %v", report.Path, err)))
					continue
				}
				fmt.Fprintln(os.Stdout, okStyle.Render("updated "+report.Path))
			}
			reports = metadata.Collect(context.Background(), reader, paths, 0)
		}

		fmt.Fprintln(os.Stdout, tui.RenderTags(reports))
		return nil
	},
}

// parseTagUpdates turns KEY=VALUE pairs into tag updates. An empty value
// removes the tag.
func parseTagUpdates(pairs []string) (map[string]string, error) {
	updates := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, "={}") {
			return nil, fmt.Errorf("invalid tag assignment %q, want KEY=VALUE", pair)
		}
		updates[key] = value
	}
	return updates, nil
}

func init() {
	tagsCmd.Flags().StringArrayVar(&tagsSet, "set", nil, "set a FLAC tag, KEY=VALUE (empty value removes it)")
	rootCmd.AddCommand(tagsCmd)
}
