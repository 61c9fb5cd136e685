package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"morph/internal/scanner"
)

var (
	errTooManyArguments = errors.New("too many arguments")
	errDoesNotExist     = errors.New("does not exist")
	errNotADirectory    = errors.New("not a directory")
	errPermission       = errors.New("permission denied")
)

var (
	appFs     afero.Fs = afero.NewOsFs()
	appConfig          = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "morph [dir]",
	Short: "morph - batch rename files and folders",
	Long:  "morph renames files and folders in bulk through an ordered pipeline of name transforms, with preview, saved recipes and one-level undo.",
	Args:  cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(appConfig.GetString("log-level"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}

		res, err := scanner.Scan(appFs, dir, scanner.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, dirStyle.Render(dir))
		printListing(dir, scanner.Sort(res.Entries, 0, false, false))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config-dir", "", "directory holding commands.toml and undo.yaml")

	appConfig.SetEnvPrefix("MORPH")
	appConfig.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	appConfig.AutomaticEnv()
	_ = appConfig.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = appConfig.BindPFlag("config-dir", rootCmd.PersistentFlags().Lookup("config-dir"))
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

// configDir is where the command store and undo journal live.
func configDir() (string, error) {
	if dir := appConfig.GetString("config-dir"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "morph"), nil
}

// resolveDir validates the optional directory argument. No argument means
// the user's home directory.
func resolveDir(args []string) (string, error) {
	if len(args) > 1 {
		return "", errTooManyArguments
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = home
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	info, err := appFs.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("%s: %w", dir, errDoesNotExist)
	case errors.Is(err, os.ErrPermission):
		return "", fmt.Errorf("%s: %w", dir, errPermission)
	case err != nil:
		return "", err
	case !info.IsDir():
		return "", fmt.Errorf("%s: %w", dir, errNotADirectory)
	}

	f, err := appFs.Open(abs)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return "", fmt.Errorf("%s: %w", dir, errPermission)
		}
		return "", err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, os.ErrPermission) {
			return "", fmt.Errorf("%s: %w", dir, errPermission)
		}
		return "", err
	}
	return abs, nil
}
