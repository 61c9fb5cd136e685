package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Manage saved rename recipes",
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := recipeStore()
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(os.Stdout, dimStyle.Render("no recipes in "+store.Path()))
			return nil
		}
		for _, name := range names {
			fmt.Fprintf(os.Stdout, "%s %s\n", bulletStyle.Render("-"), fileStyle.Render(name))
		}
		return nil
	},
}

var recipesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a recipe and the steps it chains into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := recipeStore()
		if err != nil {
			return err
		}
		chain, err := store.Chain(args[0])
		if err != nil {
			return err
		}

		for i, r := range chain {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintln(os.Stdout, dirStyle.Render(fmt.Sprintf("%d. %s", i+1, r.Name)))

			keys := make([]string, 0, len(r.Settings))
			for k := range r.Settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(os.Stdout, "  %s %s\n", keyStyle.Render(k+":"), fileStyle.Render(fmt.Sprint(r.Settings[k])))
			}
		}
		return nil
	},
}

var recipesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := recipeStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, okStyle.Render("deleted "+args[0]))
		return nil
	},
}

func init() {
	recipesCmd.AddCommand(recipesListCmd, recipesShowCmd, recipesDeleteCmd)
	rootCmd.AddCommand(recipesCmd)
}
