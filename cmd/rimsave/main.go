package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coolbeans/rimsave/pkg/config"
	"github.com/coolbeans/rimsave/pkg/console"
	"github.com/coolbeans/rimsave/pkg/precept"
	"github.com/coolbeans/rimsave/pkg/savefile"
	"github.com/coolbeans/rimsave/pkg/watch"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "rimsave",
		Short: "RimWorld save file cleanup",
		Long: `Rimsave edits RimWorld save files in place, removing duplicate
precepts from ideologies.

Every edit backs up the original file first (save.rws.bak, then
.bak.1, .bak.2 and so on), and nothing is written when the cleaned
document is byte-identical to the original.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(preceptsCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func preceptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precepts <save-file>",
		Short: "Remove duplicate precepts from every ideology",
		Long: `Scan every ideology in the save file for precepts whose display
name appears more than once, confirm each removal interactively
(default yes), back up the original, and rewrite the file.

Example:
  rimsave precepts Autosave-1.rws
  rimsave precepts --yes Autosave-1.rws`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assumeYes, _ := cmd.Flags().GetBool("yes")
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyColorMode(cfg.Color)

			printer := console.NewPrinter(os.Stdout)
			var confirmer precept.Confirmer = console.NewPrompter(os.Stdin, os.Stdout)
			if assumeYes || cfg.AssumeYes {
				confirmer = console.AssumeYes{}
			}

			return runCleanup(args[0], printer, confirmer)
		},
	}
	cmd.Flags().Bool("yes", false, "answer every removal prompt with yes")
	cmd.Flags().String("config", "", "path to a rimsave YAML config")
	return cmd
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <save-file>",
		Short: "List ideologies and duplicate precepts without editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyColorMode(cfg.Color)
			printer := console.NewPrinter(os.Stdout)

			document, err := savefile.Load(args[0])
			if err != nil {
				return err
			}
			ideos, err := savefile.Ideologies(document)
			if err != nil {
				return err
			}
			entries := savefile.IdeologyEntries(ideos)
			if len(entries) == 0 {
				return savefile.ErrNoIdeologyEntries
			}

			scanner := precept.NewScanner(console.AssumeYes{}, printer)
			duplicates := 0
			for index, ideology := range entries {
				ideoName := savefile.IdeologyName(ideology)
				if ideoName == "" {
					printer.Warnf("failed to find name for ideo at position %d", index)
					continue
				}
				preceptsElement := savefile.Precepts(ideology)
				if preceptsElement == nil {
					printer.Warnf("no precepts node found in ideo %s", ideoName)
					continue
				}

				printer.Infof("%s: %d precepts", ideoName, len(savefile.PreceptEntries(preceptsElement)))
				for _, group := range scanner.DuplicatesIn(preceptsElement, ideoName) {
					printer.Warnf("  duplicate %s x%d (defs: %s)", group.Name, group.Count, strings.Join(group.Defs, ", "))
					duplicates++
				}
			}

			if duplicates == 0 {
				printer.Successf("no duplicate precepts found")
			}
			return nil
		},
	}
	cmd.Flags().String("config", "", "path to a rimsave YAML config")
	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <save-file>",
		Short: "Clean the save file every time it changes on disk",
		Long: `Watch the save file and rerun the precept cleanup after each
change, answering every removal prompt with yes. Stops on Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyColorMode(cfg.Color)
			printer := console.NewPrinter(os.Stdout)

			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("failed to stat save file: %w", err)
			}

			callback := func(changed string) error {
				printer.Infof("change detected in %s", changed)
				if err := runCleanup(changed, printer, console.AssumeYes{}); err != nil {
					// A broken intermediate save should not end the
					// watch; the next write gets another chance.
					printer.Errorf("%v", err)
				}
				return nil
			}

			watcher, err := watch.New(path, cfg.Debounce(), callback)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printer.Infof("watching %s (Ctrl-C to stop)", path)
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("config", "", "path to a rimsave YAML config")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rimsave version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rimsave %s\n", version)
		},
	}
}

// runCleanup is the whole load → scan → backup → rewrite pipeline for
// one save file.
func runCleanup(path string, printer *console.Printer, confirmer precept.Confirmer) error {
	document, err := savefile.Load(path)
	if err != nil {
		return err
	}

	ideos, err := savefile.Ideologies(document)
	if err != nil {
		return err
	}
	if len(savefile.IdeologyEntries(ideos)) == 0 {
		return savefile.ErrNoIdeologyEntries
	}

	scanner := precept.NewScanner(confirmer, printer)
	result, err := scanner.ScanAll(ideos)
	if err != nil {
		return err
	}

	rewrite, err := document.Rewrite()
	if err != nil {
		return err
	}

	printer.Infof("backed up original to %s", rewrite.BackupPath)
	if !rewrite.Written {
		printer.Warnf("no changes")
		return nil
	}
	printer.Successf("done: removed %d duplicate precepts across %d ideologies", result.Removed, result.Ideologies)
	return nil
}

// applyColorMode maps the configured color mode onto the color
// package's global toggle. Auto keeps the library's own terminal
// detection.
func applyColorMode(mode config.ColorMode) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
}
