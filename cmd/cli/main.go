package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/engine/sitter"
	"github.com/apiscope-hq/apiscope/internal/fetch"
	"github.com/apiscope-hq/apiscope/internal/surface"
)

var version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:     "apiscope",
		Short:   "apiscope - public API surface extraction",
		Long:    `apiscope extracts the public API surface of a package into a stable JSON report.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(filesCmd())
	rootCmd.AddCommand(exportsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractCmd() *cobra.Command {
	var (
		repoURL     string
		branch      string
		packageName string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "extract [path]",
		Short: "Extract the public API surface of a package",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			root, err := resolveRoot(ctx, args, repoURL, branch)
			if err != nil {
				return err
			}

			conv, err := config.LoadConventions(root)
			if err != nil {
				return fmt.Errorf("failed to load conventions: %w", err)
			}
			if packageName != "" {
				conv.PackageName = packageName
			}

			result, err := surface.New(sitter.NewEngine(), conv).ExtractAPISurface(ctx, root)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			data = append(data, '\n')

			if output != "" {
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				log.Info().Str("path", output).Int("elements", len(result.Elements)).Msg("surface written")
				return nil
			}

			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&repoURL, "repo", "r", "", "Clone this repository URL instead of using a local path")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to clone (default branch if empty)")
	cmd.Flags().StringVarP(&packageName, "package", "p", "", "Override the package name from the manifest")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to this file instead of stdout")

	return cmd
}

func filesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files [path]",
		Short: "List the files that make up the public surface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			conv, err := config.LoadConventions(root)
			if err != nil {
				return fmt.Errorf("failed to load conventions: %w", err)
			}

			files, err := surface.PublicFiles(root, conv)
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}

			for _, f := range files {
				fmt.Println(f)
			}
			return nil
		},
	}

	return cmd
}

func exportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports <file>",
		Short: "Show the names exported by a single source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := sitter.NewEngine().Resolve(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve file: %w", err)
			}

			for _, name := range lib.ExportedNames() {
				el := lib.Export(name)
				fmt.Printf("%s\t%s\t%s\n", name, el.Kind(), el.Location())
			}
			return nil
		},
	}

	return cmd
}

// resolveRoot picks the package root from a positional path or a cloned
// repository when --repo is given.
func resolveRoot(ctx context.Context, args []string, repoURL, branch string) (string, error) {
	if repoURL != "" {
		cfg, err := config.Load()
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		result, err := fetch.NewFetcher(cfg.CloneDir).Clone(ctx, repoURL, branch)
		if err != nil {
			return "", fmt.Errorf("failed to clone repository: %w", err)
		}
		return result.Path, nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return ".", nil
}
