package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/mtgfixture/internal/config"
	"github.com/arcanaland/mtgfixture/internal/dataset"
)

// datasetCmd represents the dataset command group
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage datasets in your dataset library",
	Long:  `Commands for managing card datasets in your dataset library.`,
}

// datasetListCmd represents the dataset ls command
var datasetListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available datasets in your dataset library",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		libraryPath := config.GetDatasetLibraryPath()

		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			fmt.Fprintf(out, "Dataset library at %s does not exist.\n", libraryPath)
			fmt.Fprintln(out, "Run 'mtgfixture dataset init' to create it.")
			return nil
		}

		libraryPath, err := filepath.EvalSymlinks(libraryPath)
		if err != nil {
			return fmt.Errorf("error resolving symbolic link: %w", err)
		}

		defaultDataset, err := config.GetDefaultDataset()
		if err != nil {
			return fmt.Errorf("error getting default dataset: %w", err)
		}

		entries, err := os.ReadDir(libraryPath)
		if err != nil {
			return fmt.Errorf("error reading dataset library: %w", err)
		}

		found := 0
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}

			d, err := dataset.Load(filepath.Join(libraryPath, entry.Name()))
			if err != nil {
				// Not a dataset, skip
				logger.Debug("Skipping library entry", zap.String("name", entry.Name()), zap.Error(err))
				continue
			}
			found++

			if entry.Name() == defaultDataset {
				fmt.Fprintf(out, "* %s (%d sets) [DEFAULT]\n", entry.Name(), len(d.Sets))
			} else {
				fmt.Fprintf(out, "  %s (%d sets)\n", entry.Name(), len(d.Sets))
			}
		}

		if found == 0 {
			fmt.Fprintln(out, "No datasets found in your dataset library.")
			fmt.Fprintln(out, "You can add datasets by copying them to:", libraryPath)
		}
		return nil
	},
}

// datasetSetDefaultCmd represents the dataset set-default command
var datasetSetDefaultCmd = &cobra.Command{
	Use:   "set-default [dataset_name]",
	Short: "Set the default dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		datasetPath, err := config.GetDatasetPath(name)
		if err != nil {
			return err
		}

		// Make sure it actually parses before pointing the config at it
		if _, err := dataset.Load(datasetPath); err != nil {
			return fmt.Errorf("not a valid dataset: %w", err)
		}

		if err := config.SetDefaultDataset(name); err != nil {
			return fmt.Errorf("error setting default dataset: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default dataset set to: %s\n", name)
		return nil
	},
}

// datasetInitCmd represents the dataset init command
var datasetInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the dataset library",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		libraryPath := config.GetDatasetLibraryPath()

		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			return fmt.Errorf("error creating dataset library: %w", err)
		}

		fmt.Fprintln(out, "Dataset library initialized at:", libraryPath)
		fmt.Fprintln(out, "You can now add datasets by copying them to this directory.")

		if _, err := config.LoadConfig(); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		fmt.Fprintln(out, "Config file initialized at:", config.GetConfigFilePath())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetSetDefaultCmd)
	datasetCmd.AddCommand(datasetInitCmd)
}
