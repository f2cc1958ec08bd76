package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage corpus datasets",
	Long:  `Create corpus datasets and inspect their descriptors.`,
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasetList,
}

var datasetInfoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show a dataset descriptor",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetInfo,
}

var datasetCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a dataset",
	Long: `Create a dataset directory and its INFO.json descriptor.

The bucket count is fixed at creation. Records are spread across
bucket_1.jsonl .. bucket_<n>.jsonl by the hash of their content.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetCreate,
}

func init() {
	datasetCreateCmd.Flags().StringP("description", "d", "", "dataset description")
	datasetCreateCmd.Flags().IntP("bucket-num", "b", domain.DefaultBucketNum, "number of bucket files")
	datasetCreateCmd.Flags().Bool("exist-ok", false, "do nothing if the dataset already exists")

	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetInfoCmd)
	datasetCmd.AddCommand(datasetCreateCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetList(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	infos, err := datasetService.ListInfo(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, infos)
	}
	if len(infos) == 0 {
		cmd.Println("No datasets found.")
		return nil
	}
	for i := range infos {
		printDataset(cmd, &infos[i])
	}
	return nil
}

func runDatasetInfo(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	info, err := datasetService.GetInfo(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get dataset: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, info)
	}
	printDataset(cmd, info)
	return nil
}

func runDatasetCreate(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	description, _ := cmd.Flags().GetString("description")
	bucketNum, _ := cmd.Flags().GetInt("bucket-num")
	existOK, _ := cmd.Flags().GetBool("exist-ok")

	info, err := datasetService.Create(commandContext(cmd), driving.CreateDatasetRequest{
		Name:        args[0],
		Description: description,
		BucketNum:   bucketNum,
		ExistOK:     existOK,
	})
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, info)
	}
	if info == nil {
		cmd.Printf("Dataset %q already exists\n", args[0])
		return nil
	}
	cmd.Printf("Dataset %q ready with %d bucket(s)\n", info.Name, info.BucketNum)
	return nil
}

func printDataset(cmd *cobra.Command, info *domain.DatasetInfo) {
	cmd.Printf("%s\n", info.Name)
	cmd.Printf("  Buckets:     %d\n", info.BucketNum)
	if info.Description != "" {
		cmd.Printf("  Description: %s\n", info.Description)
	}
}
