package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/fsutil"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Append conversation records to datasets",
}

var corpusAddCmd = &cobra.Command{
	Use:   "add [dataset]",
	Short: "Add a conversation record",
	Long: `Validate a conversation record and append it to the dataset bucket
selected by its content hash.

The record is read from --file or stdin as JSON:
  {"data": [{"role": {"role_type": "user", "name": "Ada"}, "content": "hi",
             "knowledge": {"user_description": "..."}}]}`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusAdd,
}

func init() {
	corpusAddCmd.Flags().StringP("file", "f", "", "read the record from file")

	corpusCmd.AddCommand(corpusAddCmd)
	rootCmd.AddCommand(corpusCmd)
}

// corpusAddOutput is the JSON shape printed by corpus add.
type corpusAddOutput struct {
	Dataset  domain.DatasetInfo `json:"dataset"`
	BucketID int                `json:"bucket_id"`
	RoleMap  map[string]string  `json:"role_name_map"`
}

func runCorpusAdd(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	raw, err := readCorpusInput(cmd)
	if err != nil {
		return err
	}

	corpus, err := domain.ParseCorpus(raw)
	if err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	result, err := corpusService.AddCorpus(commandContext(cmd), args[0], corpus)
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, corpusAddOutput{
			Dataset:  result.Dataset,
			BucketID: result.BucketID,
			RoleMap:  corpus.RoleNameMap,
		})
	}
	cmd.Printf("Added record to %s (bucket %d of %d)\n",
		result.Dataset.Name, result.BucketID, result.Dataset.BucketNum)
	return nil
}

func readCorpusInput(cmd *cobra.Command) ([]byte, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := fsutil.ReadUTF8File(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read record file: %w", err)
		}
		return data, nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return fsutil.DecodeUTF8(raw)
}
