package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fortsentinel/dispatch/internal/domain/model"
)

// NewGenerateCommand runs the classification pipeline over a batch file.
func NewGenerateCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate dispatches from a fetched article batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, _, err := buildService(ctx)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}
			var batch articleBatchFile
			if err := json.Unmarshal(raw, &batch); err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}

			articles := make([]model.Article, len(batch.Articles))
			for i, a := range batch.Articles {
				articles[i] = fromArticleJSON(a)
			}

			report, err := svc.ProcessBatch(ctx, articles)
			for _, res := range report.Results {
				switch {
				case res.SkipReason != "":
					cmd.Printf("skipped  %s: %s\n", res.ArticleURL, res.SkipReason)
				case res.Written:
					cmd.Printf("created  %s voice=%s tags=%v\n", res.ID, res.Voice, res.Tags)
				default:
					cmd.Printf("existing %s voice=%s tags=%v\n", res.ID, res.Voice, res.Tags)
				}
			}
			if err != nil {
				return err
			}
			cmd.Printf("%d created, %d existing, %d skipped\n", report.Written, report.Existing, report.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "articles.json", "input article batch file")
	return cmd
}
