package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortsentinel/dispatch/internal/adapters/repository"
)

// NewListCommand lists stored dispatches.
func NewListCommand() *cobra.Command {
	var (
		tag   string
		voice string
		from  string
		to    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored dispatches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, _, err := buildService(ctx)
			if err != nil {
				return err
			}

			filter := repository.Filter{Tag: tag, Voice: voice}
			if filter.From, err = parseDayFlag(from); err != nil {
				return err
			}
			if filter.To, err = parseDayFlag(to); err != nil {
				return err
			}

			records, err := svc.List(ctx, filter)
			if err != nil {
				return err
			}
			for _, rec := range records {
				cmd.Printf("%s  %s  %-15s [%s]  %s\n",
					rec.DatePartition, rec.ID, rec.Voice, strings.Join(rec.Tags, ","), rec.Title)
			}
			cmd.Printf("%d dispatches\n", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "filter by tag")
	cmd.Flags().StringVar(&voice, "voice", "", "filter by voice persona")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

func parseDayFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}
