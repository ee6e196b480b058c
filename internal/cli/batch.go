package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fortsentinel/dispatch/internal/narration"
)

// NewBatchCommand sequences several dispatches through a narration session.
func NewBatchCommand() *cobra.Command {
	var (
		limit int
		tag   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Narrate the most recent dispatches in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, _, err := buildService(ctx)
			if err != nil {
				return err
			}

			session := svc.NewSession()
			scope := narration.Scope{BatchLimit: limit}
			if tag != "" {
				scope = narration.Scope{FilterTag: tag}
			}
			records, err := session.Enumerate(ctx, scope)
			if err != nil {
				return err
			}
			cmd.Printf("batch narration: %d dispatches\n", len(records))

			for i := 0; ; i++ {
				rec, err := session.Next(ctx)
				if errors.Is(err, narration.ErrExhausted) {
					break
				}
				if err != nil {
					session.Abort(ctx)
					return err
				}

				cmd.Printf("\n[%d/%d]\n", i+1, len(records))
				if err := printNarration(cmd, rec, ""); err != nil {
					// Unreadable entry: skip it and keep the batch going.
					cmd.Printf("skipping %s: %v\n", rec.ID, err)
					if serr := session.Skip(ctx); serr != nil {
						session.Abort(ctx)
						return serr
					}
					continue
				}
				if err := session.Complete(ctx); err != nil {
					session.Abort(ctx)
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "number of dispatches to narrate")
	cmd.Flags().StringVar(&tag, "tag", "", "narrate all dispatches with this tag instead")
	return cmd
}
