package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/domain/route"
	"github.com/fortsentinel/dispatch/internal/narration"
)

// NewReadCommand emits the narration script for a single dispatch.
func NewReadCommand() *cobra.Command {
	var (
		latest        bool
		tag           string
		voiceOverride string
	)

	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Print the narration script for a dispatch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, _, err := buildService(ctx)
			if err != nil {
				return err
			}

			var rec repository.Record
			switch {
			case latest:
				session := svc.NewSession()
				scope := narration.Scope{Latest: true}
				if tag != "" {
					scope = narration.Scope{FilterTag: tag}
				}
				records, err := session.Enumerate(ctx, scope)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return narration.ErrNoDispatches
				}
				rec = records[0]
			case len(args) == 1:
				rec, err = svc.Get(ctx, args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("specify a dispatch id or --latest")
			}

			return printNarration(cmd, rec, voiceOverride)
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "read the most recent dispatch")
	cmd.Flags().StringVar(&tag, "tag", "", "with --latest, restrict to a tag")
	cmd.Flags().StringVar(&voiceOverride, "voice", "", "override the voice persona")
	return cmd
}

// printNarration renders the script handed to the narration engine.
func printNarration(cmd *cobra.Command, rec repository.Record, voiceOverride string) error {
	voiceName := rec.Voice
	if voiceOverride != "" {
		voiceName = voiceOverride
	}
	voice, err := route.ParseVoice(voiceName)
	if err != nil {
		return err
	}
	params := route.NarrationFor(voice)

	cmd.Printf("Fort Sentinel Dispatch: %s\n", rec.Title)
	cmd.Printf("Date: %s\n", rec.DatePartition)
	cmd.Printf("Voice: %s (style=%s speed=%.2f pitch=%.2f emotion=%s)\n",
		voice, params.Style, params.Speed, params.Pitch, params.Emotion)
	if rec.Summary != "" {
		cmd.Printf("\nSummary: %s\n", rec.Summary)
	}
	cmd.Printf("\n%s\n", rec.Body)
	return nil
}
