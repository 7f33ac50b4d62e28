package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/handoff"
)

func newHandoffCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Inspect the transcript left by the last ingest",
	}
	cmd.AddCommand(
		newHandoffReadCommand(s, "show", "Print the waiting transcript", false),
		newHandoffReadCommand(s, "take", "Print the waiting transcript and clear it", true),
	)
	return cmd
}

func newHandoffReadCommand(s *session, use, short string, consume bool) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			store, err := s.openHandoff()
			if err != nil {
				return err
			}
			defer store.Close()

			var (
				entry handoff.Entry
				ok    bool
			)
			if consume {
				entry, ok, err = store.Take(cmd.Context())
			} else {
				entry, ok, err = store.Peek(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "no transcript loaded")
				return nil
			}
			if format != outputText {
				return writeStructured(out, format, entry)
			}
			if entry.Title != "" {
				fmt.Fprintf(out, "%s (%s)\n\n", entry.Title, entry.Source)
			}
			fmt.Fprintln(out, entry.Transcript)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text|json|yaml")
	return cmd
}
