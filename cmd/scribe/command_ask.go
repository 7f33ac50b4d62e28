package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/logging"
	"scribe/internal/workspace"
)

func newAskCommand(s *session) *cobra.Command {
	var noteIDs []int64
	cmd := &cobra.Command{
		Use:   "ask --note <id> [--note <id>...] <question>",
		Short: "Ask one question about the selected notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return workspace.ErrEmptyQuestion
			}
			if len(noteIDs) == 0 {
				return workspace.ErrNoSelection
			}
			ws, _, err := s.loadWorkspace(cmd)
			if err != nil {
				return err
			}
			for _, id := range noteIDs {
				if !ws.SetSelected(id, true) {
					return fmt.Errorf("note %d: %w", id, workspace.ErrNoteNotFound)
				}
			}
			s.logger.Debug("asking", logging.F("notes", len(noteIDs)))
			reply, err := ws.Send(cmd.Context(), question)
			if err != nil {
				if workspace.IsValidation(err) {
					return err
				}
				return errors.New(reply.Content)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return nil
		},
	}
	cmd.Flags().Int64SliceVarP(&noteIDs, "note", "n", nil, "note id to include (repeatable)")
	return cmd
}
