package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/sanitizer"
	"scribe/internal/types"
	"scribe/internal/workspace"
)

func newNotesCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Short:   "List, show and delete meeting notes",
		Aliases: []string{"note"},
	}
	cmd.AddCommand(newNotesListCommand(s), newNotesShowCommand(s), newNotesDeleteCommand(s))
	return cmd
}

// loadWorkspace fetches the collection into a fresh workspace.
func (s *session) loadWorkspace(cmd *cobra.Command) (*workspace.Workspace, commandClient, error) {
	api, err := s.client()
	if err != nil {
		return nil, nil, err
	}
	ws := s.workspace(api)
	if err := ws.Load(cmd.Context()); err != nil {
		return nil, nil, fmt.Errorf("load notes: %w", err)
	}
	return ws, api, nil
}

func (s *session) findNote(cmd *cobra.Command, raw string) (types.Note, error) {
	id, err := parseNoteID(raw)
	if err != nil {
		return types.Note{}, err
	}
	ws, _, err := s.loadWorkspace(cmd)
	if err != nil {
		return types.Note{}, err
	}
	note, ok := ws.Find(id)
	if !ok {
		return types.Note{}, fmt.Errorf("note %d: %w", id, workspace.ErrNoteNotFound)
	}
	return note, nil
}

func newNotesListCommand(s *session) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored notes, newest first as the backend returns them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			ws, _, err := s.loadWorkspace(cmd)
			if err != nil {
				return err
			}
			notes := ws.Notes()
			if format == outputText {
				if len(notes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no notes")
					return nil
				}
				printNotes(cmd.OutOrStdout(), sanitizeNotes(notes), s.cfg.DateFormat())
				return nil
			}
			return writeStructured(cmd.OutOrStdout(), format, summarizeNotes(notes))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text|json|yaml")
	return cmd
}

func newNotesShowCommand(s *session) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one note's transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			note, err := s.findNote(cmd, args[0])
			if err != nil {
				return err
			}
			if format != outputText {
				return writeStructured(cmd.OutOrStdout(), format, note)
			}
			out := cmd.OutOrStdout()
			display := sanitizer.ForDisplay()
			fmt.Fprintln(out, sanitizer.ForSingleLine().Sanitize(note.DisplayTitle()))
			if !note.CreatedAt.IsZero() {
				fmt.Fprintln(out, note.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(out)
			for _, line := range types.ParseTranscript(display.Sanitize(note.Content)) {
				if line.Speaker == "" && line.Timestamp == "" {
					fmt.Fprintln(out, line.Text)
					continue
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", line.Timestamp, line.Speaker, line.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text|json|yaml")
	return cmd
}

func newNotesDeleteCommand(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			ws, _, err := s.loadWorkspace(cmd)
			if err != nil {
				return err
			}
			title := sanitizer.ForSingleLine()
			err = ws.Delete(cmd.Context(), id, func(note types.Note) bool {
				if yes {
					return true
				}
				return promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", title.Sanitize(note.DisplayTitle())))
			})
			switch {
			case errors.Is(err, workspace.ErrDeleteDeclined):
				fmt.Fprintln(cmd.OutOrStdout(), "canceled")
				return nil
			case errors.Is(err, workspace.ErrNoteNotFound):
				return fmt.Errorf("note %d: %w", id, err)
			case err != nil:
				return fmt.Errorf("delete note %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted note %d\n", id)
			if loadErr := ws.LoadError(); loadErr != nil {
				s.logger.Warn("reload after delete failed: " + loadErr.Error())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func sanitizeNotes(notes []types.Note) []types.Note {
	single := sanitizer.ForSingleLine()
	out := types.CloneNotes(notes)
	for i := range out {
		out[i].Title = single.Sanitize(out[i].Title)
	}
	return out
}
