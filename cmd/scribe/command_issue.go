package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/issue"
	"scribe/internal/logging"
)

func newIssueCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "File a GitHub issue about a note",
	}
	cmd.AddCommand(newIssueComposeCommand(s), newIssueCreateCommand(s), newIssueLoginCommand(s))
	return cmd
}

func newIssueComposeCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "compose <note-id>",
		Short: "Print the default issue body for a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := s.findNote(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), issue.ComposeBody(note, s.wiring.location))
			return nil
		},
	}
}

func newIssueCreateCommand(s *session) *cobra.Command {
	var (
		repo   string
		title  string
		body   string
		token  string
		noteID string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue from a note or a given body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(repo) == "" {
				repo = s.cfg.DefaultIssueRepo()
			}
			if noteID != "" {
				note, err := s.findNote(cmd, noteID)
				if err != nil {
					return err
				}
				if strings.TrimSpace(body) == "" {
					body = issue.ComposeBody(note, s.wiring.location)
				}
				if strings.TrimSpace(title) == "" {
					title = issue.DefaultTitle(note)
				}
			}
			resolved, source, err := s.wiring.tokens.Resolve(token)
			if err != nil && !errors.Is(err, issue.ErrNoToken) {
				return err
			}
			if err != nil {
				s.logger.Debug("no token found", logging.Err(err))
			} else {
				s.logger.Debug("using token", logging.F("source", string(source)))
			}

			api, err := s.client()
			if err != nil {
				return err
			}
			url, err := issue.NewCreator(api, s.logger).Create(cmd.Context(), issue.Request{
				Token: resolved,
				Repo:  repo,
				Title: title,
				Body:  body,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&repo, "repo", "", "target repository as owner/name (default from config)")
	flags.StringVar(&title, "title", "", "issue title")
	flags.StringVar(&body, "body", "", "issue body")
	flags.StringVar(&noteID, "note", "", "note id to build the title and body from")
	flags.StringVar(&token, "token", "", "GitHub token (default GITHUB_TOKEN or the keyring)")
	return cmd
}

func newIssueLoginCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a GitHub token in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "GitHub token: ")
			token, err := s.wiring.readPassword()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := s.wiring.tokens.Save(strings.TrimRight(token, "\r\n")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token saved")
			return nil
		},
	}
}

