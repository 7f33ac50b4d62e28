package main

import (
	"github.com/spf13/cobra"

	"scribe/internal/app"
	"scribe/internal/logging"
)

func newUICommand(s *session) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the interactive notes workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath, err := s.cfg.ResolveLogPath()
			if err != nil {
				return err
			}
			// The UI owns the terminal, so logs go to a rotating file.
			logger, closer, err := logging.NewFile(logging.FileOptions{
				Path:       logPath,
				MaxSizeMB:  s.cfg.LogMaxSizeMB(),
				MaxBackups: s.cfg.LogMaxBackups(),
			}, logging.ParseLevel(s.cfg.LogLevel()))
			if err != nil {
				return err
			}
			defer closer.Close()

			api, err := s.wiring.newClient(s.cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("ui starting", logging.F("backend", s.cfg.BackendURL()), logging.F("version", s.wiring.version))
			return s.wiring.runUI(api, app.Options{
				Logger:         logger,
				Markdown:       s.cfg.MarkdownEnabled() && !plain,
				DateFormat:     s.cfg.DateFormat(),
				RequestTimeout: s.cfg.RequestTimeout(),
				ChatTimeout:    s.cfg.ChatTimeout(),
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "show answers as plain text instead of rendered markdown")
	return cmd
}
