package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scribe/internal/app"
	"scribe/internal/config"
	"scribe/internal/handoff"
	"scribe/internal/issue"
	"scribe/internal/logging"
	"scribe/internal/workspace"
)

type commandWiring struct {
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	newClient    clientFactory
	loadConfig   func(path string) (config.Config, error)
	handoffPath  func() (string, error)
	tokens       *issue.TokenResolver
	readPassword func() (string, error)
	runUI        func(api workspace.API, opts app.Options) error
	location     *time.Location
	version      string
}

func defaultCommandWiring(stdin io.Reader, stdout, stderr io.Writer) commandWiring {
	return commandWiring{
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		newClient:    newBackendClient,
		loadConfig:   loadConfigFile,
		handoffPath:  config.HandoffPath,
		tokens:       issue.NewTokenResolver(),
		readPassword: readTerminalPassword,
		runUI:        app.Run,
		location:     time.Local,
		version:      buildVersion(),
	}
}

// session is what every command gets after the root flags are applied.
type session struct {
	wiring commandWiring
	cfg    config.Config
	logger logging.Logger

	configPath string
	backendURL string
	logLevel   string
}

func newRootCommand(wiring commandWiring) *cobra.Command {
	s := &session{wiring: wiring, logger: logging.Nop()}
	root := &cobra.Command{
		Use:   "scribe",
		Short: "Browse meeting notes and ask questions about them",
		Long: `scribe is a terminal client for the meeting-notes backend.

Examples:
  # Open the interactive workspace
  scribe ui

  # Ask a question about two notes
  scribe ask --note 3 --note 5 "what did we decide about the launch?"

  # List notes as YAML
  scribe notes list -o yaml`,
		Version:       wiring.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup()
		},
	}
	root.SetIn(wiring.stdin)
	root.SetOut(wiring.stdout)
	root.SetErr(wiring.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file (default ~/.scribe/config.toml)")
	flags.StringVar(&s.backendURL, "backend", "", "backend base URL (overrides config)")
	flags.StringVar(&s.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(
		newUICommand(s),
		newNotesCommand(s),
		newAskCommand(s),
		newIngestCommand(s),
		newHandoffCommand(s),
		newIssueCommand(s),
		newConfigCommand(s),
	)
	return root
}

func (s *session) setup() error {
	cfg, err := s.wiring.loadConfig(s.configPath)
	if err != nil {
		return err
	}
	if url := strings.TrimSpace(s.backendURL); url != "" {
		cfg.Backend.URL = url
	}
	if level := strings.TrimSpace(s.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	s.cfg = cfg
	consoleLevel := logging.Warn
	if strings.TrimSpace(s.logLevel) != "" {
		consoleLevel = logging.ParseLevel(s.logLevel)
	}
	s.logger = logging.NewConsole(s.wiring.stderr, consoleLevel)
	return nil
}

func (s *session) client() (commandClient, error) {
	return s.wiring.newClient(s.cfg, s.logger)
}

func (s *session) workspace(api workspace.API) *workspace.Workspace {
	return workspace.New(api, workspace.Options{
		RequestTimeout: s.cfg.RequestTimeout(),
		ChatTimeout:    s.cfg.ChatTimeout(),
		Logger:         s.logger,
	})
}

func (s *session) openHandoff() (*handoff.Store, error) {
	path, err := s.wiring.handoffPath()
	if err != nil {
		return nil, err
	}
	return handoff.Open(path)
}

func loadConfigFile(path string) (config.Config, error) {
	if strings.TrimSpace(path) == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func readTerminalPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	data, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
