package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/client"
	"scribe/internal/handoff"
	"scribe/internal/logging"
)

func newIngestCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Transcribe a recording into a new note",
	}
	cmd.AddCommand(newIngestAudioCommand(s), newIngestYouTubeCommand(s))
	return cmd
}

func newIngestAudioCommand(s *session) *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "audio <file>",
		Short: "Upload an audio file for transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if strings.TrimSpace(contentType) == "" {
				contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
			}
			if !strings.HasPrefix(contentType, "audio/") {
				return fmt.Errorf("%s: %w", path, client.ErrUnsupportedMedia)
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			api, err := s.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "transcribing "+filepath.Base(path)+"...")
			resp, err := api.AnalyzeAudio(cmd.Context(), filepath.Base(path), contentType, file)
			if err != nil {
				return fmt.Errorf("transcribe %s: %w", path, err)
			}
			return s.finishIngest(cmd, resp, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), "audio")
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "audio MIME type (default guessed from the extension)")
	return cmd
}

func newIngestYouTubeCommand(s *session) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "youtube <url>",
		Short: "Transcribe the audio of a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if !client.ValidYouTubeURL(url) {
				return fmt.Errorf("%q: %w", url, client.ErrInvalidYouTubeURL)
			}
			api, err := s.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "downloading and transcribing...")
			resp, err := api.DownloadFromYouTube(cmd.Context(), url, title)
			if err != nil {
				return fmt.Errorf("transcribe %s: %w", url, err)
			}
			return s.finishIngest(cmd, resp, title, "youtube")
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title for the new note")
	return cmd
}

// finishIngest prints the transcript and leaves it in the handoff store for
// the next chat session.
func (s *session) finishIngest(cmd *cobra.Command, resp *client.AnalysisResponse, title, source string) error {
	if resp == nil {
		return fmt.Errorf("empty response from backend")
	}
	out := cmd.OutOrStdout()
	if resp.TranscriptID > 0 {
		fmt.Fprintf(out, "saved as note %d\n\n", resp.TranscriptID)
	}
	fmt.Fprintln(out, strings.TrimRight(resp.Transcript, "\n"))

	store, err := s.openHandoff()
	if err != nil {
		s.logger.Warn("handoff unavailable", logging.Err(err))
		return nil
	}
	defer store.Close()
	err = store.Put(cmd.Context(), handoff.Entry{
		Transcript:   resp.Transcript,
		Title:        title,
		Source:       source,
		TranscriptID: resp.TranscriptID,
	})
	if err != nil && !errors.Is(err, handoff.ErrEmptyTranscript) {
		s.logger.Warn("handoff write failed", logging.Err(err))
	}
	return nil
}
