package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"scribe/internal/types"
)

const maxTitleWidth = 60

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type noteSummary struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

func summarizeNotes(notes []types.Note) []noteSummary {
	out := make([]noteSummary, 0, len(notes))
	for _, note := range notes {
		summary := noteSummary{ID: note.ID, Title: note.DisplayTitle()}
		if !note.CreatedAt.IsZero() {
			summary.CreatedAt = note.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, summary)
	}
	return out
}

func printNotes(output io.Writer, notes []types.Note, dateFormat string) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tCREATED\tTITLE")
	for _, note := range notes {
		created := "-"
		if !note.CreatedAt.IsZero() {
			created = note.CreatedAt.Local().Format(dateFormat)
		}
		title := runewidth.Truncate(note.DisplayTitle(), maxTitleWidth, "…")
		fmt.Fprintf(writer, "%d\t%s\t%s\n", note.ID, created, title)
	}
	_ = writer.Flush()
}

func resolveOutputFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", outputText:
		return outputText, nil
	case outputJSON:
		return outputJSON, nil
	case outputYAML, "yml":
		return outputYAML, nil
	default:
		return "", errors.New("invalid output format: must be text, json or yaml")
	}
}

func writeStructured(out io.Writer, format string, payload any) error {
	switch format {
	case outputJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case outputYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(payload); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func parseNoteID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", raw)
	}
	return id, nil
}

// promptYesNo reads one line from in; only y or yes confirms.
func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func exitOnErr(err error, stderr io.Writer) {
	if err == nil {
		return
	}
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(stderr, "error: ")
	fmt.Fprintln(stderr, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}
	return "dev"
}
