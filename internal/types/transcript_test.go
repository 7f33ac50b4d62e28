package types

import "testing"

func TestParseTranscriptSplitsSpeakerLines(t *testing.T) {
	lines := ParseTranscript("[00:01] [Speaker 1]: hello there\r\n[00:05] [Speaker 2]: hi\nfree text line\n   \n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %#v", len(lines), lines)
	}
	if lines[0].Timestamp != "00:01" || lines[0].Speaker != "Speaker 1" || lines[0].Text != "hello there" {
		t.Fatalf("unexpected first line: %#v", lines[0])
	}
	if lines[1].Speaker != "Speaker 2" || lines[1].Text != "hi" {
		t.Fatalf("unexpected second line: %#v", lines[1])
	}
	if lines[2].Timestamp != "" || lines[2].Speaker != "" || lines[2].Text != "free text line" {
		t.Fatalf("expected fallback line, got %#v", lines[2])
	}
}

func TestParseTranscriptKeepsParagraphBreaks(t *testing.T) {
	lines := ParseTranscript("\n\nFirst paragraph.\n\n \n\nSecond paragraph.\n[00:05] [Ana]: hi\n\n")
	want := []TranscriptLine{
		{Text: "First paragraph."},
		{},
		{Text: "Second paragraph."},
		{Timestamp: "00:05", Speaker: "Ana", Text: "hi"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %#v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %#v, want %#v", i, lines[i], want[i])
		}
	}
	if !lines[1].IsBreak() || lines[0].IsBreak() {
		t.Fatalf("expected only the second entry to be a break")
	}
}

func TestParseTranscriptEmpty(t *testing.T) {
	if got := ParseTranscript(""); len(got) != 0 {
		t.Fatalf("expected no lines, got %#v", got)
	}
}

func TestNoteDisplayTitleFallsBack(t *testing.T) {
	if got := (Note{Title: "  "}).DisplayTitle(); got != "Untitled" {
		t.Fatalf("expected Untitled, got %q", got)
	}
	if got := (Note{Title: " Standup "}).DisplayTitle(); got != "Standup" {
		t.Fatalf("expected trimmed title, got %q", got)
	}
}
