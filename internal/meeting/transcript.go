package meeting

import "strings"

// Segment is a time-aligned slice of transcribed speech.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the transcription stage payload.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// PlainText returns the transcript text, rebuilding it from segments when the
// top-level text is empty.
func (t Transcript) PlainText() string {
	if strings.TrimSpace(t.Text) != "" {
		return t.Text
	}
	return SegmentedText(t.Segments).PlainText()
}

// TranscriptInput is the closed set of transcript shapes accepted at the
// analysis boundary. Each variant normalizes itself to plain text exactly
// once; downstream code only ever sees the normalized string.
type TranscriptInput interface {
	PlainText() string
}

// PlainText is a raw transcript string.
type PlainText string

func (p PlainText) PlainText() string { return string(p) }

// SegmentedText is a transcript delivered as time-aligned segments.
type SegmentedText []Segment

func (s SegmentedText) PlainText() string {
	parts := make([]string, 0, len(s))
	for _, segment := range s {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// AlternativesText is a transcript delivered as per-utterance alternative
// lists; the first non-empty alternative of each utterance wins.
type AlternativesText [][]string

func (a AlternativesText) PlainText() string {
	parts := make([]string, 0, len(a))
	for _, alternatives := range a {
		for _, alt := range alternatives {
			if text := strings.TrimSpace(alt); text != "" {
				parts = append(parts, text)
				break
			}
		}
	}
	return strings.Join(parts, " ")
}
