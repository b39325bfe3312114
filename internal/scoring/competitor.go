package scoring

import (
	"fmt"
	"strings"
)

const (
	competitorComplaintScore = 10
	competitorMentionScore   = 6
)

// CompetitorSignal describes a competitor mention found in text
type CompetitorSignal struct {
	Competitor string
	Complaint  bool
	Score      int
}

// Found reports whether any competitor was mentioned
func (s CompetitorSignal) Found() bool { return s.Competitor != "" }

// NoteTag is the tag appended to lead notes for competitor leads
func (s CompetitorSignal) NoteTag() string {
	if !s.Found() {
		return ""
	}
	kind := "competitor_mention"
	if s.Complaint {
		kind = "competitor_complaint"
	}
	return fmt.Sprintf("[%s:%s]", kind, s.Competitor)
}

// Competitor looks for the first configured competitor in text. A complaint
// phrase next to the mention makes it a hot lead.
func (e *Engine) Competitor(text string) CompetitorSignal {
	lower := strings.ToLower(text)
	for _, name := range e.competitors {
		if name == "" {
			continue
		}
		if !strings.Contains(lower, strings.ToLower(name)) {
			continue
		}
		if containsAny(lower, e.complaints) {
			return CompetitorSignal{Competitor: name, Complaint: true, Score: competitorComplaintScore}
		}
		return CompetitorSignal{Competitor: name, Score: competitorMentionScore}
	}
	return CompetitorSignal{}
}
