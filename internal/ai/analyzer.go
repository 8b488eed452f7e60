// Package ai contains the assistant features: local analysis of a user's
// notes (pure aggregation, no external calls) and the client for the Gemini
// generative API.  The analyzer always works; the generative endpoints
// require an API key.
package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stickyboard/sticky-board/internal/model"
)

// topWordCount caps the word-frequency table in a scan report.
const topWordCount = 20

// minWordLen filters filler words out of the word cloud.
const minWordLen = 4

// WordCount is one entry of the word-frequency table, ordered by count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// NoteSummary is the trimmed note shape embedded in scan reports.
type NoteSummary struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	Username  string `json:"username"`
	Done      bool   `json:"done"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
	BoardType string `json:"boardType,omitempty"`
}

// ScanReport aggregates a set of notes: counts by completion state, notes
// needing attention, a word-frequency table over note bodies, keyword-based
// category buckets and template insights.
type ScanReport struct {
	TotalNotes     int            `json:"totalNotes"`
	CompletedNotes int            `json:"completedNotes"`
	ActiveNotes    int            `json:"activeNotes"`
	OldNotes       []NoteSummary  `json:"oldNotes"`
	WordCloud      []WordCount    `json:"wordCloud"`
	Categories     map[string]int `json:"categories"`
	Insights       []string       `json:"productivityInsights"`
	ScanTime       int64          `json:"scanTime"`
	ScanTimestamp  string         `json:"scanTimestamp"`
}

// categoryKeywords buckets notes into a fixed category set by substring
// match; the first matching bucket wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"meetings", []string{"meeting", "call", "appointment"}},
	{"shopping", []string{"buy", "purchase", "shop"}},
	{"work", []string{"project", "task", "work"}},
	{"personal", []string{"personal", "home", "family"}},
}

// Scan analyzes the given notes and produces a report.  staleAfter bounds
// the "needs attention" window: an active note older than that counts as
// old.  Notes without timestamps are treated as old when still active.
func Scan(notes []*model.Note, staleAfter time.Duration) *ScanReport {
	start := time.Now()
	r := &ScanReport{
		OldNotes:   []NoteSummary{},
		WordCloud:  []WordCount{},
		Categories: map[string]int{},
		Insights:   []string{},
	}
	r.TotalNotes = len(notes)

	cutoff := start.Add(-staleAfter)
	words := map[string]int{}

	for _, n := range notes {
		if n.Done() {
			r.CompletedNotes++
		} else {
			r.ActiveNotes++
			if n.CreatedAt.IsZero() || n.CreatedAt.Before(cutoff) {
				r.OldNotes = append(r.OldNotes, NoteSummary{
					ID:       n.ID,
					Content:  n.Content,
					Username: n.Username,
					Done:     false,
				})
			}
		}

		body := strings.ToLower(n.Content)
		for _, w := range strings.Fields(body) {
			if len(w) >= minWordLen {
				words[w]++
			}
		}
		for _, cat := range categoryKeywords {
			if containsAny(body, cat.keywords) {
				r.Categories[cat.name]++
				break
			}
		}
	}

	r.WordCloud = topWords(words, topWordCount)
	r.Insights = insights(r)
	r.ScanTime = time.Since(start).Milliseconds()
	r.ScanTimestamp = start.UTC().Format(time.RFC3339)
	return r
}

// OldNotes returns the active notes that still need attention, in the shape
// the assistant endpoints serve.
func OldNotes(notes []*model.Note, staleAfter time.Duration) []NoteSummary {
	cutoff := time.Now().Add(-staleAfter)
	out := []NoteSummary{}
	for _, n := range notes {
		if n.Done() {
			continue
		}
		if !n.CreatedAt.IsZero() && !n.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, NoteSummary{
			ID:        n.ID,
			Content:   n.Content,
			Username:  n.Username,
			Done:      false,
			IsPrivate: n.IsPrivate,
			BoardType: n.BoardType,
		})
	}
	return out
}

// Suggestions produces heuristic, non-generative suggestions from a note
// set.  It mirrors the advice the generative path gives when no API key is
// configured.
func Suggestions(notes []*model.Note) []string {
	if len(notes) == 0 {
		return []string{
			"Start by creating your first note!",
			"Consider setting up daily reminders",
			"Try organizing notes by categories",
		}
	}
	var out []string
	incomplete := 0
	hasMeeting := false
	for _, n := range notes {
		if !n.Done() {
			incomplete++
		}
		if strings.Contains(strings.ToLower(n.Content), "meeting") {
			hasMeeting = true
		}
	}
	if incomplete > 5 {
		out = append(out, fmt.Sprintf("You have %d incomplete tasks. Consider prioritizing them.", incomplete))
	}
	if hasMeeting {
		out = append(out, "Consider adding meeting follow-up tasks")
	}
	out = append(out,
		"Review and update your notes regularly",
		"Consider breaking down large tasks into smaller ones")
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func topWords(counts map[string]int, limit int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func insights(r *ScanReport) []string {
	out := []string{}
	if r.TotalNotes == 0 {
		return out
	}
	rate := float64(r.CompletedNotes) / float64(r.TotalNotes) * 100
	out = append(out, fmt.Sprintf("Completion rate: %.1f%%", rate))
	if len(r.OldNotes) > 0 {
		out = append(out, fmt.Sprintf("%d notes need attention", len(r.OldNotes)))
	}
	if r.TotalNotes > 10 {
		out = append(out, fmt.Sprintf("High activity: %d total notes", r.TotalNotes))
	}
	if len(r.Categories) > 0 {
		top, best := "", -1
		for name, c := range r.Categories {
			if c > best || (c == best && name < top) {
				top, best = name, c
			}
		}
		out = append(out, "Most active category: "+top)
	}
	return out
}
