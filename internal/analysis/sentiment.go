package analysis

import (
	"sort"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/vishnutej000/memories/internal/chat"
)

// Scorer rates a piece of text on a bounded [-1, 1] scale.
type Scorer interface {
	Score(text string) float64
}

// Positive at or above this, negative at or below the mirror, else neutral.
const sentimentThreshold = 0.05

// Label converts a bounded score into its three-way classification.
func Label(score float64) chat.SentimentLabel {
	switch {
	case score >= sentimentThreshold:
		return chat.SentimentPositive
	case score <= -sentimentThreshold:
		return chat.SentimentNegative
	default:
		return chat.SentimentNeutral
	}
}

// VaderScorer rates text with the VADER valence model; Score returns the
// compound score, already normalized onto [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer builds a scorer over VADER's built-in English lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Score(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}

// AnalyzeSentiment groups text messages by calendar day, scores each day's
// combined text, and averages the daily scores for the overall result.
// Non-text messages carry no scoreable content and are skipped.
func AnalyzeSentiment(messages []chat.Message, scorer Scorer) chat.SentimentAnalysis {
	byDay := make(map[string][]chat.Message)
	for _, m := range messages {
		if m.Type != chat.TypeText {
			continue
		}
		day := m.Timestamp.Format("2006-01-02")
		byDay[day] = append(byDay[day], m)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	daily := make([]chat.DailySentiment, 0, len(days))
	var total float64
	for _, day := range days {
		parts := make([]string, 0, len(byDay[day]))
		for _, m := range byDay[day] {
			parts = append(parts, m.Content)
		}
		score := scorer.Score(strings.Join(parts, " "))
		total += score
		daily = append(daily, chat.DailySentiment{
			Date:         day,
			Sentiment:    chat.SentimentScore{Score: score, Label: Label(score)},
			MessageCount: len(byDay[day]),
		})
	}

	var overall float64
	if len(daily) > 0 {
		overall = total / float64(len(daily))
	}
	return chat.SentimentAnalysis{
		Overall: chat.SentimentScore{Score: overall, Label: Label(overall)},
		Daily:   daily,
	}
}

// ScoreMessage rates a single message; non-text messages are neutral.
func ScoreMessage(m chat.Message, scorer Scorer) chat.SentimentScore {
	if m.Type != chat.TypeText {
		return chat.SentimentScore{Score: 0, Label: chat.SentimentNeutral}
	}
	score := scorer.Score(m.Content)
	return chat.SentimentScore{Score: score, Label: Label(score)}
}
