package chat

import "time"

// Chat is the stored metadata for one imported transcript.
type Chat struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	IsGroup      bool      `json:"is_group_chat"`
	Participants []string  `json:"participants"`
	MessageCount int       `json:"message_count"`
	FirstMessage time.Time `json:"first_message_date"`
	LastMessage  time.Time `json:"last_message_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// SentimentLabel is the three-way classification of a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SentimentScore pairs a bounded compound score with its label.
type SentimentScore struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// DailySentiment is the aggregate sentiment for one calendar day.
type DailySentiment struct {
	Date         string         `json:"date"`
	Sentiment    SentimentScore `json:"sentiment"`
	MessageCount int            `json:"message_count"`
}

// SentimentAnalysis is the full sentiment report for a chat.
type SentimentAnalysis struct {
	Overall SentimentScore   `json:"overall"`
	Daily   []DailySentiment `json:"daily"`
}

// KeywordItem is one ranked token with its frequency.
type KeywordItem struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// KeywordAnalysis holds the ranked keyword list.
type KeywordAnalysis struct {
	Keywords   []KeywordItem `json:"keywords"`
	TotalWords int           `json:"total_words"`
}

// SenderCount is the message tally for one participant.
type SenderCount struct {
	Sender     string  `json:"user"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DayCount is the message tally for one weekday name.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// HourCount is the message tally for one hour of the day.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DateRange marks the first and last message days as YYYY-MM-DD strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Statistics is the aggregate histogram report for a chat.
type Statistics struct {
	TotalMessages int           `json:"total_messages"`
	DateRange     DateRange     `json:"date_range"`
	BySender      []SenderCount `json:"message_count_by_user"`
	ByDay         []DayCount    `json:"message_count_by_day"`
	ByHour        []HourCount   `json:"message_count_by_hour"`
	AveragePerDay float64       `json:"average_messages_per_day"`
	BusiestDay    string        `json:"busiest_day"`
	QuietestDay   string        `json:"quietest_day"`
	BusiestHour   int           `json:"busiest_hour"`
}

// ExportOptions controls date filtering and media inclusion for exports.
type ExportOptions struct {
	IncludeMedia bool       `json:"include_media"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// IsMedia reports whether the message carries a media placeholder rather
// than conversational text.
func (m Message) IsMedia() bool {
	switch m.Type {
	case TypeImage, TypeVideo, TypeAudio, TypeFile:
		return true
	}
	return false
}
