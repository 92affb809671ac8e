package chat

import "time"

// MessageType is the coarse content classification assigned during parsing.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeVideo    MessageType = "video"
	TypeAudio    MessageType = "audio"
	TypeFile     MessageType = "file"
	TypeLocation MessageType = "location"
	TypeContact  MessageType = "contact"
)

// Message is a single parsed chat message. Instances are immutable once
// produced by the parser; Content may contain embedded newlines when the
// original message spanned multiple export lines.
type Message struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`

	// Filled in by sentiment analysis after parsing; zero for non-text types.
	SentimentScore float64        `json:"sentiment_score,omitempty"`
	SentimentLabel SentimentLabel `json:"sentiment_label,omitempty"`
}

// MessageList wraps an ordered message page with pagination metadata.
type MessageList struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
	Total    int       `json:"total,omitempty"`
	Page     int       `json:"page,omitempty"`
	Pages    int       `json:"pages,omitempty"`
}
