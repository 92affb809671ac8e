package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vishnutej000/memories/internal/chat"
)

// ErrNotFound is returned when a chat id has no row.
var ErrNotFound = errors.New("chat not found")

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA busy_timeout = 5000;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS chats (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    filename       TEXT NOT NULL,
    is_group_chat  INTEGER NOT NULL DEFAULT 0,
    participants   TEXT NOT NULL DEFAULT '[]',
    message_count  INTEGER NOT NULL DEFAULT 0,
    first_message  TEXT NOT NULL DEFAULT '',
    last_message   TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id              TEXT PRIMARY KEY,
    chat_id         TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
    seq             INTEGER NOT NULL,
    timestamp       TEXT NOT NULL,
    sender          TEXT NOT NULL,
    content         TEXT NOT NULL,
    message_type    TEXT NOT NULL DEFAULT 'text',
    sentiment_score REAL NOT NULL DEFAULT 0,
    sentiment_label TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_messages_chat_seq ON messages(chat_id, seq);
`

const timeLayout = time.RFC3339

// Store persists chats and their parsed messages in an embedded sqlite
// database.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and applies
// the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveChat stores the chat row and all its messages in one transaction.
// Message order is preserved through an explicit sequence column.
func (s *Store) SaveChat(ctx context.Context, c chat.Chat, messages []chat.Message) error {
	participants, err := json.Marshal(c.Participants)
	if err != nil {
		return fmt.Errorf("encode participants: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chats (id, title, filename, is_group_chat, participants,
			message_count, first_message, last_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Filename, boolToInt(c.IsGroup), string(participants),
		c.MessageCount, c.FirstMessage.Format(timeLayout),
		c.LastMessage.Format(timeLayout), c.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (id, chat_id, seq, timestamp, sender, content,
			message_type, sentiment_score, sentiment_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range messages {
		_, err := stmt.ExecContext(ctx, m.ID, c.ID, i,
			m.Timestamp.Format(timeLayout), m.Sender, m.Content,
			string(m.Type), m.SentimentScore, string(m.SentimentLabel))
		if err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListChats returns all stored chats, newest first.
func (s *Store) ListChats(ctx context.Context) ([]chat.Chat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, filename, is_group_chat, participants,
			message_count, first_message, last_message, created_at
		FROM chats ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []chat.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetChat returns one chat by id, or ErrNotFound.
func (s *Store) GetChat(ctx context.Context, id string) (chat.Chat, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, filename, is_group_chat, participants,
			message_count, first_message, last_message, created_at
		FROM chats WHERE id = ?`, id)
	c, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Chat{}, ErrNotFound
	}
	return c, err
}

// Messages returns one page of a chat's messages in parse order, with
// pagination metadata. Page numbers start at 1.
func (s *Store) Messages(ctx context.Context, chatID string, page, perPage int) (chat.MessageList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	if _, err := s.GetChat(ctx, chatID); err != nil {
		return chat.MessageList{}, err
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chatID).Scan(&total)
	if err != nil {
		return chat.MessageList{}, fmt.Errorf("count messages: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, sender, content, message_type,
			sentiment_score, sentiment_label
		FROM messages WHERE chat_id = ?
		ORDER BY seq LIMIT ? OFFSET ?`,
		chatID, perPage, (page-1)*perPage)
	if err != nil {
		return chat.MessageList{}, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return chat.MessageList{}, err
	}

	pages := (total + perPage - 1) / perPage
	return chat.MessageList{
		Messages: messages,
		Count:    len(messages),
		Total:    total,
		Page:     page,
		Pages:    pages,
	}, nil
}

// AllMessages returns every message of a chat in parse order.
func (s *Store) AllMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, sender, content, message_type,
			sentiment_score, sentiment_label
		FROM messages WHERE chat_id = ? ORDER BY seq`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// DeleteChat removes a chat and, via the cascade, its messages.
func (s *Store) DeleteChat(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (chat.Chat, error) {
	var c chat.Chat
	var isGroup int
	var participants, first, last, created string
	err := row.Scan(&c.ID, &c.Title, &c.Filename, &isGroup, &participants,
		&c.MessageCount, &first, &last, &created)
	if err != nil {
		return chat.Chat{}, err
	}
	c.IsGroup = isGroup != 0
	if err := json.Unmarshal([]byte(participants), &c.Participants); err != nil {
		return chat.Chat{}, fmt.Errorf("decode participants: %w", err)
	}
	if c.FirstMessage, err = time.Parse(timeLayout, first); err != nil {
		return chat.Chat{}, fmt.Errorf("decode first_message: %w", err)
	}
	if c.LastMessage, err = time.Parse(timeLayout, last); err != nil {
		return chat.Chat{}, fmt.Errorf("decode last_message: %w", err)
	}
	if c.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return chat.Chat{}, fmt.Errorf("decode created_at: %w", err)
	}
	return c, nil
}

func scanMessages(rows *sql.Rows) ([]chat.Message, error) {
	var messages []chat.Message
	for rows.Next() {
		var m chat.Message
		var ts, typ, label string
		err := rows.Scan(&m.ID, &ts, &m.Sender, &m.Content, &typ,
			&m.SentimentScore, &label)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("decode message timestamp: %w", err)
		}
		m.Type = chat.MessageType(typ)
		m.SentimentLabel = chat.SentimentLabel(label)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
