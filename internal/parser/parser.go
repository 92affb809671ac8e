package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vishnutej000/memories/internal/chat"
)

const maxLineSize = 1024 * 1024

// Engine parses one transcript stream into an ordered message sequence.
// A returned error means the input itself could not be read; malformed
// lines never fail the parse.
type Engine interface {
	Name() string
	Parse(r io.Reader) ([]chat.Message, error)
}

// Parser is the strict transcript engine. It is a single-pass line scanner:
// each line either starts a new message (one of the start patterns matches),
// continues the currently open draft, or is dropped. Drafts are filtered
// against the system-notice tables when they are flushed, so a notice phrase
// arriving on a continuation line still suppresses the whole message.
//
// A Parser holds only immutable pattern tables and is safe for concurrent
// use; each Parse call owns its own scanner state.
type Parser struct {
	patterns []startPattern
	filter   noticeFilter
	now      func() time.Time
	newID    func() string
}

// New creates a strict parser with the default pattern tables.
func New() *Parser {
	return &Parser{
		patterns: defaultStartPatterns(),
		filter:   newNoticeFilter(),
		now:      time.Now,
		newID:    func() string { return "msg_" + uuid.NewString() },
	}
}

func (p *Parser) Name() string { return "strict" }

// ParseFile opens and parses a transcript file.
func (p *Parser) ParseFile(path string) ([]chat.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// draft is the single in-progress message owned by the scan loop.
type draft struct {
	sender    string
	timestamp time.Time
	content   strings.Builder
}

// Parse scans r line by line and returns the ordered message sequence.
// The only error returned is a failure to read the input; unmatched lines
// are dropped and filtered drafts are silently discarded.
func (p *Parser) Parse(r io.Reader) ([]chat.Message, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var messages []chat.Message
	var open *draft

	flush := func() {
		if open == nil {
			return
		}
		if msg, ok := p.finalize(open); ok {
			messages = append(messages, msg)
		}
		open = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Timestamped lines with no colon-delimited sender are platform
		// notices; they neither start a message nor continue one.
		if senderlessNoticeRe.MatchString(line) {
			continue
		}

		if ts, sender, body, ok := p.matchStart(line); ok {
			flush()
			d := &draft{sender: strings.TrimSpace(sender), timestamp: p.normalizeTimestamp(ts)}
			d.content.WriteString(body)
			open = d
			continue
		}

		if open != nil {
			open.content.WriteString("\n")
			open.content.WriteString(line)
		}
		// No open draft: a continuation of nothing, dropped.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	flush()
	return messages, nil
}

// matchStart tries the start patterns in table order and returns the first
// match's captured (timestamp, sender, body).
func (p *Parser) matchStart(line string) (ts, sender, body string, ok bool) {
	for _, sp := range p.patterns {
		if m := sp.re.FindStringSubmatch(line); m != nil {
			return m[1], m[2], m[3], true
		}
	}
	return "", "", "", false
}

// finalize converts an accumulated draft into a Message, applying the
// notice filter against the complete joined content. The second return is
// false when the draft is suppressed.
func (p *Parser) finalize(d *draft) (chat.Message, bool) {
	content := d.content.String()
	if p.filter.suppress(d.sender, content) {
		return chat.Message{}, false
	}
	return chat.Message{
		ID:        p.newID(),
		Timestamp: d.timestamp,
		Sender:    d.sender,
		Content:   content,
		Type:      classifyContent(content),
	}, true
}

// normalizeTimestamp converts captured timestamp text to a point in time,
// trying the layout table in order. Lowercase meridiem markers are
// uppercased first so "am"/"pm" inputs parse uniformly. If nothing matches,
// the parse degrades to the current wall-clock time rather than failing.
func (p *Parser) normalizeTimestamp(raw string) time.Time {
	text := strings.NewReplacer("am", "AM", "pm", "PM").Replace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	log.Warn().Str("timestamp", raw).Msg("unparseable timestamp, using current time")
	return p.now()
}
