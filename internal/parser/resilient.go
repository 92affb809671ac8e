package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vishnutej000/memories/internal/chat"
)

// ResilientParser tries an ordered list of engines against the same input,
// moving to the next engine only when the previous one reports an error.
// Soft-degraded output (fallback timestamps, filtered messages) is still a
// success and stops the chain.
type ResilientParser struct {
	engines []Engine
}

// NewResilient builds the default chain: the strict engine first, the
// lenient single-pattern engine as fallback.
func NewResilient(engines ...Engine) *ResilientParser {
	if len(engines) == 0 {
		engines = []Engine{New(), NewLenient()}
	}
	return &ResilientParser{engines: engines}
}

// ParseFile parses path with the first engine that succeeds. Each engine
// gets a fresh read of the file.
func (rp *ResilientParser) ParseFile(path string) ([]chat.Message, error) {
	var errs []error
	for _, eng := range rp.engines {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open transcript: %w", err)
		}
		messages, err := eng.Parse(f)
		f.Close()
		if err == nil {
			return messages, nil
		}
		log.Warn().Str("engine", eng.Name()).Err(err).Msg("parse engine failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", eng.Name(), err))
	}
	return nil, errors.Join(errs...)
}

// Parse parses an in-memory transcript with the first engine that succeeds.
func (rp *ResilientParser) Parse(data []byte) ([]chat.Message, error) {
	var errs []error
	for _, eng := range rp.engines {
		messages, err := eng.Parse(bytes.NewReader(data))
		if err == nil {
			return messages, nil
		}
		log.Warn().Str("engine", eng.Name()).Err(err).Msg("parse engine failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", eng.Name(), err))
	}
	return nil, errors.Join(errs...)
}

// LenientParser is the fallback engine: a single bracket-form pattern with
// continuation handling and no notice filtering. It accepts inputs the
// strict engine could not read and mirrors the shape the strict engine
// produces for well-formed bracket exports.
type LenientParser struct {
	now   func() time.Time
	newID func() string
}

func NewLenient() *LenientParser {
	return &LenientParser{
		now:   time.Now,
		newID: func() string { return "msg_" + uuid.NewString() },
	}
}

func (p *LenientParser) Name() string { return "lenient" }

func (p *LenientParser) Parse(r io.Reader) ([]chat.Message, error) {
	bracketRe := defaultStartPatterns()[0].re

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var messages []chat.Message
	var open *draft

	flush := func() {
		if open == nil {
			return
		}
		content := open.content.String()
		messages = append(messages, chat.Message{
			ID:        p.newID(),
			Timestamp: open.timestamp,
			Sender:    open.sender,
			Content:   content,
			Type:      classifyContent(content),
		})
		open = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := bracketRe.FindStringSubmatch(line); m != nil {
			flush()
			ts, err := time.Parse("2/1/2006, 15:04:05", m[1])
			if err != nil {
				log.Warn().Str("timestamp", m[1]).Msg("unparseable timestamp, using current time")
				ts = p.now()
			}
			d := &draft{sender: strings.TrimSpace(m[2]), timestamp: ts}
			d.content.WriteString(m[3])
			open = d
		} else if open != nil {
			open.content.WriteString("\n")
			open.content.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	flush()
	return messages, nil
}
