package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vishnutej000/memories/internal/chat"
)

type archiveInfo struct {
	ExportedAt    string   `json:"exported_at"`
	TotalMessages int      `json:"total_messages"`
	FirstMessage  string   `json:"first_message,omitempty"`
	LastMessage   string   `json:"last_message,omitempty"`
	Participants  []string `json:"participants"`
}

// Archive renders the filtered message sequence as a ZIP containing
// messages.json and chat_info.json.
func Archive(messages []chat.Message, opts chat.ExportOptions) ([]byte, error) {
	filtered := Filter(messages, opts)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	messagesJSON, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	if err := writeZipEntry(zw, "messages.json", messagesJSON); err != nil {
		return nil, err
	}

	info := archiveInfo{
		ExportedAt:    time.Now().Format(time.RFC3339),
		TotalMessages: len(filtered),
		Participants:  []string{},
	}
	seen := make(map[string]struct{})
	for _, m := range filtered {
		if _, ok := seen[m.Sender]; !ok {
			seen[m.Sender] = struct{}{}
			info.Participants = append(info.Participants, m.Sender)
		}
	}
	if len(filtered) > 0 {
		info.FirstMessage = filtered[0].Timestamp.Format(time.RFC3339)
		info.LastMessage = filtered[len(filtered)-1].Timestamp.Format(time.RFC3339)
	}

	infoJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode chat info: %w", err)
	}
	if err := writeZipEntry(zw, "chat_info.json", infoJSON); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
