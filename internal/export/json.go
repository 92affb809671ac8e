package export

import (
	"encoding/json"
	"fmt"

	"github.com/vishnutej000/memories/internal/chat"
)

// JSON renders the filtered message sequence as an indented JSON array.
func JSON(messages []chat.Message, opts chat.ExportOptions) ([]byte, error) {
	filtered := Filter(messages, opts)
	data, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	return data, nil
}
