package export

import (
	"bytes"
	"fmt"

	"github.com/vishnutej000/memories/internal/chat"
)

// Text renders the filtered message sequence as a plain transcript, one
// block per message, in the bracketed export shape.
func Text(messages []chat.Message, opts chat.ExportOptions) []byte {
	var buf bytes.Buffer
	for _, m := range Filter(messages, opts) {
		fmt.Fprintf(&buf, "[%s] %s: %s\n",
			m.Timestamp.Format("02/01/2006, 15:04:05"), m.Sender, m.Content)
	}
	return buf.Bytes()
}
