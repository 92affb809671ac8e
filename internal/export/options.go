package export

import "github.com/vishnutej000/memories/internal/chat"

// Filter applies the export option set to a message sequence: optional
// date-range bounds and media exclusion. Order is preserved.
func Filter(messages []chat.Message, opts chat.ExportOptions) []chat.Message {
	out := make([]chat.Message, 0, len(messages))
	for _, m := range messages {
		if opts.StartDate != nil && m.Timestamp.Before(*opts.StartDate) {
			continue
		}
		if opts.EndDate != nil && m.Timestamp.After(*opts.EndDate) {
			continue
		}
		if !opts.IncludeMedia && m.IsMedia() {
			continue
		}
		out = append(out, m)
	}
	return out
}
