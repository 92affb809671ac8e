package parser

import (
	"strings"

	"github.com/vishnutej000/memories/internal/chat"
)

const mediaPlaceholder = "<media omitted>"

// classifyContent assigns a coarse content type to a finalized message
// body. Checks run in precedence order and the first hit wins.
func classifyContent(content string) chat.MessageType {
	lower := strings.ToLower(content)

	if strings.Contains(lower, mediaPlaceholder) {
		switch {
		case containsAny(lower, "image", "photo", "picture"):
			return chat.TypeImage
		case containsAny(lower, "video", "movie", "clip"):
			return chat.TypeVideo
		case containsAny(lower, "audio", "voice", "sound"):
			return chat.TypeAudio
		default:
			return chat.TypeFile
		}
	}

	// Links stay text.
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return chat.TypeText
	}

	if containsAny(lower, "location", "latitude", "longitude") {
		return chat.TypeLocation
	}

	if strings.Contains(lower, "contact") && strings.Contains(lower, "card") {
		return chat.TypeContact
	}

	return chat.TypeText
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
