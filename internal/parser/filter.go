package parser

import (
	"regexp"
	"strings"
)

// noticeFilter decides whether a finalized draft is a platform notice.
// Both checks run at flush time against the complete assembled content:
// the sender check catches notices attributed to system-like names, the
// content check catches notice phrasing regardless of sender.
type noticeFilter struct {
	signatures []*regexp.Regexp
}

func newNoticeFilter() noticeFilter {
	return noticeFilter{signatures: noticeSignatures}
}

func (f noticeFilter) suppress(sender, content string) bool {
	if f.noticeSender(sender) {
		return true
	}
	for _, re := range f.signatures {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// noticeSender reports whether the sender name can only belong to the
// platform itself: a known system vocabulary word, a bare phone number,
// a date-shaped token, or a name too short to be a real participant.
func (f noticeFilter) noticeSender(sender string) bool {
	s := strings.TrimSpace(sender)
	if len([]rune(s)) <= 2 {
		return true
	}
	if _, ok := systemSenders[strings.ToLower(s)]; ok {
		return true
	}
	return phoneSenderRe.MatchString(s) || dateSenderRe.MatchString(s)
}
