package parser

import "regexp"

// startPattern identifies the beginning of a new message. Capture groups are
// always (timestamp, sender, first body line). Patterns are tried in slice
// order and the first match wins, which fixes the interpretation of date
// forms that overlap textually.
type startPattern struct {
	name string
	re   *regexp.Regexp
}

func defaultStartPatterns() []startPattern {
	return []startPattern{
		// [18/05/2023, 08:39:07] Sender: body  (iOS-style bracket export)
		{"bracket-seconds", regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}:\d{2})\] ([^:]+): (.+)$`)},
		// 18/05/23, 8:39 AM - Sender: body  (Android meridiem export)
		{"dash-meridiem", regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2} (?:AM|PM|am|pm)) - ([^:]+): (.+)$`)},
		// 18/05/2023, 08:39 - Sender: body  (Android 24h export)
		{"dash-24h", regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}) - ([^:]+): (.+)$`)},
		// Same shape with a 2-or-4 digit year; kept as a separate entry so
		// month/day-first exports fall through to it. Day-first and
		// month-first exports are textually indistinguishable here, so
		// ambiguous dates get a fixed interpretation.
		{"dash-24h-short-year", regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}) - ([^:]+): (.+)$`)},
	}
}

// senderlessNoticeRe matches platform notice lines that carry a timestamp
// but no colon-delimited sender. These are dropped outright: they are not
// message starts and must never be appended to an open draft.
var senderlessNoticeRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2} (?:AM|PM|am|pm) - [^:]*$`)

// timestampLayouts are tried in order against the captured timestamp text
// after meridiem markers have been uppercased. Two-digit years follow Go's
// century inference (69-99 => 19xx, otherwise 20xx).
var timestampLayouts = []string{
	"2/1/2006, 15:04:05", // day/month/year, seconds precision
	"2/1/06, 3:04 PM",    // day/month, 2-digit year, meridiem
	"1/2/06, 3:04 PM",    // month/day, 2-digit year, meridiem
	"1/2/2006, 3:04 PM",  // month/day, 4-digit year, meridiem
	"2/1/2006, 15:04",    // day/month, 4-digit year, 24h
	"1/2/06, 15:04",      // month/day, 2-digit year, 24h
	"1/2/2006, 15:04",    // month/day, 4-digit year, 24h
}

// noticeSignatures flag platform-generated message bodies. Matching is
// case-insensitive and unanchored unless the shape requires a full-line
// match (bare phone numbers, pure dates).
var noticeSignatures = []*regexp.Regexp{
	regexp.MustCompile(`(?i)messages and calls are end-to-end encrypted`),
	regexp.MustCompile(`(?i)created (?:this )?group`),
	regexp.MustCompile(`(?i)joined using .*invite link`),
	regexp.MustCompile(`(?i)\badded you\b`),
	regexp.MustCompile(`(?i)\bremoved you\b`),
	regexp.MustCompile(`(?i)\byou (?:added|removed)\b`),
	regexp.MustCompile(`(?i)\bleft$`),
	regexp.MustCompile(`(?i)security code (?:with .+ )?changed`),
	regexp.MustCompile(`(?i)changed (?:their|your) phone number`),
	regexp.MustCompile(`(?i)changed the (?:group description|subject|group icon)`),
	regexp.MustCompile(`(?i)deleted (?:the group description|this group's icon)`),
	regexp.MustCompile(`(?i)\b(?:now an admin|no longer an admin)\b`),
	regexp.MustCompile(`(?i)reset this group's invite link`),
	regexp.MustCompile(`(?i)only admins can send messages`),
	regexp.MustCompile(`(?i)disappearing messages`),
	regexp.MustCompile(`(?i)auto-delete`),
	regexp.MustCompile(`(?i)business account`),
	regexp.MustCompile(`(?i)verified by whatsapp`),
	regexp.MustCompile(`(?i)missed (?:voice|video) call`),
	regexp.MustCompile(`(?i)call ended`),
	regexp.MustCompile(`(?i)waiting for this message`),
	regexp.MustCompile(`(?i)this message was deleted`),
	regexp.MustCompile(`^\+?[\d\s\-()]{10,20}$`),     // bare phone number body
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),  // body that is only a date
	regexp.MustCompile(`(?i)^(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]* \d{1,2},? \d{4}`),
}

// systemSenders are sender names that only ever appear on platform notices.
var systemSenders = map[string]struct{}{
	"whatsapp":     {},
	"system":       {},
	"notification": {},
	"admin":        {},
	"security":     {},
	"business":     {},
	"verified":     {},
	"group":        {},
	"auto-delete":  {},
	"disappearing": {},
}

var (
	phoneSenderRe = regexp.MustCompile(`^\+?\d{10,15}$`)
	dateSenderRe  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)
)
