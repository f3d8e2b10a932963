package chunker

import (
	"strings"
	"time"
)

// message is a single parsed utterance before grouping.
type message struct {
	Speaker   string
	Text      string
	Timestamp time.Time
	StartPos  int
	EndPos    int
}

// timestampLayouts are tried in order when parsing chat timestamps. The
// formats cover German, US, and ISO exports.
var timestampLayouts = []string{
	"2.1.2006, 15:04",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2.1.06, 15:04",
	"2.1.06 15:04",
	"2/1/2006, 15:04",
	"2/1/2006 15:04",
	"1/2/2006 15:04",
	"2/1/06, 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts all known layouts and reports whether any matched.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseMessages extracts messages from text using the given format's line
// pattern. Continuation lines between two message headers belong to the
// earlier message. Unparseable timestamps are reported as issues but do not
// drop the message.
func parseMessages(text string, format Format) ([]message, []string) {
	pattern := patternFor(format)
	if pattern == nil {
		return nil, nil
	}

	locs := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	hasTimestamp := format == FormatWhatsApp || format == FormatTelegram

	var issues []string
	messages := make([]message, 0, len(locs))
	for i, loc := range locs {
		groups := submatches(text, loc)

		var speaker, body, rawTS string
		if hasTimestamp {
			rawTS, speaker, body = groups[0], groups[1], groups[2]
		} else {
			speaker, body = groups[0], groups[1]
		}

		var ts time.Time
		if rawTS != "" {
			parsed, ok := parseTimestamp(rawTS)
			if !ok {
				issues = append(issues, "unparseable timestamp: "+rawTS)
			} else {
				ts = parsed
			}
		}

		// Everything up to the next header is a continuation of this
		// message.
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if tail := strings.TrimSpace(text[loc[1]:end]); tail != "" {
			body = body + "\n" + tail
		}

		messages = append(messages, message{
			Speaker:   strings.TrimSpace(speaker),
			Text:      strings.TrimSpace(body),
			Timestamp: ts,
			StartPos:  loc[0],
			EndPos:    end,
		})
	}
	return messages, issues
}

// submatches returns the trimmed capture groups for a FindAllSubmatchIndex
// location.
func submatches(text string, loc []int) []string {
	groups := make([]string, 0, len(loc)/2-1)
	for g := 2; g < len(loc); g += 2 {
		if loc[g] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, text[loc[g]:loc[g+1]])
	}
	return groups
}
