package chunker

import (
	"fmt"
	"regexp"
)

// Format identifies the chat export layout of an input text.
type Format string

const (
	FormatAuto     Format = ""
	FormatWhatsApp Format = "whatsapp"
	FormatTelegram Format = "telegram"
	FormatGeneric  Format = "generic"
	FormatPlain    Format = "plain"
)

var (
	// whatsappPattern matches lines like "12.05.2024, 14:30 - Anna: Hallo".
	whatsappPattern = regexp.MustCompile(`(?m)(\d{1,2}[./]\d{1,2}[./]\d{2,4},?\s*\d{1,2}:\d{2}(?:\s*[AP]M)?)\s*-\s*([^:\n]+):\s*(.*)`)

	// telegramPattern matches lines like "[12.05.2024 14:30:05] Anna: Hallo".
	telegramPattern = regexp.MustCompile(`(?m)\[(\d{1,2}\.\d{1,2}\.\d{2,4}\s+\d{1,2}:\d{2}(?::\d{2})?)\]\s*([^:\n]+):\s*(.*)`)

	// genericPattern matches bare "Name: text" lines with no timestamp.
	genericPattern = regexp.MustCompile(`(?m)^([^:\n]+):\s*(.*)`)
)

// ParseFormat resolves a user-supplied format name. "auto" and the empty
// string both request detection.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatAuto, Format("auto"):
		return FormatAuto, nil
	case FormatWhatsApp, FormatTelegram, FormatGeneric, FormatPlain:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("unknown transcript format %q", raw)
	}
}

// DetectFormat probes the text against the known chat layouts, most specific
// first.
func DetectFormat(text string) Format {
	switch {
	case whatsappPattern.MatchString(text):
		return FormatWhatsApp
	case telegramPattern.MatchString(text):
		return FormatTelegram
	case genericPattern.MatchString(text):
		return FormatGeneric
	default:
		return FormatPlain
	}
}

func patternFor(format Format) *regexp.Regexp {
	switch format {
	case FormatWhatsApp:
		return whatsappPattern
	case FormatTelegram:
		return telegramPattern
	case FormatGeneric:
		return genericPattern
	default:
		return nil
	}
}
