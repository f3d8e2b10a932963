package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"chatmark/internal/matcher"
)

const (
	ansiReset   = "\x1b[0m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiRed     = "\x1b[31m"
	ansiMagenta = "\x1b[35m"
)

// renderRiskHeadline prints the overall risk verdict, colorized when the
// writer is a terminal.
func renderRiskHeadline(out io.Writer, level matcher.RiskLevel) {
	line := "Overall risk: " + strings.ToUpper(string(level))
	if shouldColorize(out) {
		line = ansiForRisk(level) + line + ansiReset
	}
	fmt.Fprintln(out, line)
	fmt.Fprintln(out)
}

func ansiForRisk(level matcher.RiskLevel) string {
	switch level {
	case matcher.RiskGreen:
		return ansiGreen
	case matcher.RiskYellow:
		return ansiYellow
	case matcher.RiskBlinking:
		return ansiMagenta
	default:
		return ansiRed
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
