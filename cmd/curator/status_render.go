package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"curator/internal/report"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiDim    = "\x1b[2m"
)

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// renderRecord formats one classified engine line for the terminal. Unknown
// lines pass through verbatim so engine output is never hidden.
func renderRecord(rec report.ActionRecord, colorize bool) string {
	switch rec.Kind {
	case report.KindUnknown:
		if colorize {
			return ansiDim + rec.Message + ansiReset
		}
		return rec.Message
	case report.KindError:
		line := fmt.Sprintf("%-7s %s", "ERROR", rec.Message)
		if colorize {
			return ansiRed + line + ansiReset
		}
		return line
	}

	label := recordLabel(rec.Kind)
	detail := rec.SourcePath
	if rec.Kind.HasDestination() && rec.DestinationPath != "" {
		detail = fmt.Sprintf("%s -> %s", rec.SourcePath, rec.DestinationPath)
	}
	if detail == "" {
		detail = rec.Message
	}
	line := fmt.Sprintf("%-7s %s", label, detail)
	if rec.RuleName != "" {
		line += fmt.Sprintf("  (%s)", rec.RuleName)
	}
	if colorize {
		if color := recordColor(rec.Kind); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func recordLabel(kind report.Kind) string {
	switch kind {
	case report.KindMove:
		return "MOVE"
	case report.KindCopy:
		return "COPY"
	case report.KindRename:
		return "RENAME"
	case report.KindDelete:
		return "DELETE"
	case report.KindEcho:
		return "ECHO"
	case report.KindSkip:
		return "SKIP"
	default:
		return "LINE"
	}
}

func recordColor(kind report.Kind) string {
	switch kind {
	case report.KindMove, report.KindCopy, report.KindRename:
		return ansiGreen
	case report.KindDelete:
		return ansiYellow
	case report.KindSkip:
		return ansiDim
	default:
		return ""
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
