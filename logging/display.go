package logging

import (
	"fmt"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// This section contains the display logic for compile messages -- all of them
// are rendered as a single-line header followed by a short window of source
// context with a caret underline beneath the offending span.

// Enumeration of compile message kinds, used to pick the banner tag
const (
	LMKToken = iota
	LMKSyntax
	LMKName
	LMKTyping
	LMKImport
	LMKModule
	LMKArg
	LMKUsage
)

var compileMsgStrings = map[int]string{
	LMKToken:  "Token",
	LMKSyntax: "Syntax",
	LMKName:   "Name",
	LMKTyping: "Type",
	LMKImport: "Import",
	LMKModule: "Module",
	LMKArg:    "Argument",
	LMKUsage:  "Usage",
}

// CompileMessage is a fatal diagnostic anchored to a span of source text
type CompileMessage struct {
	Message string
	Kind    int
	Span    Span
	Context *LogContext
}

func (cm *CompileMessage) display() {
	// single-line header: Error at <file>:<row+1>:<col+1>: <message>
	ErrorStyleBG.Print(compileMsgStrings[cm.Kind] + " Error")
	fmt.Print(" ")
	loc := cm.Span.Start
	ErrorColorFG.Println(fmt.Sprintf("Error at %s:%d:%d: %s", loc.FileName, loc.Row+1, loc.Col+1, cm.Message))

	if cm.Context != nil && cm.Context.Source != "" {
		cm.displayCodeSelection()
	}
}

// displayCodeSelection displays the offending line and its neighbours (with
// line numbers) and underlines the erroneous span with carets
func (cm *CompileMessage) displayCodeSelection() {
	lines := strings.Split(cm.Context.Source, "\n")
	lineIndex := cm.Span.Start.Row
	if lineIndex < 0 || lineIndex >= len(lines) {
		return
	}

	// line above (if it exists)
	if lineIndex > 0 {
		InfoColorFG.Print(fmt.Sprintf("  %d | ", lineIndex))
		fmt.Println(lines[lineIndex-1])
	}

	// the error line itself
	InfoColorFG.Print(fmt.Sprintf("  %d | ", lineIndex+1))
	fmt.Println(lines[lineIndex])

	// the caret underline; clamp the columns so a span that runs off the line
	// (or a zero-width span) still renders sensibly
	startCol := mathutil.Clamp(cm.Span.Start.Col, 0, len(lines[lineIndex]))
	endCol := cm.Span.End.Col
	if cm.Span.End.Row != cm.Span.Start.Row {
		endCol = len(lines[lineIndex])
	}
	endCol = mathutil.Clamp(endCol, startCol, len(lines[lineIndex]))

	fmt.Print("    | ")
	fmt.Print(strings.Repeat(" ", startCol))
	if endCol > startCol {
		ErrorColorFG.Println(strings.Repeat("^", endCol-startCol))
	} else {
		ErrorColorFG.Println("^")
	}

	// line below (if it exists)
	if lineIndex+1 < len(lines) {
		InfoColorFG.Print(fmt.Sprintf("  %d | ", lineIndex+2))
		fmt.Println(lines[lineIndex+1])
	}
}
