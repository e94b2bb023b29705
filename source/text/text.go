package text

// This consists of a bunch of text utilities to help in generating pretty and meaningful
// error messages, log lines, etc.

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"github.com/logoc/logoc/source/token"
)

const (
	VERSION = "0.3.1"
	BULLET  = "  ▪ "
)

// The color package turns itself off when stderr isn't a terminal, so these are safe to
// use in anything that might end up in a file.
var (
	Red = color.New(color.FgRed).SprintFunc()

	ERROR    = Red("Error")
	RT_ERROR = Red("Runtime error")
)

func Emph(s string) string {
	return "'" + s + "'"
}

// Turns 'shapes/square.logo' into 'square'.
func ExtractFileName(s string) string {
	s = filepath.Base(s)
	if strings.LastIndex(s, ".") > 0 {
		s = s[:strings.LastIndex(s, ".")]
	}
	return s
}

// Makes a legal Go package name out of a program or file name.
func FlattenedFilename(s string) string {
	base := ExtractFileName(s)
	result := strings.Builder{}
	for _, ch := range strings.ToLower(base) {
		if ch < unicode.MaxASCII && (unicode.IsLetter(ch) || unicode.IsDigit(ch)) {
			result.WriteRune(ch)
		}
	}
	if result.Len() == 0 || unicode.IsDigit(rune(result.String()[0])) {
		return "logo" + result.String()
	}
	return result.String()
}

func DescribePos(tok *token.Token) string {
	prettySource := tok.Source
	if prettySource == "" {
		return ""
	}
	if prettySource != "standard input" {
		prettySource = "'" + prettySource + "'"
	}
	if tok.Line > 0 {
		result := strconv.Itoa(tok.Line) + ":" + strconv.Itoa(tok.ChStart)
		if tok.ChEnd > tok.ChStart+1 {
			result = result + "-" + strconv.Itoa(tok.ChEnd)
		}
		return " at line " + result + " of " + prettySource
	}
	return " in " + prettySource
}

// Describes a token for the purposes of error messages etc.
func DescribeTok(tok *token.Token) string {
	switch tok.Type {
	case token.NEWLINE:
		return "newline"
	case token.EOF:
		return "end of line"
	case token.INT, token.FLOAT:
		return "the number " + Emph(tok.Literal)
	case token.QUOTED:
		return Emph("\"" + tok.Literal)
	case token.THING:
		return Emph(":" + tok.Literal)
	}
	return Emph(tok.Literal)
}

func DescribeOpposite(tok *token.Token) string {
	switch tok.Literal {
	case ")":
		return "'('"
	case "]":
		return "'['"
	case "(":
		return "')'"
	case "[":
		return "']'"
	}
	panic("token " + tok.Literal + " doesn't have an opposite")
}

// Wraps s to fit between the given margins.
func Pretty(s string, lMargin, rMargin int) string {
	width := rMargin - lMargin
	result := strings.Builder{}
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > width {
				result.WriteString(strings.Repeat(" ", lMargin) + line + "\n")
				line = ""
			}
			if line == "" {
				line = word
			} else {
				line = line + " " + word
			}
		}
		result.WriteString(strings.Repeat(" ", lMargin) + line + "\n")
	}
	return result.String()
}
