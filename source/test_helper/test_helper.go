package test_helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logoc/logoc/source/parser"
	"github.com/logoc/logoc/source/settings"
	"github.com/logoc/logoc/source/text"
)

// Auxiliary types and functions for testing the parser and compiler.

type TestItem struct {
	Input string
	Want  string
}

// Runs each test on a fresh parser. If the filename isn't empty, the file of that name in
// the test-files directory of the package being tested is added to the parser first, so
// that the inputs can use what it declares.
func RunTest(t *testing.T, filename string, tests []TestItem, F func(p *parser.Parser, s string) (string, error)) {
	wd, _ := os.Getwd() // The working directory is the directory containing the package being tested.
	for _, test := range tests {
		if settings.SHOW_TESTS {
			println(text.BULLET + "Running test " + text.Emph(test.Input))
		}
		p := parser.New()
		if filename != "" {
			data, e := os.ReadFile(filepath.Join(wd, "test-files", filename))
			if e != nil {
				t.Fatalf("Couldn't read test file %s: %v", filename, e)
			}
			p.AddSource(filename, string(data))
			if p.ErrorsExist() {
				t.Fatal("There were errors reading the test file: \n" + p.ReturnErrors())
			}
		}
		got, e := F(p, test.Input)
		if e != nil {
			println(text.Red(test.Input))
			println("There were errors parsing the line: \n" + p.ReturnErrors() + "\n")
		}
		if !(test.Want == got) {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.Input, test.Want, got)
		}
	}
}
