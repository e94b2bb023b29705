package err

import (
	"strings"
	"testing"

	"github.com/logoc/logoc/source/token"
)

// Every error must be able to describe itself, whatever it's given.
func TestErrorCreatorMap(t *testing.T) {
	tok := &token.Token{Type: token.RPAREN, Literal: ")", Source: "test", Line: 3, ChStart: 1, ChEnd: 2}
	for id := range ErrorCreatorMap {
		if id == "" { // The template.
			continue
		}
		errs := Throw(id, Errors{}, tok, "square", 2, 1)
		if errs[0].Message == "" {
			t.Fatalf("%s has no message", id)
		}
		if Explain(errs, 0) == "" {
			t.Fatalf("%s has no explanation", id)
		}
	}
}

func TestGetList(t *testing.T) {
	tok := &token.Token{Type: token.WORD, Literal: "fd", Source: "test", Line: 3, ChStart: 1, ChEnd: 3}
	errs := Throw("parse/unknown", Errors{}, tok)
	errs = Throw("parse/args/many", errs, tok, "fd", 1)
	got := GetList(errs)
	if !strings.HasPrefix(got, "[0] ") || !strings.Contains(got, "\n[1] ") || !strings.Contains(got, "at line 3:1-3 of 'test'") {
		t.Fatalf("unexpected list:\n%s", got)
	}
}

func TestInternal(t *testing.T) {
	defer func() {
		if _, ok := recover().(InternalError); !ok {
			t.Fatal("Internal should panic with an InternalError")
		}
	}()
	Internal("table not sealed: %s", "fd")
}
