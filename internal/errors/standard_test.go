package errors

import (
	"strings"
	"testing"

	"github.com/bendu-lang/bendu-typecheck/internal/position"
)

func TestTypeMismatchError(t *testing.T) {
	span := position.Span{
		Start: position.Position{Filename: "f.bendu", Line: 3, Column: 5, Offset: 20},
		End:   position.Position{Filename: "f.bendu", Line: 3, Column: 8, Offset: 23},
	}

	err := TypeMismatch("Int", "String", span)

	if err.Category != CategoryTypeMismatch {
		t.Errorf("Category = %v, want %v", err.Category, CategoryTypeMismatch)
	}
	msg := err.Error()
	if !strings.Contains(msg, "Int") || !strings.Contains(msg, "String") {
		t.Errorf("Error() = %q, want both offending types named", msg)
	}
	if !strings.Contains(msg, "f.bendu:3:5") {
		t.Errorf("Error() = %q, want the source location", msg)
	}
}

func TestUndefinedNameError(t *testing.T) {
	err := UndefinedName("foo", position.Span{})
	if err.Category != CategoryUndefinedName {
		t.Errorf("Category = %v, want %v", err.Category, CategoryUndefinedName)
	}
	if err.Context["name"] != "foo" {
		t.Errorf("Context[name] = %v, want foo", err.Context["name"])
	}
}

func TestAliasCycleError(t *testing.T) {
	err := AliasCycle([]string{"A", "B", "A"}, position.Span{})
	if err.Category != CategoryAliasCycle {
		t.Errorf("Category = %v, want %v", err.Category, CategoryAliasCycle)
	}
}
