// Package errors provides the structured error values returned by the
// mini-bendu type checker. None of them are Go panics or exceptions in the
// language-under-inference's sense — every failure path in generator,
// solver, unifier, and alias registry returns one of these as a plain
// value, per the "errors are values, not exceptions" propagation policy.
package errors

import (
	"fmt"

	"github.com/bendu-lang/bendu-typecheck/internal/position"
)

// Category names one of the eight error kinds the type checker can
// produce.
type Category string

const (
	CategoryUndefinedName    Category = "UNDEFINED_NAME"
	CategoryTypeMismatch     Category = "TYPE_MISMATCH"
	CategoryOccursCheck      Category = "OCCURS_CHECK"
	CategoryFieldMissing     Category = "FIELD_MISSING"
	CategoryFieldConflict    Category = "FIELD_CONFLICT"
	CategoryAliasCycle       Category = "ALIAS_CYCLE"
	CategoryAliasArity       Category = "ALIAS_ARITY"
	CategoryUnknownTypeClass Category = "UNKNOWN_TYPE_CLASS"
)

// TypeError is the one error value type threaded through the generator,
// solver, unifier and alias registry. Offending types are carried as their
// already-rendered source-language notation (e.g. "Int -> String") rather
// than as *types.Type, so that this package never needs to import types
// and risk a cycle with the packages that produce these errors.
type TypeError struct {
	Category Category
	Message  string
	Left     string // rendered left-hand type, empty if not applicable
	Right    string // rendered right-hand type, empty if not applicable
	Span     position.Span
	Context  map[string]interface{}
}

func (e *TypeError) Error() string {
	if e.Left != "" && e.Right != "" {
		return fmt.Sprintf("%s: %s: %s vs %s", e.Span, e.Message, e.Left, e.Right)
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func newError(cat Category, span position.Span, message string) *TypeError {
	return &TypeError{Category: cat, Message: message, Span: span}
}

// UndefinedName is raised by the generator on a variable reference with no
// binding in the environment. The generator aborts the enclosing
// expression immediately; there is no useful continuation (see
// EngineConfig.ErrorRecovery for the one exception).
func UndefinedName(name string, span position.Span) *TypeError {
	e := newError(CategoryUndefinedName, span, fmt.Sprintf("undefined name %q", name))
	e.Context = map[string]interface{}{"name": name}
	return e
}

// TypeMismatch is raised by the unifier when two non-variable, non-alias
// types fail to unify.
func TypeMismatch(left, right string, span position.Span) *TypeError {
	e := newError(CategoryTypeMismatch, span, "type mismatch")
	e.Left, e.Right = left, right
	return e
}

// OccursCheck is raised when binding a variable would produce an infinite
// type, e.g. unifying `a` with `a -> Int`.
func OccursCheck(varName, occursIn string, span position.Span) *TypeError {
	e := newError(CategoryOccursCheck, span, fmt.Sprintf("%s occurs in %s, would construct an infinite type", varName, occursIn))
	e.Left, e.Right = varName, occursIn
	return e
}

// FieldMissing is raised when a closed record is unified against a record
// demanding a field it does not have.
func FieldMissing(field, recordType string, span position.Span) *TypeError {
	e := newError(CategoryFieldMissing, span, fmt.Sprintf("field %q is missing from %s", field, recordType))
	e.Right = recordType
	e.Context = map[string]interface{}{"field": field}
	return e
}

// FieldConflict is raised when two records agree on a field name but the
// field types fail to unify.
func FieldConflict(field, left, right string, span position.Span) *TypeError {
	e := newError(CategoryFieldConflict, span, fmt.Sprintf("field %q has conflicting types", field))
	e.Left, e.Right = left, right
	e.Context = map[string]interface{}{"field": field}
	return e
}

// AliasCycle is raised by the alias registry's Define when the reference
// graph from the new name contains a cycle that does not pass through a
// structural (lazy) constructor.
func AliasCycle(cyclePath []string, span position.Span) *TypeError {
	e := newError(CategoryAliasCycle, span, fmt.Sprintf("alias cycle: %v", cyclePath))
	e.Context = map[string]interface{}{"cycle": cyclePath}
	return e
}

// AliasArity is raised when an alias is applied with the wrong number of
// type arguments. Per §4.7 this is reported identically to an undefined
// alias.
func AliasArity(name string, want, got int, span position.Span) *TypeError {
	e := newError(CategoryAliasArity, span, fmt.Sprintf("alias %q expects %d argument(s), got %d", name, want, got))
	e.Context = map[string]interface{}{"name": name, "want": want, "got": got}
	return e
}

// UnknownTypeClass is raised by the solver's Instance bucket when an
// instance constraint names a class outside the fixed {Printable,
// Comparable} table.
func UnknownTypeClass(name string, span position.Span) *TypeError {
	e := newError(CategoryUnknownTypeClass, span, fmt.Sprintf("unknown type class %q", name))
	e.Context = map[string]interface{}{"class": name}
	return e
}
