// Decoding of the JSON-encoded AST this command reads from a file or
// stdin. The type checker's own external interface (§6) is the Go API in
// internal/typecheck and internal/ast; this file exists only so a caller
// without a Go toolchain of its own (a parser written in another
// language, a test harness, a human trying the checker from a shell) has
// a concrete surface to drive it from. Every node is tagged by a "node",
// "type", or "pattern" discriminator field, decoded in two passes with
// encoding/json.RawMessage: read the tag first, then unmarshal the rest
// into whichever concrete struct the tag names.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/bendu-lang/bendu-typecheck/internal/ast"
)

// program is the top-level document shape: a seed for reproducible fresh
// variable ids, whether undefined names should be tolerated (§7's error
// recovery mode), a table of builtin bindings, and the ordered sequence
// of top-level declarations/expressions to check.
type program struct {
	Seed          uint64                     `json:"seed"`
	ErrorRecovery bool                       `json:"errorRecovery"`
	Builtins      map[string]json.RawMessage `json:"builtins"`
	TopLevels     []json.RawMessage          `json:"program"`
}

type exprEnvelope struct {
	Node string `json:"node"`
}

type typeEnvelope struct {
	Type string `json:"type"`
}

type patternEnvelope struct {
	Pattern string `json:"pattern"`
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	var env exprEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding expression: %w", err)
	}

	switch env.Node {
	case "int":
		var n struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.IntLiteral{Value: n.Value}, nil

	case "float":
		var n struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.FloatLiteral{Value: n.Value}, nil

	case "string":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Value: n.Value}, nil

	case "char":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		r := rune(0)
		for _, c := range n.Value {
			r = c
			break
		}
		return &ast.CharLiteral{Value: r}, nil

	case "bool":
		var n struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.BoolLiteral{Value: n.Value}, nil

	case "unit":
		return &ast.UnitLiteral{}, nil

	case "var":
		var n struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.Variable{Name: n.Name}, nil

	case "lambda":
		var n struct {
			Param      string          `json:"param"`
			Annotation json.RawMessage `json:"annotation"`
			Body       json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		ann, err := decodeOptionalTypeExpr(n.Annotation)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Param: n.Param, Annotation: ann, Body: body}, nil

	case "app":
		var n struct {
			Func json.RawMessage `json:"func"`
			Arg  json.RawMessage `json:"arg"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		fn, err := decodeExpr(n.Func)
		if err != nil {
			return nil, err
		}
		arg, err := decodeExpr(n.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.Application{Func: fn, Arg: arg}, nil

	case "let":
		var n struct {
			Name       string          `json:"name"`
			TypeParams []string        `json:"typeParams"`
			Annotation json.RawMessage `json:"annotation"`
			Init       json.RawMessage `json:"init"`
			Body       json.RawMessage `json:"body"`
			Recursive  bool            `json:"recursive"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		ann, err := decodeOptionalTypeExpr(n.Annotation)
		if err != nil {
			return nil, err
		}
		init, err := decodeExpr(n.Init)
		if err != nil {
			return nil, err
		}
		var body ast.Expr
		if len(n.Body) > 0 {
			body, err = decodeExpr(n.Body)
			if err != nil {
				return nil, err
			}
		}
		return &ast.Let{
			Name:       n.Name,
			TypeParams: n.TypeParams,
			Annotation: ann,
			Init:       init,
			Body:       body,
			Recursive:  n.Recursive,
		}, nil

	case "if":
		var n struct {
			Cond, Then, Else json.RawMessage
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: then, Else: els}, nil

	case "binop":
		var n struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		left, err := decodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Op: ast.BinaryOperator(n.Op), Left: left, Right: right}, nil

	case "unop":
		var n struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryOperator(n.Op), Operand: operand}, nil

	case "tuple":
		var n struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		elems, err := decodeExprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Elems: elems}, nil

	case "record":
		var n struct {
			Entries []struct {
				Name   string          `json:"name"`
				Value  json.RawMessage `json:"value"`
				Spread json.RawMessage `json:"spread"`
			} `json:"entries"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		entries := make([]ast.RecordEntry, len(n.Entries))
		for i, ent := range n.Entries {
			if len(ent.Spread) > 0 {
				spread, err := decodeExpr(ent.Spread)
				if err != nil {
					return nil, err
				}
				entries[i] = ast.RecordEntry{Spread: spread}
				continue
			}
			value, err := decodeExpr(ent.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = ast.RecordEntry{Name: ent.Name, Value: value}
		}
		return &ast.Record{Entries: entries}, nil

	case "field":
		var n struct {
			Target json.RawMessage `json:"target"`
			Field  string          `json:"field"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		return &ast.FieldProjection{Target: target, Field: n.Field}, nil

	case "match":
		var n struct {
			Scrutinee json.RawMessage `json:"scrutinee"`
			Arms      []struct {
				Pattern json.RawMessage `json:"pattern"`
				Body    json.RawMessage `json:"body"`
			} `json:"arms"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		scrutinee, err := decodeExpr(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			pat, err := decodePattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			body, err := decodeExpr(a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.MatchArm{Pattern: pat, Body: body}
		}
		return &ast.Match{Scrutinee: scrutinee, Arms: arms}, nil

	case "aliasdef":
		var n struct {
			Name   string          `json:"name"`
			Params []string        `json:"params"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		body, err := decodeTypeExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.TypeAliasDef{Name: n.Name, Params: n.Params, Body: body}, nil

	case "annotation":
		var n struct {
			Expr json.RawMessage `json:"expr"`
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		typ, err := decodeTypeExpr(n.Type)
		if err != nil {
			return nil, err
		}
		return &ast.Annotation{Expr: inner, Type: typ}, nil

	default:
		return nil, fmt.Errorf("unknown expression node %q", env.Node)
	}
}

func decodeExprs(raw []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(raw))
	for i, r := range raw {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeOptionalTypeExpr(raw json.RawMessage) (ast.TypeExpr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return decodeTypeExpr(raw)
}

func decodeTypeExpr(raw json.RawMessage) (ast.TypeExpr, error) {
	var env typeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding type expression: %w", err)
	}

	switch env.Type {
	case "named":
		var n struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		args := make([]ast.TypeExpr, len(n.Args))
		for i, a := range n.Args {
			resolved, err := decodeTypeExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		return &ast.NamedType{Name: n.Name, Args: args}, nil

	case "var":
		var n struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.VarType{Name: n.Name}, nil

	case "func":
		var n struct {
			Param  json.RawMessage `json:"param"`
			Result json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		param, err := decodeTypeExpr(n.Param)
		if err != nil {
			return nil, err
		}
		result, err := decodeTypeExpr(n.Result)
		if err != nil {
			return nil, err
		}
		return &ast.FuncType{Param: param, Result: result}, nil

	case "tuple":
		var n struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		elems := make([]ast.TypeExpr, len(n.Elems))
		for i, e := range n.Elems {
			resolved, err := decodeTypeExpr(e)
			if err != nil {
				return nil, err
			}
			elems[i] = resolved
		}
		return &ast.TupleType{Elems: elems}, nil

	case "record":
		var n struct {
			Fields []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"fields"`
			Row string `json:"row"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		fields := make([]ast.RecordFieldType, len(n.Fields))
		for i, f := range n.Fields {
			resolved, err := decodeTypeExpr(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.RecordFieldType{Name: f.Name, Type: resolved}
		}
		return &ast.RecordType{Fields: fields, Row: n.Row}, nil

	case "union":
		var n struct {
			Alts []json.RawMessage `json:"alts"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		alts := make([]ast.TypeExpr, len(n.Alts))
		for i, a := range n.Alts {
			resolved, err := decodeTypeExpr(a)
			if err != nil {
				return nil, err
			}
			alts[i] = resolved
		}
		return &ast.UnionType{Alts: alts}, nil

	case "intersection":
		var n struct {
			Members []json.RawMessage `json:"members"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		members := make([]ast.TypeExpr, len(n.Members))
		for i, m := range n.Members {
			resolved, err := decodeTypeExpr(m)
			if err != nil {
				return nil, err
			}
			members[i] = resolved
		}
		return &ast.IntersectionType{Members: members}, nil

	case "literal":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.LiteralType{Value: n.Value}, nil

	default:
		return nil, fmt.Errorf("unknown type expression %q", env.Type)
	}
}

func decodePattern(raw json.RawMessage) (ast.Pattern, error) {
	var env patternEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding pattern: %w", err)
	}

	switch env.Pattern {
	case "literal":
		var n struct {
			Int    *int64   `json:"int"`
			Float  *float64 `json:"float"`
			String *string  `json:"string"`
			Char   *string  `json:"char"`
			Bool   *bool    `json:"bool"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		p := &ast.LiteralPattern{Int: n.Int, Float: n.Float, String: n.String, Bool: n.Bool}
		if n.Char != nil {
			for _, c := range *n.Char {
				p.Char = &c
				break
			}
		}
		return p, nil

	case "wildcard":
		return &ast.WildcardPattern{}, nil

	case "var":
		var n struct {
			Name       string          `json:"name"`
			Annotation json.RawMessage `json:"annotation"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		ann, err := decodeOptionalTypeExpr(n.Annotation)
		if err != nil {
			return nil, err
		}
		return &ast.VariablePattern{Name: n.Name, Annotation: ann}, nil

	case "tuple":
		var n struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		elems := make([]ast.Pattern, len(n.Elems))
		for i, e := range n.Elems {
			p, err := decodePattern(e)
			if err != nil {
				return nil, err
			}
			elems[i] = p
		}
		return &ast.TuplePattern{Elems: elems}, nil

	case "record":
		var n struct {
			Fields []struct {
				Name    string          `json:"name"`
				Pattern json.RawMessage `json:"pattern"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		fields := make([]ast.RecordPatternField, len(n.Fields))
		for i, f := range n.Fields {
			p, err := decodePattern(f.Pattern)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.RecordPatternField{Name: f.Name, Pattern: p}
		}
		return &ast.RecordPattern{Fields: fields}, nil

	case "ctor":
		var n struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		args := make([]ast.Pattern, len(n.Args))
		for i, a := range n.Args {
			p, err := decodePattern(a)
			if err != nil {
				return nil, err
			}
			args[i] = p
		}
		return &ast.ConstructorPattern{Name: n.Name, Args: args}, nil

	default:
		return nil, fmt.Errorf("unknown pattern %q", env.Pattern)
	}
}
