// Command bendu-typecheck type-checks a JSON-encoded program against the
// mini-bendu type system (§6's External Interfaces) and prints either the
// inferred type of each top-level expression or a structured diagnostic.
// It owns no lexer or parser of its own (§5 Non-goals) — the JSON this
// command reads already is the AST, produced by whatever front end is
// driving the checker.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bendu-lang/bendu-typecheck/internal/alias"
	"github.com/bendu-lang/bendu-typecheck/internal/cli"
	"github.com/bendu-lang/bendu-typecheck/internal/constraint"
	"github.com/bendu-lang/bendu-typecheck/internal/diagnostics"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
	"github.com/bendu-lang/bendu-typecheck/internal/typecheck"
)

func main() {
	var (
		inputPath = flag.String("input", "", "path to the JSON program (default: stdin)")
		jsonOut   = flag.Bool("json", false, "emit results as JSON instead of plain text")
		verbose   = flag.Bool("verbose", false, "log progress to stderr")
		version   = flag.Bool("version", false, "print version information and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: bendu-typecheck [-input FILE] [-json] [-verbose]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		cli.PrintVersion("bendu-typecheck", *jsonOut)
		return
	}

	logger := cli.NewLogger(*verbose, *verbose)

	data, err := readInput(*inputPath)
	if err != nil {
		cli.HandleError(fmt.Errorf("reading input: %w", err), logger)
	}

	var doc program
	if err := json.Unmarshal(data, &doc); err != nil {
		cli.ExitWithCode(2, "Error: parsing program: %v", err)
	}

	vars := types.NewVarGen(doc.Seed)
	aliases := alias.NewRegistry()

	builtins := make(map[string]*types.Type, len(doc.Builtins))
	for name, raw := range doc.Builtins {
		te, err := decodeTypeExpr(raw)
		if err != nil {
			cli.ExitWithError("decoding builtin %q: %v", name, err)
		}
		t, err := constraint.ResolveTypeExpr(vars, aliases, te)
		if err != nil {
			cli.ExitWithError("resolving builtin %q: %v", name, err)
		}
		builtins[name] = t
	}
	logger.Info("loaded %d builtin(s)", len(builtins))

	if len(doc.TopLevels) == 0 {
		logger.Warn("program contains no top-level expressions; nothing to check")
	}

	engine := typecheck.NewEngineWithState(vars, aliases, typecheck.EngineConfig{
		Builtins:      builtins,
		Seed:          doc.Seed,
		ErrorRecovery: doc.ErrorRecovery,
	})

	results := make([]topLevelResult, 0, len(doc.TopLevels))
	for i, raw := range doc.TopLevels {
		expr, err := decodeExpr(raw)
		if err != nil {
			cli.ExitWithCode(2, "Error: decoding top-level expression %d: %v", i, err)
		}

		r := engine.CheckTopLevel(expr)
		results = append(results, topLevelResult{index: i, result: r})
		logger.Debug("checked top-level %d: ok=%v", i, r.Ok())
	}

	exitCode := report(results, *jsonOut)
	os.Exit(exitCode)
}

type topLevelResult struct {
	index  int
	result typecheck.TypeCheckResult
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func report(results []topLevelResult, jsonOut bool) int {
	exitCode := 0
	mgr := diagnostics.NewManager(nil)

	if jsonOut {
		type jsonResult struct {
			Index int    `json:"index"`
			OK    bool   `json:"ok"`
			Type  string `json:"type,omitempty"`
			Error string `json:"error,omitempty"`
		}
		out := make([]jsonResult, len(results))
		for i, r := range results {
			jr := jsonResult{Index: r.index, OK: r.result.Ok()}
			if r.result.Ok() {
				jr.Type = r.result.Type.String()
			} else {
				jr.Error = r.result.Err.Error()
				exitCode = 1
			}
			out[i] = jr
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return exitCode
	}

	for _, r := range results {
		if r.result.Ok() {
			fmt.Printf("%d: %s\n", r.index, r.result.Type)
			continue
		}
		exitCode = 1
		mgr.Add(r.result.Err)
	}
	if mgr.HasErrors() {
		fmt.Print(mgr.FormatAll())
	}
	return exitCode
}
