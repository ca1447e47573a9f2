package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RowanDark/cribdrag/internal/cipher"
	"github.com/RowanDark/cribdrag/internal/logging"
)

// paramFlags collects repeated -param op.key=value flags.
type paramFlags map[string]map[string]any

func (p paramFlags) String() string { return "" }

func (p paramFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected op.key=value, got %q", v)
	}
	op, name, ok := strings.Cut(key, ".")
	if !ok || op == "" || name == "" {
		return fmt.Errorf("expected op.key=value, got %q", v)
	}
	if p[op] == nil {
		p[op] = make(map[string]any)
	}
	p[op][name] = value
	return nil
}

func runPipe(args []string) int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}

	fs := flag.NewFlagSet("pipe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	list := fs.Bool("list", false, "list operations and recipes")
	recipeName := fs.String("recipe", "", "run a saved recipe")
	ops := fs.String("ops", "", "comma-separated operations to run")
	save := fs.String("save", "", "save -ops as a recipe with this name instead of running it")
	describe := fs.String("desc", "", "description for -save")
	reverse := fs.Bool("reverse", false, "run the inverse pipeline")
	recipesDir := fs.String("recipes", cfg.RecipesDir, "recipe directory")
	params := paramFlags{}
	fs.Var(params, "param", "operation parameter as op.key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rm := cipher.NewRecipeManager(*recipesDir)
	if err := rm.LoadRecipes(); err != nil {
		fmt.Fprintf(os.Stderr, "load recipes: %v\n", err)
		return 1
	}

	if *list {
		fmt.Println("operations:")
		for _, op := range cipher.ListOperations() {
			fmt.Printf("  %-14s %-8s %s\n", op.Name(), op.Type(), op.Description())
		}
		fmt.Println("recipes:")
		for _, r := range rm.ListRecipes() {
			fmt.Printf("  %-20s %s\n", r.Name, r.Description)
		}
		return 0
	}

	var pipeline cipher.Pipeline
	switch {
	case *recipeName != "" && *ops != "":
		fmt.Fprintln(os.Stderr, "use either -recipe or -ops")
		return 2
	case *recipeName != "":
		r, ok := rm.GetRecipe(*recipeName)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown recipe: %s\n", *recipeName)
			return 1
		}
		pipeline = r.Pipeline
	case *ops != "":
		for _, name := range strings.Split(*ops, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			pipeline.Operations = append(pipeline.Operations, cipher.OperationConfig{Name: name, Parameters: params[name]})
		}
		pipeline.Reversible = true
	default:
		fmt.Fprintln(os.Stderr, "usage: cribctl pipe (-list | -recipe NAME | -ops a,b,c) [INPUT]")
		return 2
	}

	if *save != "" {
		recipe := &cipher.Recipe{Name: *save, Description: *describe, Pipeline: pipeline}
		if err := rm.SaveRecipe(recipe); err != nil {
			fmt.Fprintf(os.Stderr, "save recipe: %v\n", err)
			return 1
		}
		fmt.Printf("saved recipe %s\n", recipe.Name)
		return 0
	}

	if *reverse {
		rev, err := pipeline.Reverse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "reverse: %v\n", err)
			return 1
		}
		pipeline = *rev
	}

	input, err := argOrStdin(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	audit, err := openAudit(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open audit log: %v\n", err)
		return 1
	}
	defer audit.Close()

	names := make([]string, 0, len(pipeline.Operations))
	for _, op := range pipeline.Operations {
		names = append(names, op.Name)
	}
	out, err := pipeline.Execute(context.Background(), []byte(input))
	if err != nil {
		_ = audit.Emit(logging.AuditEvent{
			EventType: logging.EventPipelineRun,
			Decision:  logging.DecisionDeny,
			Reason:    err.Error(),
			Metadata:  map[string]any{"operations": names},
		})
		fmt.Fprintf(os.Stderr, "pipe: %v\n", err)
		return 1
	}
	_ = audit.Emit(logging.AuditEvent{
		EventType: logging.EventPipelineRun,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"operations": names, "input_bytes": len(input), "output_bytes": len(out)},
	})
	fmt.Println(string(out))
	return 0
}
