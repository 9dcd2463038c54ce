package main

import (
	"fmt"
	"strings"

	"github.com/gnana997/composeport/pkg/gen"
	"github.com/gnana997/composeport/pkg/schedule"
	"github.com/gnana997/composeport/pkg/typemap"
	"github.com/gnana997/composeport/pkg/unit"
)

// printUnitHuman prints a human-readable unit summary to stdout.
func printUnitHuman(u *unit.SourceUnit, showBody bool) {
	fmt.Printf("%s  [package %s]\n", u.Path, u.Package)

	fmt.Println()
	if len(u.Imports) == 0 {
		fmt.Println("Imports  (none)")
	} else {
		fmt.Println("Imports")
		for _, imp := range u.Imports {
			fmt.Printf("  %s\n", imp)
		}
	}

	fmt.Println()
	if len(u.Declarations) == 0 {
		fmt.Println("Declarations  (none)")
	} else {
		fmt.Println("Declarations")
		for i := range u.Declarations {
			d := &u.Declarations[i]
			printDeclaration(d, showBody)
		}
	}

	// Generation preview.
	out := gen.New().GenerateUnit(u)
	fmt.Println()
	fmt.Println("Conversion")
	fmt.Printf("  target     %s\n", out.TargetFile)
	shape := "stateless"
	if out.Stateful {
		shape = "stateful"
	}
	fmt.Printf("  shape      %s\n", shape)
	fmt.Printf("  complexity %d\n", schedule.Complexity(u))
	fmt.Printf("  ai needed  %v\n", u.HasUI())
	if len(out.Warnings) > 0 {
		fmt.Println("  warnings")
		for _, w := range out.Warnings {
			fmt.Printf("    %s\n", w)
		}
	}
}

func printDeclaration(d *unit.Declaration, showBody bool) {
	fmt.Println()
	header := fmt.Sprintf("  %s  [%s]", d.Name, d.Kind)
	if d.IsComposable() {
		header += "  (composable)"
	}
	fmt.Println(header)

	if d.Type != "" {
		fmt.Printf("    type: %s -> %s\n", d.Type, typemap.Map(d.Type))
	}
	if len(d.SuperTypes) > 0 {
		fmt.Printf("    extends: %s\n", strings.Join(d.SuperTypes, ", "))
	}
	if len(d.Parameters) > 0 {
		printParams(d.Parameters)
	}
	if showBody && d.BodyText != "" {
		fmt.Println("    body")
		fmt.Println("    " + strings.Repeat("─", 40))
		for _, line := range strings.Split(d.BodyText, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
}

// printParams renders the parameter table with dynamic column widths.
func printParams(params []unit.Parameter) {
	nameW := len("NAME")
	typeW := len("TYPE")
	dartW := len("DART")
	for _, p := range params {
		if len(p.Name) > nameW {
			nameW = len(p.Name)
		}
		if len(p.Type) > typeW {
			typeW = len(p.Type)
		}
		if d := typemap.Map(p.Type); len(d) > dartW {
			dartW = len(d)
		}
	}

	fmt.Printf("    %-*s  %-*s  %-*s  %s\n", nameW, "NAME", typeW, "TYPE", dartW, "DART", "DEFAULT")
	fmt.Printf("    %s\n", strings.Repeat("─", nameW+typeW+dartW+13))
	for _, p := range params {
		def := p.Default
		if def == "" {
			def = "-"
		}
		fmt.Printf("    %-*s  %-*s  %-*s  %s\n",
			nameW, p.Name, typeW, p.Type, dartW, typemap.Map(p.Type), def)
	}
}

// printPlanHuman prints a conversion plan to stdout.
func printPlanHuman(plan *schedule.Result) {
	if len(plan.Tasks) == 0 {
		fmt.Println("Tasks  (none)")
		return
	}

	fmt.Println("Tasks")
	unitW := len("UNIT")
	for _, t := range plan.Tasks {
		if len(t.UnitPath) > unitW {
			unitW = len(t.UnitPath)
		}
	}
	fmt.Printf("  %-*s  %-8s  %4s  %10s  %s\n", unitW, "UNIT", "PRIORITY", "DEPS", "COMPLEXITY", "AI")
	fmt.Printf("  %s\n", strings.Repeat("─", unitW+34))
	for _, t := range plan.Tasks {
		ai := "no"
		if t.RequiresAI {
			ai = "yes"
		}
		fmt.Printf("  %-*s  %-8s  %4d  %10d  %s\n",
			unitW, t.UnitPath, t.Priority.String(), t.DependencyCount, t.Complexity, ai)
	}

	fmt.Println()
	fmt.Println("Order")
	for i, path := range plan.Order {
		fmt.Printf("  %2d. %s\n", i+1, path)
	}

	fmt.Println()
	if len(plan.Cycles) == 0 {
		fmt.Println("Cycles  (none)")
	} else {
		fmt.Println("Cycles")
		for _, cycle := range plan.Cycles {
			fmt.Printf("  %s\n", strings.Join(cycle, " -> "))
		}
	}
}
