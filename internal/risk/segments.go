package risk

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Segments splits a shell command into its simple statements, keeping each
// statement's redirections. Text that does not parse as shell yields nil.
func Segments(cmd string) []string {
	if strings.TrimSpace(cmd) == "" {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil
	}

	printer := syntax.NewPrinter(syntax.SingleLine(true))
	var segments []string
	for _, stmt := range prog.Stmts {
		collect(stmt, printer, &segments)
	}
	return segments
}

func collect(stmt *syntax.Stmt, printer *syntax.Printer, segments *[]string) {
	if stmt == nil || stmt.Cmd == nil {
		return
	}

	collectAll := func(stmts []*syntax.Stmt) {
		for _, s := range stmts {
			collect(s, printer, segments)
		}
	}

	switch cmd := stmt.Cmd.(type) {
	case *syntax.BinaryCmd:
		collect(cmd.X, printer, segments)
		collect(cmd.Y, printer, segments)
	case *syntax.Subshell:
		collectAll(cmd.Stmts)
	case *syntax.Block:
		collectAll(cmd.Stmts)
	case *syntax.IfClause:
		for clause := cmd; clause != nil; clause = clause.Else {
			collectAll(clause.Cond)
			collectAll(clause.Then)
		}
	case *syntax.WhileClause:
		collectAll(cmd.Cond)
		collectAll(cmd.Do)
	case *syntax.ForClause:
		collectAll(cmd.Do)
	case *syntax.CaseClause:
		for _, item := range cmd.Items {
			collectAll(item.Stmts)
		}
	case *syntax.TimeClause:
		collect(cmd.Stmt, printer, segments)
	case *syntax.CoprocClause:
		collect(cmd.Stmt, printer, segments)
	case *syntax.FuncDecl:
		collect(cmd.Body, printer, segments)
	default:
		var buf strings.Builder
		if err := printer.Print(&buf, stmt); err != nil {
			return
		}
		if s := strings.TrimSpace(buf.String()); s != "" {
			*segments = append(*segments, s)
		}
	}
}
