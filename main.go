package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hksahil/cognos-to-powerbi-sub000/lineage"
	"github.com/hksahil/cognos-to-powerbi-sub000/output"
	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
)

var (
	queryFlag  = flag.String("q", "", "SQL query to analyze (e.g., \"SELECT a.x FROM t a\")")
	formatFlag = flag.String("f", "table", "Output format: table, jsonl, csv")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file.sql]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Resolves column lineage for a SQL query: every SELECT item and\n")
		fmt.Fprintf(os.Stderr, "WHERE condition is traced back to its base table columns.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT a.x AS y FROM t a\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f jsonl query.sql\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s                     (interactive mode)\n", os.Args[0])
	}

	flag.Parse()

	formatter, err := output.New(*formatFlag, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := lineage.NewEngine()

	switch {
	case *queryFlag != "":
		if err := analyze(engine, formatter, *queryFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case flag.NArg() > 0:
		sql, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := analyze(engine, formatter, string(sql)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		repl(engine, formatter)
	}
}

// analyze parses one query and writes its lineage records.
func analyze(engine *lineage.Engine, formatter output.Formatter, sql string) error {
	result, err := sqltree.Parse(sql)
	if err != nil {
		return err
	}
	return formatter.Format(engine.Analyze(result))
}

// repl runs the interactive loop: one query per line, lineage printed
// after each.
func repl(engine *lineage.Engine, formatter output.Formatter) {
	fmt.Println("SQL Column Lineage Analyzer")
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for {
		fmt.Print("lineage> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		if input == "help" {
			printHelp()
			continue
		}

		if err := analyze(engine, formatter, input); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  <sql query>  - analyze column lineage of a SELECT query")
	fmt.Println("  help         - show this help")
	fmt.Println("  exit, quit   - exit the analyzer")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  SELECT a.x AS y FROM t a")
	fmt.Println("  WITH c AS (SELECT id, val*2 AS v FROM t) SELECT v FROM c")
	fmt.Println()
}
