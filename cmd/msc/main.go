package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kr/pretty"
	"github.com/peterh/liner"

	microscript "github.com/microscript-lang/msc"
)

const (
	appName     = "msc"
	historyFile = ".microscript_history"
	promptMain  = "==> "
)

var banner = fmt.Sprintf("MicroScript %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", microscript.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(microscript.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`MicroScript %s

Usage:
  %s run [--ast] <file>    Run a program (--ast: dump the parse tree and exit)
  %s repl                  Start the REPL
  %s version               Print the version

`, microscript.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	dumpAST := false
	if len(args) > 0 && args[0] == "--ast" {
		dumpAST = true
		args = args[1:]
	}
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [--ast] <file>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ast, err := microscript.ParseSource(string(src), file)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(microscript.WrapErrorWithSource(err, string(src)).Error()))
		return 1
	}

	if dumpAST {
		pretty.Println(ast)
		return 0
	}

	ip := microscript.NewInterpreter(ast)
	if err := ip.Analyze(); err != nil {
		fmt.Fprintln(os.Stderr, red(microscript.WrapErrorWithSource(err, string(src)).Error()))
		return 1
	}
	if _, err := ip.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(microscript.WrapErrorWithSource(err, string(src)).Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// One persistent global environment for the whole session, so var and
	// function definitions survive across lines.
	env := microscript.NewGlobalEnv()

	for {
		line, err := ln.Prompt(promptMain)
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Println()
			return 0
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" {
			return 0
		}
		ln.AppendHistory(line)

		v, err := evalLine(line, env)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(microscript.WrapErrorWithSource(err, line).Error()))
			continue
		}
		fmt.Println(blue(v.String()))
	}
}

func evalLine(line string, env *microscript.Env) (microscript.Value, error) {
	ast, err := microscript.ParseSource(line, "<repl>")
	if err != nil {
		return microscript.Value{}, err
	}
	ip := microscript.NewInterpreterWithEnv(ast, env)
	if err := ip.Analyze(); err != nil {
		return microscript.Value{}, err
	}
	return ip.Execute()
}
