package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

const (
	historyFile = ".calc_history"
	prompt      = "> "
)

const replHelp = `Commands:
  :let name expr  evaluate expr and store it in name
  :def f(a, b) expr
                  define a function of the named parameters
  :base n         print whole numbers in base 2, 8, 10, or 16
  :vars           list variables
  :quit           exit
The last result is available as ans.`

// repl runs an interactive prompt until EOF or :quit.
func repl(s *session, out, errs io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	hist := filepath.Join(home, historyFile)
	if f, err := os.Open(hist); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if quit := command(s, out, errs, line); quit {
				return nil
			}
			continue
		}
		s.print(out, errs, line)
	}
}

// command runs a REPL command and reports whether the REPL should exit.
func command(s *session, out, errs io.Writer, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(out, replHelp)
	case ":let":
		v, src, ok := strings.Cut(arg, " ")
		if !ok {
			fmt.Fprintln(errs, "usage: :let name expr")
			return false
		}
		src = strings.TrimSpace(src)
		if err := s.let(v, src); err != nil {
			fmt.Fprintln(errs, describe(src, err))
			return false
		}
		fmt.Fprintf(out, "%s = %s\n", v, format(s.vars[v], s.base))
	case ":def":
		head, body, ok := strings.Cut(arg, ")")
		if !ok {
			fmt.Fprintln(errs, "usage: :def name(params) expr")
			return false
		}
		f, err := s.def(head+")", body)
		if err != nil {
			fmt.Fprintln(errs, err)
			return false
		}
		fmt.Fprintln(out, f)
	case ":base":
		b, err := strconv.Atoi(arg)
		if err != nil || !validBase(b) {
			fmt.Fprintln(errs, "base must be 2, 8, 10, or 16")
			return false
		}
		s.base = b
	case ":vars":
		for _, k := range s.names() {
			fmt.Fprintf(out, "%s = %s\n", k, format(s.vars[k], s.base))
		}
	default:
		fmt.Fprintf(errs, "unknown command %s; try :help\n", name)
	}
	return false
}
