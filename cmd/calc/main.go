// Command calc evaluates arithmetic expressions exactly.
//
// With arguments, each argument is evaluated as a separate expression. With
// none, expressions are read one per line from --in or standard input; when
// standard input is a terminal, calc runs an interactive prompt instead.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var version = "dev"

// errFailed reports that some expressions failed after their errors were
// already printed.
var errFailed = errors.New("some expressions failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "calc:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Evaluate arithmetic expressions exactly",
		Long: `Evaluate arithmetic expressions with exact integer and decimal arithmetic.

Operators, loosest first: + -, then & | ^, then << >>, then * / % × ÷.
Prefix - + ~ and postfix ! bind tightest. Adjacent terms multiply.
Functions: abs pow div mod sqrt exp ln log pi e.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	f := cmd.Flags()
	f.String("config", "", "YAML settings file (env CALC_CONFIG)")
	f.String("in", "", "file of expressions, one per line (- for stdin)")
	f.Int("base", 0, "output base for whole numbers: 2, 8, 10, or 16 (default 10, env CALC_BASE)")
	f.StringArray("given", nil, "name=value variable definition (any number of times)")
	f.Int("max-depth", 0, "deepest nesting of brackets, calls, and unary operators")
	f.Int64("max-ops", 0, "operations allowed per expression (default unlimited)")
	f.Int64("max-factorial", 0, "largest operand of !")
	f.Int("max-bits", 0, "largest result of a power or shift, in bits")
	f.Int32("precision", 0, "significant digits kept by inexact results (default 50)")
	f.Bool("approx-pow", false, "allow fractional exponents, computed approximately")
	f.Duration("timeout", 0, "time limit per expression")
	f.Bool("echo", false, "print each expression with its result")
	f.Bool("debug", false, "log each evaluation")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	path := envOrDefault("CALC_CONFIG", "")
	if v, _ := flags.GetString("config"); v != "" {
		path = v
	}
	cfg, err := readConfig(path)
	if err != nil {
		return err
	}

	base := 10
	if cfg.Base != 0 {
		base = cfg.Base
	}
	if v := os.Getenv("CALC_BASE"); v != "" {
		base, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CALC_BASE: %w", err)
		}
	}
	if flags.Changed("base") {
		base, _ = flags.GetInt("base")
	}
	if !validBase(base) {
		return fmt.Errorf("unsupported output base %d", base)
	}

	lim := cfg.Limits
	if flags.Changed("max-depth") {
		lim.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("max-ops") {
		lim.MaxOps, _ = flags.GetInt64("max-ops")
	}
	if flags.Changed("max-factorial") {
		lim.MaxFactorial, _ = flags.GetInt64("max-factorial")
	}
	if flags.Changed("max-bits") {
		lim.MaxBits, _ = flags.GetInt("max-bits")
	}
	if flags.Changed("precision") {
		lim.Precision, _ = flags.GetInt32("precision")
	}
	if flags.Changed("approx-pow") {
		lim.ApproxPow, _ = flags.GetBool("approx-pow")
	}
	timeout := cfg.Timeout
	if flags.Changed("timeout") {
		timeout, _ = flags.GetDuration("timeout")
	}

	level := zerolog.WarnLevel
	if debug, _ := flags.GetBool("debug"); debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
		With().Timestamp().Logger().
		Level(level)

	s := newSession(lim, timeout, base, logger)
	for _, head := range sortedKeys(cfg.Funcs) {
		if _, err := s.def(head, cfg.Funcs[head]); err != nil {
			return fmt.Errorf("config function %s: %w", head, err)
		}
	}
	for _, name := range sortedKeys(cfg.Vars) {
		if err := s.let(name, cfg.Vars[name]); err != nil {
			return fmt.Errorf("config variable %s: %w", name, err)
		}
	}
	given, _ := flags.GetStringArray("given")
	for _, d := range given {
		name, val, ok := strings.Cut(d, "=")
		if !ok {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		if err := s.let(strings.TrimSpace(name), strings.TrimSpace(val)); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	s.echo, _ = flags.GetBool("echo")

	out, errs := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if len(args) > 0 {
		failed := false
		for _, src := range args {
			if !s.print(out, errs, src) {
				failed = true
			}
		}
		if failed {
			return errFailed
		}
		return nil
	}

	in := cmd.InOrStdin()
	if name, _ := flags.GetString("in"); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	} else if interactive(in) {
		return repl(s, out, errs)
	}
	return lines(s, in, out, errs)
}

// interactive reports whether r is a terminal.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
