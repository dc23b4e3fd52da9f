// Command csvjson converts CSV to a JSON array of objects.
//
// Usage:
//
//	csvjson [flags] [file.csv]
//
// With no file, input is read from stdin. The first record is the header.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/shapestone/shape-csvjson/internal/config"
	"github.com/shapestone/shape-csvjson/pkg/csvjson"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("csvjson", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath string
		envPath    string
		outPath    string
		indent     string
		validate   bool
		tokens     bool
	)
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.StringVar(&envPath, "env", "", ".env file (default: ./.env if present)")
	fs.StringVar(&outPath, "o", "", "write JSON to this file instead of stdout")
	fs.StringVar(&indent, "indent", "", "pretty-print with this indent (spaces/tabs, or a number of spaces)")
	fs.BoolVar(&validate, "validate", false, "check the input without writing JSON")
	fs.BoolVar(&tokens, "tokens", false, "dump the token stream instead of converting")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] [file.csv]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		fmt.Fprintf(stderr, "csvjson: %v\n", err)
		return 1
	}
	if indent != "" {
		cfg.Indent = indent
	}
	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(stderr, "csvjson: %v\n", err)
		return 1
	}

	logger := cfg.NewLogger(stderr).With("run_id", uuid.NewString())

	name := "stdin"
	in := stdin
	if fs.NArg() == 1 {
		name = fs.Arg(0)
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(stderr, "csvjson: %v\n", err)
			return 1
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("Failed to close input", "error", err)
			}
		}()
		in = f
	}

	data, err := readInput(in, opts.MaxInputSize)
	if err != nil {
		return fail(logger, stderr, name, err)
	}
	logger.Debug("Read input", "source", name, "bytes", len(data))

	switch {
	case tokens:
		if err := csvjson.DumpTokens(stdout, data); err != nil {
			return fail(logger, stderr, name, err)
		}
		return 0
	case validate:
		if err := csvjson.Validate(data); err != nil {
			return fail(logger, stderr, name, err)
		}
		logger.Info("Input is valid", "source", name)
		return 0
	}

	res := csvjson.ConvertWithOptions(data, opts)
	if !res.OK() {
		return fail(logger, stderr, name, res.Err())
	}

	if err := writeOutput(outPath, stdout, res.JSON()); err != nil {
		fmt.Fprintf(stderr, "csvjson: %v\n", err)
		return 1
	}
	logger.Debug("Converted", "source", name, "bytes", len(res.JSON()))
	return 0
}

// readInput reads all of r. With max > 0, longer input is rejected the
// same way the converter rejects it.
func readInput(r io.Reader, max int) ([]byte, error) {
	if max > 0 {
		r = io.LimitReader(r, int64(max)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if max > 0 && len(data) > max {
		return nil, &csvjson.Error{
			Kind: csvjson.KindLimit,
			Err:  fmt.Errorf("%w (limit %d bytes)", csvjson.ErrInputTooLarge, max),
		}
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		return writeJSON(stdout, data)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// fail prints the diagnostic and returns the failure exit status.
func fail(logger *slog.Logger, stderr io.Writer, source string, err error) int {
	var convErr *csvjson.Error
	if errors.As(err, &convErr) {
		logger.Debug("Conversion failed", "source", source, "kind", convErr.Kind.String(),
			"line", convErr.Line, "column", convErr.Column)
	}
	fmt.Fprintln(stderr, err)
	return 1
}
