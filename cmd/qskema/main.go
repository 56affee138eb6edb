package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/coerce"
	"github.com/reoring/qskema/i18n"
	"github.com/reoring/qskema/query"
)

// errUsage makes run exit with status 2.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `qskema CLI

Usage:
  qskema parse  -schema spec.yaml [-syntax dotted|bracket] [-q QUERY]
  qskema decode [-syntax dotted|bracket] [-q QUERY]
  qskema map    -schema spec.yaml -path a__b -key K [-coerce int]
  qskema unmap  -schema spec.yaml -path a__b -value V [-coerce int]
  qskema item   -schema spec.yaml -path a__b
  qskema schema -schema spec.yaml [-path a__b]

Notes:
  - Without -q the query string is read from stdin.
  - Messages follow -lang, or QSKEMA_LANG when -lang is unset.`)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	var err error
	switch args[0] {
	case "parse":
		err = parseCmd(args[1:], stdin, stdout, stderr)
	case "decode":
		err = decodeCmd(args[1:], stdin, stdout, stderr)
	case "map":
		err = mapCmd(args[1:], stdout, stderr, qskema.Map)
	case "unmap":
		err = mapCmd(args[1:], stdout, stderr, qskema.Unmap)
	case "item":
		err = itemCmd(args[1:], stdout, stderr)
	case "schema":
		err = schemaCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintln(stderr, err)
		return 1
	}
}

// common holds the flags shared by every subcommand.
type common struct {
	schema  string
	syntax  string
	lang    string
	verbose bool
	dump    bool
	log     *slog.Logger
}

func newFlagSet(name string, stderr io.Writer, c *common) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.schema, "schema", "", "schema specification file (.json, .yaml or .yml)")
	fs.StringVar(&c.syntax, "syntax", "dotted", "query path syntax: dotted or bracket")
	fs.StringVar(&c.lang, "lang", "", "message language (en, ja)")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
	fs.BoolVar(&c.dump, "dump", false, "dump the Go value instead of JSON")
	return fs
}

func (c *common) setup(stderr io.Writer) {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	c.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	lang := c.lang
	if lang == "" {
		lang = os.Getenv("QSKEMA_LANG")
	}
	if lang != "" {
		i18n.SetLanguage(lang)
	}
}

func (c *common) loadSchema() (*qskema.GroupPattern, error) {
	if c.schema == "" {
		return nil, fmt.Errorf("-schema is required: %w", errUsage)
	}
	data, err := os.ReadFile(c.schema)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	c.log.Debug("loading schema", "file", c.schema, "bytes", len(data))
	switch strings.ToLower(filepath.Ext(c.schema)) {
	case ".json":
		return qskema.CompileJSON(data, qskema.WithLogger(c.log))
	case ".yaml", ".yml":
		return qskema.CompileYAML(data, qskema.WithLogger(c.log))
	default:
		return nil, fmt.Errorf("unsupported schema extension %q", filepath.Ext(c.schema))
	}
}

func (c *common) querySyntax() (query.Syntax, error) {
	s, ok := query.ParseSyntax(c.syntax)
	if !ok {
		return 0, fmt.Errorf("unknown syntax %q: %w", c.syntax, errUsage)
	}
	return s, nil
}

func (c *common) write(w io.Writer, v any) error {
	if c.dump {
		spew.Fdump(w, v)
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func readQuery(q string, stdin io.Reader) (string, error) {
	if q != "" {
		return q, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading query: %w", err)
	}
	return string(bytes.TrimSpace(b)), nil
}

func parseCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c common
	var q string
	fs := newFlagSet("parse", stderr, &c)
	fs.StringVar(&q, "q", "", "query string")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.setup(stderr)
	root, err := c.loadSchema()
	if err != nil {
		return err
	}
	syntax, err := c.querySyntax()
	if err != nil {
		return err
	}
	q, err = readQuery(q, stdin)
	if err != nil {
		return err
	}
	v, err := query.Validate(root, q, syntax)
	if err != nil {
		return err
	}
	c.log.Debug("parsed query", "syntax", syntax, "fields", len(v.Names()))
	return c.write(stdout, v)
}

func decodeCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c common
	var q string
	fs := newFlagSet("decode", stderr, &c)
	fs.StringVar(&q, "q", "", "query string")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.setup(stderr)
	syntax, err := c.querySyntax()
	if err != nil {
		return err
	}
	q, err = readQuery(q, stdin)
	if err != nil {
		return err
	}
	obj, err := query.Decode(q, syntax)
	if err != nil {
		return err
	}
	return c.write(stdout, obj)
}

type mapFunc func(schema any, path string, v any, co qskema.Coerce) (any, error)

var coercers = map[string]qskema.Coerce{
	"":       nil,
	"string": coerce.String,
	"int":    coerce.Int,
	"float":  coerce.Float,
	"bool":   coerce.Bool,
	"time":   coerce.TimeRFC3339,
}

func mapCmd(args []string, stdout, stderr io.Writer, fn mapFunc) error {
	var c common
	var path, key, value, coerceName string
	fs := newFlagSet("map", stderr, &c)
	fs.StringVar(&path, "path", "", "symbolic path of a mapping (a__b)")
	fs.StringVar(&key, "key", "", "comma-separated keys to map")
	fs.StringVar(&value, "value", "", "comma-separated values to unmap")
	fs.StringVar(&coerceName, "coerce", "", "coerce results: string, int, float, bool or time")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.setup(stderr)
	co, ok := coercers[coerceName]
	if !ok {
		return fmt.Errorf("unknown coercion %q: %w", coerceName, errUsage)
	}
	root, err := c.loadSchema()
	if err != nil {
		return err
	}
	in := key
	if in == "" {
		in = value
	}
	var arg any = in
	if strings.Contains(in, ",") {
		arg = strings.Split(in, ",")
	}
	out, err := fn(root, path, arg, co)
	if err != nil {
		return err
	}
	return c.write(stdout, out)
}

func itemCmd(args []string, stdout, stderr io.Writer) error {
	var c common
	var path string
	fs := newFlagSet("item", stderr, &c)
	fs.StringVar(&path, "path", "", "symbolic path (a__b)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.setup(stderr)
	root, err := c.loadSchema()
	if err != nil {
		return err
	}
	p, err := root.Item(path)
	if err != nil {
		return err
	}
	out := map[string]any{
		"type":     p.Kind().String(),
		"name":     p.Name(),
		"required": p.Required(),
	}
	if d := p.Default(); d != nil {
		out["default"] = d
	}
	if m, ok := p.(*qskema.MappingPattern); ok {
		out["table"] = m.Table()
	}
	return c.write(stdout, out)
}

// schemaCmd exports the JSON Schema of the root or of the pattern at -path.
func schemaCmd(args []string, stdout, stderr io.Writer) error {
	var c common
	var path string
	fs := newFlagSet("schema", stderr, &c)
	fs.StringVar(&path, "path", "", "symbolic path (a__b); empty for the root")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.setup(stderr)
	root, err := c.loadSchema()
	if err != nil {
		return err
	}
	var p qskema.Pattern = root
	if path != "" {
		if p, err = root.Item(path); err != nil {
			return err
		}
	}
	s, err := qskema.JSONSchema(p)
	if err != nil {
		return err
	}
	return c.write(stdout, s)
}
