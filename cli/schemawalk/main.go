package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/superisaac/schemawalk"
	"github.com/superisaac/schemawalk/avro"
	"github.com/superisaac/schemawalk/openapi"
	"github.com/superisaac/schemawalk/schema"
)

// exit codes
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type console struct {
	stdout io.Writer
	stderr io.Writer
	red    *color.Color
	green  *color.Color
}

func newConsole(stdout, stderr io.Writer) *console {
	c := &console{
		stdout: stdout,
		stderr: stderr,
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
	}
	if f, ok := stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		c.red.EnableColor()
		c.green.EnableColor()
	} else {
		c.red.DisableColor()
		c.green.DisableColor()
	}
	return c
}

func (c *console) failf(code int, format string, args ...any) int {
	c.red.Fprintf(c.stderr, format+"\n", args...)
	return code
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	out := newConsole(stdout, stderr)

	cliFlags := flag.NewFlagSet("schemawalk", flag.ContinueOnError)
	cliFlags.SetOutput(stderr)
	pSchema := cliFlags.String("schema", "", "schema or openapi document, json or yaml, can be in env SCHEMAWALK_SCHEMA")
	pOpenAPI := cliFlags.Bool("openapi", false, "the document is an OpenAPI 3 specification")
	pVerbose := cliFlags.Bool("v", false, "verbose, log debug messages")
	cliFlags.Usage = func() {
		fmt.Fprintf(stderr, "usage: schemawalk [-schema FILE] [-openapi] [-v] validate|convert [options]\n")
		cliFlags.PrintDefaults()
	}
	if err := cliFlags.Parse(args); err != nil {
		return exitUsage
	}

	if *pVerbose {
		log.SetLevel(log.DebugLevel)
	}

	if cliFlags.NArg() < 1 {
		cliFlags.Usage()
		return exitUsage
	}

	schemaPath := *pSchema
	if schemaPath == "" {
		schemaPath = os.Getenv("SCHEMAWALK_SCHEMA")
	}
	if schemaPath == "" {
		return out.failf(exitUsage, "no schema document, use -schema or env SCHEMAWALK_SCHEMA")
	}

	doc, err := schemawalk.LoadFile(schemaPath)
	if err != nil {
		return out.failf(exitUsage, "load error: %s", err)
	}
	log.WithFields(log.Fields{
		"schema":  schemaPath,
		"openapi": *pOpenAPI,
	}).Debug("document loaded")

	subArgs := cliFlags.Args()
	switch subArgs[0] {
	case "validate":
		return runValidate(out, doc, *pOpenAPI, subArgs[1:], stdin)
	case "convert":
		return runConvert(out, doc, *pOpenAPI, subArgs[1:])
	default:
		return out.failf(exitUsage, "unknown command %s", subArgs[0])
	}
}

// rootSchema parses the document and picks the schema to work on, with
// -openapi the schema is one of the component schemas.
func rootSchema(doc map[string]any, isOpenAPI bool, component string) (schema.Schema, error) {
	if !isOpenAPI {
		return schema.Parse(doc)
	}
	spec, err := openapi.Parse(doc)
	if err != nil {
		return nil, err
	}
	if component == "" {
		return nil, errors.New("-component is required for openapi documents")
	}
	s, ok := spec.Components.Schemas[component]
	if !ok {
		return nil, errors.Errorf("component schema %s not found", component)
	}
	return s, nil
}

func runValidate(out *console, doc map[string]any, isOpenAPI bool, args []string, stdin io.Reader) int {
	cmdFlags := flag.NewFlagSet("validate", flag.ContinueOnError)
	cmdFlags.SetOutput(out.stderr)
	pInstance := cmdFlags.String("instance", "", "the instance to validate, read from stdin when absent")
	pComponent := cmdFlags.String("component", "", "name of the component schema to validate against, openapi only")
	if err := cmdFlags.Parse(args); err != nil {
		return exitUsage
	}

	root, err := rootSchema(doc, isOpenAPI, *pComponent)
	if err != nil {
		return out.failf(exitUsage, "schema error: %s", err)
	}

	var instance any
	if *pInstance != "" {
		instance, err = schemawalk.GuessJson(*pInstance)
	} else {
		var data []byte
		data, err = io.ReadAll(stdin)
		if err == nil {
			instance, err = schemawalk.DecodeJSON(data)
		}
	}
	if err != nil {
		return out.failf(exitUsage, "instance error: %s", err)
	}

	err = schema.Validate(root, instance)
	var verr *schema.ValidationError
	switch {
	case err == nil:
		out.green.Fprintln(out.stdout, "valid")
		return exitOK
	case errors.As(err, &verr):
		log.WithFields(log.Fields{
			"rule": verr.Rule,
			"path": verr.Path(),
		}).Debug("validation failed")
		return out.failf(exitInvalid, "%s", verr.Error())
	default:
		return out.failf(exitUsage, "validate error: %s", err)
	}
}

func runConvert(out *console, doc map[string]any, isOpenAPI bool, args []string) int {
	cmdFlags := flag.NewFlagSet("convert", flag.ContinueOnError)
	cmdFlags.SetOutput(out.stderr)
	pFormat := cmdFlags.String("format", "avro", "target schema format, only avro is supported")
	pComponent := cmdFlags.String("component", "", "name of the component schema to convert, openapi only")
	if err := cmdFlags.Parse(args); err != nil {
		return exitUsage
	}
	if *pFormat != "avro" {
		return out.failf(exitUsage, "unsupported format %s", *pFormat)
	}

	root, err := rootSchema(doc, isOpenAPI, *pComponent)
	if err != nil {
		return out.failf(exitUsage, "schema error: %s", err)
	}
	repr, err := avro.ConvertToString(root)
	if err != nil {
		return out.failf(exitUsage, "convert error: %s", err)
	}
	fmt.Fprintf(out.stdout, "%s\n", repr)
	return exitOK
}
