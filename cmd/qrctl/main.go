// Package main provides the qrctl CLI for scripted payload generation.
//
// This CLI reads JSON from stdin, performs one engine operation, and
// writes the result JSON to stdout. Designed for shell pipelines and
// transport-less debugging of the dialogue engine.
//
// Usage:
//
//	# List data types and their collection steps
//	qrctl types
//
//	# Validate and encode fields for a data type
//	echo '{"fields": {"1": "example.com"}}' | qrctl encode url
//
//	# Run a single validator
//	qrctl check phone "+1234567890"
//
//	# Drive a full dialogue from a line script
//	printf 'create\nurl\nexample.com\n' | qrctl chat
//
//	# Print version information
//	qrctl version
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/quickmark-labs/qrbot/eventbus"
	"github.com/quickmark-labs/qrbot/qrengine/dialogue"
	"github.com/quickmark-labs/qrbot/qrengine/encode"
	"github.com/quickmark-labs/qrbot/qrengine/i18n"
	"github.com/quickmark-labs/qrbot/qrengine/schema"
	"github.com/quickmark-labs/qrbot/qrengine/session"
	"github.com/quickmark-labs/qrbot/qrengine/validate"
)

const (
	cmdTypes   = "types"
	cmdEncode  = "encode"
	cmdCheck   = "check"
	cmdChat    = "chat"
	cmdVersion = "version"
)

const Version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdin, os.Stdout); err != nil {
		writeError(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: qrctl <command>

Commands:
  types           List data types and their collection steps
  encode <type>   Validate stdin fields JSON and print the payload
  check <id> <v>  Run one validator against a value
  chat            Drive a dialogue from stdin lines, print actions
  version         Print version information

Input/Output:
  encode and chat read from stdin and write JSON to stdout.
  Errors are written to stderr as JSON.

Examples:
  echo '{"fields":{"1":"example.com"}}' | qrctl encode url
  printf 'create\nwifi\nHomeNet\nnopass\n' | qrctl chat`)
}

func run(cmd string, args []string, in io.Reader, out io.Writer) error {
	switch cmd {
	case cmdVersion:
		return writeJSON(out, map[string]string{"version": Version})
	case cmdTypes:
		return handleTypes(out)
	case cmdEncode:
		if len(args) < 1 {
			return fmt.Errorf("encode requires a data type argument")
		}
		return handleEncode(args[0], in, out)
	case cmdCheck:
		if len(args) < 2 {
			return fmt.Errorf("check requires a validator id and a value")
		}
		return handleCheck(args[0], args[1], out)
	case cmdChat:
		return handleChat(in, out)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// =============================================================================
// Commands
// =============================================================================

type stepInfo struct {
	Step     int      `json:"step"`
	Name     string   `json:"name"`
	Optional bool     `json:"optional,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

func handleTypes(out io.Writer) error {
	registry := schema.NewRegistry()
	result := make(map[string][]stepInfo, len(schema.AllTypes))
	for _, dt := range schema.AllTypes {
		spec, ok := registry.Lookup(dt)
		if !ok {
			continue
		}
		steps := make([]stepInfo, 0, spec.FieldCount())
		for i := 1; i <= spec.FieldCount(); i++ {
			f, err := spec.Field(i)
			if err != nil {
				return err
			}
			info := stepInfo{Step: i, Name: f.Name, Optional: f.Optional}
			for _, c := range f.Choices {
				info.Choices = append(info.Choices, c.Canonical)
			}
			steps = append(steps, info)
		}
		result[string(dt)] = steps
	}
	return writeJSON(out, result)
}

func handleEncode(typeToken string, in io.Reader, out io.Writer) error {
	registry := schema.NewRegistry()
	dt, ok := registry.Parse(typeToken)
	if !ok {
		return fmt.Errorf("unknown data type: %s", typeToken)
	}
	spec, _ := registry.Lookup(dt)

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := sonic.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	fields := make(map[int]string, len(req.Fields))
	for k, v := range req.Fields {
		step, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("field key %q is not a step number", k)
		}
		fields[step] = v
	}

	if err := checkFields(spec, fields); err != nil {
		return err
	}

	payload, err := encode.Encode(dt, fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", dt, err)
	}
	return writeJSON(out, map[string]string{
		"type":    string(dt),
		"payload": payload,
	})
}

// checkFields applies the schema's validators and choice sets to a full
// field map, the same rules the dialogue applies step by step.
func checkFields(spec *schema.TypeSchema, fields map[int]string) error {
	for i := 1; i <= spec.FieldCount(); i++ {
		f, err := spec.Field(i)
		if err != nil {
			return err
		}
		if f.SkipWhen != nil && fields[f.SkipWhen.Step] == f.SkipWhen.Equals {
			continue
		}
		value, present := fields[i]
		if !present || value == "" {
			if f.Optional {
				continue
			}
			return fmt.Errorf("step %d (%s) is required", i, f.Name)
		}
		if f.HasChoices() {
			if f.ResolveChoice(value) != value {
				return fmt.Errorf("step %d (%s): %q is not one of the choices", i, f.Name, value)
			}
			continue
		}
		if !validate.Check(f.Validator, value) {
			return fmt.Errorf("step %d (%s): %q failed %s validation", i, f.Name, value, f.Validator)
		}
	}
	return nil
}

func handleCheck(validatorID, value string, out io.Writer) error {
	id := validate.ValidatorID(validatorID)
	if !validate.Known(id) {
		return fmt.Errorf("unknown validator: %s", validatorID)
	}
	return writeJSON(out, map[string]any{
		"validator": validatorID,
		"valid":     validate.Check(id, value),
	})
}

// handleChat drives the dialogue controller with one line per event and
// prints each resulting action. Locale catalogs load from LOCALES_DIR
// when available; otherwise keys render as bracketed placeholders.
func handleChat(in io.Reader, out io.Writer) error {
	localesDir := os.Getenv("LOCALES_DIR")
	if localesDir == "" {
		localesDir = "./locales"
	}
	catalog, err := i18n.Load(localesDir, "en")
	if err != nil {
		catalog = i18n.NewStatic("en", map[string]map[string]string{"en": {}})
	}

	logger := &nopLogger{}
	registry := schema.NewRegistry()
	if err := registry.Validate(); err != nil {
		return err
	}
	ctrl := dialogue.NewController(registry, session.NewStore(), eventbus.New(logger), catalog, logger)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		action := ctrl.HandleEvent(context.Background(), "local", scanner.Text())
		line := struct {
			dialogue.Action
			Text string `json:"text"`
		}{Action: action, Text: catalog.Get(action.Locale, action.TextKey)}
		if err := writeJSON(out, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// =============================================================================
// Plumbing
// =============================================================================

type nopLogger struct{}

func (*nopLogger) Debug(msg string, keysAndValues ...any) {}
func (*nopLogger) Info(msg string, keysAndValues ...any)  {}
func (*nopLogger) Warn(msg string, keysAndValues ...any)  {}
func (*nopLogger) Error(msg string, keysAndValues ...any) {}

func writeJSON(out io.Writer, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func writeError(out io.Writer, err error) {
	data, merr := sonic.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		fmt.Fprintln(out, err.Error())
		return
	}
	fmt.Fprintln(out, string(data))
}
