package console

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// callPattern matches the dotted grammar: <Class>.<method>(<args>).
var callPattern = regexp.MustCompile(`^([A-Za-z_]\w*)\.([A-Za-z_]\w*)\((.*)\)$`)

// call is a parsed dotted-grammar line.
type call struct {
	class  string
	method string
	args   []string
}

// parseCall recognizes a dotted call. ok is false when line is not one, so
// the caller falls back to the space-separated grammar.
func parseCall(line string) (call, bool, error) {
	m := callPattern.FindStringSubmatch(line)
	if m == nil {
		return call{}, false, nil
	}
	args, err := parseCallArgs(m[3])
	if err != nil {
		return call{}, true, err
	}
	return call{class: m[1], method: m[2], args: args}, true, nil
}

// parseCallArgs reads a comma-separated argument list. Each argument is a
// JSON literal; bare or single-quoted words are taken as strings.
func parseCallArgs(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if args, err := decodeJSONArgs(s); err == nil {
		return args, nil
	}

	var args []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty argument in %q", s)
		}
		if n := len(part); n >= 2 && (part[0] == '\'' && part[n-1] == '\'' || part[0] == '"' && part[n-1] == '"') {
			part = part[1 : n-1]
		} else if strings.ContainsAny(part, `'"`) {
			return nil, fmt.Errorf("unbalanced quotes in %q", part)
		}
		args = append(args, part)
	}
	return args, nil
}

func decodeJSONArgs(s string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader("[" + s + "]"))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after arguments")
	}

	args := make([]string, 0, len(raw))
	for _, v := range raw {
		switch x := v.(type) {
		case string:
			args = append(args, x)
		case json.Number:
			args = append(args, x.String())
		case bool, nil:
			return nil, fmt.Errorf("unsupported argument %v", x)
		default:
			// objects and arrays are passed through as their JSON text
			var buf bytes.Buffer
			if err := json.NewEncoder(&buf).Encode(x); err != nil {
				return nil, err
			}
			args = append(args, strings.TrimSpace(buf.String()))
		}
	}
	return args, nil
}

// splitCommand separates the command word from the rest of the line.
func splitCommand(line string) (name, rest string) {
	if strings.HasPrefix(line, "?") {
		return "help", strings.TrimSpace(line[1:])
	}
	name, rest, _ = strings.Cut(line, " ")
	return name, strings.TrimSpace(rest)
}

// splitFields splits on plain whitespace.
func splitFields(rest string) ([]string, error) {
	return strings.Fields(rest), nil
}

// splitShell splits with shell quoting rules so values may contain spaces.
func splitShell(rest string) ([]string, error) {
	return shlex.Split(rest)
}
