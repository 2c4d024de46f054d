// Package console implements the hbnb line interpreter: a command table,
// the two input grammars, and the prompt loop.
package console

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/joss/hbnb/internal/config"
	"github.com/joss/hbnb/internal/domain"
	"github.com/joss/hbnb/internal/logging"
	"github.com/joss/hbnb/internal/render"
	"github.com/joss/hbnb/internal/store"
)

// Storage is what the interpreter needs from the object store.
type Storage interface {
	store.Repository
	store.Reader
}

// command is one entry in the command table. run returns true to stop the
// loop.
type command struct {
	name  string
	doc   string
	split func(rest string) ([]string, error)
	run   func(args []string) bool
}

// Options configure a Console.
type Options struct {
	// Prompt defaults to config.Prompt.
	Prompt string
	// Interactive is true when input comes from a terminal. Otherwise a
	// newline is written after each line is read.
	Interactive bool
	Logger      *logging.Logger
}

// Console dispatches input lines against a Storage.
type Console struct {
	repo        Storage
	registry    *domain.Registry
	out         *render.Writer
	logger      *logging.Logger
	recovery    *logging.RecoveryHandler
	commands    map[string]*command
	prompt      string
	interactive bool
}

// New creates a Console writing user output to out.
func New(repo Storage, registry *domain.Registry, out io.Writer, opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("console")
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = config.Prompt
	}

	c := &Console{
		repo:        repo,
		registry:    registry,
		out:         render.NewWriter(out),
		logger:      logger,
		recovery:    logging.NewRecoveryHandler("console", logger),
		commands:    make(map[string]*command),
		prompt:      prompt,
		interactive: opts.Interactive,
	}
	c.register()
	return c
}

func (c *Console) add(cmd *command) {
	if cmd.split == nil {
		cmd.split = splitFields
	}
	c.commands[cmd.name] = cmd
}

// names returns the documented command names, sorted.
func (c *Console) names() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a single line and reports whether the loop should stop.
func (c *Console) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	var stop bool
	err := c.recovery.WrapError(func() error {
		stop = c.dispatch(line)
		return nil
	})
	if err != nil {
		c.out.Problem("%v", err)
	}
	return stop
}

func (c *Console) dispatch(line string) bool {
	if cl, ok, err := parseCall(line); ok {
		if err != nil {
			c.logger.Debug("bad_call", map[string]interface{}{"line": line, "error": err.Error()})
			c.unknown(line)
			return false
		}
		return c.invoke(line, cl)
	}

	name, rest := splitCommand(line)
	cmd, ok := c.commands[name]
	if !ok {
		c.unknown(line)
		return false
	}
	args, err := cmd.split(rest)
	if err != nil {
		c.logger.Debug("bad_arguments", map[string]interface{}{"line": line, "error": err.Error()})
		c.unknown(line)
		return false
	}
	return cmd.run(args)
}

// invoke routes a dotted call to the matching command with the class
// prepended to its arguments.
func (c *Console) invoke(line string, cl call) bool {
	args := append([]string{cl.class}, cl.args...)
	switch cl.method {
	case "count":
		c.count(args)
		return false
	case "all", "show", "destroy", "update":
		return c.commands[cl.method].run(args)
	}
	c.unknown(line)
	return false
}

func (c *Console) unknown(line string) {
	c.out.Problem("Unknown syntax: %s", line)
}

// Run prints the prompt, reads lines from in and executes them until a
// command stops the loop, input ends, or ctx is done. End of input is
// handled as the EOF command.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	session := ulid.Make().String()
	c.logger = c.logger.WithSession(session)
	c.recovery.Logger = c.logger
	c.logger.Debug("session_started", nil)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.out.Print("%s", c.prompt)

		line := "EOF"
		if scanner.Scan() {
			line = scanner.Text()
		} else if err := scanner.Err(); err != nil {
			c.logger.Error("read_failed", nil, err)
			return err
		}

		if !c.interactive {
			c.out.Line()
		}
		if c.Execute(line) {
			c.logger.Debug("session_ended", nil)
			return nil
		}
	}
}
