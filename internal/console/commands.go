package console

import (
	"strconv"
	"strings"

	"github.com/joss/hbnb/internal/domain"
)

// User-facing error messages.
const (
	msgClassMissing     = "class name missing"
	msgClassUnknown     = "class doesn't exist"
	msgIDMissing        = "instance id missing"
	msgNoInstance       = "no instance found"
	msgAttributeMissing = "attribute name missing"
	msgValueMissing     = "value missing"
)

const helpWidth = 79

func (c *Console) register() {
	c.add(&command{
		name: "quit",
		doc:  "Quit command to exit the program",
		run:  func([]string) bool { return true },
	})
	c.add(&command{
		name: "EOF",
		doc:  "(Ctrl + D) to force the program to exit",
		run:  func([]string) bool { return true },
	})
	c.add(&command{
		name: "create",
		doc:  "Creates a new instance of the specified class, saves it and prints its id.\nEx: $ create BaseModel",
		run:  c.create,
	})
	c.add(&command{
		name: "show",
		doc:  "Prints the string representation of an instance based on the class name and id.\nEx: $ show BaseModel 1234-1234-1234",
		run:  c.show,
	})
	c.add(&command{
		name: "destroy",
		doc:  "Deletes an instance based on the class name and id (and saves the changes).\nEx: $ destroy BaseModel 1234-1234-1234",
		run:  c.destroy,
	})
	c.add(&command{
		name: "all",
		doc:  "Prints all string representation of all instances based or not on the class name.\nEx: $ all BaseModel or $ all",
		run:  c.all,
	})
	c.add(&command{
		name:  "update",
		doc:   "Updates an instance based on the class name and id by adding or updating attribute.\nEx: $ update BaseModel 1234-1234-1234 email \"aibnb@mail.com\"",
		split: splitShell,
		run:   c.update,
	})
	c.add(&command{
		name: "help",
		doc:  "List available commands with \"help\" or detailed help with \"help cmd\".",
		run:  c.help,
	})
}

// kind resolves args[0] to a registered variant, printing the matching
// error when it cannot.
func (c *Console) kind(args []string) (domain.Kind, bool) {
	if len(args) == 0 {
		c.out.Error(msgClassMissing)
		return "", false
	}
	kind, ok := c.registry.Lookup(args[0])
	if !ok {
		c.out.Error(msgClassUnknown)
		return "", false
	}
	return kind, true
}

// instance resolves args[0] and args[1] to a live entity.
func (c *Console) instance(args []string) (domain.Entity, bool) {
	kind, ok := c.kind(args)
	if !ok {
		return nil, false
	}
	if len(args) < 2 {
		c.out.Error(msgIDMissing)
		return nil, false
	}
	e, err := c.repo.Get(kind, args[1])
	if err != nil {
		c.out.Error(msgNoInstance)
		return nil, false
	}
	return e, true
}

func (c *Console) persist(event string, e domain.Entity, err error) {
	if err != nil {
		c.logger.Error("save_failed", map[string]interface{}{
			"command": event,
			"key":     domain.Key(e),
		}, err)
		return
	}
	c.logger.Info(event, map[string]interface{}{"key": domain.Key(e)})
}

func (c *Console) create(args []string) bool {
	kind, ok := c.kind(args)
	if !ok {
		return false
	}
	e, err := c.registry.New(string(kind))
	if err != nil {
		c.out.Error(msgClassUnknown)
		return false
	}
	c.persist("created", e, domain.Save(e, c.repo))
	c.out.Text(e.Meta().ID)
	return false
}

func (c *Console) show(args []string) bool {
	if e, ok := c.instance(args); ok {
		c.out.Text(domain.Render(e))
	}
	return false
}

func (c *Console) destroy(args []string) bool {
	e, ok := c.instance(args)
	if !ok {
		return false
	}
	delete(c.repo.All(), domain.Key(e))
	c.persist("destroyed", e, c.repo.Save())
	return false
}

func (c *Console) all(args []string) bool {
	var kind domain.Kind
	if len(args) > 0 {
		k, ok := c.registry.Lookup(args[0])
		if !ok {
			c.out.Error(msgClassUnknown)
			return false
		}
		kind = k
	}

	rendered := []string{}
	for _, e := range c.repo.Filter(kind) {
		rendered = append(rendered, domain.Render(e))
	}
	c.out.Text(domain.Repr(rendered))
	return false
}

func (c *Console) update(args []string) bool {
	e, ok := c.instance(args)
	if !ok {
		return false
	}
	if len(args) < 3 {
		c.out.Error(msgAttributeMissing)
		return false
	}
	if len(args) < 4 {
		c.out.Error(msgValueMissing)
		return false
	}

	name, value := args[2], args[3]
	if !e.Meta().Set(name, value) {
		c.logger.Debug("reserved_attribute", map[string]interface{}{
			"key":       domain.Key(e),
			"attribute": name,
		})
		return false
	}
	c.persist("updated", e, domain.Save(e, c.repo))
	return false
}

// count is reachable only through the dotted grammar.
func (c *Console) count(args []string) {
	kind, ok := c.kind(args)
	if !ok {
		return
	}
	c.out.Text(strconv.Itoa(c.repo.Count(kind)))
}

func (c *Console) help(args []string) bool {
	if len(args) == 0 {
		c.out.Line()
		c.out.Topics("Documented commands (type help <topic>):", c.names(), helpWidth)
		return false
	}

	topic := args[0]
	cmd, ok := c.commands[topic]
	if !ok {
		c.out.Problem("No help on %s", strings.Join(args, " "))
		return false
	}
	c.out.Text(cmd.doc)
	return false
}
