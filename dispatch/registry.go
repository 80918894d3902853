package dispatch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sergev/quirkbot/combinator"
)

// Command binds a name to the grammar of its arguments. The value of a
// successful Grammar match is the reply; Usage is shown when the
// arguments do not match.
type Command struct {
	Name    string
	Grammar combinator.Parser
	Usage   string
}

// Registry maps command names to commands. It is read-only once built.
type Registry struct {
	commands map[string]Command
	names    []string
}

// NewRegistry builds a registry, rejecting unnamed, grammarless and
// duplicate commands.
func NewRegistry(cmds ...Command) (*Registry, error) {
	reg := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, cmd := range cmds {
		if cmd.Name == "" {
			return nil, errors.New("registry: command without a name")
		}
		if cmd.Grammar == nil {
			return nil, fmt.Errorf("registry: command %q has no grammar", cmd.Name)
		}
		if _, dup := reg.commands[cmd.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate command %q", cmd.Name)
		}
		reg.commands[cmd.Name] = cmd
		reg.names = append(reg.names, cmd.Name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
