// Package shell implements a small command interpreter over a vfs.FileSystem.
package shell

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCommand indicates the verb is not one of the supported commands
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates a known command was given the wrong arguments
	ErrUsage = errors.New("usage")
)

// Command is one parsed shell command. The set of implementations is closed:
// List, ChangeDir, PrintDir, Cat, Uniq, Clear and Exit.
type Command interface {
	command()
}

// List prints the children of the current directory.
type List struct{}

// ChangeDir moves to Target.
type ChangeDir struct {
	Target string
}

// PrintDir prints the current directory.
type PrintDir struct{}

// Cat prints the content of a file in the current directory.
type Cat struct {
	Name string
}

// Uniq removes repeated lines from the previous command's output.
type Uniq struct{}

// Clear clears the terminal.
type Clear struct{}

// Exit stops the interpreter.
type Exit struct{}

func (List) command()      {}
func (ChangeDir) command() {}
func (PrintDir) command()  {}
func (Cat) command()       {}
func (Uniq) command()      {}
func (Clear) command()     {}
func (Exit) command()      {}

// Parse turns one input line into a Command. A blank line yields a nil
// Command and a nil error.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	verb, args := fields[0], fields[1:]

	switch verb {
	case "ls":
		return noArgs(verb, args, List{})
	case "pwd":
		return noArgs(verb, args, PrintDir{})
	case "uniq":
		return noArgs(verb, args, Uniq{})
	case "clear":
		return noArgs(verb, args, Clear{})
	case "exit":
		return noArgs(verb, args, Exit{})
	case "cd":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: cd takes exactly one argument", ErrUsage)
		}
		return ChangeDir{Target: args[0]}, nil
	case "cat":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: cat takes exactly one argument", ErrUsage)
		}
		return Cat{Name: args[0]}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
	}
}

func noArgs(verb string, args []string, cmd Command) (Command, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments", ErrUsage, verb)
	}
	return cmd, nil
}
