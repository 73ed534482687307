package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"zipvfs/internal/logging"
	"zipvfs/internal/vfs"
)

var (
	shellLogger = logging.GetLogger().WithPrefix("shell")
)

// ClearScreen is the ANSI sequence written by the clear command.
const ClearScreen = "\033[H\033[2J"

// DefaultPrompt is used when no prompt is configured. The first %s is
// replaced by the current directory.
const DefaultPrompt = "%s$ "

// Emulator executes commands against a filesystem and writes their output.
type Emulator struct {
	fs         *vfs.FileSystem
	out        io.Writer
	prompt     string
	lastOutput string
	running    bool
}

// Option configures an Emulator.
type Option func(*Emulator)

// WithPrompt sets the prompt format used by Run.
func WithPrompt(prompt string) Option {
	return func(e *Emulator) {
		if prompt != "" {
			e.prompt = prompt
		}
	}
}

// NewEmulator creates an Emulator writing to out. The caller keeps
// ownership of fs and closes it when done.
func NewEmulator(fs *vfs.FileSystem, out io.Writer, opts ...Option) *Emulator {
	e := &Emulator{
		fs:      fs,
		out:     out,
		prompt:  DefaultPrompt,
		running: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Running reports whether exit has not been executed yet.
func (e *Emulator) Running() bool {
	return e.running
}

// LastOutput returns the output of the most recent command that produced
// one; uniq operates on it.
func (e *Emulator) LastOutput() string {
	return e.lastOutput
}

// ExecuteLine parses and executes one line. Parse errors are reported on
// the output like any other command failure.
func (e *Emulator) ExecuteLine(line string) {
	if !e.running {
		return
	}
	cmd, err := Parse(line)
	switch {
	case errors.Is(err, ErrUnknownCommand):
		e.println(fmt.Sprintf("unknown command: %s", strings.Fields(line)[0]))
		return
	case err != nil:
		e.println(fmt.Sprintf("error: %v", err))
		return
	case cmd == nil:
		return
	}
	e.Execute(cmd)
}

// Execute runs a parsed command. Commands are ignored once exit has run.
func (e *Emulator) Execute(cmd Command) {
	if !e.running {
		return
	}
	shellLogger.Debug("Executing %T in %q", cmd, e.fs.CurrentPath())

	switch c := cmd.(type) {
	case List:
		e.list()
	case ChangeDir:
		e.changeDir(c.Target)
	case PrintDir:
		e.emit(e.fs.CurrentPath())
	case Cat:
		e.cat(c.Name)
	case Uniq:
		e.uniq()
	case Clear:
		e.clear()
	case Exit:
		e.running = false
		e.emit("exiting")
	default:
		panic(fmt.Sprintf("shell: unhandled command %T", cmd))
	}
}

func (e *Emulator) list() {
	children := e.fs.ListDirectory()
	lines := make([]string, 0, len(children))
	for _, c := range children {
		lines = append(lines, c.String())
	}
	e.emit(strings.Join(lines, "\n"))
}

func (e *Emulator) changeDir(target string) {
	if !e.fs.ChangeDirectory(target) {
		e.println(fmt.Sprintf("directory not found: %s", target))
		return
	}
	e.emit(fmt.Sprintf("current directory: %s", e.fs.CurrentPath()))
}

func (e *Emulator) cat(name string) {
	data, err := e.fs.ReadFile(name)
	if err != nil {
		e.println(fmt.Sprintf("error: %v", err))
		return
	}
	e.emit(strings.TrimSuffix(string(data), "\n"))
}

func (e *Emulator) uniq() {
	if e.lastOutput == "" {
		e.println("nothing to process")
		return
	}

	lines := strings.Split(e.lastOutput, "\n")
	seen := make(map[string]bool, len(lines))
	unique := make([]string, 0, len(lines))
	for _, line := range lines {
		if seen[line] {
			continue
		}
		seen[line] = true
		unique = append(unique, line)
	}

	result := strings.Join(unique, "\n")
	if result != e.lastOutput {
		e.emit(result)
	}
}

func (e *Emulator) clear() {
	e.write(ClearScreen)
	e.lastOutput = ""
}

// emit prints output and remembers it for uniq.
func (e *Emulator) emit(output string) {
	e.lastOutput = output
	if output != "" {
		e.println(output)
	}
}

func (e *Emulator) println(s string) {
	e.write(s + "\n")
}

func (e *Emulator) write(s string) {
	if _, err := io.WriteString(e.out, s); err != nil {
		shellLogger.Error("Failed to write output: %v", err)
	}
}

// RunScript executes each non-blank line of r, stopping after exit. Only
// read errors are returned; command failures are reported on the output.
func (e *Emulator) RunScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for e.running && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		shellLogger.Debug("Script line: %q", line)
		e.ExecuteLine(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

func (e *Emulator) promptText() string {
	if !strings.Contains(e.prompt, "%s") {
		return e.prompt
	}
	return strings.Replace(e.prompt, "%s", e.fs.CurrentPath(), 1)
}

// Run prompts for and executes commands from in until exit or end of input.
func (e *Emulator) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for e.running {
		e.write(e.promptText())
		if !scanner.Scan() {
			e.write("\n")
			break
		}
		e.ExecuteLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
