// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"promptsets/internal/config"
	"promptsets/internal/promptset"
	"promptsets/internal/selection"
	"promptsets/internal/table"
)

// Command represents a slash command
type Command struct {
	Name        string
	Usage       string
	Description string
}

// getAvailableCommands returns the list of all slash commands
func getAvailableCommands() []Command {
	return []Command{
		{Name: "help", Description: "Show available commands"},
		{Name: "list", Description: "List prompt sets"},
		{Name: "use", Usage: "<set>", Description: "Switch to a prompt set"},
		{Name: "show", Description: "Show the current selections"},
		{Name: "mode", Usage: "<column> <mode>", Description: "Set a column's mode (Fixed, Randomize, Follow, Cycle)"},
		{Name: "val", Usage: "<column> <value>", Description: "Set a column's value (None to skip)"},
		{Name: "weight", Usage: "<column> <0-5>", Description: "Set a column's weight"},
		{Name: "sep", Usage: "<column> <text>", Description: "Set the separator after a column (quote to keep spaces)"},
		{Name: "seed", Usage: "[n]", Description: "Show or set the seed"},
		{Name: "next", Description: "Increment the seed and build"},
		{Name: "reset", Usage: "[column]", Description: "Reset cycle cursors"},
		{Name: "quit", Description: "Exit the application"},
		{Name: "exit", Description: "Exit the application"},
	}
}

func usageFor(name string) string {
	for _, cmd := range getAvailableCommands() {
		if cmd.Name == name {
			return cmd.Usage
		}
	}
	return ""
}

type replSession struct {
	app  *app
	out  io.Writer
	node *promptset.Node
	tbl  *table.Table
	opts map[string]any
	seed uint64
}

func newREPLSession(a *app, out io.Writer) *replSession {
	return &replSession{app: a, out: out, seed: a.cfg.Seed()}
}

func runREPL(a *app) error {
	a.logger.Debug().Msg("Running in interactive mode")

	session := newREPLSession(a, os.Stdout)
	if names := a.registry.Names(); len(names) > 0 {
		if err := session.use(names[0]); err != nil {
			session.printError(err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "❯ ",
		HistoryFile:     a.cfg.HistoryFile,
		AutoComplete:    getCommandCompleter(a),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(session.out, a.colors.Header.Sprint("Promptsets"))
	fmt.Fprintf(session.out, "Prompt sets from: %s\n", a.cfg.PromptSetsDir)
	fmt.Fprintln(session.out, "Press Enter to build, /help for commands")
	fmt.Fprintln(session.out)

	for {
		line, err := rl.Readline()
		switch classifyReadlineError(line, err) {
		case readlineContinue:
			continue
		case readlineExit:
			a.logger.Info().Msg("Session ended")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if session.handleLine(sanitizeInputLine(line)) {
			a.logger.Info().Msg("Session ended")
			return nil
		}
	}
}

// getCommandCompleter builds a readline completer from available commands
func getCommandCompleter(a *app) *readline.PrefixCompleter {
	commands := getAvailableCommands()
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, cmd := range commands {
		if cmd.Name == "use" {
			items = append(items, readline.PcItem("/use", readline.PcItemDynamic(func(string) []string {
				return a.registry.Names()
			})))
			continue
		}
		items = append(items, readline.PcItem("/"+cmd.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

// handleLine processes one line of input, returns true if should quit
func (s *replSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		s.build()
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s.app.colors.Error.Fprintln(s.out, "✗ Commands start with / (type /help for available commands)")
		return false
	}
	s.app.logger.Debug().Str("command", line).Msg("Executing command")
	return s.handleCommand(line)
}

// handleCommand processes slash commands, returns true if should quit
func (s *replSession) handleCommand(line string) bool {
	fields, _ := splitArgs(line, 1)
	cmdName := strings.ToLower(strings.TrimPrefix(fields[0], "/"))

	var err error
	switch cmdName {
	case "help":
		s.showHelp()
	case "list":
		err = runList(s.app, s.out)
	case "use":
		args, _ := splitArgs(line, 2)
		if len(args) < 2 {
			err = fmt.Errorf("usage: /use <set>")
			break
		}
		if err = s.use(args[1]); err == nil {
			s.app.colors.Success.Fprintf(s.out, "✓ Using %s\n", args[1])
		}
	case "show":
		err = s.show()
	case "mode", "val", "weight", "sep":
		err = s.setColumnOption(cmdName, line)
	case "seed":
		args, _ := splitArgs(line, 2)
		if len(args) < 2 {
			fmt.Fprintf(s.out, "Seed: %d\n", s.seed)
			break
		}
		err = s.setSeed(args[1])
	case "next":
		s.seed = (s.seed + 1) % (config.MaxSeed + 1)
		s.build()
	case "reset":
		args, _ := splitArgs(line, 2)
		if len(args) < 2 {
			s.app.registry.Cursors().ResetAll()
			s.app.colors.Success.Fprintln(s.out, "✓ All cycle cursors reset")
			break
		}
		s.app.registry.Cursors().Reset(args[1])
		s.app.colors.Success.Fprintf(s.out, "✓ Cycle cursor for %s reset\n", args[1])
	case "quit", "exit":
		return true
	default:
		err = fmt.Errorf("unknown command: /%s (type /help for available commands)", cmdName)
	}

	if err != nil {
		s.printError(err)
	}
	return false
}

func (s *replSession) use(name string) error {
	node, err := s.app.registry.Node(name)
	if err != nil {
		return err
	}
	tbl, err := node.Table()
	if err != nil {
		return err
	}
	s.node = node
	s.tbl = tbl
	s.opts = promptset.Defaults(tbl)
	return nil
}

func (s *replSession) build() {
	if s.node == nil {
		s.printError(fmt.Errorf("no prompt set selected (use /use <set>)"))
		return
	}
	prompt, err := s.node.Build(s.seed, s.opts)
	if err != nil {
		s.printError(err)
		return
	}
	s.app.colors.Value.Fprintln(s.out, prompt)
}

func (s *replSession) setSeed(arg string) error {
	seed, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || seed > config.MaxSeed {
		return fmt.Errorf("seed must be an integer in [0, %d]", uint64(config.MaxSeed))
	}
	s.seed = seed
	return nil
}

func (s *replSession) setColumnOption(cmdName, line string) error {
	if s.tbl == nil {
		return fmt.Errorf("no prompt set selected (use /use <set>)")
	}
	args, rest := splitArgs(line, 2)
	if len(args) < 2 || rest == "" {
		return fmt.Errorf("usage: /%s %s", cmdName, usageFor(cmdName))
	}
	column, arg := args[1], unquoteArg(rest)
	position := -1
	for i, h := range s.tbl.Headers {
		if h == column {
			position = i
		}
	}
	if position < 0 {
		return fmt.Errorf("unknown column %q", column)
	}

	switch cmdName {
	case "mode":
		mode, ok := selection.ParseMode(arg)
		if !ok {
			return fmt.Errorf("unknown mode %q", arg)
		}
		s.opts[promptset.ModeKey(column)] = string(mode)
	case "val":
		if arg != selection.None && s.tbl.IndexOf(column, arg) < 0 {
			return fmt.Errorf("%q is not a value of column %q", arg, column)
		}
		s.opts[promptset.ValueKey(column)] = arg
	case "weight":
		weight, err := strconv.ParseFloat(arg, 64)
		if err != nil || weight < selection.MinWeight || weight > selection.MaxWeight {
			return fmt.Errorf("weight must be a number in [%.0f, %.0f]", selection.MinWeight, selection.MaxWeight)
		}
		s.opts[promptset.WeightKey(column)] = weight
	case "sep":
		if position == len(s.tbl.Headers)-1 {
			return fmt.Errorf("column %q is last and has no separator", column)
		}
		s.opts[promptset.SeparatorKey(column, s.tbl.Headers[position+1])] = arg
	}
	s.app.colors.Success.Fprintf(s.out, "✓ %s %s = %q\n", column, cmdName, arg)
	return nil
}

func (s *replSession) show() error {
	if s.tbl == nil {
		return fmt.Errorf("no prompt set selected (use /use <set>)")
	}
	fmt.Fprintln(s.out, s.app.colors.Header.Sprintf("%s (seed %d)", s.node.Set.Name, s.seed))

	w := tabwriter.NewWriter(s.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "Column\tMode\tValue\tWeight\tSeparator")
	for i, h := range s.tbl.Headers {
		sep := ""
		if i < len(s.tbl.Headers)-1 {
			sep = strconv.Quote(fmt.Sprint(s.opts[promptset.SeparatorKey(h, s.tbl.Headers[i+1])]))
		}
		fmt.Fprintf(w, "%s\t%v\t%v\t%v\t%s\n", h,
			s.opts[promptset.ModeKey(h)],
			s.opts[promptset.ValueKey(h)],
			s.opts[promptset.WeightKey(h)],
			sep)
	}
	return w.Flush()
}

func (s *replSession) showHelp() {
	fmt.Fprintln(s.out, s.app.colors.Header.Sprint("\nAvailable Commands:"))
	for _, cmd := range getAvailableCommands() {
		fmt.Fprintf(s.out, "  %-24s - %s\n", strings.TrimSpace("/"+cmd.Name+" "+cmd.Usage), cmd.Description)
	}
	fmt.Fprintln(s.out, "\nKeyboard Shortcuts:")
	fmt.Fprintln(s.out, "  Enter        - Build a prompt with the current seed")
	fmt.Fprintln(s.out, "  Tab          - Auto-complete commands")
	fmt.Fprintln(s.out)
}

func (s *replSession) printError(err error) {
	s.app.logger.Debug().Err(err).Msg("Command error")
	s.app.colors.Error.Fprintf(s.out, "✗ %v\n", err)
}
