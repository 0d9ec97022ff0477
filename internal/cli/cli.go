// Package cli parses marquee command-line invocations.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandDaemon  Command = "daemon"
	CommandReload  Command = "reload"
	CommandKill    Command = "kill"
	CommandOpen    Command = "open"
	CommandClose   Command = "close"
	CommandUpdate  Command = "update"
	CommandState   Command = "state"
	CommandWindows Command = "windows"
	CommandPing    Command = "ping"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

// argCount maps each command to its required positional argument count.
var argCount = map[Command]int{
	CommandDaemon:  0,
	CommandReload:  0,
	CommandKill:    0,
	CommandOpen:    1,
	CommandClose:   1,
	CommandUpdate:  1,
	CommandState:   0,
	CommandWindows: 0,
	CommandPing:    0,
	CommandDoctor:  0,
	CommandVersion: 0,
	CommandHelp:    0,
}

type Parsed struct {
	Command   Command
	Args      []string
	ConfigDir string
	NoDetach  bool
	ShowHelp  bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	seenCommand := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a directory path")
			}
			parsed.ConfigDir = args[i]
		case "--no-detach":
			parsed.NoDetach = true
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}
			if seenCommand {
				return Parsed{}, fmt.Errorf("unexpected argument %q", arg)
			}

			cmd := Command(arg)
			wantArgs, ok := argCount[cmd]
			if !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			if len(args)-i-1 < wantArgs {
				return Parsed{}, fmt.Errorf("command %q requires %d argument(s)", cmd, wantArgs)
			}
			parsed.Command = cmd
			if wantArgs > 0 {
				parsed.Args = args[i+1 : i+1+wantArgs]
			}
			parsed.ShowHelp = cmd == CommandHelp
			i += wantArgs
			seenCommand = true
		}
	}

	if parsed.NoDetach && parsed.Command != CommandDaemon {
		return Parsed{}, errors.New("--no-detach only applies to the daemon command")
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config DIR] <command>

Commands:
  daemon           Start the widget daemon (detaches from the terminal)
  reload           Ask the running daemon to reload config and css
  kill             Stop the running daemon
  open NAME        Open the named window
  close NAME       Close the named window
  update NAME=VAL  Set a variable in the running daemon
  state            Print the daemon's variable state
  windows          List open windows
  ping             Check whether a daemon is running
  doctor           Run configuration and environment checks
  version          Print version information
  help             Show this help

Flags:
  --config DIR    Config directory (default: $XDG_CONFIG_HOME/marquee)
  --no-detach     Run the daemon in the foreground (daemon only)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
