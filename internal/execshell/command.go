package execshell

import "strings"

const (
	commandArgumentsJoinSeparatorConstant = " "
)

// CommandName identifies an executable resolvable through the system path.
type CommandName string

// CommandDetails describes the invocation parameters for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines a CommandName with specific invocation details.
//
// Commands are always launched as argument vectors; identifiers never pass
// through a shell string.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// String renders the command for log messages.
func (command ShellCommand) String() string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, command.Details.Arguments...)
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

// ExecutionResult captures the observable outcome of one streamed command execution.
type ExecutionResult struct {
	CombinedOutput string
	ExitCode       int
	Aborted        bool
}

// Successful reports whether the command ran to completion with a zero exit code.
func (result ExecutionResult) Successful() bool {
	return !result.Aborted && result.ExitCode == 0
}
