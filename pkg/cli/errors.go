package cli

import "fmt"

// ConfigError reports an unloadable or invalid configuration setting.
// Setting is the dotted config path ("rescan.schedule"); empty means the
// configuration as a whole could not be loaded.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Setting == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Reason)
}

// NewConfigError creates a ConfigError for the given setting.
func NewConfigError(setting, reason string) *ConfigError {
	return &ConfigError{Setting: setting, Reason: reason}
}

// CommandError wraps a subcommand failure so Execute exits non-zero with
// the failing command named.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("keyruled %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err as a failure of the named subcommand.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
