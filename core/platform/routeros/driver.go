package routeros

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
)

const (
	driverName = "routeros"

	// loginSuffix turns off colors, auto-completion and terminal detection
	loginSuffix = "+cte"
	prompt      = "] > "
)

var errorHints = []string{
	"failure:",
	"bad command name",
	"syntax error",
	"expected end of command",
	"no such item",
	"invalid value",
	"input does not match any value",
}

// Driver implements the SwitchDriver behaviour for MikroTik RouterOS.
type Driver struct{}

// New creates a new RouterOS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// Detect inspects the device to determine whether it is running RouterOS.
func (d *Driver) Detect(repo ports.SwitchRepository) (bool, error) {
	if !repo.IsConnected() {
		if err := repo.Connect(); err != nil {
			return false, err
		}
	}
	output, err := repo.ExecuteCommand("/system resource print")
	if err != nil {
		return false, err
	}
	lower := strings.ToLower(output)
	return strings.Contains(lower, "mikrotik") || strings.Contains(lower, "routeros"), nil
}

// GetAuthenticationSequence returns the telnet login sequence for RouterOS
func (d *Driver) GetAuthenticationSequence(username, password string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: "Login:", SendCmd: username + loginSuffix + "\n"},
		{WaitFor: "Password:", SendCmd: password + "\n"},
		{WaitFor: prompt, SendCmd: ""},
	}
}

func (d *Driver) Prompt() string {
	return prompt
}

// QueryCommand lists a table one record per line with internal ids.
func (d *Driver) QueryCommand(path entities.ResourcePath) string {
	return menu(path) + " print terse show-ids without-paging"
}

// ParseTable parses the output of QueryCommand.
func (d *Driver) ParseTable(output string) ([]entities.RawRecord, error) {
	if err := d.CommandError(output); err != nil {
		return nil, err
	}
	return parseTerse(output), nil
}

// CreateCommand renders an add for the given table.
func (d *Driver) CreateCommand(path entities.ResourcePath, fields []entities.Field) string {
	return menu(path) + " add" + assignments(fields)
}

// UpdateCommand renders a set against the record with internal id.
func (d *Driver) UpdateCommand(path entities.ResourcePath, id string, fields []entities.Field) string {
	return fmt.Sprintf("%s set %s%s", menu(path), id, assignments(fields))
}

// CommandError returns the first line of output that RouterOS uses to reject a command
func (d *Driver) CommandError(output string) error {
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		for _, hint := range errorHints {
			if strings.Contains(lower, hint) {
				return fmt.Errorf("device rejected command: %s", strings.TrimSpace(line))
			}
		}
	}
	return nil
}

func menu(path entities.ResourcePath) string {
	return "/" + strings.Join(path.Segments(), " ")
}

func assignments(fields []entities.Field) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		sb.WriteString("=")
		sb.WriteString(quote(f.Value))
	}
	return sb.String()
}

// quote wraps value in double quotes, escaping the characters the console interprets
func quote(value string) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte('"')
	for _, r := range value {
		switch r {
		case '\\', '"', '$', '?':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
