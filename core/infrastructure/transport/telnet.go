package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ziutek/telnet"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
)

const (
	DefaultTimeout = 30 * time.Second
	BufferSize     = 4096
	DefaultPrompt  = "] > "
)

// TelnetClient manages a Telnet console session with a device
type TelnetClient struct {
	conn         *telnet.Conn
	config       entities.SwitchConfig
	authSequence []entities.AuthPrompt
	prompt       string
	log          *logrus.Entry
}

// NewTelnetClient creates a new Telnet client with the given configuration
func NewTelnetClient(cfg entities.SwitchConfig) *TelnetClient {
	return &TelnetClient{
		config: cfg,
		prompt: DefaultPrompt,
		log:    logging.WithTarget(cfg.Target),
	}
}

// SetAuthSequence configures the login sequence for this client
func (tc *TelnetClient) SetAuthSequence(prompts []entities.AuthPrompt) {
	tc.authSequence = prompts
}

// SetPrompt configures the string that ends every command's output
func (tc *TelnetClient) SetPrompt(prompt string) {
	if prompt != "" {
		tc.prompt = prompt
	}
}

// Connect establishes a Telnet connection and logs in
func (tc *TelnetClient) Connect() error {
	if tc.conn != nil {
		return nil
	}
	conn, err := telnet.DialTimeout("tcp", tc.config.Address(), DefaultTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", tc.config.Target, err)
	}
	tc.conn = conn
	tc.log.Debug("connected via telnet")

	prompts := tc.authSequence
	if len(prompts) == 0 {
		prompts = []entities.AuthPrompt{
			{WaitFor: "Login:", SendCmd: tc.config.Username + "\n"},
			{WaitFor: "Password:", SendCmd: tc.config.Password + "\n"},
			{WaitFor: tc.prompt},
		}
	}

	for _, p := range prompts {
		output, err := tc.readUntil(p.WaitFor, DefaultTimeout)
		if err != nil {
			tc.Disconnect()
			return fmt.Errorf("failed to wait for %q: %w, output: %s", p.WaitFor, err, output)
		}
		if p.SendCmd != "" {
			if err := tc.send(p.SendCmd); err != nil {
				tc.Disconnect()
				return fmt.Errorf("failed to answer %q: %w", p.WaitFor, err)
			}
			tc.log.Debugf("answered prompt %s", p.WaitFor)
		}
	}
	return nil
}

func (tc *TelnetClient) send(data string) error {
	if err := tc.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout)); err != nil {
		return err
	}
	_, err := tc.conn.Write([]byte(data))
	return err
}

// readUntil reads from the Telnet connection until the specified pattern is found
func (tc *TelnetClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	deadline := time.Now().Add(timeout)
	if err := tc.conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	for time.Now().Before(deadline) {
		n, err := tc.conn.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if strings.Contains(output.String(), pattern) {
				return output.String(), nil
			}
		}
		if err != nil {
			return output.String(), fmt.Errorf("read error: %w", err)
		}
	}
	return output.String(), fmt.Errorf("timeout waiting for %s", pattern)
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.conn != nil {
		tc.conn.Close()
		tc.conn = nil
		tc.log.Debug("disconnected")
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command and returns its output without the echo and trailing prompt
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.conn == nil {
		return "", entities.ErrNotConnected
	}
	tc.log.Debugf("executing: %s", cmd)
	if err := tc.send(cmd + "\r\n"); err != nil {
		return "", fmt.Errorf("failed to send %s: %w", cmd, err)
	}
	output, err := tc.readUntil(tc.prompt, DefaultTimeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %w", cmd, err)
	}
	output = stripEcho(output)
	logRaw(tc.config, tc.log, "output of '%s':\n%s", cmd, output)
	return output, nil
}

// stripEcho drops the echoed command line and the trailing prompt line
func stripEcho(output string) string {
	lines := strings.Split(strings.ReplaceAll(output, "\r", ""), "\n")
	if len(lines) <= 1 {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
