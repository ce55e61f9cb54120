package transport

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
)

// SSHClient runs each command in its own exec session over one SSH connection
type SSHClient struct {
	config entities.SwitchConfig
	client *ssh.Client
	log    *logrus.Entry
}

// NewSSHClient creates a new SSH client with the given configuration
func NewSSHClient(cfg entities.SwitchConfig) *SSHClient {
	return &SSHClient{
		config: cfg,
		log:    logging.WithTarget(cfg.Target),
	}
}

func (sc *SSHClient) Connect() error {
	if sc.IsConnected() {
		return nil
	}
	sshConfig := &ssh.ClientConfig{
		User: sc.config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(sc.config.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = sc.config.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         DefaultTimeout,
	}

	client, err := ssh.Dial("tcp", sc.config.Address(), sshConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via SSH: %w", sc.config.Target, err)
	}
	sc.client = client
	sc.log.Debug("connected via SSH")
	return nil
}

func (sc *SSHClient) Disconnect() {
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
		sc.log.Debug("disconnected")
	}
}

func (sc *SSHClient) IsConnected() bool {
	return sc.client != nil
}

func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	if sc.client == nil {
		return "", entities.ErrNotConnected
	}
	sc.log.Debugf("executing: %s", cmd)

	session, err := sc.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open SSH session for %s: %w", cmd, err)
	}
	defer session.Close()

	out, err := session.CombinedOutput(cmd)
	output := strings.ReplaceAll(string(out), "\r", "")
	logRaw(sc.config, sc.log, "output of '%s':\n%s", cmd, output)
	if err != nil {
		return output, fmt.Errorf("error executing %s: %w", cmd, err)
	}
	return output, nil
}
