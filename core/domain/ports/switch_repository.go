package ports

// SwitchRepository is an interactive CLI session with a device
type SwitchRepository interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}
