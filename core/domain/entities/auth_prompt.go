package entities

// AuthPrompt is one step of an interactive login: wait for a prompt, then reply
type AuthPrompt struct {
	WaitFor string // prompt to wait for
	SendCmd string // reply to send (empty means just wait)
}
