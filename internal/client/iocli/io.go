package iocli

//go:generate moq -out io_mock.go . IO

// IO is the interactive side of the terminal
type IO interface {
	ReadInput(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
	IsTerminal() bool
}
