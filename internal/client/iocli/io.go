// Package iocli abstracts the terminal for the client commands.
package iocli

//go:generate moq -out io_mock.go . IO

// IO ввод-вывод команд клиента
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// ReadInput печатает приглашение и читает одну строку без перевода строки
	ReadInput(prompt string) (string, error)
	// Write выводит текст документа как есть
	Write(p []byte) (n int, err error)
}
