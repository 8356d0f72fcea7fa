package console

import (
	"os"

	"golang.org/x/term"
)

// Console is the capability set of a passthrough output stream: the shape the
// host runtime expects wherever it previously wrote text directly. Redirect
// satisfies it too, making it a drop-in substitute.
type Console interface {
	WriteString(s string)
	Flush() error
	IsTerminal() bool
}

// FileConsole adapts an *os.File (normally os.Stdout or os.Stderr) to the
// Console shape. Its WriteString doubles as the direct-echo callback handed
// to a Redirect wrapping it.
type FileConsole struct {
	file *os.File
}

func MakeFileConsole(file *os.File) *FileConsole {
	return &FileConsole{file: file}
}

// WriteString writes s directly to the underlying file. Best effort; write
// errors on a console stream are not the caller's problem to handle.
func (c *FileConsole) WriteString(s string) {
	c.file.WriteString(s)
}

func (c *FileConsole) Flush() error {
	return c.file.Sync()
}

func (c *FileConsole) IsTerminal() bool {
	return term.IsTerminal(int(c.file.Fd()))
}
