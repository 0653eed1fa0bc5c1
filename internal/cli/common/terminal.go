package common

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stream is an *os.File attached to a terminal.
func IsTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	if !ok || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func IsTerminalWriter(writer io.Writer) bool {
	return IsTerminal(writer)
}

func IsTerminalReader(reader io.Reader) bool {
	return IsTerminal(reader)
}
