package guard

import (
	"bufio"
	"io"
	"strings"
)

// Confirm reads one line from r and reports whether it is the confirmation
// phrase.
func Confirm(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	return strings.TrimRight(line, "\r\n") == ConfirmationPhrase
}
