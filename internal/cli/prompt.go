package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// confirm asks a yes/no question and reads a single character of answer.
// Only 'y' and 'Y' count as yes; end of input counts as no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/n]: ", question)

	c, err := bufio.NewReader(in).ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return false, nil
		}
		return false, fmt.Errorf("reading answer: %w", err)
	}
	return c == 'y' || c == 'Y', nil
}
