package imagearchiver

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// ReadReferences collects image references from CLI arguments or, when no
// arguments were given, from newline-delimited input on r. Blank lines and
// lines starting with '#' are skipped.
func ReadReferences(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		refs := make([]string, 0, len(args))
		for _, arg := range args {
			arg = strings.TrimSpace(arg)
			if arg != "" {
				refs = append(refs, arg)
			}
		}
		return refs, nil
	}

	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// StdinIsTerminal reports whether standard input is attached to a terminal
// rather than a pipe or a file.
func StdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
