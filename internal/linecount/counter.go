package linecount

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

const bufferSize = 32 * 1024 // 32KB buffer for streaming

// CountFile counts newline terminators in a file using streaming reads.
// Only '\n' bytes are counted, so invalid UTF-8 never affects the result and a
// trailing line without a terminator is not counted.
func CountFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	n, err := Count(file)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	return n, nil
}

// Count counts '\n' bytes read from r until EOF.
func Count(r io.Reader) (int, error) {
	buf := make([]byte, bufferSize)
	lines := 0

	for {
		n, err := r.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
