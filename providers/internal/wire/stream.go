package wire

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// SSEDecoder decodes Server-Sent Events and yields concatenated "data:"
// payloads. Event names, ids and comments are ignored.
type SSEDecoder struct {
	r   *bufio.Reader
	buf []string
}

func NewSSEDecoder(r io.Reader) *SSEDecoder {
	return &SSEDecoder{r: bufio.NewReader(r)}
}

// NextData returns the next SSE data payload joined by "\n".
// It returns io.EOF when the underlying reader ends.
func (d *SSEDecoder) NextData() (string, error) {
	for {
		line, err := d.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(d.buf) > 0 {
				return d.flush(), nil
			}
			if err == io.EOF {
				return "", io.EOF
			}
			continue
		}

		if data, ok := strings.CutPrefix(line, "data:"); ok {
			d.buf = append(d.buf, strings.TrimSpace(data))
		}

		if err == io.EOF {
			if len(d.buf) > 0 {
				return d.flush(), nil
			}
			return "", io.EOF
		}
	}
}

func (d *SSEDecoder) flush() string {
	out := strings.Join(d.buf, "\n")
	d.buf = d.buf[:0]
	return out
}

// LineDecoder yields the non-blank lines of a newline-delimited JSON stream.
type LineDecoder struct {
	r *bufio.Reader
}

func NewLineDecoder(r io.Reader) *LineDecoder {
	return &LineDecoder{r: bufio.NewReader(r)}
}

// Next returns the next non-blank line without its terminator.
// It returns io.EOF once the reader is exhausted.
func (d *LineDecoder) Next() ([]byte, error) {
	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line, nil
		}
		if err == io.EOF {
			return nil, io.EOF
		}
	}
}
