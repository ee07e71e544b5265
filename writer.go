package main

import (
	"bufio"
	"fmt"
	"io"
)

// WriteResponse serializes res onto w. A response with a body is framed by
// Content-Length and followed by an extra CRLF, which the clients of this
// server expect.
func WriteResponse(w io.Writer, res *Response) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d %s\r\n", res.Version, res.Status, res.Phrase)
	for _, f := range res.Header() {
		fmt.Fprintf(bw, "%s: %s\r\n", f.Name, f.Value)
	}
	bw.WriteString("\r\n")
	if res.hasBody() {
		bw.Write(res.Body)
		bw.WriteString("\r\n")
	}
	return bw.Flush()
}
