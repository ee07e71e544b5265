package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func ExpectEqual(t *testing.T, expect, actual string) {
	t.Helper()
	if expect != actual {
		t.Errorf("Got %q, want %q", actual, expect)
	}
}

type MockAddr struct {
	str string
}

func (m MockAddr) Network() string { return "" }
func (m MockAddr) String() string  { return m.str }

// MockConn is read from and written to through the same buffer: the request
// is consumed before the response is appended.
type MockConn struct {
	*bytes.Buffer
	addr   MockAddr
	closed bool
}

func NewMockConn(request string) *MockConn {
	return &MockConn{bytes.NewBufferString(request), MockAddr{"(client)"}, false}
}

func (m *MockConn) Close() error {
	m.closed = true
	return nil
}

func (m *MockConn) LocalAddr() net.Addr {
	return nil
}

func (m *MockConn) RemoteAddr() net.Addr {
	return m.addr
}

func (m *MockConn) SetDeadline(t time.Time) error {
	return nil
}

func (m *MockConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (m *MockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

// testResponse is a response as seen by a client.
type testResponse struct {
	Version string
	Status  int
	Phrase  string
	Headers HTTPHeader
	Body    []byte
}

// ResponseReader reads what WriteResponse produces, including the CRLF
// that follows a body.
type ResponseReader struct {
	r *bufio.Reader
}

func NewResponseReader(r io.Reader) *ResponseReader {
	return &ResponseReader{bufio.NewReader(r)}
}

func (r *ResponseReader) readLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(line, "\r\n") {
		return "", fmt.Errorf("line %q not terminated by CRLF", line)
	}
	return strings.TrimSuffix(line, "\r\n"), nil
}

func parseStatusCode(ss string) (int, error) {
	status, err := strconv.Atoi(ss)
	first := status / 100
	if err != nil || (first < 1 || first > 5) {
		return 0, fmt.Errorf("invalid status code: %s", ss)
	}
	return status, nil
}

func (r *ResponseReader) ReadResponse() (*testResponse, error) {
	sl, err := r.readLine()
	if err != nil {
		return nil, fmt.Errorf("failed to read status line: %v", err)
	}
	fields := strings.SplitN(sl, " ", 3)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid status line: %s", sl)
	}
	res := &testResponse{Version: fields[0], Phrase: fields[2]}
	if res.Status, err = parseStatusCode(fields[1]); err != nil {
		return nil, err
	}

	for {
		line, err := r.readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read headers: %v", err)
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("invalid header: %s", line)
		}
		res.Headers.Add(name, value)
	}

	cls := res.Headers.Get("Content-Length")
	if cls == "" {
		return res, nil
	}
	cl, err := strconv.Atoi(cls)
	if err != nil {
		return nil, fmt.Errorf("invalid Content-Length: %s", cls)
	}
	res.Body = make([]byte, cl)
	if _, err := io.ReadFull(r.r, res.Body); err != nil {
		return nil, fmt.Errorf("failed to read body: %v", err)
	}
	if line, err := r.readLine(); err != nil || line != "" {
		return nil, fmt.Errorf("body not followed by CRLF: %q, %v", line, err)
	}
	return res, nil
}

func readResponseString(t *testing.T, s string) *testResponse {
	t.Helper()
	res, err := NewResponseReader(strings.NewReader(s)).ReadResponse()
	if err != nil {
		t.Fatalf("reading response %q: %v", s, err)
	}
	return res
}

func decompress(t *testing.T, enc string, body []byte) string {
	t.Helper()
	var r io.ReadCloser
	var err error
	switch enc {
	case "gzip":
		r, err = gzip.NewReader(bytes.NewReader(body))
	case "deflate":
		r, err = zlib.NewReader(bytes.NewReader(body))
	default:
		t.Fatalf("unknown encoding %q", enc)
	}
	if err != nil {
		t.Fatalf("%s reader: %v", enc, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("%s decompress: %v", enc, err)
	}
	return string(out)
}

// WriteRequest builds a request the way a client would send it.
func WriteRequest(w io.Writer, method, path string, headers HTTPHeader, body string) {
	fmt.Fprintf(w, "%s %s HTTP/1.1\r\n", method, path)
	for _, f := range headers {
		fmt.Fprintf(w, "%s: %s\r\n", f.Name, f.Value)
	}
	fmt.Fprintf(w, "\r\n")
	io.WriteString(w, body)
}
