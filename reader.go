package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errMalformedRequest marks input that gets a 400 response. Any other
// parse error comes from the connection itself.
var errMalformedRequest = errors.New("malformed request")

type parseState int

const (
	stateRequestLine parseState = iota
	stateHeaders
	stateBody
	stateComplete
)

// RequestReader reads one HTTP/1.1 request, line by line, and the body
// declared by its Content-Length.
type RequestReader struct {
	r              *bufio.Reader
	maxHeaderBytes int // request line and header lines, terminators excluded
	maxBodySize    int
	headerBytes    int
	state          parseState
	req            *Request
	reqCh          chan *Request
	errCh          chan error
}

func NewRequestReader(r io.Reader, maxHeaderBytes, maxBodySize int) *RequestReader {
	var br *bufio.Reader
	if casted, ok := r.(*bufio.Reader); ok {
		br = casted
	} else {
		br = bufio.NewReader(r)
	}
	return &RequestReader{
		r:              br,
		maxHeaderBytes: maxHeaderBytes,
		maxBodySize:    maxBodySize,
		state:          stateRequestLine,
		req:            &Request{Version: DefaultVersion, ContentLength: -1},
		reqCh:          make(chan *Request, 1),
		errCh:          make(chan error, 1),
	}
}

// Start reads the request in the background. The outcome is delivered on
// exactly one of RequestReceived or ErrorOccurred.
func (r *RequestReader) Start() {
	go func() {
		req, err := r.ReadRequest()
		if err != nil {
			r.errCh <- err
			return
		}
		r.reqCh <- req
	}()
}

func (r *RequestReader) RequestReceived() <-chan *Request {
	return r.reqCh
}

func (r *RequestReader) ErrorOccurred() <-chan error {
	return r.errCh
}

func (r *RequestReader) ReadRequest() (*Request, error) {
	for r.state != stateComplete {
		var err error
		switch r.state {
		case stateRequestLine:
			err = r.readRequestLine()
		case stateHeaders:
			err = r.readHeaderLine()
		case stateBody:
			err = r.readBody()
		}
		if err != nil {
			return nil, err
		}
	}
	return r.req, nil
}

// similar to readLineSlice() in net/textproto/reader.go
func (r *RequestReader) readLine() (string, error) {
	var line []byte
	for {
		l, more, err := r.r.ReadLine()
		if err != nil {
			return "", err
		}
		r.headerBytes += len(l)
		if r.maxHeaderBytes > 0 && r.headerBytes > r.maxHeaderBytes {
			return "", fmt.Errorf("%w: header block exceeds %d bytes", errMalformedRequest, r.maxHeaderBytes)
		}
		if line == nil && !more {
			return string(l), nil
		}
		line = append(line, l...)
		if !more {
			break
		}
	}
	return string(line), nil
}

func (r *RequestReader) readRequestLine() error {
	rl, err := r.readLine()
	if err != nil {
		return fmt.Errorf("failed to read request line: %w", err)
	}
	fields := strings.Split(rl, " ")
	if len(fields) < 2 || !strings.HasPrefix(fields[1], "/") {
		return fmt.Errorf("%w: invalid request line %q", errMalformedRequest, rl)
	}
	r.req.Method = fields[0]
	r.req.Path = fields[1]
	if len(fields) > 2 {
		r.req.Version = fields[2]
	}
	r.state = stateHeaders
	return nil
}

func (r *RequestReader) readHeaderLine() error {
	line, err := r.readLine()
	if err != nil {
		return fmt.Errorf("failed to read headers: %w", err)
	}
	if len(line) == 0 {
		if r.req.Method == MethodPost {
			r.state = stateBody
		} else {
			r.state = stateComplete
		}
		return nil
	}
	// Lines without a colon and headers not listed here are skipped.
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return nil
	}
	value = strings.TrimSpace(value)
	switch name {
	case "Host":
		r.req.Host = value
	case "User-Agent":
		r.req.UserAgent = value
	case "Accept":
		r.req.Accept = value
	case "Accept-Encoding":
		r.req.AcceptEncoding = splitTokens(value)
	case "Content-Length":
		// only a POST body is read
		if r.req.Method != MethodPost {
			return nil
		}
		cl, err := strconv.Atoi(value)
		if err != nil || cl < 0 {
			return fmt.Errorf("%w: invalid Content-Length %q", errMalformedRequest, value)
		}
		r.req.ContentLength = cl
	}
	return nil
}

// Without a Content-Length the body is whatever arrived along with the
// header block.
func (r *RequestReader) readBody() error {
	n := r.req.ContentLength
	if n < 0 {
		n = r.r.Buffered()
	}
	if r.maxBodySize > 0 && n > r.maxBodySize {
		return fmt.Errorf("%w: body of %d bytes exceeds %d", errMalformedRequest, n, r.maxBodySize)
	}
	body, err := io.ReadAll(io.LimitReader(r.r, int64(n)))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) < n {
		return fmt.Errorf("failed to read body: %w", io.ErrUnexpectedEOF)
	}
	r.req.Body = body
	r.state = stateComplete
	return nil
}

// Tokens are separated by ", " exactly; "gzip,deflate" is a single token.
func splitTokens(s string) []string {
	var tokens []string
	for _, t := range strings.Split(s, ", ") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
