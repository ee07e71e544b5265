package main

import "strconv"

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	DefaultVersion = "HTTP/1.1"
)

const (
	StatusOK         = 200
	StatusCreated    = 201
	StatusBadRequest = 400
	StatusNotFound   = 404
)

var statusPhrases = map[int]string{
	StatusOK:         "OK",
	StatusCreated:    "Created",
	StatusBadRequest: "Bad Request",
	StatusNotFound:   "Not Found",
}

const (
	ContentTypeText   = "text/plain"
	ContentTypeBinary = "application/octet-stream"
)

type HeaderField struct {
	Name  string
	Value string
}

// Not a map, unlike http.Header: fields are written in insertion order.
type HTTPHeader []HeaderField

func (h *HTTPHeader) Add(name, value string) {
	*h = append(*h, HeaderField{name, value})
}

func (h HTTPHeader) Get(name string) string {
	for _, f := range h {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Request holds the parts of an HTTP/1.1 request this server understands.
// Headers other than the ones below are dropped while parsing.
type Request struct {
	Method         string
	Path           string
	Version        string
	Host           string
	UserAgent      string
	Accept         string
	AcceptEncoding []string
	ContentLength  int // -1 when the header is absent
	Body           []byte
}

type Response struct {
	Version         string
	Status          int
	Phrase          string
	ContentType     string
	ContentEncoding Encoding
	Body            []byte
}

// Header returns the fields written after the status line. A response
// without a content type carries no fields and no body.
func (res *Response) Header() HTTPHeader {
	var h HTTPHeader
	if !res.hasBody() {
		return h
	}
	if res.ContentEncoding != EncodingIdentity {
		h.Add("Content-Encoding", string(res.ContentEncoding))
	}
	h.Add("Content-Type", res.ContentType)
	h.Add("Content-Length", strconv.Itoa(len(res.Body)))
	return h
}

func (res *Response) hasBody() bool {
	return res.ContentType != ""
}

func NewResponse(status int) *Response {
	return &Response{
		Version: DefaultVersion,
		Status:  status,
		Phrase:  statusPhrases[status],
	}
}

func NewTextResponse(body string) *Response {
	res := NewResponse(StatusOK)
	res.ContentType = ContentTypeText
	res.Body = []byte(body)
	return res
}

func NewBinaryResponse(body []byte) *Response {
	res := NewResponse(StatusOK)
	res.ContentType = ContentTypeBinary
	res.Body = body
	return res
}

// Shared, never mutated.
var (
	ResponseOK         = NewResponse(StatusOK)
	ResponseCreated    = NewResponse(StatusCreated)
	ResponseBadRequest = NewResponse(StatusBadRequest)
	ResponseNotFound   = NewResponse(StatusNotFound)
)
