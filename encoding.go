package main

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
)

// Encoding is a content coding token as it appears in Accept-Encoding and
// Content-Encoding.
type Encoding string

const (
	EncodingIdentity Encoding = ""
	EncodingGzip     Encoding = "gzip"
	EncodingDeflate  Encoding = "deflate"
)

// In order of preference.
var supportedEncodings = []Encoding{EncodingGzip, EncodingDeflate}

// "deflate" in HTTP is the zlib format (RFC 9110 8.4.1.2), not raw DEFLATE.
var compressors = map[Encoding]func(io.Writer) io.WriteCloser{
	EncodingGzip:    func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
	EncodingDeflate: func(w io.Writer) io.WriteCloser { return zlib.NewWriter(w) },
}

// NegotiateEncoding picks the first supported encoding the client accepts.
// Tokens are compared literally, so quality values are not honoured.
func NegotiateEncoding(accepted []string) Encoding {
	for _, enc := range supportedEncodings {
		for _, token := range accepted {
			if token == string(enc) {
				return enc
			}
		}
	}
	return EncodingIdentity
}

func compress(enc Encoding, body []byte) ([]byte, error) {
	newWriter, ok := compressors[enc]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
	buf := new(bytes.Buffer)
	w := newWriter(buf)
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode returns res with its body compressed by enc. Responses without a
// body are returned as they are, so shared responses are never modified.
func (res *Response) Encode(enc Encoding) (*Response, error) {
	if enc == EncodingIdentity || !res.hasBody() {
		return res, nil
	}
	body, err := compress(enc, res.Body)
	if err != nil {
		return nil, err
	}
	encoded := *res
	encoded.ContentEncoding = enc
	encoded.Body = body
	return &encoded, nil
}
