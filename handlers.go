package main

import (
	"log"
	"os"
	"path/filepath"
)

func rootHandler(*Request, string) *Response {
	return ResponseOK
}

func echoHandler(_ *Request, msg string) *Response {
	return NewTextResponse(msg)
}

func userAgentHandler(req *Request, _ string) *Response {
	return NewTextResponse(req.UserAgent)
}

func notFoundHandler(*Request, string) *Response {
	return ResponseNotFound
}

// fileStore serves files under root. Names are joined to root as they are:
// a name containing ".." can reach outside of it.
type fileStore struct {
	root string
}

func (fs *fileStore) path(name string) (string, bool) {
	if fs.root == "" || name == "" {
		return "", false
	}
	return filepath.Join(fs.root, name), true
}

func (fs *fileStore) read(_ *Request, name string) *Response {
	p, ok := fs.path(name)
	if !ok {
		return ResponseNotFound
	}
	data, err := os.ReadFile(p)
	if err != nil {
		log.Printf("E read %s: %v", p, err)
		return ResponseNotFound
	}
	return NewBinaryResponse(data)
}

func (fs *fileStore) write(req *Request, name string) *Response {
	p, ok := fs.path(name)
	if !ok {
		return ResponseNotFound
	}
	if err := os.WriteFile(p, req.Body, 0644); err != nil {
		log.Printf("E write %s: %v", p, err)
		return ResponseNotFound
	}
	return ResponseCreated
}
