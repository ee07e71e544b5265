package main

import (
	"bufio"
	"errors"
	"log"
	"net"
	"time"
)

// Worker serves a single request on a connection and closes it.
type Worker struct {
	cfg    *Config
	router *Router
	conn   net.Conn
	reader *bufio.Reader
	req    *Request
	res    *Response
}

type stateFunc func(*Worker) stateFunc

func NewWorker(cfg *Config, router *Router) *Worker {
	return &Worker{
		cfg:    cfg,
		router: router,
	}
}

func (w *Worker) Start(conn net.Conn) {
	w.conn = conn
	w.reader = bufio.NewReaderSize(conn, w.cfg.ReadBufferSize)

	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

func (w *Worker) remote() string {
	if addr := w.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "-"
}

func (w *Worker) requestReceived(req *Request) stateFunc {
	w.req = req
	log.Printf("I %s %s %s", w.remote(), req.Method, req.Path)

	res := w.router.Dispatch(req)
	if enc := NegotiateEncoding(req.AcceptEncoding); enc != EncodingIdentity {
		encoded, err := res.Encode(enc)
		if err != nil {
			log.Printf("W %s encoding failed, sending identity: %v", enc, err)
		} else {
			res = encoded
		}
	}
	w.res = res
	return sendResponse
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	r := NewRequestReader(w.reader, w.cfg.MaxHeaderBytes, w.cfg.MaxBodySize)
	r.Start()

	var timeout <-chan time.Time
	if w.cfg.ReadTimeout > 0 {
		t := time.NewTimer(w.cfg.ReadTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case req := <-r.RequestReceived():
		return w.requestReceived(req)
	case err := <-r.ErrorOccurred():
		if errors.Is(err, errMalformedRequest) {
			log.Printf("W %s %v", w.remote(), err)
			w.res = ResponseBadRequest
			return sendErrorResponse
		}
		log.Printf("E %s %v", w.remote(), err)
		return finishWorker
	case <-timeout:
		log.Printf("W %s no request within %v", w.remote(), w.cfg.ReadTimeout)
		return finishWorker
	}
}

func sendResponse(w *Worker) stateFunc {
	if err := WriteResponse(w.conn, w.res); err != nil {
		log.Printf("E %s write failed: %v", w.remote(), err)
		return finishWorker
	}
	log.Printf("I %s %d %s", w.remote(), w.res.Status, w.req.Path)
	return finishWorker
}

func sendErrorResponse(w *Worker) stateFunc {
	if err := WriteResponse(w.conn, w.res); err != nil {
		log.Printf("E %s write failed: %v", w.remote(), err)
	}
	return finishWorker
}

// Closing the connection also releases a RequestReader still blocked on it.
func finishWorker(w *Worker) stateFunc {
	if w.conn != nil {
		w.conn.Close()
	}
	return nil
}
