package main

import (
	"errors"
	"flag"
	"log"
	"os"
)

func main() {
	cfg, err := ParseConfig(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Printf("E %v", err)
		os.Exit(2)
	}

	if err := NewServer(cfg).ListenAndServe(); err != nil {
		log.Printf("E %v", err)
		os.Exit(1)
	}
}
