package service

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"strings"
)

const (
	// URL to read the last credential from:
	readURL = "/read"
	// URL to read pattern status from (GET) or send commands to (POST):
	controlURL = "/control"
	// Longest command body we accept:
	maxControlBody = 1024
)

// Reader is the reader as seen from the HTTP server.
type Reader interface {
	Read() string
	Status() string
	Control(text string) (bool, error)
}

// Some state/context for HTTP server:
type server struct {
	dev     Reader
	verbose bool
}

// NewHandler returns the HTTP handler for dev.
func NewHandler(dev Reader, verbose bool) http.Handler {
	s := &server{dev: dev, verbose: verbose}
	mux := http.NewServeMux()
	mux.HandleFunc(readURL, s.readHandler)
	mux.HandleFunc(controlURL, s.controlHandler)
	return mux
}

// HTTP handler for /read. The body is empty if nothing recognizable
// was read yet.
func (s *server) readHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("%s: Unsupported HTTP %s", readURL, r.Method)
		http.Error(w, "Method is not supported.", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if text := s.dev.Read(); text != "" {
		fmt.Fprintf(w, "%s\n", text)
	}
}

// HTTP handler for /control.
//
// Malformed commands are logged and otherwise ignored, and a busy
// output silently drops the command, so a POST always gets "OK".
func (s *server) controlHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	switch r.Method {
	case http.MethodGet:
		io.WriteString(w, s.dev.Status())

	case http.MethodPost:
		body, err := ioutil.ReadAll(io.LimitReader(r.Body, maxControlBody))
		if err != nil {
			errstr := fmt.Sprintf("Error reading body: %s", err)
			log.Printf("%s: %s", controlURL, errstr)
			http.Error(w, errstr, http.StatusBadRequest)
			return
		}
		for _, line := range strings.Split(string(body), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			ok, err := s.dev.Control(line)
			if err != nil {
				log.Printf("%s: ignoring %q: %s", controlURL, line, err)
				continue
			}
			if s.verbose {
				log.Printf("%s: %q admitted=%t", controlURL, line, ok)
			}
		}
		fmt.Fprintf(w, "OK")

	default:
		log.Printf("%s: Unsupported HTTP %s", controlURL, r.Method)
		http.Error(w, "Method is not supported.", http.StatusMethodNotAllowed)
	}
}
