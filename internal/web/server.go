package web

import (
	"bandeja/internal/back"
	"bandeja/internal/util"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/", noContent)

	r.Get("/v1/leaderboard", s.getLeaderboard)
	r.Get("/v1/players", s.getPlayers)
	r.Post("/v1/players", s.registerPlayer)
	r.Get("/v1/matches", s.getMatchHistory)
	r.Post("/v1/matches", s.recordMatch)

	return r
}

type Server struct {
	http *http.Server
	back *back.Back
}

func NewServer(back *back.Back, listen string) *Server {
	s := &Server{
		back: back,
	}

	s.http = &http.Server{
		Addr:         listen,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		Handler:      s.setupRouter(),
	}

	return s
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Serve blocks until done is closed. The caller must call wg.Add(1) before
// spawning it so a shutdown signal cannot slip in before the goroutine is
// scheduled.
func (s *Server) Serve(wg *sync.WaitGroup, done <-chan struct{}) {
	log.Println("info: starting HTTP server")
	defer wg.Done()

	go func() {
		err := s.http.ListenAndServe()
		if err == http.ErrServerClosed {
			log.Println("info: HTTP server closed")
			return
		}

		log.Fatalf("webserver crashed: %s", err)
	}()

	<-done
	if err := s.http.Close(); err != nil {
		log.Printf("warning: unable to close webserver: %s", err)
	}
}

func (s *Server) response(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(data)
	if err != nil {
		log.Printf("error: unable to marshal response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)

	if _, err := w.Write(response); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Printf("error: %s", err)
	w.WriteHeader(code)
}

// publicError sends the message of an util.ErrPublic to the client, any
// other error is logged and hidden behind a bare 500.
func (s *Server) publicError(w http.ResponseWriter, err error, code int) {
	var pub util.ErrPublic
	if !errors.As(err, &pub) {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.response(w, code, map[string]string{"error": pub.Error()})
}
