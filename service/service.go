// Package service answers tile queries over NATS request/reply.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordformations/anagrammer"
	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
)

const (
	ModeBuild = "build"
	ModeExact = "exact"

	// RequestTimeout bounds the time spent answering one request, including
	// any wait for the word list to finish loading.
	RequestTimeout = 30 * time.Second
)

type QueryRequest struct {
	Tiles     string `json:"tiles"`
	MinLength int    `json:"min_length"`
	Mode      string `json:"mode,omitempty"`
}

type QueryResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
	Error string   `json:"error,omitempty"`
}

type Server struct {
	dict    *dictionary.Dictionary
	matcher anagrammer.Matcher
}

func NewServer(cfg *config.Config, d *dictionary.Dictionary) *Server {
	return &Server{
		dict:    d,
		matcher: anagrammer.Matcher{Parallelism: cfg.GetInt(config.ConfigQueryParallelism)},
	}
}

// Answer runs one query. Failures are reported in the response, never as a
// partial word list.
func (s *Server) Answer(ctx context.Context, req QueryRequest) QueryResponse {
	var words []string
	var err error
	switch req.Mode {
	case "", ModeBuild:
		var ws anagrammer.WordSet
		ws, err = s.matcher.ScrabbleWords(ctx, s.dict, req.Tiles, req.MinLength)
		if err == nil {
			words = ws.Sorted()
		}
	case ModeExact:
		words, err = s.matcher.Anagram(ctx, s.dict, req.Tiles, anagrammer.ModeExact)
	default:
		err = fmt.Errorf("unknown mode %q", req.Mode)
	}
	if err != nil {
		return QueryResponse{Words: []string{}, Error: err.Error()}
	}
	return QueryResponse{Words: words, Count: len(words)}
}

// Handle decodes a JSON QueryRequest and returns the encoded QueryResponse.
func (s *Server) Handle(ctx context.Context, data []byte) []byte {
	var req QueryRequest
	var resp QueryResponse
	if err := json.Unmarshal(data, &req); err != nil {
		resp = QueryResponse{Words: []string{}, Error: "bad request: " + err.Error()}
	} else {
		resp = s.Answer(ctx, req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen; a response of strings always encodes.
		return []byte(`{"words":[],"count":0,"error":"could not encode response"}`)
	}
	return out
}

// Serve subscribes to subject and answers every request on it.
func (s *Server) Serve(nc *nats.Conn, subject string) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Str("subject", m.Subject).Msg("query-received")
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()
		if err := m.Respond(s.Handle(ctx, m.Data)); err != nil {
			log.Err(err).Msg("could-not-respond")
		}
	})
	if err != nil {
		return nil, err
	}
	if err := nc.Flush(); err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	log.Info().Msgf("Listening on [%s]", subject)
	return sub, nil
}
