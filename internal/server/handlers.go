package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milden6/gaddag"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WordsResponse is returned by the enumerating queries.
type WordsResponse struct {
	Query     string   `json:"query"`
	Words     []string `json:"words"`
	Count     int      `json:"count"`
	Truncated bool     `json:"truncated"`
}

// ContainsResponse is returned by the membership query.
type ContainsResponse struct {
	Word  string `json:"word"`
	Found bool   `json:"found"`
}

// HooksResponse lists the letters that extend a word on either side.
type HooksResponse struct {
	Word  string `json:"word"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StatsResponse describes the index being served.
type StatsResponse struct {
	ID            string `json:"id"`
	Alphabet      string `json:"alphabet"`
	MaxWordLength int    `json:"max_word_length"`
	Words         int    `json:"words"`
	Entries       int    `json:"entries"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.GET("/contains/:word", s.handleContains)
	v1.GET("/starts/:prefix", s.handleLookup(gaddag.KindStartsWith, "prefix"))
	v1.GET("/ends/:suffix", s.handleLookup(gaddag.KindEndsWith, "suffix"))
	v1.GET("/substring/:needle", s.handleLookup(gaddag.KindSubstring, "needle"))
	v1.GET("/hooks/:word", s.handleHooks)
	v1.GET("/stats", s.handleStats)
}

func (s *Server) handleContains(c *gin.Context) {
	start := time.Now()
	word := c.Param("word")

	idx, ok := s.current(c, "contains", start)
	if !ok {
		return
	}
	found, err := idx.Contains(word)
	if err != nil {
		s.fail(c, "contains", start, err)
		return
	}

	RecordQuery("contains", "ok", time.Since(start))
	c.JSON(http.StatusOK, ContainsResponse{Word: word, Found: found})
}

func (s *Server) handleLookup(kind gaddag.Kind, param string) gin.HandlerFunc {
	op := kind.String()
	return func(c *gin.Context) {
		start := time.Now()
		query := c.Param(param)

		limit, err := s.limit(c)
		if err != nil {
			s.fail(c, op, start, err)
			return
		}

		idx, ok := s.current(c, op, start)
		if !ok {
			return
		}
		words, truncated, err := idx.Lookup(kind, query, limit)
		if err != nil {
			s.fail(c, op, start, err)
			return
		}

		RecordQuery(op, "ok", time.Since(start))
		c.JSON(http.StatusOK, WordsResponse{
			Query:     query,
			Words:     words,
			Count:     len(words),
			Truncated: truncated,
		})
	}
}

func (s *Server) handleHooks(c *gin.Context) {
	start := time.Now()
	word := c.Param("word")
	idx, ok := s.current(c, "hooks", start)
	if !ok {
		return
	}

	front, err := idx.FrontHooks(word)
	if err != nil {
		s.fail(c, "hooks", start, err)
		return
	}
	back, err := idx.BackHooks(word)
	if err != nil {
		s.fail(c, "hooks", start, err)
		return
	}

	RecordQuery("hooks", "ok", time.Since(start))
	c.JSON(http.StatusOK, HooksResponse{Word: word, Front: string(front), Back: string(back)})
}

func (s *Server) handleStats(c *gin.Context) {
	idx, ok := s.current(c, "stats", time.Now())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		ID:            idx.ID().String(),
		Alphabet:      idx.Alphabet().Letters(),
		MaxWordLength: idx.MaxWordLength(),
		Words:         idx.NumWords(),
		Entries:       idx.NumEntries(),
		Nodes:         idx.NumNodes(),
		Edges:         idx.NumEdges(),
	})
}

var (
	errBadLimit = errors.New("limit must be a positive integer")
	errNoIndex  = errors.New("no index loaded")
)

// current returns the served index, answering 503 when there is none.
func (s *Server) current(c *gin.Context, op string, start time.Time) (*gaddag.Index, bool) {
	idx := s.Index()
	if idx == nil {
		s.fail(c, op, start, errNoIndex)
		return nil, false
	}
	return idx, true
}

// limit reads the limit query parameter, capped at the configured maximum.
func (s *Server) limit(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return s.maxResults, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errBadLimit
	}
	return min(n, s.maxResults), nil
}

func (s *Server) fail(c *gin.Context, op string, start time.Time, err error) {
	status := http.StatusInternalServerError
	label := "error"
	switch {
	case errors.Is(err, gaddag.ErrInvalidQuery), errors.Is(err, errBadLimit):
		status = http.StatusBadRequest
		label = "invalid"
	case errors.Is(err, errNoIndex):
		status = http.StatusServiceUnavailable
		label = "unavailable"
	}
	RecordQuery(op, label, time.Since(start))
	if status == http.StatusInternalServerError {
		s.logger.Error("query failed", "op", op, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
