package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/net/resp"
	"github.com/ncobase/esdsl/query"
)

// searchRequest is the body of /search/:index
type searchRequest struct {
	Query map[string]any `json:"query"`
	Page  int            `json:"page" binding:"omitempty,gte=1"`
	Size  int            `json:"size" binding:"omitempty,gte=1,lte=10000"`
	First bool           `json:"first"`
}

// countRequest is the body of /count/:index
type countRequest struct {
	Query map[string]any `json:"query"`
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, search.ErrCircuitOpen) {
		resp.Fail(c.Writer, resp.Unavailable(err.Error()))
		return
	}
	resp.Fail(c.Writer, resp.FromError(err))
}

// decodeQuery decodes a query document and pins it to index
func decodeQuery(doc map[string]any, index string) (*query.Request, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	r, err := query.Decode(doc)
	if err != nil {
		return nil, err
	}
	if index != "" {
		r.Index = index
	}
	return r, nil
}

// compile handles POST /dsl. The body is a query document; the response is
// the compiled search body, or the full parameter map with ?params=true.
func (s *Server) compile(c *gin.Context) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	r, err := decodeQuery(doc, "")
	if err != nil {
		s.fail(c, err)
		return
	}

	var out any = compiler.DSL(r)
	if truthy(c.Query("params")) {
		out = compiler.RequestParams(r)
	}
	data, err := compiler.Render(out, truthy(c.Query("pretty")))
	if err != nil {
		resp.Fail(c.Writer, resp.InternalServer(err.Error()))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// search handles POST /search/:index
func (s *Server) search(c *gin.Context) {
	if !s.requireExecutor(c) {
		return
	}
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	r, err := decodeQuery(req.Query, c.Param("index"))
	if err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.First:
		hit, err := s.executor.First(ctx, r)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.Success(c.Writer, map[string]any{"hit": hit})
	case req.Page > 0:
		page, err := s.executor.Paginate(ctx, r, req.Page, req.Size)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.Success(c.Writer, page)
	default:
		if req.Size > 0 && r.Size == nil {
			r.Size = &req.Size
		}
		result, err := s.executor.Get(ctx, r)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp.Success(c.Writer, result)
	}
}

// count handles POST /count/:index
func (s *Server) count(c *gin.Context) {
	if !s.requireExecutor(c) {
		return
	}
	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	r, err := decodeQuery(req.Query, c.Param("index"))
	if err != nil {
		s.fail(c, err)
		return
	}
	n, err := s.executor.Count(c.Request.Context(), r)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.Success(c.Writer, map[string]any{"count": n})
}

// health handles GET /health
func (s *Server) health(c *gin.Context) {
	if s.executor == nil {
		resp.Success(c.Writer, map[string]any{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := s.executor.Ping(ctx); err != nil {
		resp.Fail(c.Writer, resp.Unavailable("search engine unreachable", map[string]any{
			"engine": s.executor.Engine(),
			"error":  err.Error(),
		}))
		return
	}
	resp.Success(c.Writer, map[string]any{"status": "ok", "engine": s.executor.Engine()})
}

// stats handles GET /stats
func (s *Server) stats(c *gin.Context) {
	if s.collector == nil {
		resp.Fail(c.Writer, resp.FromError(ecode.Missing("metrics")))
		return
	}
	resp.Success(c.Writer, s.collector.GetStats())
}

func (s *Server) requireExecutor(c *gin.Context) bool {
	if s.executor != nil {
		return true
	}
	resp.Fail(c.Writer, resp.FromError(ecode.Missing("data.search")))
	return false
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
