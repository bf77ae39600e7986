package api

import (
	"net/http"

	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/programs"
	"github.com/gin-gonic/gin"
)

func (s *Server) handlePrograms(c *gin.Context) {
	c.JSON(http.StatusOK, grading.Programs())
}

// handleCounterexamples lists the inputs on which some candidate of a program
// was found to differ.
func (s *Server) handleCounterexamples(c *gin.Context) {
	p, err := programs.Lookup(c.Param("name"))
	if err != nil {
		handleError(c, err)
		return
	}
	corpus := s.grading.Corpus()
	if corpus == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	c.JSON(http.StatusOK, corpus.Counterexamples(p.Name))
}

func (s *Server) handleExplore(c *gin.Context) {
	var req grading.ExploreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewAppError(http.StatusBadRequest, "invalid request body", err))
		return
	}
	if req.Program == "" {
		handleError(c, NewAppError(http.StatusBadRequest, "missing program", nil))
		return
	}

	resp, err := s.grading.Explore(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCheck(c *gin.Context) {
	var req grading.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewAppError(http.StatusBadRequest, "invalid request body", err))
		return
	}
	if req.Program == "" || req.Variant == "" {
		handleError(c, NewAppError(http.StatusBadRequest, "missing program or variant", nil))
		return
	}

	resp, err := s.grading.Check(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
