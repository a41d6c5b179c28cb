// Package httpapi is the HTTP adapter collaborator described in spec
// §6: it treats the path segment after /api/ as a move-sequence
// position string and returns the solver's best column and score as
// JSON. It is a thin consumer of the core solver, not part of the
// hard-engineering budget.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/connectfour/solver/internal/book"
	"github.com/connectfour/solver/internal/position"
	"github.com/connectfour/solver/internal/solver"
)

// bestColResponse is the exact {"col": N, "score": S} body spec §6
// mandates.
type bestColResponse struct {
	Col   int  `json:"col"`
	Score int8 `json:"score"`
}

// New builds a gin engine exposing GET /api/:position. b may be nil. A
// fresh Solver is constructed per request since a Table is never safe
// for concurrent reuse and gin serves requests on separate goroutines.
func New(b *book.Book, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(rejectNonGET)

	r.GET("/api/:position", func(c *gin.Context) {
		posString := c.Param("position")
		p, err := position.FromMoveString(posString)
		if err != nil {
			log.Debug().Err(err).Str("position", posString).Msg("malformed position")
			c.Status(http.StatusBadRequest)
			return
		}

		s := solver.New(b)
		col, score := s.BestCol(p)
		c.Header("Access-Control-Allow-Origin", "*")
		c.JSON(http.StatusOK, bestColResponse{Col: col, Score: score})
	})

	r.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	return r
}

// rejectNonGET mirrors the original webserver's request handling, which
// inspects the HTTP method before it ever looks at the path: any method
// other than GET is rejected with 400, regardless of which path it
// targets.
func rejectNonGET(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Next()
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}
