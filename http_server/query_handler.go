package http_server

import (
	"errors"
	"net/http"
	"time"

	"github.com/floedata/floe/engine"
	"github.com/floedata/floe/metastore"
	"github.com/floedata/floe/pipeline"
	"github.com/rs/zerolog"
)

type (
	QueryReqBody struct {
		pipeline.Pipeline
		// SaveAs registers the result as a new table instead of only
		// returning it
		SaveAs *string
	}
)

func (s *HTTPServer) QueryHandler(c *CustomContext) error {
	logger := zerolog.Ctx(c.Request().Context())

	var reqBody QueryReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	t, err := s.Engine.GetTable(c.Param("table"))
	if err != nil {
		if errors.Is(err, engine.ErrTableNotLoaded) {
			return c.String(http.StatusNotFound, "table not found")
		}
		return c.InternalError(err, "error getting table")
	}

	start := time.Now()
	result, err := pipeline.Apply(t, reqBody.Pipeline)
	if err != nil {
		// every op failure traces back to the request body
		return c.String(http.StatusBadRequest, err.Error())
	}
	logger.Debug().Int("ops", len(reqBody.Ops)).Int("rowsIn", t.NumRows()).Int("rowsOut", result.NumRows()).Int64("latencyNS", time.Since(start).Nanoseconds()).Msg("applied pipeline")

	if reqBody.SaveAs != nil {
		if err := s.Engine.CreateTable(c.Request().Context(), *reqBody.SaveAs, result); err != nil {
			if errors.Is(err, metastore.ErrTableExists) {
				return c.String(http.StatusConflict, "table already exists")
			}
			return c.InternalError(err, "error saving result table")
		}
	}

	return writeTableResponse(c, result)
}
