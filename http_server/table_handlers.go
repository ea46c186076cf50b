package http_server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/floedata/floe/engine"
	"github.com/floedata/floe/frame"
	"github.com/floedata/floe/ingest"
	"github.com/floedata/floe/metastore"
	"github.com/floedata/floe/render"
	"github.com/floedata/floe/sampledata"
	"github.com/labstack/echo/v4"
)

type (
	CreateTableReqBody struct {
		Name string `validate:"required"`
		// Line-delimited JSON (NDJSON)
		RowsString *string
		// Array of JSON rows
		Rows []map[string]any
	}

	CreateTableStats struct {
		Name       string
		NumRows    int64
		NumColumns int64
		TimeMS     int64
	}
)

func (s *HTTPServer) CreateTableHandler(c *CustomContext) error {
	start := time.Now()

	var reqBody CreateTableReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	var (
		t   *frame.Table
		err error
	)
	switch {
	case reqBody.RowsString != nil:
		t, err = ingest.FromNDJSON(strings.NewReader(*reqBody.RowsString))
	case reqBody.Rows != nil:
		t, err = ingest.FromRows(reqBody.Rows)
	default:
		return c.String(http.StatusBadRequest, "no rows found")
	}
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	if err := s.Engine.CreateTable(c.Request().Context(), reqBody.Name, t); err != nil {
		if errors.Is(err, metastore.ErrTableExists) {
			return c.String(http.StatusConflict, "table already exists")
		}
		return c.InternalError(err, "error creating table")
	}

	return c.JSON(http.StatusCreated, CreateTableStats{
		Name:       reqBody.Name,
		NumRows:    int64(t.NumRows()),
		NumColumns: int64(t.NumCols()),
		TimeMS:     time.Since(start).Milliseconds(),
	})
}

func (s *HTTPServer) ListTablesHandler(c *CustomContext) error {
	metas, err := s.Engine.ListTables(c.Request().Context())
	if err != nil {
		return c.InternalError(err, "error listing tables")
	}
	return c.JSON(http.StatusOK, metas)
}

func (s *HTTPServer) GetTableHandler(c *CustomContext) error {
	meta, err := s.Engine.MetaStore.GetTable(c.Request().Context(), c.Param("table"))
	if err != nil {
		if errors.Is(err, metastore.ErrTableNotFound) {
			return c.String(http.StatusNotFound, "table not found")
		}
		return c.InternalError(err, "error getting table")
	}
	return c.JSON(http.StatusOK, meta)
}

func (s *HTTPServer) DropTableHandler(c *CustomContext) error {
	err := s.Engine.DropTable(c.Request().Context(), c.Param("table"))
	if err != nil {
		if errors.Is(err, metastore.ErrTableNotFound) {
			return c.String(http.StatusNotFound, "table not found")
		}
		return c.InternalError(err, "error dropping table")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) TableRowsHandler(c *CustomContext) error {
	t, err := s.Engine.GetTable(c.Param("table"))
	if err != nil {
		if errors.Is(err, engine.ErrTableNotLoaded) {
			return c.String(http.StatusNotFound, "table not found")
		}
		return c.InternalError(err, "error getting table")
	}
	return writeTableResponse(c, t)
}

func (s *HTTPServer) SeedPenguinsHandler(c *CustomContext) error {
	t := sampledata.Penguins()
	if err := s.Engine.CreateTable(c.Request().Context(), "penguins", t); err != nil {
		if errors.Is(err, metastore.ErrTableExists) {
			return c.String(http.StatusConflict, "table already exists")
		}
		return c.InternalError(err, "error seeding penguins")
	}
	return c.JSON(http.StatusCreated, CreateTableStats{
		Name:       "penguins",
		NumRows:    int64(t.NumRows()),
		NumColumns: int64(t.NumCols()),
	})
}

// writeTableResponse renders a table in the format from the ?format query
// param, defaulting to JSON rows. Rendering happens into a buffer first so a
// failure can still produce an error status.
func writeTableResponse(c *CustomContext, t *frame.Table) error {
	format := c.QueryParam("format")
	if format == "" {
		format = render.FormatJSON
	}

	contentType := echo.MIMETextPlainCharsetUTF8
	switch format {
	case render.FormatJSON:
		contentType = echo.MIMEApplicationJSONCharsetUTF8
	case render.FormatCSV:
		contentType = "text/csv"
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, t, format); err != nil {
		return c.InternalError(err, "error rendering table")
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
