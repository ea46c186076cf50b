package http_server

import (
	"errors"
	"net/http"

	"github.com/floedata/floe/engine"
	"github.com/floedata/floe/metastore"
)

type (
	RestoreSnapshotReqBody struct {
		// As is the name the restored table is registered under
		As string `validate:"required"`
	}
)

func (s *HTTPServer) CreateSnapshotHandler(c *CustomContext) error {
	snap, err := s.Engine.Snapshot(c.Request().Context(), c.Param("table"))
	if err != nil {
		if errors.Is(err, engine.ErrTableNotLoaded) {
			return c.String(http.StatusNotFound, "table not found")
		}
		return c.InternalError(err, "error creating snapshot")
	}
	return c.JSON(http.StatusCreated, snap)
}

func (s *HTTPServer) ListSnapshotsHandler(c *CustomContext) error {
	snaps, err := s.Engine.ListSnapshots(c.Request().Context(), c.Param("table"))
	if err != nil {
		return c.InternalError(err, "error listing snapshots")
	}
	return c.JSON(http.StatusOK, snaps)
}

func (s *HTTPServer) RestoreSnapshotHandler(c *CustomContext) error {
	var reqBody RestoreSnapshotReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	restored, err := s.Engine.RestoreSnapshot(c.Request().Context(), c.Param("table"), c.Param("snapshot"), reqBody.As)
	if err != nil {
		switch {
		case errors.Is(err, metastore.ErrSnapshotNotFound):
			return c.String(http.StatusNotFound, "snapshot not found")
		case errors.Is(err, metastore.ErrTableExists):
			return c.String(http.StatusConflict, "table already exists")
		default:
			return c.InternalError(err, "error restoring snapshot")
		}
	}

	return c.JSON(http.StatusCreated, CreateTableStats{
		Name:       reqBody.As,
		NumRows:    int64(restored.NumRows()),
		NumColumns: int64(restored.NumCols()),
	})
}
