package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// BackupHandler serves export and import of the whole local document.
type BackupHandler struct {
	backup ports.BackupService
	logger *logger.Logger
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(backup ports.BackupService, logger *logger.Logger) *BackupHandler {
	return &BackupHandler{
		backup: backup,
		logger: logger,
	}
}

// Export downloads the whole local document as a date-stamped JSON file.
func (h *BackupHandler) Export(c echo.Context) error {
	doc, filename, err := h.backup.Export(c.Request().Context())
	if err != nil {
		h.logger.Error("Export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Export failed")
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, raw)
}

// Import wholesale-replaces the local document with an uploaded one. The
// upload may be a multipart file field or a raw JSON body.
func (h *BackupHandler) Import(c echo.Context) error {
	raw, err := h.readUpload(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}

	doc, err := h.backup.Import(c.Request().Context(), raw)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDocument) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid file")
		}
		h.logger.Error("Import failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to import data")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *BackupHandler) readUpload(c echo.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return io.ReadAll(src)
	}
	return io.ReadAll(c.Request().Body)
}
