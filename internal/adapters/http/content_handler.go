package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// ContentHandler serves the public content reads and the admin content
// mutations.
type ContentHandler struct {
	content ports.ContentService
	logger  *logger.Logger
}

// NewContentHandler creates a new content handler.
func NewContentHandler(content ports.ContentService, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		content: content,
		logger:  logger,
	}
}

// GetPhotos returns all photos, newest first.
func (h *ContentHandler) GetPhotos(c echo.Context) error {
	photos, err := h.content.GetPhotos(c.Request().Context())
	if err != nil {
		h.logger.Error("Get photos failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load photos")
	}
	if photos == nil {
		photos = []entities.Photo{}
	}
	return c.JSON(http.StatusOK, photos)
}

// AddPhoto creates a photo.
func (h *ContentHandler) AddPhoto(c echo.Context) error {
	var req ports.AddPhotoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	photo, err := h.content.AddPhoto(c.Request().Context(), entities.Photo{
		URL:      req.URL,
		Alt:      req.Alt,
		Category: req.Category,
		Title:    req.Title,
	})
	if err != nil {
		h.logger.Error("Add photo failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add photo")
	}
	return c.JSON(http.StatusCreated, photo)
}

// UpdatePhoto updates the photo with the given id.
func (h *ContentHandler) UpdatePhoto(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid photo id")
	}

	var req ports.UpdatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	photo, err := h.content.UpdatePhoto(c.Request().Context(), id, entities.Photo{
		URL:      req.URL,
		Alt:      req.Alt,
		Category: req.Category,
		Title:    req.Title,
	})
	if err != nil {
		if errors.Is(err, entities.ErrPhotoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Photo not found")
		}
		h.logger.Error("Update photo failed", "error", err, "id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update photo")
	}
	return c.JSON(http.StatusOK, photo)
}

// DeletePhoto deletes the photo with the given id.
func (h *ContentHandler) DeletePhoto(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid photo id")
	}

	if err := h.content.DeletePhoto(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete photo failed", "error", err, "id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete photo")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Photo deleted"})
}

// DeletePhotoAt deletes the photo at the given position of the stored local
// document.
func (h *ContentHandler) DeletePhotoAt(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid photo index")
	}

	if err := h.content.DeletePhotoAt(c.Request().Context(), index); err != nil {
		if errors.Is(err, entities.ErrPhotoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Photo not found")
		}
		h.logger.Error("Delete photo by index failed", "error", err, "index", index)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete photo")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Photo deleted"})
}

// GetWorkCards returns the ordered work card sequence.
func (h *ContentHandler) GetWorkCards(c echo.Context) error {
	cards, err := h.content.GetWorkCards(c.Request().Context())
	if err != nil {
		h.logger.Error("Get work cards failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load work cards")
	}
	if cards == nil {
		cards = []entities.WorkCard{}
	}
	return c.JSON(http.StatusOK, cards)
}

// SaveWorkCards replaces the whole work card sequence.
func (h *ContentHandler) SaveWorkCards(c echo.Context) error {
	var req ports.SaveWorkCardsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cards := make([]entities.WorkCard, len(req.Cards))
	for i, in := range req.Cards {
		cards[i] = entities.WorkCard{Image: in.Image, Title: in.Title, Category: in.Category}
	}

	saved, err := h.content.SaveWorkCards(c.Request().Context(), cards)
	if err != nil {
		h.logger.Error("Save work cards failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save work cards")
	}
	return c.JSON(http.StatusOK, saved)
}

// GetServices returns all services, newest first.
func (h *ContentHandler) GetServices(c echo.Context) error {
	services, err := h.content.GetServices(c.Request().Context())
	if err != nil {
		h.logger.Error("Get services failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load services")
	}
	if services == nil {
		services = []entities.Service{}
	}
	return c.JSON(http.StatusOK, services)
}

// AddService creates a service.
func (h *ContentHandler) AddService(c echo.Context) error {
	var req ports.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.content.AddService(c.Request().Context(), entities.Service{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		h.logger.Error("Add service failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add service")
	}
	return c.JSON(http.StatusCreated, svc)
}

// UpdateService updates the service with the given id.
func (h *ContentHandler) UpdateService(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid service id")
	}

	var req ports.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.content.UpdateService(c.Request().Context(), id, entities.Service{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, entities.ErrServiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Service not found")
		}
		h.logger.Error("Update service failed", "error", err, "id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update service")
	}
	return c.JSON(http.StatusOK, svc)
}

// DeleteService deletes the service with the given id.
func (h *ContentHandler) DeleteService(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid service id")
	}

	if err := h.content.DeleteService(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete service failed", "error", err, "id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete service")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Service deleted"})
}

// GetAbout returns the singleton about record, or 204 when none exists.
func (h *ContentHandler) GetAbout(c echo.Context) error {
	about, err := h.content.GetAbout(c.Request().Context())
	if err != nil {
		h.logger.Error("Get about failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load about")
	}
	if about == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, about)
}

// SaveAbout upserts the singleton about record.
func (h *ContentHandler) SaveAbout(c echo.Context) error {
	var req ports.SaveAboutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	about, err := h.content.SaveAbout(c.Request().Context(), entities.About{
		Title:        req.Title,
		Description1: req.Description1,
		Description2: req.Description2,
		Description3: req.Description3,
		Image:        req.Image,
	})
	if err != nil {
		h.logger.Error("Save about failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save about")
	}
	return c.JSON(http.StatusOK, about)
}

// GetSettings returns the singleton settings record, or 204 when none
// exists.
func (h *ContentHandler) GetSettings(c echo.Context) error {
	settings, err := h.content.GetSettings(c.Request().Context())
	if err != nil {
		h.logger.Error("Get settings failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load settings")
	}
	if settings == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, settings)
}

// SaveSettings upserts the singleton settings record.
func (h *ContentHandler) SaveSettings(c echo.Context) error {
	var req ports.SaveSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings, err := h.content.SaveSettings(c.Request().Context(), entities.Settings{
		HeroTitle:    req.HeroTitle,
		HeroSubtitle: req.HeroSubtitle,
		HeroImage:    req.HeroImage,
		Phone1:       req.Phone1,
		Phone2:       req.Phone2,
		Email:        req.Email,
	})
	if err != nil {
		h.logger.Error("Save settings failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save settings")
	}
	return c.JSON(http.StatusOK, settings)
}
