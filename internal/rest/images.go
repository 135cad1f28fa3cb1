package rest

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dfryer1193/driveimages/api"
	"github.com/dfryer1193/driveimages/images/application"
	"github.com/dfryer1193/driveimages/images/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (h *handler) ListImages(c *gin.Context) {
	imgs, err := h.registry.List(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to list images")
		return
	}

	c.JSON(http.StatusOK, api.FromDomainList(imgs))
}

func (h *handler) AddImage(c *gin.Context) {
	req := &api.AddImageRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key, err := h.registry.Add(c.Request.Context(), req.Title, req.Raw)
	if errors.Is(err, domain.ErrEmptyInput) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		internalError(c, err, "Failed to add image")
		return
	}

	img, ok, err := h.registry.Get(c.Request.Context(), key)
	if err != nil || !ok {
		internalError(c, err, "Failed to read back added image")
		return
	}

	c.Header("Location", "/images/v1/"+key)
	c.JSON(http.StatusCreated, api.FromDomain(img))
}

func (h *handler) ImportImages(c *gin.Context) {
	var text string
	if strings.HasPrefix(c.ContentType(), "text/plain") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		text = string(body)
	} else {
		req := &api.ImportRequest{}
		if err := c.ShouldBindJSON(req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		text = req.Text
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	count, err := h.registry.BulkImport(c.Request.Context(), text)
	if errors.Is(err, domain.ErrEmptyInput) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		internalError(c, err, "Failed to import images")
		return
	}

	c.JSON(http.StatusCreated, api.ImportResponse{Imported: count})
}

func (h *handler) GetImage(c *gin.Context) {
	img, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(img))
}

func (h *handler) DeleteImage(c *gin.Context) {
	key := c.Param("key")

	h.mu.Lock()
	defer h.mu.Unlock()

	removed, err := h.registry.Delete(c.Request.Context(), key)
	if err != nil {
		internalError(c, err, "Failed to delete image")
		return
	}
	if !removed {
		notFound(c, key)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) NormalizeURL(c *gin.Context) {
	c.JSON(http.StatusOK, api.NormalizeResponse{URL: application.Normalize(c.Query("raw"))})
}

// lookup writes the error response itself when it returns false
func (h *handler) lookup(c *gin.Context) (*domain.Image, bool) {
	key := c.Param("key")

	img, ok, err := h.registry.Get(c.Request.Context(), key)
	if err != nil {
		internalError(c, err, "Failed to get image")
		return nil, false
	}
	if !ok {
		notFound(c, key)
		return nil, false
	}

	return img, true
}

func notFound(c *gin.Context, key string) {
	c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "image not found: " + key})
}

func internalError(c *gin.Context, err error, msg string) {
	if err == nil {
		err = errors.New(msg)
	}
	_ = c.Error(err)
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
}
