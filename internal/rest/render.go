package rest

import (
	"io"
	"net/http"
	"strings"

	"github.com/dfryer1193/driveimages/api"
	"github.com/dfryer1193/driveimages/images/application"
	"github.com/gin-gonic/gin"
)

const (
	MissingKeysHeader = "X-Missing-Image-Keys"

	textHTML  = "text/html; charset=utf-8"
	textPlain = "text/plain; charset=utf-8"
)

func (h *handler) RenderURL(c *gin.Context) {
	img, ok := h.lookup(c)
	if !ok {
		return
	}

	c.Data(http.StatusOK, textPlain, []byte(img.URL))
}

func (h *handler) RenderImageTag(c *gin.Context) {
	img, ok := h.lookup(c)
	if !ok {
		return
	}

	tag := application.ImageTag(img, c.Query("alt"), c.Query("class"))
	c.Data(http.StatusOK, textHTML, []byte(tag))
}

func (h *handler) RenderMarkdown(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.renderer.Render(c.Request.Context(), body)
	if err != nil {
		internalError(c, err, "Failed to render markdown")
		return
	}

	if len(result.MissingKeys) > 0 {
		c.Header(MissingKeysHeader, strings.Join(result.MissingKeys, ","))
	}
	c.Data(http.StatusOK, textHTML, result.HTMLContent)
}

func (h *handler) RenderShortcodes(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	content, err := h.shortcodes.ExpandShortcodes(c.Request.Context(), string(body))
	if err != nil {
		internalError(c, err, "Failed to expand shortcodes")
		return
	}

	c.Data(http.StatusOK, textHTML, []byte(content))
}
