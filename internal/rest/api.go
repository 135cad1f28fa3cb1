package rest

import (
	"sync"

	"github.com/dfryer1193/driveimages/images/application"
	"github.com/gin-gonic/gin"
)

type handler struct {
	registry   *application.Registry
	renderer   application.MarkdownRenderer
	shortcodes *application.ShortcodeRenderer
	// serializes load-modify-save cycles
	mu sync.Mutex
}

func NewApi(router *gin.Engine, registry *application.Registry, renderer application.MarkdownRenderer) {
	h := &handler{
		registry:   registry,
		renderer:   renderer,
		shortcodes: application.NewShortcodeRenderer(registry),
	}

	imagesV1 := router.Group("images/v1")
	{
		imagesV1.GET("/", h.ListImages)
		imagesV1.POST("/", h.AddImage)
		imagesV1.POST("/import", h.ImportImages)
		imagesV1.GET("/:key", h.GetImage)
		imagesV1.DELETE("/:key", h.DeleteImage)
	}

	router.GET("/normalize", h.NormalizeURL)

	renderV1 := router.Group("render/v1")
	{
		renderV1.GET("/:key/url", h.RenderURL)
		renderV1.GET("/:key/img", h.RenderImageTag)
		renderV1.POST("/markdown", h.RenderMarkdown)
		renderV1.POST("/shortcodes", h.RenderShortcodes)
	}
}
