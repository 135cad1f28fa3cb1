package application

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dfryer1193/driveimages/images/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DriveImageScheme prefixes markdown image destinations that refer to a registry key, e.g. ![Sunset](gdrive:sunset)
const DriveImageScheme = "gdrive:"

var (
	registryContextKey = parser.NewContextKey()
	missingContextKey  = parser.NewContextKey()
)

// MarkdownRenderResult contains the rendered HTML and the registry keys that could not be resolved
type MarkdownRenderResult struct {
	HTMLContent []byte
	MissingKeys []string
}

// SnapshotSource is anything that can hand out a read-only view of the registry
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*domain.Registry, error)
}

// MarkdownRenderer defines the interface for converting content markdown to HTML
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown []byte) (*MarkdownRenderResult, error)
}

type driveImageTransformer struct{}

func (t *driveImageTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	reg, _ := pc.Get(registryContextKey).(*domain.Registry)
	missing, _ := pc.Get(missingContextKey).(*[]string)
	if reg == nil {
		return
	}

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		key, found := strings.CutPrefix(string(img.Destination), DriveImageScheme)
		if !found {
			return ast.WalkContinue, nil
		}

		record, ok := reg.Get(key)
		if !ok {
			if missing != nil {
				*missing = append(*missing, key)
			}
			return ast.WalkContinue, nil
		}

		img.Destination = []byte(record.URL)
		if len(img.Title) == 0 {
			img.Title = []byte(record.Title)
		}
		return ast.WalkContinue, nil
	})
}

type MarkdownRendererImpl struct {
	images   SnapshotSource
	renderer goldmark.Markdown
}

func NewMarkdownRenderer(images SnapshotSource) MarkdownRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&driveImageTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	return &MarkdownRendererImpl{
		images:   images,
		renderer: renderer,
	}
}

// Render expands shortcodes, resolves gdrive: image destinations and converts the result to HTML
func (r *MarkdownRendererImpl) Render(ctx context.Context, markdown []byte) (*MarkdownRenderResult, error) {
	reg, err := r.images.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	expanded := expandShortcodes(reg, string(markdown), passthrough)

	missing := make([]string, 0)
	pc := parser.NewContext()
	pc.Set(registryContextKey, reg)
	pc.Set(missingContextKey, &missing)

	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(expanded), &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return &MarkdownRenderResult{
		HTMLContent: buf.Bytes(),
		MissingKeys: missing,
	}, nil
}
