package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
	gocache "github.com/patrickmn/go-cache"
)

const (
	renderCacheTTL     = 10 * time.Minute
	renderCacheCleanup = 15 * time.Minute
)

var (
	rendererMu       sync.Mutex
	renderersByStyle = map[markdownRendererKey]*glamour.TermRenderer{}
)

type markdownRendererKey struct {
	width int
	dark  bool
}

func renderMarkdown(input string, width int, dark bool) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := getRenderer(width, dark)
	if r == nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	out = strings.TrimRight(out, "\n")
	out = xansi.Hardwrap(out, width, true)
	return strings.TrimRight(out, "\n")
}

func getRenderer(width int, dark bool) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := markdownRendererKey{width: width, dark: dark}
	if renderer, ok := renderersByStyle[key]; ok && renderer != nil {
		return renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleConfig(dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderersByStyle[key] = r
	return r
}

func buildStyleConfig(dark bool) glamouransi.StyleConfig {
	var base glamouransi.StyleConfig
	if dark {
		base = styles.DarkStyleConfig
	} else {
		base = styles.LightStyleConfig
	}
	// Bubble padding comes from lipgloss, not from glamour's document margins.
	base.Document.StylePrimitive.BlockPrefix = ""
	base.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	base.Document.Margin = &zero
	faint := true
	color := "245"
	base.BlockQuote.StylePrimitive.Faint = &faint
	base.BlockQuote.StylePrimitive.Color = &color
	return base
}

// renderCache keeps rendered answer blocks per message and width. Messages
// never change once logged, so entries only expire.
type renderCache struct {
	cache    *gocache.Cache
	markdown bool
	dark     bool
}

func newRenderCache(markdown bool) *renderCache {
	return &renderCache{
		cache:    gocache.New(renderCacheTTL, renderCacheCleanup),
		markdown: markdown,
		dark:     true,
	}
}

func (c *renderCache) Render(seq int, content string, width int) string {
	if !c.markdown {
		return xansi.Wrap(content, width, "")
	}
	key := fmt.Sprintf("%d:%d:%t", seq, width, c.dark)
	if cached, ok := c.cache.Get(key); ok {
		if text, ok := cached.(string); ok {
			return text
		}
	}
	rendered := renderMarkdown(content, width, c.dark)
	c.cache.Set(key, rendered, gocache.DefaultExpiration)
	return rendered
}

func (c *renderCache) Len() int {
	return c.cache.ItemCount()
}
