package chromedp_browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/maps-scraper/internal/browser"
	"go.uber.org/zap"
)

func TestElementsExpr(t *testing.T) {
	css := elementsExpr(browser.CSS(`input[placeholder*="Поиск"]`))
	assert.Equal(t, `Array.from(document.querySelectorAll("input[placeholder*=\"Поиск\"]"))`, css)

	xp := elementsExpr(browser.XPath(`//button[@aria-label="Отдалить"]`))
	assert.Contains(t, xp, `document.evaluate("//button[@aria-label=\"Отдалить\"]"`)
	assert.Contains(t, xp, "ORDERED_NODE_SNAPSHOT_TYPE")
}

func TestScrollScript(t *testing.T) {
	assert.Contains(t, scrollScript(browser.Locator{}, 500), "window.scrollBy(0, 500)")

	s := scrollScript(browser.CSS(".scroll__container"), 500)
	assert.Contains(t, s, `document.querySelectorAll(".scroll__container")`)
	assert.Contains(t, s, "el.scrollBy(0, 500)")
	assert.Contains(t, s, "throw new Error")
}

func TestSnapshotScript(t *testing.T) {
	s := snapshotScript(browser.CSS(".search-business-snippet-view"))
	assert.Contains(t, s, `getAttribute("data-coordinates")`)
	assert.Contains(t, s, "parentElement")
	assert.Contains(t, s, "outerHTML")
}

func TestCountAndClickScripts(t *testing.T) {
	assert.Contains(t, countScript(browser.CSS("a")), ".length")
	assert.Contains(t, clickScript(browser.CSS("a")), "el.click()")
}

func TestLauncher_CanceledContext(t *testing.T) {
	l := NewLauncher(Options{Headless: true}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := l.Launch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, p)
}

func TestLauncher_AllocatorOptions(t *testing.T) {
	base := NewLauncher(Options{}, zap.NewNop()).allocatorOptions()
	full := NewLauncher(Options{UserAgent: "ua", WindowWidth: 1920, WindowHeight: 1080}, zap.NewNop()).allocatorOptions()
	assert.Len(t, full, len(base)+2)
}
