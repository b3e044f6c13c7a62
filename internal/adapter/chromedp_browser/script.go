package chromedp_browser

import (
	"encoding/json"
	"fmt"

	"github.com/user/maps-scraper/internal/browser"
)

const coordinatesAttr = "data-coordinates"

const scrollBottomScript = `(() => { window.scrollTo(0, document.body.scrollHeight); return true; })()`

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// elementsExpr evaluates to an array of the elements matching loc.
func elementsExpr(loc browser.Locator) string {
	if loc.XPath {
		return fmt.Sprintf(`(() => {
	const r = document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	const out = [];
	for (let i = 0; i < r.snapshotLength; i++) out.push(r.snapshotItem(i));
	return out;
})()`, jsString(loc.Query))
	}
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s))`, jsString(loc.Query))
}

func countScript(loc browser.Locator) string {
	return elementsExpr(loc) + `.length`
}

func scrollScript(container browser.Locator, px int) string {
	if container.Query == "" {
		return fmt.Sprintf(`(() => { window.scrollBy(0, %d); return true; })()`, px)
	}
	return fmt.Sprintf(`(() => {
	const el = %s[0];
	if (!el) throw new Error("scroll container not found");
	el.scrollBy(0, %d);
	return true;
})()`, elementsExpr(container), px)
}

func clickScript(loc browser.Locator) string {
	return fmt.Sprintf(`(() => {
	const el = %s[0];
	if (!el) return false;
	el.scrollIntoView({block: "center"});
	el.click();
	return true;
})()`, elementsExpr(loc))
}

// snapshotScript copies each match with the coordinates of its nearest
// ancestor-or-self carrying the coordinates attribute.
func snapshotScript(items browser.Locator) string {
	return fmt.Sprintf(`%s.map(el => {
	let n = el, c = "";
	while (n && n.nodeType === 1) {
		const v = n.getAttribute(%s);
		if (v) { c = v; break; }
		n = n.parentElement;
	}
	return {html: el.outerHTML, coordinates: c};
})`, elementsExpr(items), jsString(coordinatesAttr))
}
