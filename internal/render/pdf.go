package render

import (
	"context"
	"encoding/base64"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches, with 2cm margins to match the print stylesheet.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 0.79
)

// renderPDF prints the Markdown through a headless browser.
// Requires Chrome/Chromium to be installed on the system.
func (r *Renderer) renderPDF(ctx context.Context, source []byte) ([]byte, error) {
	fragment, err := r.renderHTML(source)
	if err != nil {
		return nil, err
	}
	doc := r.htmlDocument(fragment)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.opts.PDFTimeout)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString(doc)

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "headless browser print failed", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &RenderError{Format: "pdf", Message: "browser produced an empty document"}
	}
	return pdf, nil
}
