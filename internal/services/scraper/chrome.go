package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// ChromeBrowser starts one headless Chrome process per page.
type ChromeBrowser struct {
	headless bool
}

// NewChromeBrowser creates a Chrome-backed Browser.
func NewChromeBrowser(headless bool) *ChromeBrowser {
	return &ChromeBrowser{headless: headless}
}

// Open launches Chrome and navigates to url.
func (b *ChromeBrowser) Open(ctx context.Context, url string) (Page, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("log-level", "3"))
	if !b.headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	page := &chromePage{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}
	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		_ = page.Close()
		return nil, errors.Wrap(err, "navigate")
	}

	return page, nil
}

type chromePage struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
}

const textsByClassJS = `Array.from(document.getElementsByClassName(%s)).map(e => e.textContent)`

func (p *chromePage) TextsByClass(ctx context.Context, class string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quoted, err := json.Marshal(class)
	if err != nil {
		return nil, err
	}

	var texts []string
	expr := fmt.Sprintf(textsByClassJS, string(quoted))
	if err := chromedp.Run(p.ctx, chromedp.Evaluate(expr, &texts)); err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	return texts, nil
}

// Close shuts the tab and the browser process. Safe to call more than once.
func (p *chromePage) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = chromedp.Cancel(p.ctx)
		p.cancelTab()
		p.cancelAlloc()
	})
	return err
}
