package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const defaultNavigationTimeout = 30 * time.Second

// blockedResourceTypes are never needed to read titles and prices
var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeMedia,
}

// rodDriver drives a Chromium instance managed by Rod.
// The browser is not bound to the caller's context: cancellation is only
// observed between searches, never in the middle of one.
type rodDriver struct {
	headless   bool
	navTimeout time.Duration

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
}

func newRodDriver(cfg Config) *rodDriver {
	timeout := cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = defaultNavigationTimeout
	}
	return &rodDriver{
		headless:   cfg.Headless,
		navTimeout: timeout,
	}
}

func (d *rodDriver) Start(ctx context.Context) error {
	d.launcher = launcher.New().
		Headless(d.headless).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage")

	u, err := d.launcher.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	d.browser = browser

	page, err := stealth.Page(browser)
	if err != nil {
		return fmt.Errorf("create tab: %w", err)
	}
	d.page = page

	d.router = page.HijackRequests()
	for _, rt := range blockedResourceTypes {
		_ = d.router.Add("*", rt, func(h *rod.Hijack) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go d.router.Run()

	return nil
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	if d.page == nil {
		return errors.New("browser not started")
	}
	page := d.page.Timeout(d.navTimeout)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (d *rodDriver) Submit(ctx context.Context, selector, text string) error {
	if d.page == nil {
		return errors.New("browser not started")
	}
	el, err := d.page.Timeout(d.navTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("find search input %s: %w", selector, err)
	}
	el = el.CancelTimeout()

	if _, err := el.Eval(`() => { this.value = '' }`); err != nil {
		return fmt.Errorf("clear search input: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("type query: %w", err)
	}
	return el.Type(input.Enter)
}

func (d *rodDriver) Values(ctx context.Context, selector, attr string, limit int) ([]string, error) {
	if d.page == nil {
		return nil, errors.New("browser not started")
	}
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, limit)
	for _, el := range els {
		if len(values) == limit {
			break
		}
		value, err := elementValue(el, attr)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func (d *rodDriver) Cards(ctx context.Context, q cardQuery, limit int) ([]candidate, error) {
	if d.page == nil {
		return nil, errors.New("browser not started")
	}
	cards, err := d.page.Elements(q.Card)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, limit)
	for _, card := range cards {
		if len(out) == limit {
			break
		}
		title, err := childValue(card, q.Title, q.TitleAttr)
		if err != nil {
			return nil, err
		}
		price, err := childValue(card, q.Price, "")
		if err != nil {
			return nil, err
		}
		out = append(out, candidate{Title: title, Price: price})
	}
	return out, nil
}

// childValue reads the first element under parent matching selector, or nil if
// there is none. Elements does not wait, unlike Element.
func childValue(parent *rod.Element, selector, attr string) (*string, error) {
	els, err := parent.Elements(selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, nil
	}
	v, err := elementValue(els.First(), attr)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func elementValue(el *rod.Element, attr string) (string, error) {
	if attr != "" {
		v, err := el.Attribute(attr)
		if err != nil {
			return "", err
		}
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v), nil
		}
	}
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Close tears down whatever Start managed to create.
func (d *rodDriver) Close() error {
	var errs []error
	if d.router != nil {
		errs = append(errs, d.router.Stop())
		d.router = nil
	}
	if d.page != nil {
		errs = append(errs, d.page.Close())
		d.page = nil
	}
	if d.browser != nil {
		errs = append(errs, d.browser.Close())
		d.browser = nil
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher = nil
	}
	return errors.Join(errs...)
}
