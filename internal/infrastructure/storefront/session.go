package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/basketlens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle position of a Session
type State int

const (
	StateUnopened State = iota
	StateOpened
	StateSearchIssued
	StateResultsSettled
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpened:
		return "opened"
	case StateSearchIssued:
		return "search-issued"
	case StateResultsSettled:
		return "results-settled"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config describes one retailer search page and how results are read from it
type Config struct {
	SearchURL             string
	SearchInputSelector   string
	ProductTitleSelector  string
	ProductTitleAttribute string // empty reads the element text
	PriceSelector         string
	// ResultCardSelector, when set, matches one element per search result; the
	// title and price are then read inside the same card. Empty pairs the page's
	// title and price elements by position.
	ResultCardSelector    string
	Headless              bool
	NavigationTimeout     time.Duration
	SettleDelay           time.Duration
	MaxResults            int
}

// driver is the slice of browser automation a Session needs
type driver interface {
	Start(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	Submit(ctx context.Context, selector, text string) error
	// Values returns up to limit values of attr for elements matching selector,
	// falling back to element text when attr is empty or missing.
	Values(ctx context.Context, selector, attr string, limit int) ([]string, error)
	// Cards returns up to limit result cards. A card without a title or price
	// element has a nil field.
	Cards(ctx context.Context, q cardQuery, limit int) ([]candidate, error)
	Close() error
}

// Session is one browser connection bound to the storefront search page.
// It is not safe for concurrent use; one discovery run owns it.
type Session struct {
	cfg   Config
	drv   driver
	state State
	sleep func(time.Duration)
	log   logrus.FieldLogger
}

func newSession(cfg Config, drv driver, log logrus.FieldLogger) *Session {
	if cfg.MaxResults < 1 {
		cfg.MaxResults = 1
	}
	return &Session{
		cfg:   cfg,
		drv:   drv,
		state: StateUnopened,
		sleep: time.Sleep,
		log:   log,
	}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return s.state
}

// Open launches the browser and loads the search page.
func (s *Session) Open(ctx context.Context) error {
	switch s.state {
	case StateUnopened:
	case StateClosed:
		return domain.ErrSessionClosed
	default:
		return fmt.Errorf("open session in state %s", s.state)
	}

	if err := s.drv.Start(ctx); err != nil {
		return fmt.Errorf("%w: launch browser: %v", domain.ErrSessionUnavailable, err)
	}
	if err := s.drv.Navigate(ctx, s.cfg.SearchURL); err != nil {
		return fmt.Errorf("%w: load %s: %v", domain.ErrSessionUnavailable, s.cfg.SearchURL, err)
	}

	s.state = StateOpened
	s.log.WithField("url", s.cfg.SearchURL).Info("storefront session opened")
	return nil
}

// Search submits query to the search box, waits for the settle delay and reads the
// leading result. Missing products or prices are reported as nil fields, not errors.
func (s *Session) Search(ctx context.Context, query domain.IngredientQuery) (domain.RawMatch, error) {
	switch s.state {
	case StateOpened, StateResultsSettled:
	case StateClosed:
		return domain.RawMatch{}, domain.ErrSessionClosed
	default:
		return domain.RawMatch{}, fmt.Errorf("%w: search in state %s", domain.ErrSessionUnavailable, s.state)
	}

	s.state = StateSearchIssued
	if err := s.drv.Submit(ctx, s.cfg.SearchInputSelector, string(query)); err != nil {
		return domain.RawMatch{}, fmt.Errorf("%w: submit %q: %v", domain.ErrSessionUnavailable, query, err)
	}

	// The storefront renders results client-side and exposes no ready signal.
	s.sleep(s.cfg.SettleDelay)

	candidates, err := s.readResults(ctx)
	if err != nil {
		return domain.RawMatch{}, fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}
	s.state = StateResultsSettled

	match := pickCheapest(candidates)
	s.log.WithFields(logrus.Fields{
		"ingredient": query,
		"candidates": len(candidates),
	}).Debug("search results settled")
	return match, nil
}

func (s *Session) readResults(ctx context.Context) ([]candidate, error) {
	if s.cfg.ResultCardSelector != "" {
		cards, err := s.drv.Cards(ctx, cardQuery{
			Card:      s.cfg.ResultCardSelector,
			Title:     s.cfg.ProductTitleSelector,
			TitleAttr: s.cfg.ProductTitleAttribute,
			Price:     s.cfg.PriceSelector,
		}, s.cfg.MaxResults)
		if err != nil {
			return nil, fmt.Errorf("read result cards: %w", err)
		}
		return cards, nil
	}

	titles, err := s.drv.Values(ctx, s.cfg.ProductTitleSelector, s.cfg.ProductTitleAttribute, s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("read product titles: %w", err)
	}
	prices, err := s.drv.Values(ctx, s.cfg.PriceSelector, "", s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}
	return pairByPosition(titles, prices), nil
}

// Close releases the browser. It is safe after a failed Open or Search and
// a second call is a no-op.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed

	if err := s.drv.Close(); err != nil {
		s.log.WithError(err).Warn("storefront session close failed")
		return fmt.Errorf("close browser: %w", err)
	}
	s.log.Info("storefront session closed")
	return nil
}

// cardQuery locates the title and price inside each result card
type cardQuery struct {
	Card      string
	Title     string
	TitleAttr string
	Price     string
}

// candidate is one search result; either field may be missing
type candidate struct {
	Title *string
	Price *string
}

// pairByPosition zips page-wide title and price lists. A result with no price
// element shifts every later price onto the wrong title, so this is only exact
// for the leading result; ResultCardSelector avoids it.
func pairByPosition(titles, prices []string) []candidate {
	n := max(len(titles), len(prices))
	out := make([]candidate, n)
	for i := range out {
		if i < len(titles) {
			out[i].Title = &titles[i]
		}
		if i < len(prices) {
			out[i].Price = &prices[i]
		}
	}
	return out
}

// pickCheapest returns the candidate with the lowest parseable price; ties keep
// the earliest and, when nothing parses, the first candidate wins.
func pickCheapest(candidates []candidate) domain.RawMatch {
	if len(candidates) == 0 {
		return domain.RawMatch{}
	}

	best := 0
	bestPrice := domain.Unavailable
	for i, c := range candidates {
		if p := domain.ParsePrice(c.Price); p.Less(bestPrice) {
			best, bestPrice = i, p
		}
	}

	var match domain.RawMatch
	if t := candidates[best].Title; t != nil {
		name := *t
		match.ProductName = &name
	}
	if p := candidates[best].Price; p != nil {
		text := *p
		match.PriceText = &text
	}
	return match
}
