// Package sources provides the listing feeds an import can pull from.
package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"estatify/server/internal/models"
)

// SourceAll selects every registered feed
const SourceAll = "all"

var ErrUnknownSource = errors.New("unknown listing source")

// Fetcher returns raw listings for a city. Returned listings carry no
// derived metrics.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, city string) ([]models.Listing, error)
}

// Registry dispatches fetches to the registered feeds
type Registry struct {
	logger   *logrus.Logger
	timeout  time.Duration
	fetchers []Fetcher
}

func NewRegistry(timeout time.Duration, logger *logrus.Logger, fetchers ...Fetcher) *Registry {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Registry{
		logger:   logger,
		timeout:  timeout,
		fetchers: fetchers,
	}
}

// NewDefaultRegistry registers the Immoscout24 and Immonet mock feeds
func NewDefaultRegistry(timeout time.Duration, logger *logrus.Logger) *Registry {
	return NewRegistry(timeout, logger, NewImmoscoutFeed(nil), NewImmonetFeed(nil))
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.fetchers))
	for i, f := range r.fetchers {
		names[i] = f.Name()
	}
	return names
}

// Fetch pulls listings from one feed, or from every feed when source is
// "all". A failing feed is logged and contributes no listings.
func (r *Registry) Fetch(ctx context.Context, source, city string) ([]models.Listing, error) {
	selected, err := r.selectFetchers(source)
	if err != nil {
		return nil, err
	}

	listings := []models.Listing{}
	for _, f := range selected {
		fetched, err := r.fetchOne(ctx, f, city)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"source": f.Name(),
				"city":   city,
			}).Warn("Listing source failed")
			continue
		}

		r.logger.WithFields(logrus.Fields{
			"source": f.Name(),
			"city":   city,
			"count":  len(fetched),
		}).Info("Fetched listings")
		listings = append(listings, fetched...)
	}

	return listings, nil
}

func (r *Registry) fetchOne(ctx context.Context, f Fetcher, city string) ([]models.Listing, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return f.Fetch(ctx, city)
}

func (r *Registry) selectFetchers(source string) ([]Fetcher, error) {
	if source == SourceAll {
		return r.fetchers, nil
	}
	for _, f := range r.fetchers {
		if f.Name() == source {
			return []Fetcher{f}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
}
