package fetch

import (
	"fmt"

	"golang.org/x/time/rate"

	"articlegrip/internal/config"
)

// NewFromConfig builds the configured source. archive is only used by the
// archive kind and may be nil otherwise. Network sources are rate limited
// when rate_per_second is positive.
func NewFromConfig(cfg config.SourceConfig, archive PageReader) (PageFetcher, error) {
	var src PageFetcher

	switch cfg.Kind {
	case config.SourceAPI, "":
		src = NewJSONSource(cfg.URL, cfg.Timeout())
	case config.SourceFeed:
		src = NewFeedSource(cfg.URL, cfg.PageSize, cfg.Timeout())
	case config.SourceHTML:
		src = NewHTMLSource(cfg.URL, HTMLOptions{
			ItemSelector:  cfg.ItemSelector,
			TitleSelector: cfg.TitleSelector,
			LinkAttr:      cfg.LinkAttr,
			Timeout:       cfg.Timeout(),
		})
	case config.SourceArchive:
		if archive == nil {
			return nil, fmt.Errorf("source kind %q needs an open archive", cfg.Kind)
		}
		return NewArchiveSource(archive, cfg.PageSize), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}

	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		src = RateLimited(src, rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst))
	}
	return src, nil
}
