package metrics

import (
	"context"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/repository"
)

// MarketDepthJob refreshes the active listing gauges from the store. It is a
// read-only snapshot and may lag the live book by one interval.
type MarketDepthJob struct {
	reader repository.Market
}

// NewMarketDepthJob creates a snapshot job reading from reader.
func NewMarketDepthJob(reader repository.Market) *MarketDepthJob {
	return &MarketDepthJob{reader: reader}
}

// Process implements worker.Job.
func (j *MarketDepthJob) Process(ctx context.Context) error {
	listings, err := j.reader.ListActiveListings(ctx, nil)
	if err != nil {
		return err
	}

	counts := make(map[domain.Resource]int, len(domain.ListableResources))
	units := make(map[domain.Resource]int64, len(domain.ListableResources))
	for _, l := range listings {
		counts[l.ItemType]++
		units[l.ItemType] += l.Quantity
	}

	// Every listable resource gets a sample so drained books read as zero.
	for _, r := range domain.ListableResources {
		ActiveListings.WithLabelValues(string(r)).Set(float64(counts[r]))
		ActiveQuantity.WithLabelValues(string(r)).Set(float64(units[r]))
	}

	logger.FromContext(ctx).Debug(LogMsgMarketSnapshot, "active", len(listings))
	return nil
}
