package market

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/testing/storetest"
)

// TestProperty_BuyConservesGold checks that a buy moves exactly
// quantity*unit_price gold and quantity units, or changes nothing.
func TestProperty_BuyConservesGold(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	run := 0

	rapid.Check(t, func(rt *rapid.T) {
		run++
		seller, buyer := fmt.Sprintf("s%d", run), fmt.Sprintf("b%d", run)
		r := rapid.SampledFrom(domain.ListableResources).Draw(rt, "resource")
		held := rapid.Int64Range(1, 50).Draw(rt, "held")
		qty := rapid.Int64Range(1, held).Draw(rt, "qty")
		price := rapid.Int64Range(domain.MinUnitPrice, 1000).Draw(rt, "price")
		buyerGold := rapid.Int64Range(0, 60_000).Draw(rt, "buyerGold")

		storetest.Player(t, f.store, seller, domain.Balance{}.Apply(domain.DeltaOf(r, held)))
		storetest.Player(t, f.store, buyer, domain.Balance{Gold: buyerGold})

		listing, err := f.svc.CreateListing(ctx, seller, r, qty, price)
		require.NoError(rt, err)

		_, err = f.svc.Buy(ctx, buyer, listing.ListingID)
		sb := storetest.Balance(t, f.store, seller)
		bb := storetest.Balance(t, f.store, buyer)
		require.True(rt, sb.Valid() && bb.Valid())
		require.Equal(rt, buyerGold, sb.Gold+bb.Gold, "gold not conserved")
		require.Equal(rt, held, sb.Get(r)+bb.Get(r)+reserved(rt, f, seller), "units not conserved")

		if buyerGold < qty*price {
			require.ErrorIs(rt, err, domain.ErrInsufficientFunds)
			require.Equal(rt, buyerGold, bb.Gold)
			return
		}
		require.NoError(rt, err)
		require.Equal(rt, qty*price, sb.Gold)
		require.Equal(rt, qty, bb.Get(r))
	})
}

// reserved sums the units still held by the seller's active listings.
func reserved(rt *rapid.T, f *fixture, seller string) int64 {
	listings, err := f.svc.MyListings(context.Background(), seller)
	require.NoError(rt, err)
	var n int64
	for _, l := range listings {
		if l.IsActive() {
			n += l.Quantity
		}
	}
	return n
}
