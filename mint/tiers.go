package mint

import "fmt"

// tierCount is the number of contiguous price tiers.
const tierCount = 3

// PriceSchedule is a step function of cumulative supply: tier boundaries sit
// at 1/3 and 2/3 of max supply, and the price strictly increases per tier.
type PriceSchedule struct {
	maxSupply uint64
	prices    [tierCount]uint64
}

// NewPriceSchedule builds a schedule over [0, maxSupply) with the given
// per-tier prices. Prices must be strictly increasing.
func NewPriceSchedule(maxSupply uint64, prices [tierCount]uint64) (*PriceSchedule, error) {
	if maxSupply == 0 {
		return nil, fmt.Errorf("%w: zero max supply", ErrInvalidSchedule)
	}
	for i := 1; i < tierCount; i++ {
		if prices[i] <= prices[i-1] {
			return nil, fmt.Errorf("%w: tier %d price %d not above tier %d price %d",
				ErrInvalidSchedule, i, prices[i], i-1, prices[i-1])
		}
	}
	return &PriceSchedule{maxSupply: maxSupply, prices: prices}, nil
}

// PriceAt returns the unit price when totalSupply tokens have been minted.
func (s *PriceSchedule) PriceAt(totalSupply uint64) uint64 {
	switch {
	case totalSupply < s.maxSupply/3:
		return s.prices[0]
	case totalSupply < 2*s.maxSupply/3:
		return s.prices[1]
	default:
		return s.prices[2]
	}
}
