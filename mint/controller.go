// Package mint implements the supply controller: a monotonic, capped token-ID
// issuance sequence with tiered pricing and a one-shot start action.
package mint

import (
	"fmt"
	"math"
	"sync"

	"github.com/mintvault/libmintvault-go/token"
)

// BatchCap is the maximum number of tokens a single MintBatch call may issue.
const BatchCap = 10

// Controller enforces the Uninitialized → Minting → SoldOut lifecycle.
// Token IDs are issued strictly in sequence starting at zero; the transition
// to SoldOut is implicit when totalSupply reaches maxSupply.
type Controller struct {
	mu sync.Mutex

	ledger   *token.Ledger
	schedule *PriceSchedule

	maxSupply   uint64
	teamReserve uint64
	admin       token.Address
	team        token.Address
	minters     map[token.Address]bool

	supply  uint64
	started bool
}

// NewController creates a controller in the Uninitialized state.
// The admin may call Start once; only addresses in minters may mint.
func NewController(ledger *token.Ledger, schedule *PriceSchedule, maxSupply, teamReserve uint64,
	admin, team token.Address, minters []token.Address) (*Controller, error) {
	if ledger == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	if schedule == nil {
		return nil, fmt.Errorf("%w: schedule", ErrNilParam)
	}
	if admin.IsZero() || team.IsZero() {
		return nil, fmt.Errorf("%w: admin and team addresses required", ErrNilParam)
	}
	if teamReserve > maxSupply {
		return nil, fmt.Errorf("%w: reserve %d, max supply %d", ErrReserveTooLarge, teamReserve, maxSupply)
	}

	set := make(map[token.Address]bool, len(minters))
	for _, m := range minters {
		set[m] = true
	}
	return &Controller{
		ledger:      ledger,
		schedule:    schedule,
		maxSupply:   maxSupply,
		teamReserve: teamReserve,
		admin:       admin,
		team:        team,
		minters:     set,
	}, nil
}

// Start opens minting and mints the team reserve batch. It is the one-shot,
// irreversible admin action; there is no way back to Uninitialized.
func (c *Controller) Start(caller token.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.admin {
		return fmt.Errorf("%w: %s", ErrCallerNotAdmin, caller)
	}
	if c.started {
		return ErrAlreadyStarted
	}

	for i := uint64(0); i < c.teamReserve; i++ {
		if err := c.ledger.RecordTransfer(token.ZeroAddress, c.team, token.TokenID(c.supply)); err != nil {
			return fmt.Errorf("mint: team reserve token %d: %w", c.supply, err)
		}
		c.supply++
	}
	c.started = true
	return nil
}

// CurrentPrice returns the unit price at the current supply level.
func (c *Controller) CurrentPrice() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schedule.PriceAt(c.supply)
}

// TotalSupply returns the number of tokens minted so far.
func (c *Controller) TotalSupply() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supply
}

// MaxSupply returns the immutable supply cap.
func (c *Controller) MaxSupply() uint64 { return c.maxSupply }

// SoldOut reports whether the supply cap has been reached.
func (c *Controller) SoldOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supply == c.maxSupply
}

// MintBatch issues count sequential token IDs to the destination.
//
// All preconditions are checked before the first mint: caller authorization,
// lifecycle state, batch cap, supply cap, and payment coverage at the current
// tier price. Underpayment never results in a partial batch.
func (c *Controller) MintBatch(caller, to token.Address, count uint64, payment uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return ErrMintingNotStarted
	}
	if !c.minters[caller] {
		return fmt.Errorf("%w: %s", ErrCallerNotMinter, caller)
	}
	if to.IsZero() {
		return fmt.Errorf("mint: %w", token.ErrZeroAddress)
	}
	if count == 0 {
		return ErrZeroCount
	}
	if count > BatchCap {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, count, BatchCap)
	}
	if c.supply+count > c.maxSupply {
		return fmt.Errorf("%w: supply %d + %d > %d", ErrMaxSupplyExceeded, c.supply, count, c.maxSupply)
	}

	price := c.schedule.PriceAt(c.supply)
	if price != 0 && count > math.MaxUint64/price {
		return fmt.Errorf("%w: %d tokens at price %d", ErrAmountOverflow, count, price)
	}
	cost := price * count
	if payment < cost {
		return fmt.Errorf("%w: need %d, got %d", ErrInsufficientPayment, cost, payment)
	}

	for i := uint64(0); i < count; i++ {
		if err := c.ledger.RecordTransfer(token.ZeroAddress, to, token.TokenID(c.supply)); err != nil {
			return fmt.Errorf("mint: token %d: %w", c.supply, err)
		}
		c.supply++
	}
	return nil
}
