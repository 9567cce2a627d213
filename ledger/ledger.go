// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/state"
)

// AccountTypeID tags addresses derived from account locations.
const AccountTypeID uint8 = 0

type Config struct {
	// HRP prefixes every bech32 address shown to users.
	HRP string

	// CheckingAccount mirrors teleported supply. Nil disables
	// teleport accounting.
	CheckingAccount *location.Location

	// RevenueAccount receives what traders earn. Nil burns it.
	RevenueAccount *location.Location

	Log logging.Logger
}

func NewDefaultConfig() Config {
	return Config{
		HRP: "xcm",
		Log: logging.NoLog{},
	}
}

// Ledger keeps account balances, instance ownership and trapped assets in
// a [state.Database]. Every exported mutation is atomic: it either commits
// all of its writes or none of them.
type Ledger struct {
	cfg Config
	db  state.Database

	l sync.Mutex
}

func New(db state.Database, cfg Config) *Ledger {
	if cfg.Log == nil {
		cfg.Log = logging.NoLog{}
	}
	return &Ledger{cfg: cfg, db: db}
}

func (l *Ledger) update(ctx context.Context, f func(mu state.Mutable) error) error {
	l.l.Lock()
	defer l.l.Unlock()

	mu := state.NewSimpleMutable(l.db)
	if err := f(mu); err != nil {
		return err
	}
	return mu.Commit(ctx)
}

func deposit(ctx context.Context, mu state.Mutable, what asset.Asset, who location.Location) error {
	if what.Fungible {
		return addBalance(ctx, mu, AccountID(who), what.ID, &what.Amount)
	}
	if _, owned, err := getOwner(ctx, mu, what); err != nil {
		return err
	} else if owned {
		return fmt.Errorf("%w: %w: %s", ErrNotDepositable, ErrAlreadyOwned, what)
	}
	return mu.Insert(ctx, OwnerKey(what), who.Bytes())
}

func withdraw(ctx context.Context, mu state.Mutable, what asset.Asset, who location.Location) error {
	if what.Fungible {
		return subBalance(ctx, mu, AccountID(who), what.ID, &what.Amount)
	}
	owner, owned, err := getOwner(ctx, mu, what)
	if err != nil {
		return err
	}
	if !owned || !owner.Equal(who) {
		return fmt.Errorf("%w: %w: %s", ErrNotWithdrawable, ErrNotOwner, what)
	}
	return mu.Remove(ctx, OwnerKey(what))
}

// Deposit credits [what] to [who].
func (l *Ledger) Deposit(ctx context.Context, what asset.Asset, who location.Location) error {
	if err := l.update(ctx, func(mu state.Mutable) error {
		return deposit(ctx, mu, what, who)
	}); err != nil {
		return err
	}
	l.cfg.Log.Debug("deposited",
		zap.Stringer("asset", what),
		zap.Stringer("who", who),
	)
	return nil
}

// Withdraw debits [what] from [who].
func (l *Ledger) Withdraw(ctx context.Context, what asset.Asset, who location.Location) (asset.Assets, error) {
	if err := l.update(ctx, func(mu state.Mutable) error {
		return withdraw(ctx, mu, what, who)
	}); err != nil {
		return nil, err
	}
	l.cfg.Log.Debug("withdrew",
		zap.Stringer("asset", what),
		zap.Stringer("who", who),
	)
	return asset.Assets{what}, nil
}

// Transfer moves [what] from [from] to [to] in one commit.
func (l *Ledger) Transfer(ctx context.Context, what asset.Asset, from, to location.Location) error {
	return l.update(ctx, func(mu state.Mutable) error {
		if err := withdraw(ctx, mu, what, from); err != nil {
			return err
		}
		return deposit(ctx, mu, what, to)
	})
}

// CanCheckIn fails if the checking account could not cover [what].
// Non-fungible instances are never mirrored.
func (l *Ledger) CanCheckIn(ctx context.Context, _ location.Location, what asset.Asset) error {
	if l.cfg.CheckingAccount == nil || !what.Fungible {
		return nil
	}
	bal, err := l.Balance(ctx, *l.cfg.CheckingAccount, what.ID)
	if err != nil {
		return err
	}
	if bal.Lt(&what.Amount) {
		return fmt.Errorf("%w: checking account holds %s < %s", ErrNotWithdrawable, bal.Dec(), what.Amount.Dec())
	}
	return nil
}

// CheckIn reduces the checking account by [what].
func (l *Ledger) CheckIn(ctx context.Context, origin location.Location, what asset.Asset) {
	if l.cfg.CheckingAccount == nil || !what.Fungible {
		return
	}
	if err := l.update(ctx, func(mu state.Mutable) error {
		return subBalance(ctx, mu, AccountID(*l.cfg.CheckingAccount), what.ID, &what.Amount)
	}); err != nil {
		l.cfg.Log.Warn("unable to check in",
			zap.Stringer("origin", origin),
			zap.Stringer("asset", what),
			zap.Error(err),
		)
	}
}

// CheckOut grows the checking account by [what].
func (l *Ledger) CheckOut(ctx context.Context, dest location.Location, what asset.Asset) {
	if l.cfg.CheckingAccount == nil || !what.Fungible {
		return
	}
	if err := l.update(ctx, func(mu state.Mutable) error {
		return addBalance(ctx, mu, AccountID(*l.cfg.CheckingAccount), what.ID, &what.Amount)
	}); err != nil {
		l.cfg.Log.Warn("unable to check out",
			zap.Stringer("dest", dest),
			zap.Stringer("asset", what),
			zap.Error(err),
		)
	}
}

// TakeRevenue credits trader revenue to the revenue account.
func (l *Ledger) TakeRevenue(ctx context.Context, revenue asset.Asset) {
	if l.cfg.RevenueAccount == nil || revenue.IsZero() {
		return
	}
	if err := l.Deposit(ctx, revenue, *l.cfg.RevenueAccount); err != nil {
		l.cfg.Log.Warn("unable to take revenue",
			zap.Stringer("asset", revenue),
			zap.Error(err),
		)
	}
}

// Balance returns the fungible balance of [id] held by [who].
func (l *Ledger) Balance(ctx context.Context, who location.Location, id asset.ID) (*uint256.Int, error) {
	return getBalance(ctx, l.db, AccountID(who), id)
}

// Owner returns the holder of non-fungible [what], if any.
func (l *Ledger) Owner(ctx context.Context, what asset.Asset) (location.Location, bool, error) {
	return getOwner(ctx, l.db, what)
}

// Address is the bech32 form of [who].
func (l *Ledger) Address(who location.Location) string {
	return codec.MustAddressBech32(l.cfg.HRP, codec.CreateAddress(AccountTypeID, AccountID(who)))
}
