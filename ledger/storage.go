// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/state"
)

// State
// 0x0/ (balances)
//   -> [account|asset class] => amount
// 0x1/ (owners)
//   -> [asset instance] => owner location
// 0x2/ (trapped)
//   -> [origin|assets] => count
// 0x3/ (genesis)
//   -> [] => initialized
const (
	balancePrefix = 0x0
	ownerPrefix   = 0x1
	trapPrefix    = 0x2
	genesisPrefix = 0x3
)

var genesisKey = []byte{genesisPrefix}

const (
	hashLen    = blake2b.Size256
	balanceLen = 32
)

// AccountID is the storage identity of [who].
func AccountID(who location.Location) ids.ID {
	return blake2b.Sum256(who.Bytes())
}

// [balancePrefix] + [account] + [asset class]
func BalanceKey(account ids.ID, id asset.ID) (k []byte) {
	class := blake2b.Sum256(id.Bytes())
	k = make([]byte, 1+consts.IDLen+hashLen)
	k[0] = balancePrefix
	copy(k[1:], account[:])
	copy(k[1+consts.IDLen:], class[:])
	return
}

// [ownerPrefix] + [asset instance]
func OwnerKey(a asset.Asset) (k []byte) {
	instance := blake2b.Sum256([]byte(a.Key()))
	k = make([]byte, 1+hashLen)
	k[0] = ownerPrefix
	copy(k[1:], instance[:])
	return
}

// [trapPrefix] + [origin|assets]
func TrapKey(origin location.Location, assets asset.Assets) (k []byte) {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write(origin.Bytes())
	for _, a := range assets {
		_, _ = h.Write(a.Bytes())
	}
	k = make([]byte, 1, 1+hashLen)
	k[0] = trapPrefix
	return h.Sum(k)
}

func getBalance(ctx context.Context, im state.Immutable, account ids.ID, id asset.ID) (*uint256.Int, error) {
	v, err := im.GetValue(ctx, BalanceKey(account, id))
	if errors.Is(err, database.ErrNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	if len(v) != balanceLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBalance, len(v))
	}
	return new(uint256.Int).SetBytes32(v), nil
}

// setBalance deletes the entry once it reaches zero.
func setBalance(ctx context.Context, mu state.Mutable, account ids.ID, id asset.ID, balance *uint256.Int) error {
	k := BalanceKey(account, id)
	if balance.IsZero() {
		return mu.Remove(ctx, k)
	}
	v := balance.Bytes32()
	return mu.Insert(ctx, k, v[:])
}

func addBalance(ctx context.Context, mu state.Mutable, account ids.ID, id asset.ID, amount *uint256.Int) error {
	bal, err := getBalance(ctx, mu, account, id)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow || bal.Gt(asset.MaxAmount) {
		return fmt.Errorf("%w: %w", ErrNotDepositable, asset.ErrOverflow)
	}
	return setBalance(ctx, mu, account, id, bal)
}

func subBalance(ctx context.Context, mu state.Mutable, account ids.ID, id asset.ID, amount *uint256.Int) error {
	bal, err := getBalance(ctx, mu, account, id)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return fmt.Errorf("%w: balance %s < %s of %s", ErrNotWithdrawable, bal.Dec(), amount.Dec(), id)
	}
	return setBalance(ctx, mu, account, id, bal.Sub(bal, amount))
}

func getOwner(ctx context.Context, im state.Immutable, a asset.Asset) (location.Location, bool, error) {
	v, err := im.GetValue(ctx, OwnerKey(a))
	if errors.Is(err, database.ErrNotFound) {
		return location.Location{}, false, nil
	}
	if err != nil {
		return location.Location{}, false, err
	}
	owner, err := location.FromBytes(v)
	if err != nil {
		return location.Location{}, false, err
	}
	return owner, true, nil
}

func getTrapped(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, fmt.Errorf("%w: trap count of %d bytes", ErrInvalidBalance, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func setTrapped(ctx context.Context, mu state.Mutable, k []byte, count uint64) error {
	if count == 0 {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, count))
}
