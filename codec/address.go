// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressLen = 33

	// These consts are pulled from BIP-173: https://github.com/bitcoin/bips/blob/master/bip-0173.mediawiki
	fromBits = 8
	toBits   = 5
)

// Address is a 1 byte type prefix followed by a 32 byte account id.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// AddressBech32 returns a Bech32 address string for [a] under [hrp].
func AddressBech32(hrp string, a Address) (string, error) {
	expanded, err := bech32.ConvertBits(a[:], fromBits, toBits, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, expanded)
}

// MustAddressBech32 panics if [AddressBech32] fails.
func MustAddressBech32(hrp string, a Address) string {
	addr, err := AddressBech32(hrp, a)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddressBech32 parses a Bech32 encoded address string and extracts
// its [Address]. If there is an error reading the address or the hrp
// value is not valid, ParseAddressBech32 returns an error.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected %q, found %q", ErrIncorrectHRP, hrp, phrp)
	}
	// The parsed address must be converted from 5 bits back to 8 bits.
	decoded, err := bech32.ConvertBits(p, toBits, fromBits, false)
	if err != nil {
		return EmptyAddress, err
	}
	if len(decoded) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: %d != %d", ErrInvalidSize, len(decoded), AddressLen)
	}
	return Address(decoded), nil
}
