// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "hyperxcm"

	// Version is the only message version understood by this module.
	Version uint8 = 1

	ByteLen    = 1
	BoolLen    = 1
	Uint32Len  = 4
	Uint64Len  = 8
	IDLen      = 32
	Key20Len   = 20
	Uint128Len = 16

	MaxUint8  = ^uint8(0)
	MaxUint32 = ^uint32(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)

	// MaxJunctions is the most interior junctions a location may carry.
	MaxJunctions = 8

	// MaxRecursionLimit is the default depth of nested programs a single
	// root execution may enter.
	MaxRecursionLimit = 8

	// MaxDecodeDepth bounds nesting while decoding untrusted bytes.
	MaxDecodeDepth = 64

	// MaxItems bounds any length-prefixed collection on the wire.
	MaxItems = 1024

	// MaxMessageSize bounds any encoded outbound message.
	MaxMessageSize = 64 * 1024

	// NetworkSizeLimit bounds any inbound payload (RPC, CLI files).
	NetworkSizeLimit = 2 * 1024 * 1024

	// WeightPerSecond is the number of weight units in one second of
	// execution.
	WeightPerSecond uint64 = 1_000_000_000_000
)
