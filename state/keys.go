// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

// Permissions is the access a root program needs to a key.
type Permissions byte

const (
	None  Permissions = 0
	Read  Permissions = 1
	Write Permissions = 1<<1 | Read
)

// Keys maps each key touched by a root program to the access it needs.
type Keys map[string]Permissions

// Add merges [p] into the access recorded for [key]; access only grows.
func (k Keys) Add(key string, p Permissions) {
	k[key] |= p
}

// Has reports whether [p] grants everything in [want].
func (p Permissions) Has(want Permissions) bool {
	return want&^p == 0
}
