// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package location

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
)

// Location is a relative path through the consensus hierarchy: first up
// [Parents] levels, then down through [Interior]. Locations are values;
// every operation returns a new Location.
type Location struct {
	Parents  uint8
	Interior []Junction
}

// Here is the location of the interpreting consensus itself.
func Here() Location {
	return Location{}
}

// Parent is the location directly above the interpreting consensus.
func Parent() Location {
	return Location{Parents: 1}
}

// New builds a location, failing if more than [consts.MaxJunctions]
// junctions are given.
func New(parents uint8, interior ...Junction) (Location, error) {
	if len(interior) > consts.MaxJunctions {
		return Location{}, fmt.Errorf("%w: %d junctions", ErrLocationFull, len(interior))
	}
	return Location{Parents: parents, Interior: clone(interior)}, nil
}

// MustNew is [New] for statically known locations.
func MustNew(parents uint8, interior ...Junction) Location {
	l, err := New(parents, interior...)
	if err != nil {
		panic(err)
	}
	return l
}

// Account returns the local location of a 32 byte account.
func Account(id [32]byte) Location {
	return Location{Interior: []Junction{AccountID32{Network: Any, ID: id}}}
}

func (l Location) IsHere() bool {
	return l.Parents == 0 && len(l.Interior) == 0
}

// First returns the outermost interior junction.
func (l Location) First() (Junction, bool) {
	if len(l.Interior) == 0 {
		return nil, false
	}
	return l.Interior[0], true
}

// Last returns the innermost interior junction.
func (l Location) Last() (Junction, bool) {
	if len(l.Interior) == 0 {
		return nil, false
	}
	return l.Interior[len(l.Interior)-1], true
}

// PushInterior returns [l] with [j] appended to its interior.
func (l Location) PushInterior(j Junction) (Location, error) {
	if len(l.Interior) >= consts.MaxJunctions {
		return l, ErrLocationFull
	}
	interior := make([]Junction, len(l.Interior), len(l.Interior)+1)
	copy(interior, l.Interior)
	return Location{Parents: l.Parents, Interior: append(interior, j)}, nil
}

// Prepended re-expresses [l], which is relative to [prefix], as relative
// to the location [prefix] is itself relative to. Each parent of [l]
// cancels one trailing interior junction of [prefix].
func (l Location) Prepended(prefix Location) (Location, error) {
	var (
		prefixInterior = len(prefix.Interior)
		suffixParents  = int(l.Parents)
		cancelled      = min(prefixInterior, suffixParents)
		finalInterior  = prefixInterior - cancelled + len(l.Interior)
		finalParents   = int(prefix.Parents) + suffixParents - cancelled
	)
	if finalInterior > consts.MaxJunctions {
		return l, fmt.Errorf("%w: %d junctions", ErrLocationFull, finalInterior)
	}
	if finalParents > int(consts.MaxUint8) {
		return l, fmt.Errorf("%w: %d", ErrTooManyParents, finalParents)
	}
	interior := make([]Junction, 0, finalInterior)
	interior = append(interior, prefix.Interior[:prefixInterior-cancelled]...)
	interior = append(interior, l.Interior...)
	return Location{Parents: uint8(finalParents), Interior: interior}, nil
}

// Appended returns the location reached by walking [suffix] from [l].
func (l Location) Appended(suffix Location) (Location, error) {
	return suffix.Prepended(l)
}

// MatchAndSplit reports whether [prefix] is a strict ancestor of [l]
// and returns the junctions of [l] below it.
func (l Location) MatchAndSplit(prefix Location) ([]Junction, bool) {
	if prefix.Parents != l.Parents || len(prefix.Interior) >= len(l.Interior) {
		return nil, false
	}
	for i, j := range prefix.Interior {
		if !JunctionEqual(j, l.Interior[i]) {
			return nil, false
		}
	}
	return l.Interior[len(prefix.Interior):], true
}

// StartsWith reports whether [l] equals or is below [prefix].
func (l Location) StartsWith(prefix Location) bool {
	if l.Equal(prefix) {
		return true
	}
	_, ok := l.MatchAndSplit(prefix)
	return ok
}

func (l Location) Equal(o Location) bool {
	return bytes.Equal(l.Bytes(), o.Bytes())
}

// Key is a stable map key for [l].
func (l Location) Key() string {
	return string(l.Bytes())
}

func (l Location) Size() int {
	return len(l.Bytes())
}

func (l Location) Bytes() []byte {
	p := codec.NewWriter(64, consts.MaxInt)
	l.Marshal(p)
	return p.Bytes()
}

func (l Location) Marshal(p *codec.Packer) {
	p.PackByte(l.Parents)
	MarshalJunctions(p, l.Interior)
}

func Unmarshal(p *codec.Packer) Location {
	parents := p.UnpackByte()
	interior := UnmarshalJunctions(p)
	if p.Errored() {
		return Location{}
	}
	return Location{Parents: parents, Interior: interior}
}

// FromBytes decodes a location that must span all of [b].
func FromBytes(b []byte) (Location, error) {
	p := codec.NewReader(b, consts.MaxInt)
	l := Unmarshal(p)
	if err := p.Err(); err != nil {
		return Location{}, err
	}
	if !p.Empty() {
		return Location{}, codec.ErrTrailingBytes
	}
	return l, nil
}

// JunctionEqual compares junctions by encoding.
func JunctionEqual(a, b Junction) bool {
	return bytes.Equal(junctionBytes(a), junctionBytes(b))
}

func clone(js []Junction) []Junction {
	if len(js) == 0 {
		return nil
	}
	out := make([]Junction, len(js))
	copy(out, js)
	return out
}

// MarshalJunctions writes a bare interior path.
func MarshalJunctions(p *codec.Packer, js []Junction) {
	p.PackByte(uint8(len(js)))
	for _, j := range js {
		MarshalJunction(p, j)
	}
}

// UnmarshalJunctions reads a bare interior path.
func UnmarshalJunctions(p *codec.Packer) []Junction {
	count := int(p.UnpackByte())
	if p.Errored() {
		return nil
	}
	if count > consts.MaxJunctions {
		p.AddErr(fmt.Errorf("%w: %d junctions", ErrLocationFull, count))
		return nil
	}
	var interior []Junction
	if count > 0 {
		interior = make([]Junction, 0, count)
	}
	for i := 0; i < count; i++ {
		j := UnmarshalJunction(p)
		if p.Errored() {
			return nil
		}
		interior = append(interior, j)
	}
	return interior
}
