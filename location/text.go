// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/codec"
)

// Text form:
//
//	here
//	../parachain:1000
//	../../parachain:2000/account32:0x0101...01@polkadot
//	pallet:5/index:42
const (
	hereText   = "here"
	parentText = ".."
	separator  = "/"
)

func (n NetworkID) String() string {
	switch n.Kind {
	case AnyNetwork:
		return ""
	case PolkadotNetwork:
		return "polkadot"
	case KusamaNetwork:
		return "kusama"
	case NamedNetwork:
		return "named:" + codec.ToHex(n.Name)
	default:
		return fmt.Sprintf("network(%d)", n.Kind)
	}
}

func parseNetwork(s string) (NetworkID, error) {
	switch {
	case s == "":
		return Any, nil
	case s == "polkadot":
		return NetworkID{Kind: PolkadotNetwork}, nil
	case s == "kusama":
		return NetworkID{Kind: KusamaNetwork}, nil
	case strings.HasPrefix(s, "named:"):
		name, err := codec.LoadHex(strings.TrimPrefix(s, "named:"), -1)
		if err != nil {
			return NetworkID{}, err
		}
		if len(name) > MaxGeneralKeyLen {
			return NetworkID{}, codec.ErrInvalidSize
		}
		return NetworkID{Kind: NamedNetwork, Name: name}, nil
	default:
		return NetworkID{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, s)
	}
}

func withNetwork(s string, n NetworkID) string {
	if n.Kind == AnyNetwork {
		return s
	}
	return s + "@" + n.String()
}

func (j Parachain) String() string { return "parachain:" + strconv.FormatUint(uint64(j), 10) }

func (j AccountID32) String() string {
	return withNetwork("account32:"+codec.ToHex(j.ID[:]), j.Network)
}

func (j AccountIndex64) String() string {
	return withNetwork("index64:"+strconv.FormatUint(j.Index, 10), j.Network)
}

func (j AccountKey20) String() string {
	return withNetwork("key20:"+codec.ToHex(j.Key[:]), j.Network)
}

func (j PalletInstance) String() string { return "pallet:" + strconv.FormatUint(uint64(j), 10) }

func (j GeneralIndex) String() string { return "index:" + j.Index.Dec() }

func (j GeneralKey) String() string { return "key:" + codec.ToHex(j) }

func (OnlyChild) String() string { return "child" }

func (l Location) String() string {
	if l.IsHere() {
		return hereText
	}
	parts := make([]string, 0, int(l.Parents)+len(l.Interior))
	for i := 0; i < int(l.Parents); i++ {
		parts = append(parts, parentText)
	}
	for _, j := range l.Interior {
		parts = append(parts, j.String())
	}
	return strings.Join(parts, separator)
}

// Parse reads the text form produced by [Location.String].
func Parse(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == hereText {
		return Here(), nil
	}
	var (
		l       Location
		parents int
	)
	for _, part := range strings.Split(s, separator) {
		if part == parentText {
			if len(l.Interior) > 0 {
				return Location{}, fmt.Errorf("%w: parent after junction in %q", ErrInvalidFormat, s)
			}
			parents++
			continue
		}
		j, err := ParseJunction(part)
		if err != nil {
			return Location{}, err
		}
		l, err = l.PushInterior(j)
		if err != nil {
			return Location{}, err
		}
	}
	if parents > 255 {
		return Location{}, ErrTooManyParents
	}
	l.Parents = uint8(parents)
	return l, nil
}

// ParseJunction reads the text form of a single junction.
func ParseJunction(s string) (Junction, error) {
	body, network, _ := strings.Cut(s, "@")
	kind, value, _ := strings.Cut(body, ":")
	n, err := parseNetwork(network)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "parachain":
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return Parachain(id), nil
	case "account32":
		b, err := codec.LoadHex(value, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		j := AccountID32{Network: n}
		copy(j.ID[:], b)
		return j, nil
	case "index64":
		idx, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return AccountIndex64{Network: n, Index: idx}, nil
	case "key20":
		b, err := codec.LoadHex(value, 20)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		j := AccountKey20{Network: n}
		copy(j.Key[:], b)
		return j, nil
	case "pallet":
		idx, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return PalletInstance(idx), nil
	case "index":
		idx, err := uint256.FromDecimal(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		if idx.BitLen() > 128 {
			return nil, fmt.Errorf("%w: index exceeds 128 bits", ErrInvalidFormat)
		}
		return GeneralIndex{Index: *idx}, nil
	case "key":
		b, err := codec.LoadHex(value, -1)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		if len(b) > MaxGeneralKeyLen {
			return nil, codec.ErrInvalidSize
		}
		return GeneralKey(b), nil
	case "child":
		return OnlyChild{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownJunction, kind)
	}
}

// MustParse is [Parse] for statically known locations.
func MustParse(s string) Location {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
