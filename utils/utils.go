// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/consts"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

var (
	ErrInvalidSize   = errors.New("invalid size")
	ErrInvalidAmount = errors.New("invalid amount")
)

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outputs to stdout.
//
// e.g.,
//
//	Out("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Out("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// LoadBytes reads [filename]. If [expectedSize] is not -1 the file must be
// exactly that long.
func LoadBytes(filename string, expectedSize int) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}
	if info.Size() > consts.NetworkSizeLimit {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, info.Size())
	}
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if expectedSize != -1 && len(bytes) != expectedSize {
		return nil, ErrInvalidSize
	}
	return bytes, nil
}

func SaveBytes(filename string, b []byte) error {
	return os.WriteFile(filename, b, perms.ReadWrite)
}

// FormatAmount renders [v] as a decimal with [decimals] fractional digits.
func FormatAmount(v *uint256.Int, decimals int) string {
	s := v.Dec()
	if decimals <= 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	return s[:len(s)-decimals] + "." + s[len(s)-decimals:]
}

// ParseAmount parses a decimal with at most [decimals] fractional digits
// into base units. The result never exceeds 128 bits.
func ParseAmount(s string, decimals int) (*uint256.Int, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if len(whole) == 0 || len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if v.BitLen() > 8*consts.Uint128Len {
		return nil, fmt.Errorf("%w: %q exceeds 128 bits", ErrInvalidAmount, s)
	}
	return v, nil
}

// Map applies [f] to every element of [a].
func Map[T any, R any](f func(T) R, a []T) []R {
	b := make([]R, len(a))
	for i, v := range a {
		b[i] = f(v)
	}
	return b
}
