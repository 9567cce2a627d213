// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcm

import "fmt"

type OutcomeKind uint8

const (
	// OutcomeComplete means every instruction ran.
	OutcomeComplete OutcomeKind = iota
	// OutcomeIncomplete means execution stopped part way. Effects of the
	// instructions that ran are kept.
	OutcomeIncomplete
	// OutcomeError means nothing ran.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeComplete:
		return "complete"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of executing one root program.
type Outcome struct {
	Kind   OutcomeKind
	Weight uint64
	Err    error
}

func Complete(weight uint64) Outcome {
	return Outcome{Kind: OutcomeComplete, Weight: weight}
}

func Incomplete(weight uint64, err error) Outcome {
	return Outcome{Kind: OutcomeIncomplete, Weight: weight, Err: err}
}

func Error(err error) Outcome {
	return Outcome{Kind: OutcomeError, Err: err}
}

// EnsureComplete returns nil only for [OutcomeComplete].
func (o Outcome) EnsureComplete() error {
	if o.Kind == OutcomeComplete {
		return nil
	}
	return o.Err
}

// WeightUsed is the weight consumed, zero for [OutcomeError].
func (o Outcome) WeightUsed() uint64 {
	if o.Kind == OutcomeError {
		return 0
	}
	return o.Weight
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeComplete:
		return fmt.Sprintf("complete(%d)", o.Weight)
	case OutcomeIncomplete:
		return fmt.Sprintf("incomplete(%d, %v)", o.Weight, o.Err)
	default:
		return fmt.Sprintf("error(%v)", o.Err)
	}
}
