// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package location

// Inverter computes, for a location relative to the local consensus, the
// location of the local consensus relative to it.
type Inverter struct {
	// Ancestry is the location of the local consensus relative to the
	// root of the hierarchy, outermost junction first.
	Ancestry Location
}

func NewInverter(ancestry Location) *Inverter {
	return &Inverter{Ancestry: ancestry}
}

// Invert walks back up from [target]: every parent hop of [target]
// is undone by descending through the next ancestry junction (or
// [OnlyChild] once the ancestry is exhausted), and every interior
// junction of [target] becomes one parent hop.
func (i *Inverter) Invert(target Location) (Location, error) {
	var (
		ancestry = i.Ancestry.Interior
		result   = Here()
		err      error
	)
	for n := 0; n < int(target.Parents); n++ {
		var j Junction = OnlyChild{}
		if len(ancestry) > 0 {
			j = ancestry[0]
			ancestry = ancestry[1:]
		}
		result, err = result.PushInterior(j)
		if err != nil {
			return Location{}, err
		}
	}
	result.Parents = uint8(len(target.Interior))
	return result, nil
}
