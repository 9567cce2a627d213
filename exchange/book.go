// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/heap"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Offer is a standing promise by [Maker] to give [OutTick] of [Out] for
// every [InTick] of [In], until [Remaining] runs out.
type Offer struct {
	ID        ids.ID            `json:"id"`
	Maker     location.Location `json:"maker"`
	In        asset.ID          `json:"in"`
	InTick    uint64            `json:"inTick"`
	Out       asset.ID          `json:"out"`
	OutTick   uint64            `json:"outTick"`
	Remaining uint64            `json:"remaining"`
}

// Price is what one unit of [Out] costs in [In].
func (o *Offer) Price() float64 {
	return float64(o.InTick) / float64(o.OutTick)
}

type offerHeap = heap.Heap[ids.ID, *Offer, float64]

// Book matches [asset.Holding]s against standing offers. The offered
// supply is escrowed when an offer is added and released when it is
// filled or cancelled.
type Book struct {
	escrow           Escrow
	log              logging.Logger
	maxOffersPerPair int

	l           sync.RWMutex
	seq         uint64
	offers      map[string]*offerHeap
	offerToPair map[ids.ID]string
}

func New(escrow Escrow, maxOffersPerPair int, log logging.Logger) *Book {
	if log == nil {
		log = logging.NoLog{}
	}
	return &Book{
		escrow:           escrow,
		log:              log,
		maxOffersPerPair: maxOffersPerPair,
		offers:           map[string]*offerHeap{},
		offerToPair:      map[ids.ID]string{},
	}
}

// PairID keys the offers giving [out] in return for [in].
func PairID(in, out asset.ID) string {
	return in.Key() + "/" + out.Key()
}

// Add escrows [supply] of [out] from [maker] and lists it.
func (b *Book) Add(
	ctx context.Context,
	maker location.Location,
	in asset.ID,
	inTick uint64,
	out asset.ID,
	outTick uint64,
	supply uint64,
) (ids.ID, error) {
	switch {
	case inTick == 0 || outTick == 0 || supply == 0:
		return ids.Empty, ErrTickZero
	case supply%outTick != 0:
		return ids.Empty, fmt.Errorf("%w: %d %% %d", ErrSupplyMisaligned, supply, outTick)
	case in.Equal(out):
		return ids.Empty, ErrSameAsset
	}

	b.l.Lock()
	defer b.l.Unlock()

	pair := PairID(in, out)
	h, ok := b.offers[pair]
	if !ok {
		h = heap.New[ids.ID, *Offer, float64](b.maxOffersPerPair, true)
		b.offers[pair] = h
		b.log.Info("tracking pair", zap.Stringer("in", in), zap.Stringer("out", out))
	}
	if b.maxOffersPerPair > 0 && h.Len() >= b.maxOffersPerPair {
		return ids.Empty, fmt.Errorf("%w: %d", ErrBookFull, h.Len())
	}
	if _, err := b.escrow.Withdraw(ctx, asset.NewFungible(out, supply), maker); err != nil {
		return ids.Empty, err
	}

	p := codec.NewWriter(0, consts.NetworkSizeLimit)
	maker.Marshal(p)
	in.Marshal(p)
	out.Marshal(p)
	p.PackUint64(b.seq)
	offer := &Offer{
		ID:        utils.ToID(p.Bytes()),
		Maker:     maker,
		In:        in,
		InTick:    inTick,
		Out:       out,
		OutTick:   outTick,
		Remaining: supply,
	}
	h.Push(&heap.Entry[ids.ID, *Offer, float64]{
		ID:   offer.ID,
		Item: offer,
		Val:  offer.Price(),
		Seq:  b.seq,
	})
	b.seq++
	b.offerToPair[offer.ID] = pair
	b.log.Debug("added offer",
		zap.Stringer("id", offer.ID),
		zap.Stringer("maker", maker),
		zap.Uint64("supply", supply),
	)
	return offer.ID, nil
}

// Cancel delists [id] and returns what is left of it to [maker].
func (b *Book) Cancel(ctx context.Context, id ids.ID, maker location.Location) error {
	b.l.Lock()
	defer b.l.Unlock()

	h, entry, ok := b.get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrOfferMissing, id)
	}
	offer := entry.Item
	if !offer.Maker.Equal(maker) {
		return fmt.Errorf("%w: %s", ErrWrongMaker, maker)
	}
	if err := b.escrow.Deposit(ctx, asset.NewFungible(offer.Out, offer.Remaining), maker); err != nil {
		return err
	}
	h.Remove(entry.Index)
	delete(b.offerToPair, id)
	return nil
}

func (b *Book) get(id ids.ID) (*offerHeap, *heap.Entry[ids.ID, *Offer, float64], bool) {
	pair, ok := b.offerToPair[id]
	if !ok {
		return nil, nil, false
	}
	h, ok := b.offers[pair]
	if !ok {
		// This should never happen
		return nil, nil, false
	}
	entry, ok := h.Get(id)
	if !ok {
		return nil, nil, false
	}
	return h, entry, true
}

// Offer returns a copy of offer [id].
func (b *Book) Offer(id ids.ID) (*Offer, bool) {
	b.l.RLock()
	defer b.l.RUnlock()

	_, entry, ok := b.get(id)
	if !ok {
		return nil, false
	}
	offer := *entry.Item
	return &offer, true
}

// Offers returns up to [limit] offers of [out] for [in], best first.
func (b *Book) Offers(in, out asset.ID, limit int) []*Offer {
	b.l.RLock()
	defer b.l.RUnlock()

	h, ok := b.offers[PairID(in, out)]
	if !ok {
		// Clients often prefer an empty slice instead of null
		return []*Offer{}
	}
	items := h.Sorted()
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	offers := make([]*Offer, len(items))
	for i, e := range items {
		offer := *e.Item
		offers[i] = &offer
	}
	return offers
}

type fill struct {
	offer *Offer
	in    uint64
	out   uint64
}

// Exchange buys every asset of [want] with what [give] holds, filling the
// cheapest offers first. The result is what was bought together with the
// unspent part of [give]. Nothing is filled unless all of [want] can be.
func (b *Book) Exchange(
	ctx context.Context,
	origin location.Location,
	give *asset.Holding,
	want asset.Assets,
) (*asset.Holding, error) {
	b.l.Lock()
	defer b.l.Unlock()

	var (
		left      = give.Clone()
		got       = asset.NewHolding()
		remaining = map[ids.ID]uint64{}
		fills     []fill
	)
	for _, w := range want {
		if !w.Fungible {
			return nil, fmt.Errorf("%w: %s", ErrNonFungible, w)
		}
		if !w.Amount.IsUint64() {
			return nil, fmt.Errorf("%w: %s", ErrAmountTooLarge, w)
		}
		needed := w.Amount.Uint64()
		for _, g := range left.Assets() {
			if needed == 0 {
				break
			}
			if !g.Fungible {
				continue
			}
			h, ok := b.offers[PairID(g.ID, w.ID)]
			if !ok {
				continue
			}
			for _, e := range h.Sorted() {
				if needed == 0 {
					break
				}
				offer := e.Item
				rem, ok := remaining[offer.ID]
				if !ok {
					rem = offer.Remaining
				}
				available := left.Balance(g.ID)
				if !available.IsUint64() {
					available.SetUint64(consts.MaxUint64)
				}

				// Round up so the want is always covered
				blocks := needed / offer.OutTick
				if needed%offer.OutTick != 0 {
					blocks++
				}
				blocks = min(blocks, rem/offer.OutTick, available.Uint64()/offer.InTick)
				if blocks == 0 {
					continue
				}
				in, err := smath.Mul64(blocks, offer.InTick)
				if err != nil {
					return nil, err
				}
				out, err := smath.Mul64(blocks, offer.OutTick)
				if err != nil {
					return nil, err
				}
				if err := left.CheckedSub(asset.NewFungible(g.ID, in)); err != nil {
					return nil, err
				}
				got.Subsume(asset.NewFungible(w.ID, out))
				remaining[offer.ID] = rem - out
				fills = append(fills, fill{offer: offer, in: in, out: out})
				if out >= needed {
					needed = 0
				} else {
					needed -= out
				}
			}
		}
		if needed > 0 {
			return nil, fmt.Errorf("%w: %d of %s missing", ErrInsufficientLiquidity, needed, w.ID)
		}
	}

	for _, f := range fills {
		if err := b.escrow.Deposit(ctx, asset.NewFungible(f.offer.In, f.in), f.offer.Maker); err != nil {
			b.log.Warn("unable to pay maker",
				zap.Stringer("offer", f.offer.ID),
				zap.Stringer("maker", f.offer.Maker),
				zap.Uint64("amount", f.in),
				zap.Error(err),
			)
		}
	}
	for id, rem := range remaining {
		if rem > 0 {
			_, entry, _ := b.get(id)
			entry.Item.Remaining = rem
			continue
		}
		h, entry, _ := b.get(id)
		h.Remove(entry.Index)
		delete(b.offerToPair, id)
	}
	b.log.Debug("exchanged",
		zap.Stringer("origin", origin),
		zap.Int("fills", len(fills)),
		zap.Stringer("got", got),
	)
	got.SubsumeHolding(left)
	return got, nil
}
