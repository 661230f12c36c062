package memstore

import "sync/atomic"

type kind int

const (
	kindLocation kind = iota
	kindRestaurant
	kindMenuItem
	kindUser
	kindTable
	kindBooking
	kindReview
	kindOffer
	kindCount
)

// ids hands out per-kind auto increment identifiers starting at 1.
type ids struct {
	counters [kindCount]atomic.Uint64
}

func (i *ids) next(k kind) uint64 { return i.counters[k].Add(1) }
