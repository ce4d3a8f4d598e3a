package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate is the per-track summary inside a day document. The concrete
// type depends on the track type (and, for BOOLEAN, the mode):
//
//	COUNTER_INCREMENT        *CounterAggregate
//	BOOLEAN (done_only)      *BooleanDoneAggregate
//	BOOLEAN (count)          *BooleanCountAggregate
//	NUMBER_REPLACE           *NumberAggregate
//	TEXT_APPEND              *TextAggregate
//	DROPDOWN_EVENT           *DropdownAggregate
//
// The set is closed; switches over it are expected to be exhaustive.
type Aggregate interface {
	TrackType() TrackType
	LastUpdated() time.Time
	isAggregate()
}

type CounterAggregate struct {
	Count  int64
	Sum    decimal.Decimal
	LastAt time.Time
}

type BooleanDoneAggregate struct {
	Done   bool
	LastAt time.Time
}

type BooleanCountAggregate struct {
	Count  int64
	Sum    decimal.Decimal
	LastAt time.Time
}

type NumberAggregate struct {
	Value  decimal.Decimal
	LastAt time.Time
}

type TextAggregate struct {
	Count   int64
	Preview string
	LastAt  time.Time
}

type DropdownAggregate struct {
	Count     int64
	LastValue []string
	LastAt    time.Time
}

func (*CounterAggregate) TrackType() TrackType      { return TrackCounter }
func (*BooleanDoneAggregate) TrackType() TrackType  { return TrackBoolean }
func (*BooleanCountAggregate) TrackType() TrackType { return TrackBoolean }
func (*NumberAggregate) TrackType() TrackType       { return TrackNumber }
func (*TextAggregate) TrackType() TrackType         { return TrackText }
func (*DropdownAggregate) TrackType() TrackType     { return TrackDropdown }

func (a *CounterAggregate) LastUpdated() time.Time      { return a.LastAt }
func (a *BooleanDoneAggregate) LastUpdated() time.Time  { return a.LastAt }
func (a *BooleanCountAggregate) LastUpdated() time.Time { return a.LastAt }
func (a *NumberAggregate) LastUpdated() time.Time       { return a.LastAt }
func (a *TextAggregate) LastUpdated() time.Time         { return a.LastAt }
func (a *DropdownAggregate) LastUpdated() time.Time     { return a.LastAt }

func (*CounterAggregate) isAggregate()      {}
func (*BooleanDoneAggregate) isAggregate()  {}
func (*BooleanCountAggregate) isAggregate() {}
func (*NumberAggregate) isAggregate()       {}
func (*TextAggregate) isAggregate()         {}
func (*DropdownAggregate) isAggregate()     {}

// ModeOf returns the boolean mode an aggregate was written under, or "" for
// non-boolean aggregates.
func ModeOf(a Aggregate) BooleanMode {
	switch a.(type) {
	case *BooleanDoneAggregate:
		return BooleanDoneOnly
	case *BooleanCountAggregate:
		return BooleanCount
	default:
		return ""
	}
}
