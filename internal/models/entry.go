package models

import "time"

// Entry is one immutable user action against a track on a day, stored at
// users/{uid}/days/{dayKey}/entries/{entryId}. Only the payload field for the
// entry's type is set.
type Entry struct {
	EntryID    string      `firestore:"-" json:"entryId"`
	TrackID    string      `firestore:"trackId" json:"trackId"`
	Type       TrackType   `firestore:"type" json:"type"`
	Mode       BooleanMode `firestore:"mode,omitempty" json:"mode,omitempty"`
	DeltaValue *float64    `firestore:"deltaValue,omitempty" json:"deltaValue,omitempty"`
	Value      *float64    `firestore:"value,omitempty" json:"value,omitempty"`
	Done       *bool       `firestore:"done,omitempty" json:"done,omitempty"`
	Text       *string     `firestore:"text,omitempty" json:"text,omitempty"`
	OptionID   *string     `firestore:"optionId,omitempty" json:"optionId,omitempty"`
	Note       *string     `firestore:"note,omitempty" json:"note,omitempty"`
	CreatedAt  time.Time   `firestore:"createdAt" json:"createdAt"`
}
