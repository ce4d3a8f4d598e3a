package models

import (
	"time"
)

type User struct {
	UID         string    `firestore:"uid" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	TimeZone    string    `firestore:"timeZone" json:"timeZone"`
	Friends     []string  `firestore:"friends" json:"friends"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Profile is the friend-readable mirror at profiles/{uid}.
type Profile struct {
	UID         string    `firestore:"-" json:"uid"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	TimeZone    string    `firestore:"timeZone" json:"timeZone"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}
