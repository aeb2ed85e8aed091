package models

import "time"

type ListingOwner struct {
	UserID            int64  `json:"user_id"`
	DisplayName       string `json:"display_name"`
	SessionsCompleted int    `json:"sessions_completed"`
}

type Listing struct {
	ID          int64        `json:"id"`
	Kind        string       `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Owner       ListingOwner `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
}

type CreateListingRequest struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

type CreateSessionRequest struct {
	Message      string `json:"message"`
	ProposedTime string `json:"proposed_time"`
}

type SessionRequest struct {
	ID            int64      `json:"id"`
	ListingID     int64      `json:"listing_id"`
	ListingTitle  string     `json:"listing_title"`
	ListingKind   string     `json:"listing_kind"`
	RequesterID   int64      `json:"requester_id"`
	RequesterName string     `json:"requester_name"`
	Message       string     `json:"message"`
	ProposedTime  time.Time  `json:"proposed_time"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

type RespondSessionRequest struct {
	Accept bool `json:"accept"`
}
