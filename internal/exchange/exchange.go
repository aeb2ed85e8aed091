package exchange

import (
	"errors"
	"strings"

	"github.com/studybuddy/backend/internal/models"
)

const (
	KindOffer   = "offer"
	KindRequest = "request"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrRequestNotFound  = errors.New("session request not found")
	ErrOwnListing       = errors.New("you cannot request a session on your own listing")
	ErrAlreadyResponded = errors.New("session request has already been answered")
)

// SplitTags splits a comma-separated tag list, trimming each tag and
// dropping empties.
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Search keeps listings whose title or any tag contains query, ignoring
// case. An empty query keeps everything.
func Search(listings []models.Listing, query string) []models.Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return listings
	}
	out := []models.Listing{}
	for _, l := range listings {
		if matches(l, q) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l models.Listing, q string) bool {
	if strings.Contains(strings.ToLower(l.Title), q) {
		return true
	}
	for _, t := range l.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
