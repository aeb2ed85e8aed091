package exchange

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/validation"
)

type listingInput struct {
	Kind        string `json:"kind" validate:"oneof=offer request"`
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

type sessionInput struct {
	Message      string `json:"message" validate:"notblank"`
	ProposedTime string `json:"proposed_time" validate:"notblank"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Listings returns listings of one kind (or all when kind is empty)
// filtered by query.
func (s *Service) Listings(ctx context.Context, kind, query string) ([]models.Listing, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "" && kind != KindOffer && kind != KindRequest {
		return nil, validation.Errors{{Field: "kind", Message: "kind must be one of [offer request]"}}
	}
	all, err := s.repo.ListListings(ctx, kind)
	if err != nil {
		return nil, err
	}
	return Search(all, query), nil
}

func (s *Service) CreateListing(ctx context.Context, userID int64, req models.CreateListingRequest) (*models.Listing, error) {
	in := listingInput{
		Kind:        strings.ToLower(strings.TrimSpace(req.Kind)),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	l, err := s.repo.CreateListing(ctx, userID, in.Kind, in.Title, in.Description, SplitTags(req.Tags))
	if err != nil {
		return nil, err
	}
	log.Printf("[exchange] user %d published %s %d", userID, l.Kind, l.ID)
	return l, nil
}

// RequestSession asks a listing's owner for a session. On an offer this is
// a request for help; on a request it is an offer to help.
func (s *Service) RequestSession(ctx context.Context, userID, listingID int64, req models.CreateSessionRequest) (*models.SessionRequest, error) {
	in := sessionInput{
		Message:      strings.TrimSpace(req.Message),
		ProposedTime: strings.TrimSpace(req.ProposedTime),
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	proposed, err := time.Parse(time.RFC3339, in.ProposedTime)
	if err != nil {
		return nil, validation.Errors{{Field: "proposed_time", Message: "proposed_time must be an RFC 3339 timestamp"}}
	}
	if proposed.Before(s.now()) {
		return nil, validation.Errors{{Field: "proposed_time", Message: "proposed_time must be in the future"}}
	}

	l, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.Owner.UserID == userID {
		return nil, ErrOwnListing
	}
	return s.repo.CreateRequest(ctx, listingID, userID, in.Message, proposed)
}

func (s *Service) Incoming(ctx context.Context, userID int64) ([]models.SessionRequest, error) {
	return s.repo.IncomingRequests(ctx, userID)
}

func (s *Service) Respond(ctx context.Context, userID, requestID int64, accept bool) (*models.SessionRequest, error) {
	status := StatusDeclined
	if accept {
		status = StatusAccepted
	}
	return s.repo.Respond(ctx, requestID, userID, status)
}
