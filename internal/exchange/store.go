package exchange

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/studybuddy/backend/internal/models"
)

// Repository persists listings and session requests.
type Repository interface {
	ListListings(ctx context.Context, kind string) ([]models.Listing, error)
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	CreateListing(ctx context.Context, userID int64, kind, title, description string, tags []string) (*models.Listing, error)
	CreateRequest(ctx context.Context, listingID, requesterID int64, message string, proposed time.Time) (*models.SessionRequest, error)
	IncomingRequests(ctx context.Context, ownerID int64) ([]models.SessionRequest, error)
	// Respond moves a pending request on one of ownerID's listings to
	// status. It returns ErrRequestNotFound when no such request exists and
	// ErrAlreadyResponded when it is no longer pending.
	Respond(ctx context.Context, requestID, ownerID int64, status string) (*models.SessionRequest, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const listingSelect = `
	SELECT l.id, l.kind, l.title, l.description, l.tags, l.created_at,
	       u.id, u.name,
	       (SELECT COUNT(*) FROM exchange_requests r
	          JOIN exchange_listings ol ON ol.id = r.listing_id
	         WHERE ol.user_id = u.id AND r.status = 'accepted')
	FROM exchange_listings l
	JOIN users u ON u.id = l.user_id`

func scanListing(scan func(dest ...interface{}) error) (*models.Listing, error) {
	var l models.Listing
	var tags pq.StringArray
	var ownerName string
	if err := scan(&l.ID, &l.Kind, &l.Title, &l.Description, &tags, &l.CreatedAt,
		&l.Owner.UserID, &ownerName, &l.Owner.SessionsCompleted); err != nil {
		return nil, err
	}
	l.Tags = []string(tags)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	l.Owner.DisplayName = models.FormatDisplayName(ownerName)
	return &l, nil
}

func (s *Store) ListListings(ctx context.Context, kind string) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		listingSelect+` WHERE ($1 = '' OR l.kind = $1) ORDER BY l.created_at DESC, l.id DESC`, kind)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	out := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *Store) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	l, err := scanListing(s.db.QueryRowContext(ctx, listingSelect+` WHERE l.id = $1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

func (s *Store) CreateListing(ctx context.Context, userID int64, kind, title, description string, tags []string) (*models.Listing, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO exchange_listings (user_id, kind, title, description, tags)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userID, kind, title, description, pq.Array(tags),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	return s.GetListing(ctx, id)
}

const requestSelect = `
	SELECT r.id, r.listing_id, l.title, l.kind, r.requester_id, u.name,
	       r.message, r.proposed_time, r.status, r.created_at, r.responded_at
	FROM exchange_requests r
	JOIN exchange_listings l ON l.id = r.listing_id
	JOIN users u ON u.id = r.requester_id`

func scanRequest(scan func(dest ...interface{}) error) (*models.SessionRequest, error) {
	var r models.SessionRequest
	var name string
	var responded sql.NullTime
	if err := scan(&r.ID, &r.ListingID, &r.ListingTitle, &r.ListingKind, &r.RequesterID, &name,
		&r.Message, &r.ProposedTime, &r.Status, &r.CreatedAt, &responded); err != nil {
		return nil, err
	}
	r.RequesterName = models.FormatDisplayName(name)
	if responded.Valid {
		r.RespondedAt = &responded.Time
	}
	return &r, nil
}

func (s *Store) CreateRequest(ctx context.Context, listingID, requesterID int64, message string, proposed time.Time) (*models.SessionRequest, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO exchange_requests (listing_id, requester_id, message, proposed_time)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		listingID, requesterID, message, proposed,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert session request: %w", err)
	}
	r, err := scanRequest(s.db.QueryRowContext(ctx, requestSelect+` WHERE r.id = $1`, id).Scan)
	if err != nil {
		return nil, fmt.Errorf("get session request: %w", err)
	}
	return r, nil
}

func (s *Store) IncomingRequests(ctx context.Context, ownerID int64) ([]models.SessionRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		requestSelect+` WHERE l.user_id = $1 ORDER BY r.created_at DESC, r.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list session requests: %w", err)
	}
	defer rows.Close()

	out := []models.SessionRequest{}
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) Respond(ctx context.Context, requestID, ownerID int64, status string) (*models.SessionRequest, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE exchange_requests r
		 SET status = $3, responded_at = NOW()
		 FROM exchange_listings l
		 WHERE r.id = $1 AND l.id = r.listing_id AND l.user_id = $2 AND r.status = 'pending'`,
		requestID, ownerID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("respond to session request: %w", err)
	}

	r, err := scanRequest(s.db.QueryRowContext(ctx,
		requestSelect+` WHERE r.id = $1 AND l.user_id = $2`, requestID, ownerID).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrAlreadyResponded
	}
	return r, nil
}
