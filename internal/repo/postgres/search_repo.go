package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentmatch/rentmatch-api/internal/domain"
)

// SearchRepo inserts room search requests.
type SearchRepo interface {
	Insert(ctx context.Context, s *domain.RoomSearchRequest) (*domain.RoomSearchRequest, error)
}

type searchRepo struct {
	pool *pgxpool.Pool
}

func NewSearchRepo(pool *pgxpool.Pool) SearchRepo {
	return &searchRepo{pool: pool}
}

func (r *searchRepo) Insert(ctx context.Context, s *domain.RoomSearchRequest) (*domain.RoomSearchRequest, error) {
	const q = `INSERT INTO search_rentings (
		name, surname, email, phone,
		accommodation_type, city, budget, move_in,
		period, registration, people,
		letter_url, note, referral_code, interface
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := r.pool.QueryRow(ctx, q,
		s.Name, s.Surname, s.Email, s.Phone,
		s.AccommodationType, s.City, s.Budget, s.MoveIn,
		s.Period, s.Registration, s.People,
		s.LetterURL, s.Note, s.ReferralCode, s.Interface,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert search renting: %w", err)
	}
	return s, nil
}
