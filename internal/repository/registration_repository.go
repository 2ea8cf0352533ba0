package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ecyclehub/ecyclehub/internal/domain"
)

// RegistrationRepository encapsulates e-waste registration persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Registration, error)
}

type registrationRepository struct {
	db DBTX
}

// NewRegistrationRepository instantiates repository.
func NewRegistrationRepository(db DBTX) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	const query = `
        INSERT INTO registrations (user_id, first_name, middle_name, last_name, suffix, address, age, contact,
                                   e_waste_type, weight, photo_url, consent, reward_amount, reward_rate, reward_policy)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		reg.UserID,
		reg.FirstName,
		reg.MiddleName,
		reg.LastName,
		reg.Suffix,
		reg.Address,
		reg.Age,
		reg.Contact,
		reg.EWasteType,
		reg.Weight,
		reg.PhotoURL,
		reg.Consent,
		reg.RewardAmount,
		reg.RewardRate,
		reg.RewardPolicy,
	).Scan(&reg.ID, &reg.CreatedAt)
	return translate(err)
}

// ListByUser returns the user's registrations, newest first.
func (r *registrationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Registration, error) {
	const query = `
        SELECT id, user_id, first_name, middle_name, last_name, suffix, address, age, contact,
               e_waste_type, weight, photo_url, consent, reward_amount, reward_rate, reward_policy, created_at
        FROM registrations
        WHERE user_id=$1
        ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func scanRegistrations(rows pgx.Rows) ([]domain.Registration, error) {
	result := []domain.Registration{}
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.UserID,
			&reg.FirstName,
			&reg.MiddleName,
			&reg.LastName,
			&reg.Suffix,
			&reg.Address,
			&reg.Age,
			&reg.Contact,
			&reg.EWasteType,
			&reg.Weight,
			&reg.PhotoURL,
			&reg.Consent,
			&reg.RewardAmount,
			&reg.RewardRate,
			&reg.RewardPolicy,
			&reg.CreatedAt,
		); err != nil {
			return nil, translate(err)
		}
		result = append(result, reg)
	}
	return result, translate(rows.Err())
}
