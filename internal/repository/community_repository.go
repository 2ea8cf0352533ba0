package repository

import (
	"context"

	"github.com/ecyclehub/ecyclehub/internal/domain"
)

// CommunityRepository reads the public catalogue: drop-off sites and
// announcements.
type CommunityRepository interface {
	ListDropOffSites(ctx context.Context) ([]domain.DropOffSite, error)
	ListAnnouncements(ctx context.Context, limit int) ([]domain.Announcement, error)
}

type communityRepository struct {
	db DBTX
}

// NewCommunityRepository returns a Postgres-backed implementation.
func NewCommunityRepository(db DBTX) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) ListDropOffSites(ctx context.Context) ([]domain.DropOffSite, error) {
	const query = `
        SELECT id, name, address, latitude, longitude, schedule, created_at
        FROM drop_offs ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	sites := []domain.DropOffSite{}
	for rows.Next() {
		var site domain.DropOffSite
		if err := rows.Scan(&site.ID, &site.Name, &site.Address, &site.Latitude, &site.Longitude,
			&site.Schedule, &site.CreatedAt); err != nil {
			return nil, translate(err)
		}
		sites = append(sites, site)
	}
	return sites, translate(rows.Err())
}

func (r *communityRepository) ListAnnouncements(ctx context.Context, limit int) ([]domain.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `
        SELECT id, title, content, type, created_at, updated_at
        FROM announcements ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	announcements := []domain.Announcement{}
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Type, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		announcements = append(announcements, a)
	}
	return announcements, translate(rows.Err())
}
