package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/portalmenu"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	portalMenuSelectQuery = `
        SELECT
            id,
            name,
            path,
            sort_order,
            deleted,
            bindings
        FROM portal_menus`

	portalMenuSetBindingsQuery = `UPDATE portal_menus SET bindings = $2 WHERE id = $1`
)

type PgPortalMenuRepository struct{}

func NewPortalMenuRepository() portalmenu.Repository {
	return &PgPortalMenuRepository{}
}

func (r *PgPortalMenuRepository) List(ctx context.Context) ([]*portalmenu.Menu, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, portalMenuSelectQuery+" ORDER BY sort_order, id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query portal menus")
	}
	defer rows.Close()

	var out []*portalmenu.Menu
	for rows.Next() {
		var m models.PortalMenu
		if err := rows.Scan(&m.ID, &m.Name, &m.Path, &m.SortOrder, &m.Deleted, &m.Bindings); err != nil {
			return nil, errors.Wrap(err, "failed to scan portal menu")
		}
		out = append(out, toDomainPortalMenu(&m))
	}
	return out, rows.Err()
}

func (r *PgPortalMenuRepository) Find(ctx context.Context, id string) (*portalmenu.Menu, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.PortalMenu
	err = tx.QueryRow(ctx, portalMenuSelectQuery+" WHERE id = $1", id).Scan(
		&m.ID, &m.Name, &m.Path, &m.SortOrder, &m.Deleted, &m.Bindings,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find portal menu")
	}
	return toDomainPortalMenu(&m), nil
}

func toDomainPortalMenu(m *models.PortalMenu) *portalmenu.Menu {
	return &portalmenu.Menu{
		ID:        m.ID,
		Name:      m.Name,
		Path:      m.Path,
		SortOrder: m.SortOrder,
		Deleted:   m.Deleted,
		Bindings:  m.Bindings,
	}
}

func (r *PgPortalMenuRepository) SetBindings(ctx context.Context, id string, bindings []string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, portalMenuSetBindingsQuery, id, bindings)
	if err != nil {
		return false, errors.Wrap(err, "failed to set portal menu bindings")
	}
	return tag.RowsAffected() > 0, nil
}
