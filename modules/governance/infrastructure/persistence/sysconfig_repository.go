package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/sysconfig"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	sysconfigSelectQuery = `SELECT key, value FROM system_settings`

	sysconfigUpsertQuery = `
        INSERT INTO system_settings (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
)

type PgSysConfigRepository struct{}

func NewSysConfigRepository() sysconfig.Repository {
	return &PgSysConfigRepository{}
}

func (r *PgSysConfigRepository) List(ctx context.Context) ([]*sysconfig.Setting, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, sysconfigSelectQuery+" ORDER BY key")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query settings")
	}
	defer rows.Close()

	var out []*sysconfig.Setting
	for rows.Next() {
		var s sysconfig.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, errors.Wrap(err, "failed to scan setting")
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *PgSysConfigRepository) Get(ctx context.Context, key string) (*sysconfig.Setting, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var s sysconfig.Setting
	err = tx.QueryRow(ctx, sysconfigSelectQuery+" WHERE key = $1", key).Scan(&s.Key, &s.Value)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find setting")
	}
	return &s, nil
}

func (r *PgSysConfigRepository) Set(ctx context.Context, key, value string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sysconfigUpsertQuery, key, value); err != nil {
		return errors.Wrap(err, "failed to upsert setting")
	}
	return nil
}
