package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/dataset"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const datasetSelectQuery = `
        SELECT
            id,
            business_code,
            name,
            data_level,
            owner_org_id,
            is_institute_shared
        FROM datasets`

type PgDatasetRepository struct{}

func NewDatasetRepository() dataset.Repository {
	return &PgDatasetRepository{}
}

func (r *PgDatasetRepository) List(ctx context.Context) ([]*dataset.Dataset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, datasetSelectQuery+" ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query datasets")
	}
	defer rows.Close()

	var out []*dataset.Dataset
	for rows.Next() {
		var m models.Dataset
		if err := rows.Scan(&m.ID, &m.BusinessCode, &m.Name, &m.DataLevel, &m.OwnerOrgID, &m.IsInstituteShared); err != nil {
			return nil, errors.Wrap(err, "failed to scan dataset")
		}
		out = append(out, toDomainDataset(&m))
	}
	return out, rows.Err()
}

func (r *PgDatasetRepository) Find(ctx context.Context, id string) (*dataset.Dataset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.Dataset
	err = tx.QueryRow(ctx, datasetSelectQuery+" WHERE id = $1", id).Scan(
		&m.ID, &m.BusinessCode, &m.Name, &m.DataLevel, &m.OwnerOrgID, &m.IsInstituteShared,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find dataset")
	}
	return toDomainDataset(&m), nil
}

func toDomainDataset(m *models.Dataset) *dataset.Dataset {
	return &dataset.Dataset{
		ID:                m.ID,
		BusinessCode:      m.BusinessCode,
		Name:              m.Name,
		DataLevel:         classification.DataSensitivityLevel(m.DataLevel),
		OwnerOrgID:        m.OwnerOrgID,
		IsInstituteShared: m.IsInstituteShared,
	}
}
