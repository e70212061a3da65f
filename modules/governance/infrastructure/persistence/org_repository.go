package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/org"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	orgSelectQuery = `
        SELECT
            id,
            name,
            data_level,
            sensitivity,
            contact,
            phone,
            description,
            parent_id
        FROM org_nodes
        ORDER BY id`

	orgFindQuery = `
        SELECT
            id,
            name,
            data_level,
            sensitivity,
            contact,
            phone,
            description,
            parent_id
        FROM org_nodes
        WHERE id = $1`

	orgExistsQuery = `SELECT EXISTS (SELECT 1 FROM org_nodes WHERE id = $1)`

	orgInsertQuery = `
        INSERT INTO org_nodes (name, data_level, sensitivity, contact, phone, description, parent_id)
        VALUES ($1, $2, $2, $3, $4, $5, $6)
        RETURNING id`

	orgUpdateQuery = `
        UPDATE org_nodes SET
            name = COALESCE($2, name),
            data_level = COALESCE($3, data_level),
            sensitivity = COALESCE($3, sensitivity),
            contact = COALESCE($4, contact),
            phone = COALESCE($5, phone),
            description = COALESCE($6, description)
        WHERE id = $1`

	orgDeleteSubtreeQuery = `
        WITH RECURSIVE subtree AS (
            SELECT id FROM org_nodes WHERE id = $1
            UNION ALL
            SELECT n.id FROM org_nodes n JOIN subtree s ON n.parent_id = s.id
        )
        DELETE FROM org_nodes WHERE id IN (SELECT id FROM subtree)`
)

type PgOrgRepository struct{}

func NewOrgRepository() org.Repository {
	return &PgOrgRepository{}
}

func (r *PgOrgRepository) Roots(ctx context.Context) ([]*org.Node, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, orgSelectQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query org nodes")
	}
	defer rows.Close()

	byID := map[int64]*org.Node{}
	var order []int64
	for rows.Next() {
		var m models.OrgNode
		if err := rows.Scan(
			&m.ID, &m.Name, &m.DataLevel, &m.Sensitivity,
			&m.Contact, &m.Phone, &m.Description, &m.ParentID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan org node")
		}
		byID[m.ID] = toDomainOrgNode(&m)
		order = append(order, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read org nodes")
	}

	var roots []*org.Node
	for _, id := range order {
		node := byID[id]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots, nil
}

func (r *PgOrgRepository) Find(ctx context.Context, id int64) (*org.Node, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.OrgNode
	err = tx.QueryRow(ctx, orgFindQuery, id).Scan(
		&m.ID, &m.Name, &m.DataLevel, &m.Sensitivity,
		&m.Contact, &m.Phone, &m.Description, &m.ParentID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find org node")
	}
	return toDomainOrgNode(&m), nil
}

func (r *PgOrgRepository) Insert(ctx context.Context, parentID *int64, node *org.Node) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	if parentID != nil {
		var exists bool
		if err := tx.QueryRow(ctx, orgExistsQuery, *parentID).Scan(&exists); err != nil {
			return false, errors.Wrap(err, "failed to check parent")
		}
		if !exists {
			return false, nil
		}
	}
	err = tx.QueryRow(ctx, orgInsertQuery,
		node.Name, string(node.DataLevel), node.Contact, node.Phone, node.Description, parentID,
	).Scan(&node.ID)
	if err != nil {
		return false, errors.Wrap(err, "failed to insert org node")
	}
	node.Sensitivity = node.DataLevel
	node.ParentID = parentID
	return true, nil
}

func (r *PgOrgRepository) Update(ctx context.Context, id int64, patch org.Patch) (*org.Node, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var level *string
	if patch.DataLevel != nil {
		s := string(*patch.DataLevel)
		level = &s
	}
	tag, err := tx.Exec(ctx, orgUpdateQuery, id, patch.Name, level, patch.Contact, patch.Phone, patch.Description)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update org node")
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.Find(ctx, id)
}

func (r *PgOrgRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, orgDeleteSubtreeQuery, id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete org subtree")
	}
	return tag.RowsAffected() > 0, nil
}

func toDomainOrgNode(m *models.OrgNode) *org.Node {
	return &org.Node{
		ID:          m.ID,
		Name:        m.Name,
		DataLevel:   classification.DataSensitivityLevel(m.DataLevel),
		Sensitivity: classification.DataSensitivityLevel(m.Sensitivity),
		Contact:     m.Contact,
		Phone:       m.Phone,
		Description: m.Description,
		ParentID:    m.ParentID,
	}
}
