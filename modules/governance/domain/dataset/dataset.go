package dataset

import (
	"context"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
)

// Dataset is a governed data asset. BusinessCode is the operator-facing
// identifier used in rejection messages; OwnerOrgID is the owning
// department. IsInstituteShared marks assets visible outside their owning
// subtree.
type Dataset struct {
	ID                string
	BusinessCode      string
	Name              string
	DataLevel         classification.DataSensitivityLevel
	OwnerOrgID        int64
	IsInstituteShared bool
}

type Repository interface {
	List(ctx context.Context) ([]*Dataset, error)
	Find(ctx context.Context, id string) (*Dataset, error)
}
