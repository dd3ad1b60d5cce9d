package adapters

import (
	"sort"

	"github.com/de-tools/cost-audit/pkg/models/api"
	"github.com/de-tools/cost-audit/pkg/models/domain"
)

// MapApiCostLineToDomain converts a wire line into the domain value type.
// Identity fields are ordered by name; matching re-orders them by the
// caller's declared field list anyway.
func MapApiCostLineToDomain(line api.CostLine) domain.CostLine {
	fields := make([]string, 0, len(line.Identity))
	for field := range line.Identity {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	identity := make([]domain.IdentityPair, 0, len(fields))
	for _, field := range fields {
		identity = append(identity, domain.IdentityPair{
			Field: field,
			Value: domain.StringScalar(line.Identity[field]),
		})
	}

	return domain.CostLine{
		ID:                line.ID,
		DatasetSnapshotID: line.DatasetSnapshotID,
		Kind:              domain.LineKind(line.Kind),
		Identity:          identity,
		Quantity:          line.Quantity,
		UnitCost:          line.UnitCost,
		TotalCost:         line.TotalCost,
		Attributes:        line.Attributes,
	}
}
