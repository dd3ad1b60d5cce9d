package assumptions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/services/variance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAt_CapturesConfiguration(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	set := BuildAt("snap-1", "run-1", at, Params{
		IdentityFields: []string{"project", "task"},
		Thresholds:     variance.DefaultThresholds(),
		PeriodType:     domain.PeriodMonthly,
		DateField:      "date",
	})

	assert.Equal(t, "snap-1", set.Scope.DatasetSnapshotID)
	assert.Equal(t, "run-1", set.Scope.RunID)
	assert.True(t, set.Scope.CreatedAt.Equal(at))

	values := map[string]string{}
	for _, a := range set.Assumptions {
		values[a.Description] = a.Value
	}
	assert.Equal(t, "project,task", values["identity fields used to align baseline and actual lines"])
	assert.Equal(t, "5", values["variance_tolerance_threshold"])
	assert.Equal(t, "50", values["variance_major_threshold"])
	assert.Equal(t, "monthly", values["aggregation period type"])
}

func TestBuildAt_FixedExclusions(t *testing.T) {
	set := BuildAt("snap-1", "run-1", time.Now(), Params{})

	assert.Equal(t, Exclusions, set.Exclusions)
	assert.Contains(t, set.Exclusions, "no causality determination")
	assert.Contains(t, set.Exclusions, "no budget revision")
}

func TestAssumptionSet_Serializable(t *testing.T) {
	set := BuildAt("snap-1", "run-1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Params{
		IdentityFields: []string{"id"},
		Thresholds:     variance.DefaultThresholds(),
		PeriodType:     domain.PeriodWeekly,
		DateField:      "date",
	})

	raw, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded domain.AssumptionSet
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, set.Scope.RunID, decoded.Scope.RunID)
	assert.Len(t, decoded.Assumptions, len(set.Assumptions))
}
