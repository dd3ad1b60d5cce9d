// Package matching aligns baseline and actual cost lines by a
// caller-declared identity and partitions them into matched and unmatched
// buckets. Matching is pure: no I/O, no shared state, deterministic output
// ordering regardless of input order.
package matching

import (
	"sort"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

type group struct {
	key   domain.MatchKey
	ids   []string
	total decimal.Decimal
	count int
}

// Match pairs baseline and actual lines per unique match key. Lines that
// share a key on one side are pre-aggregated (summed) into one logical
// line before pairing; the result records how many keys were collapsed
// this way so data-quality reporting can surface duplicate entries.
func Match(baseline, actual []domain.CostLine, identityFields []string) (domain.ComparisonResult, error) {
	if len(identityFields) == 0 {
		return domain.ComparisonResult{}, &domain.IdentityInvalidError{Reason: "identity field list is empty"}
	}

	snapshotID, err := commonSnapshot(baseline, actual)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	baseGroups, baseIncomplete, baseDupes, err := groupByKey(baseline, identityFields)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	actGroups, actIncomplete, actDupes, err := groupByKey(actual, identityFields)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	result := domain.ComparisonResult{
		DatasetSnapshotID:     snapshotID,
		IdentityFields:        append([]string(nil), identityFields...),
		Matched:               []domain.MatchedPair{},
		UnmatchedBaseline:     []domain.UnmatchedGroup{},
		UnmatchedActual:       []domain.UnmatchedGroup{},
		IncompleteBaseline:    baseIncomplete,
		IncompleteActual:      actIncomplete,
		DuplicateKeysBaseline: baseDupes,
		DuplicateKeysActual:   actDupes,
	}

	for _, encoded := range sortedKeys(baseGroups, actGroups) {
		bg, inBase := baseGroups[encoded]
		ag, inAct := actGroups[encoded]
		switch {
		case inBase && inAct:
			result.Matched = append(result.Matched, domain.MatchedPair{
				Key:           bg.key,
				BaselineIDs:   bg.ids,
				ActualIDs:     ag.ids,
				BaselineTotal: bg.total,
				ActualTotal:   ag.total,
				Delta:         ag.total.Sub(bg.total),
			})
		case inBase:
			result.UnmatchedBaseline = append(result.UnmatchedBaseline, domain.UnmatchedGroup{
				Key:   bg.key,
				IDs:   bg.ids,
				Total: bg.total,
			})
		default:
			result.UnmatchedActual = append(result.UnmatchedActual, domain.UnmatchedGroup{
				Key:   ag.key,
				IDs:   ag.ids,
				Total: ag.total,
			})
		}
	}

	return result, nil
}

func commonSnapshot(baseline, actual []domain.CostLine) (string, error) {
	snapshotID := ""
	for _, lines := range [][]domain.CostLine{baseline, actual} {
		for _, line := range lines {
			if line.DatasetSnapshotID == "" {
				return "", &domain.CostLineInvalidError{LineID: line.ID, Reason: "dataset snapshot id is empty"}
			}
			if snapshotID == "" {
				snapshotID = line.DatasetSnapshotID
				continue
			}
			if line.DatasetSnapshotID != snapshotID {
				return "", &domain.SnapshotMismatchError{Want: snapshotID, Got: line.DatasetSnapshotID}
			}
		}
	}
	return snapshotID, nil
}

func groupByKey(lines []domain.CostLine, identityFields []string) (map[string]*group, int, int, error) {
	groups := make(map[string]*group)
	incomplete := 0
	duplicateKeys := 0

	for _, line := range lines {
		key, err := buildKey(line, identityFields)
		if err != nil {
			return nil, 0, 0, err
		}

		total, ok := line.ResolvedTotal()
		if !ok {
			incomplete++
			continue
		}

		encoded := key.Encoded()
		g, exists := groups[encoded]
		if !exists {
			g = &group{key: key, total: decimal.Zero}
			groups[encoded] = g
		}
		g.ids = append(g.ids, line.ID)
		g.total = g.total.Add(total)
		g.count++
		if g.count == 2 {
			duplicateKeys++
		}
	}

	for _, g := range groups {
		sort.Strings(g.ids)
	}
	return groups, incomplete, duplicateKeys, nil
}

func buildKey(line domain.CostLine, identityFields []string) (domain.MatchKey, error) {
	key := domain.MatchKey{
		Fields: identityFields,
		Values: make([]domain.Scalar, 0, len(identityFields)),
	}
	for _, field := range identityFields {
		value, ok := line.IdentityValue(field)
		if !ok {
			return domain.MatchKey{}, &domain.CostLineInvalidError{
				LineID: line.ID,
				Field:  field,
				Reason: "identity field missing",
			}
		}
		key.Values = append(key.Values, value)
	}
	return key, nil
}

// sortedKeys merges both sides' encoded keys and orders them by match-key
// comparison (field values in declaration order), which fixes the output
// ordering downstream id derivation depends on.
func sortedKeys(baseGroups, actGroups map[string]*group) []string {
	byEncoded := make(map[string]domain.MatchKey, len(baseGroups)+len(actGroups))
	for encoded, g := range baseGroups {
		byEncoded[encoded] = g.key
	}
	for encoded, g := range actGroups {
		byEncoded[encoded] = g.key
	}

	encodedKeys := maps.Keys(byEncoded)
	sort.Slice(encodedKeys, func(i, j int) bool {
		return byEncoded[encodedKeys[i]].Compare(byEncoded[encodedKeys[j]]) < 0
	})
	return encodedKeys
}
