package prep

import (
	"fmt"

	"github.com/apmslab/apmsprep/internal/table"
)

// FoldChanges appends one log fold-change column per bait/control
// replicate pair, in pair order: logFC_i = bait_i - control_i.
// Values are already log-transformed, so the difference is a
// log-ratio. Missing inputs give a missing result, never an error.
// The new column names are returned in order.
func FoldChanges(t *table.Table, roles Roles) ([]string, error) {
	names := make([]string, 0, roles.Pairs())
	for i := 0; i < roles.Pairs(); i++ {
		bait, err := t.Numeric(roles.Baits[i])
		if err != nil {
			return nil, err
		}
		control, err := t.Numeric(roles.Controls[i])
		if err != nil {
			return nil, err
		}
		fc := make([]float64, len(bait))
		for j := range bait {
			fc[j] = bait[j] - control[j] // NaN propagates
		}
		name := fmt.Sprintf("logFC_%d", i+1)
		if err := t.AppendNumeric(name, fc); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
