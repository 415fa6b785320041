package cli

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// parseFields merges --json (an object) with repeated --field key=value pairs;
// pairs win on conflicts.
func parseFields(pairs []string, raw string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, errors.Wrap(err, "invalid --json")
		}
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Errorf("invalid --field %q (want key=value)", p)
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil, errors.New("no fields given; use --field key=value or --json")
	}
	return out, nil
}

func addFieldFlags(cmd *cobra.Command, pairs *[]string, raw *string) {
	cmd.Flags().StringArrayVar(pairs, "field", nil, "Field to set as key=value (repeatable)")
	cmd.Flags().StringVar(raw, "json", "", "Fields as a JSON object")
}
