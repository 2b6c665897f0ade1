package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

const (
	ProfileKind        = "profile"
	JdKind             = "jds"
	RecommendationKind = "recommendations"
	SelectedKind       = "selected"
)

var knownKinds = map[string]struct{}{
	ProfileKind:        {},
	JdKind:             {},
	RecommendationKind: {},
	SelectedKind:       {},
}

func parseKind(arg string) (string, error) {
	if _, ok := knownKinds[arg]; !ok {
		return "", fmt.Errorf("invalid resource kind: %s", arg)
	}
	return arg, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
}

// printResource renders json or yaml when requested, falling back to the
// provided table printer.
func printResource(resource interface{}, output string, table func()) error {
	switch output {
	case jsonFormat:
		marshalled, err := json.Marshal(resource)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
		return nil
	case yamlFormat:
		marshalled, err := yaml.Marshal(resource)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
		return nil
	default:
		table()
		return nil
	}
}
