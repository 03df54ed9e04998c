package link

import (
	"fmt"
	"regexp"
	"strings"
)

var labelKeyRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func ParseLabels(input string) (map[string]string, error) {
	labels := map[string]string{}
	if strings.TrimSpace(input) == "" {
		return labels, nil
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid label %q", pair)
		}
		if !labelKeyRe.MatchString(parts[0]) {
			return nil, fmt.Errorf("label key %q must be lowercase letters, digits, _ or -", parts[0])
		}
		labels[parts[0]] = parts[1]
	}
	return labels, nil
}

// MergeLabels returns base overlaid with extra; neither input is modified.
func MergeLabels(base, extra map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
