package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/standards"
)

type AggregateResult struct {
	SchemaVersion string          `json:"schemaVersion"`
	Inputs        []string        `json:"inputs"`
	Status        string          `json:"status"`
	Links         []LinkAggregate `json:"links"`
	Errors        []string        `json:"errors"`
}

type LinkAggregate struct {
	Link           string              `json:"link"`
	Site           string              `json:"site,omitempty"`
	Status         string              `json:"status"`
	GeneratedAt    time.Time           `json:"generatedAt"`
	ReferenceFiber standards.FiberType `json:"referenceFiber"`
	TotalLossDb    float64             `json:"totalLossDb"`
	Verdicts       []budget.Verdict    `json:"budgetResults"`
	Notes          []string            `json:"notes,omitempty"`
}

func ReadResults(paths []string) ([]assess.Result, error) {
	var results []assess.Result
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var result assess.Result
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if result.SchemaVersion == "" {
			return nil, fmt.Errorf("missing schemaVersion in %s", path)
		}
		results = append(results, result)
	}
	return results, nil
}

// Aggregate folds results into one row per site/link. When a link appears
// more than once the most recent result wins and a warning is recorded.
func Aggregate(results []assess.Result, inputs []string) (AggregateResult, error) {
	if len(results) == 0 {
		return AggregateResult{}, errors.New("no results to aggregate")
	}
	byLink := map[string]*LinkAggregate{}
	var errorsList []string
	for i, result := range results {
		if result.SchemaVersion != assess.SchemaVersion {
			errorsList = append(errorsList, fmt.Sprintf("%s: schemaVersion %s differs from %s", inputName(inputs, i), result.SchemaVersion, assess.SchemaVersion))
		}
		key := fmt.Sprintf("%s/%s", result.Site, result.Link)
		item := &LinkAggregate{
			Link:           result.Link,
			Site:           result.Site,
			Status:         result.Status,
			GeneratedAt:    result.GeneratedAt,
			ReferenceFiber: result.Breakdown.ReferenceFiber,
			TotalLossDb:    result.Breakdown.TotalLossDb,
			Verdicts:       result.Breakdown.Verdicts,
			Notes:          result.Notes,
		}
		if prev, ok := byLink[key]; ok {
			errorsList = append(errorsList, fmt.Sprintf("duplicate link %s in %s", key, inputName(inputs, i)))
			if !result.GeneratedAt.After(prev.GeneratedAt) {
				continue
			}
		}
		byLink[key] = item
	}

	status := budget.StatusPass
	var links []LinkAggregate
	for _, item := range byLink {
		status = mergeStatus(status, item.Status)
		links = append(links, *item)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Site == links[j].Site {
			return links[i].Link < links[j].Link
		}
		return links[i].Site < links[j].Site
	})

	return AggregateResult{
		SchemaVersion: assess.SchemaVersion,
		Inputs:        inputs,
		Status:        status,
		Links:         links,
		Errors:        errorsList,
	}, nil
}

func inputName(inputs []string, i int) string {
	if i < len(inputs) {
		return inputs[i]
	}
	return fmt.Sprintf("input %d", i+1)
}

func mergeStatus(a, b string) string {
	score := func(value string) int {
		switch value {
		case budget.StatusFail:
			return 4
		case budget.StatusPartial:
			return 3
		case budget.StatusNoBudget:
			return 2
		case budget.StatusPass:
			return 1
		default:
			return 0
		}
	}
	if score(b) > score(a) {
		return b
	}
	return a
}

func WriteAggregateJSON(path string, result AggregateResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return WriteJSON(path, result)
}

func WriteAggregateMarkdown(path string, result AggregateResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# lossbudget report\n\n")
	fmt.Fprintf(&b, "Inputs: %d\n\n", len(result.Inputs))
	fmt.Fprintf(&b, "Overall status: %s\n\n", result.Status)

	speeds := reportedSpeeds(result.Links)
	fmt.Fprintf(&b, "| Site | Link | Reference | Total loss |")
	for _, speed := range speeds {
		fmt.Fprintf(&b, " %s margin |", speed)
	}
	fmt.Fprintf(&b, " Status |\n|%s\n", strings.Repeat(" --- |", len(speeds)+5))
	for _, link := range result.Links {
		site := link.Site
		if site == "" {
			site = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f dB |", site, link.Link, link.ReferenceFiber, link.TotalLossDb)
		for _, speed := range speeds {
			if v, ok := (budget.Breakdown{Verdicts: link.Verdicts}).Verdict(speed); ok {
				fmt.Fprintf(&b, " %.2f dB (%s) |", v.MarginDb, verdictLabel(v))
			} else {
				fmt.Fprintf(&b, " n/a |")
			}
		}
		fmt.Fprintf(&b, " %s |\n", link.Status)
	}
	for _, link := range result.Links {
		if len(link.Notes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s notes\n\n", link.Link)
		for _, note := range link.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n")
		for _, err := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", err)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// reportedSpeeds returns every speed any link carries a verdict for, in the
// standard order.
func reportedSpeeds(links []LinkAggregate) []standards.Speed {
	seen := map[standards.Speed]bool{}
	for _, link := range links {
		for _, v := range link.Verdicts {
			seen[v.Speed] = true
		}
	}
	var out []standards.Speed
	for _, speed := range standards.Speeds {
		if seen[speed] {
			out = append(out, speed)
			delete(seen, speed)
		}
	}
	var extra []string
	for speed := range seen {
		extra = append(extra, string(speed))
	}
	sort.Strings(extra)
	for _, speed := range extra {
		out = append(out, standards.Speed(speed))
	}
	return out
}
