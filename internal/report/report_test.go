package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/link"
	"github.com/bayneri/lossbudget/internal/standards"
)

const campusLink = `
apiVersion: lossbudget.dev/v1
kind: FiberLink
metadata: {name: bldg-a-to-c, site: campus}
segments:
  - {fiber: OS2, wavelength: 1550nm, distance: 5, unit: km, splices: 2, connectors: 4}
`

const labLink = `
apiVersion: lossbudget.dev/v1
kind: FiberLink
metadata: {name: lab-rack, site: campus}
safetyMarginDb: 3
segments:
  - {fiber: OM3, wavelength: 850nm, distance: 200, splices: 1, connectors: 2}
`

func assessed(t *testing.T, doc string, at time.Time, sweep bool) assess.Result {
	t.Helper()
	d, err := link.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	result, _, err := assess.Run(budget.New(standards.Default()), d, assess.Options{
		Now:     func() time.Time { return at },
		Sweep:   sweep,
		Explain: true,
	})
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	return result
}

var generated = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func TestMarkdownSummary(t *testing.T) {
	result := assessed(t, campusLink, generated, true)
	out := MarkdownSummary(result, Options{Explain: true})

	for _, want := range []string{
		"- Link: bldg-a-to-c",
		"- Reference fiber: OS2",
		"- Generated: 2026-01-01T10:00:00Z",
		"| 1 | OS2 | 1550nm | 5.000 | 0.220 | 1.10 dB | 0.10 dB | 1.00 dB |",
		"- Total loss: 5.20 dB",
		"| 10G | 10.00 dB | 4.80 dB | PASS |",
		"| 25G | 6.30 dB | 1.10 dB | PASS |",
		"### Segment 1 (OS2)",
		"| 1310nm |",
		"## How computed",
		"10G: 10.00 - 5.20 = 4.80 dB",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, out)
		}
	}
}

func TestMarkdownWithoutExplain(t *testing.T) {
	result := assessed(t, labLink, generated, false)
	out := MarkdownSummary(result, Options{})
	if strings.Contains(out, "How computed") || strings.Contains(out, "Wavelength sweep") {
		t.Fatalf("unexpected sections:\n%s", out)
	}
	if !strings.Contains(out, "| 10G | 2.60 dB | -1.60 dB | FAIL |") {
		t.Fatalf("expected failing 10G row:\n%s", out)
	}
}

func TestWriteAndReadSummaryJSON(t *testing.T) {
	result := assessed(t, campusLink, generated, false)
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := WriteSummaryJSON(path, result); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{`"schemaVersion": "1.0"`, `"budgetResults": [`, `"totalLossDb": 5.2`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Fatalf("expected %s in %s", want, data)
		}
	}
	results, err := ReadResults([]string{path})
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if results[0].ID != result.ID || results[0].Status != budget.StatusPass {
		t.Fatalf("unexpected result %+v", results[0])
	}
}

func TestReadResultsRequiresSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"link":"x"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadResults([]string{path}); err == nil || !strings.Contains(err.Error(), "missing schemaVersion") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestAggregateResults(t *testing.T) {
	campus := assessed(t, campusLink, generated, false)
	lab := assessed(t, labLink, generated, false)
	labLater := assessed(t, labLink, generated.Add(time.Hour), false)

	agg, err := Aggregate([]assess.Result{campus, labLater, lab}, []string{"a.json", "b.json", "c.json"})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(agg.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(agg.Links))
	}
	if agg.Status != budget.StatusFail {
		t.Fatalf("expected overall fail, got %s", agg.Status)
	}
	if agg.Links[0].Link != "bldg-a-to-c" || agg.Links[1].Link != "lab-rack" {
		t.Fatalf("unexpected order %v", agg.Links)
	}
	if !agg.Links[1].GeneratedAt.Equal(labLater.GeneratedAt) {
		t.Fatalf("expected latest duplicate to win")
	}
	if len(agg.Errors) != 1 || !strings.Contains(agg.Errors[0], "duplicate link campus/lab-rack in c.json") {
		t.Fatalf("unexpected warnings %v", agg.Errors)
	}

	dir := t.TempDir()
	md := filepath.Join(dir, "nested", "summary.md")
	if err := WriteAggregateMarkdown(md, agg); err != nil {
		t.Fatalf("write markdown: %v", err)
	}
	data, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("markdown missing: %v", err)
	}
	if !strings.Contains(string(data), "| 50G margin |") || !strings.Contains(string(data), " n/a |") {
		t.Fatalf("expected 50G column with n/a for OM3:\n%s", data)
	}

	js := filepath.Join(dir, "summary.json")
	if err := WriteAggregateJSON(js, agg); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if _, err := os.Stat(js); err != nil {
		t.Fatalf("json missing: %v", err)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if _, err := Aggregate(nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteErrorsMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.md")
	if err := WriteErrorsMarkdown(path, []string{"duplicate link campus/lab-rack in input"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "- duplicate link campus/lab-rack in input") {
		t.Fatalf("unexpected content: %s", data)
	}
}

func TestMergeStatus(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{budget.StatusPass, budget.StatusNoBudget, budget.StatusNoBudget},
		{budget.StatusPartial, budget.StatusNoBudget, budget.StatusPartial},
		{budget.StatusPartial, budget.StatusFail, budget.StatusFail},
		{budget.StatusFail, budget.StatusPass, budget.StatusFail},
	}
	for _, tc := range cases {
		if got := mergeStatus(tc.a, tc.b); got != tc.want {
			t.Fatalf("mergeStatus(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPDF(t *testing.T) {
	result := assessed(t, campusLink, generated, true)
	data, err := PDF(result, Options{})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	path := filepath.Join(t.TempDir(), "summary.pdf")
	if err := WritePDF(path, result, Options{}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, assessed(t, labLink, generated, true))
	out := buf.String()
	for _, want := range []string{"Link: lab-rack", "Reference fiber: OM3", "Total loss: 4.20 dB", "FAIL", "Segment 1 sweep (OM3):", "1300nm"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderFibers(t *testing.T) {
	var buf bytes.Buffer
	RenderFibers(&buf, standards.Default())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 fibers, got %d lines", len(lines))
	}
	var om3 string
	for _, line := range lines {
		if strings.HasPrefix(line, "OM3") {
			om3 = line
		}
	}
	if om3 == "" || strings.Contains(om3, "50G") {
		t.Fatalf("unexpected OM3 row %q", om3)
	}
}

func TestRenderProfile(t *testing.T) {
	table := standards.Default()
	var buf bytes.Buffer
	RenderProfile(&buf, standards.OM5, table[standards.OM5])
	if !strings.Contains(buf.String(), "953nm") || !strings.Contains(buf.String(), "Max distance: 440 m") {
		t.Fatalf("unexpected profile output:\n%s", buf.String())
	}
}
