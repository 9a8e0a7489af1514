package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParse_Wrapped(t *testing.T) {
	doc, err := Parse([]byte(`
name: ACME
years: [2021, 2022]
financials:
  Revenue:
    2021: {value: 100}
    2022: {value: 120}
  Net Income:
    values:
      2021: {value: 10}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Name != "ACME" {
		t.Errorf("Name = %q, want ACME", doc.Name)
	}
	if !reflect.DeepEqual(doc.Years, []int{2021, 2022}) {
		t.Errorf("Years = %v, want [2021 2022]", doc.Years)
	}
	if got := doc.Financials.Titles(); !reflect.DeepEqual(got, []string{"Revenue", "Net Income"}) {
		t.Errorf("Titles = %v", got)
	}
}

func TestParse_Bare(t *testing.T) {
	doc, err := Parse([]byte(`
Revenue:
  2022: 120
  2020: 90
EBITDA:
  2021: {value: 30}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(doc.Years, []int{2020, 2021, 2022}) {
		t.Errorf("Years = %v, want union [2020 2021 2022]", doc.Years)
	}
	if len(doc.Financials) != 2 {
		t.Errorf("len(Financials) = %d, want 2", len(doc.Financials))
	}
}

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(`{"years": [2021], "financials": {"Revenue": {"values": {"2021": {"value": 5}}}}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if v := doc.Financials[0].Values[2021].Value; v != 5 {
		t.Errorf("Revenue 2021 = %v, want 5", v)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"- a\n- b\n", "Revenue:\n  twenty: 1\n", "financials: [1, 2]\n"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) failed: %v", err)
	}
	if len(doc.Financials) != 0 || len(doc.Years) != 0 {
		t.Errorf("doc = %+v, want empty", doc)
	}
}

func TestYAMLSource_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acme.yaml")
	writeFile(t, path, "Revenue:\n  2021: 1\n")

	docs, err := YAMLSource{}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "acme" {
		t.Errorf("docs = %+v, want one document named acme", docs)
	}
}

func TestYAMLSource_Dir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), `{"Revenue": {"2021": 1}}`)
	writeFile(t, filepath.Join(dir, "sub", "a.yml"), "name: Q1\nfinancials:\n  Revenue:\n    2021: 2\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	docs, err := YAMLSource{}.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var names []string
	for _, d := range docs {
		names = append(names, d.Name)
	}
	want := []string{"b", "sub/a/Q1"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestYAMLSource_BadSpec(t *testing.T) {
	if _, err := (YAMLSource{}).Load(context.Background(), 42); err == nil {
		t.Error("expected error for non-string spec")
	}
	if _, err := (YAMLSource{}).Load(context.Background(), "/does/not/exist"); err == nil {
		t.Error("expected error for missing path")
	}
}
