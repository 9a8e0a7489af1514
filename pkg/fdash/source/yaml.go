package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// YAMLSource loads financials documents from YAML or JSON files.
type YAMLSource struct{}

// Load expects spec to be a file or directory path. A directory is walked
// recursively and every .yaml, .yml and .json file becomes one document.
func (YAMLSource) Load(ctx context.Context, spec any) ([]types.Document, error) {
	path, ok := spec.(string)
	if !ok {
		return nil, fmt.Errorf("yaml source expects filepath string spec")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		doc, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(doc.Name) == "" {
			doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return []types.Document{doc}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	docs := make([]types.Document, 0, len(files))
	for _, full := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := loadFile(full)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}
		// Prefix with the relative path (without extension), using forward slashes.
		rel, err := filepath.Rel(path, full)
		if err != nil {
			rel = filepath.Base(full)
		}
		prefix := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		if strings.TrimSpace(doc.Name) == "" {
			doc.Name = prefix
		} else {
			doc.Name = prefix + "/" + doc.Name
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadFile(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, err
	}
	return Parse(data)
}

// Parse reads one document. The wrapped form is
//
//	name: ACME
//	years: [2021, 2022]
//	financials: {Revenue: {2021: {value: 100}}}
//
// A bare financials mapping is also accepted; its years are the union of
// the years present in the rows. JSON input parses the same way.
func Parse(data []byte) (types.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return types.Document{}, fmt.Errorf("parse document: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return types.Document{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return types.Document{}, fmt.Errorf("invalid document: expected mapping at line %d", node.Line)
	}

	if !hasKey(node, "financials") {
		var t types.FinancialsTable
		if err := node.Decode(&t); err != nil {
			return types.Document{}, err
		}
		return types.Document{Years: t.UnionYears(), Financials: t}, nil
	}

	var doc struct {
		Name       string                `yaml:"name"`
		Years      []int                 `yaml:"years"`
		Financials types.FinancialsTable `yaml:"financials"`
	}
	if err := node.Decode(&doc); err != nil {
		return types.Document{}, err
	}
	years := doc.Years
	if years == nil {
		years = doc.Financials.UnionYears()
	}
	return types.Document{Name: doc.Name, Years: years, Financials: doc.Financials}, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
