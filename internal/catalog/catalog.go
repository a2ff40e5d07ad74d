package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"demoload/internal/services"
)

// Catalog is an immutable, ordered registry of datasets keyed by code.
type Catalog struct {
	order  []string
	byCode map[string]Dataset
}

// NotFoundError reports an unknown dataset code together with the valid codes
// in catalog order.
type NotFoundError struct {
	Code  string
	Valid []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the code '%s' does not exist: %s", e.Code, strings.Join(e.Valid, "|"))
}

// Is lets callers match the error with errors.Is(err, services.ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == services.ErrNotFound
}

// New builds a catalog, preserving the order of datasets.
func New(datasets ...Dataset) (*Catalog, error) {
	c := &Catalog{
		order:  make([]string, 0, len(datasets)),
		byCode: make(map[string]Dataset, len(datasets)),
	}
	for i, d := range datasets {
		d.Code = strings.TrimSpace(d.Code)
		d.LocalTarget = strings.TrimSpace(d.LocalTarget)
		if d.Code == "" {
			return nil, fmt.Errorf("dataset %d: code is required", i)
		}
		if strings.ContainsAny(d.Code, " \t|") {
			return nil, fmt.Errorf("dataset %q: code must not contain spaces or '|'", d.Code)
		}
		if _, dup := c.byCode[d.Code]; dup {
			return nil, fmt.Errorf("dataset %q: duplicate code", d.Code)
		}
		if d.LocalTarget == "" {
			return nil, fmt.Errorf("dataset %q: target is required", d.Code)
		}
		if d.ArchiveSourced() && strings.TrimSpace(d.Archive.Member) == "" {
			return nil, fmt.Errorf("dataset %q: archive member is required", d.Code)
		}
		if strings.TrimSpace(d.Name) == "" {
			d.Name = d.Code
		}
		c.order = append(c.order, d.Code)
		c.byCode[d.Code] = d
	}
	return c, nil
}

// Lookup returns the dataset registered under code.
func (c *Catalog) Lookup(code string) (Dataset, error) {
	if d, ok := c.byCode[code]; ok {
		return d, nil
	}
	return Dataset{}, &NotFoundError{Code: code, Valid: c.Codes()}
}

// List returns every dataset in catalog order.
func (c *Catalog) List() []Dataset {
	out := make([]Dataset, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

// Codes returns the dataset codes in catalog order.
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of datasets.
func (c *Catalog) Len() int {
	return len(c.order)
}

type catalogFile struct {
	Datasets []Dataset `yaml:"datasets"`
}

// LoadFile reads a YAML catalog:
//
//	datasets:
//	  - code: car
//	    url: https://example.org/cars.csv
//	    target: data/cars.csv
//	    converted: data/cars.jsonl
func LoadFile(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var raw catalogFile
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(raw.Datasets) == 0 {
		return nil, fmt.Errorf("catalog %s declares no datasets", path)
	}
	c, err := New(raw.Datasets...)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}
