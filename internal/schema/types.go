// Package schema defines the domain model for org schema metadata:
// object summaries from the global describe listing, full per-object
// field definitions, and the category/source variants that select and
// label a refresh run.
package schema

import (
	"fmt"
	"strings"
)

// ObjectSummary is the lightweight record returned by the global listing.
// It carries just enough to decide whether an object enters the working set.
type ObjectSummary struct {
	Name      string // API name, e.g. "Account" or "Invoice__c"
	Label     string // human-readable label
	Custom    bool   // true for custom objects ("__c" suffix)
	Queryable bool   // whether the object supports SOQL queries
	KeyPrefix string // three-character ID prefix, may be empty
}

// ObjectDefinition is the full per-object metadata used to render a stub.
// Fields preserve the order returned by the describe call.
type ObjectDefinition struct {
	Name   string
	Label  string
	Custom bool
	Fields []FieldDefinition
}

// FieldDefinition describes a single field of a schema object.
type FieldDefinition struct {
	Name             string
	Type             string // describe type, e.g. "string", "reference", "picklist"
	Required         bool
	PicklistValues   []string // populated for picklist/multipicklist fields
	ReferenceTo      []string // populated for reference fields
	RelationshipName string   // relationship accessor name for reference fields
}

// Category selects which objects enter the working set for a full refresh.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryCustom   Category = "custom"
	CategoryAll      Category = "all"
)

// String returns the category's canonical name.
func (c Category) String() string { return string(c) }

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStandard, CategoryCustom, CategoryAll:
		return true
	default:
		return false
	}
}

// ParseCategory maps a case-insensitive name to a Category. Config and CLI
// surfaces spell categories in upper case; the domain constants are lower.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(s))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Source identifies what triggered a refresh. It affects pipeline mode
// (full vs. minimal) and reporting verbosity, not selection semantics.
type Source string

const (
	SourceStartup    Source = "startup"
	SourceStartupMin Source = "startupmin"
	SourceManual     Source = "manual"
)

// String returns the source's canonical name.
func (s Source) String() string { return string(s) }

// Result is the terminal value of one refresh invocation. Exactly one of
// Err or Data is populated.
type Result struct {
	Err  error
	Data *ResultData
}

// ResultData carries per-category stub counts for a completed run.
// A nil count means that category was not generated during this run,
// either because the category excluded it or because the run was
// cancelled before reaching it.
type ResultData struct {
	StandardObjects *int
	CustomObjects   *int
	Cancelled       bool
}

// Failure builds an error-shaped Result.
func Failure(err error) Result {
	return Result{Err: err}
}

// CancelledResult builds the neutral result for a run stopped at a
// cancellation checkpoint. No counts are ever attached.
func CancelledResult() Result {
	return Result{Data: &ResultData{Cancelled: true}}
}
