// Package generator renders schema object definitions into faux class
// source text: read-only Apex-shaped stubs consumed by code-completion
// tooling, never executed.
package generator

import (
	"fmt"
	"strings"

	"github.com/fauxforce/fauxforce/internal/errors"
	"github.com/fauxforce/fauxforce/internal/schema"
)

// FileSuffix is the extension of generated stub files.
const FileSuffix = ".cls"

const header = `// This file is generated as a faux representation of the corresponding schema object
// and its fields. This read-only file is used by code-completion tooling and is
// rewritten each time the schema object definitions are refreshed.
`

// fieldTypes maps describe field types to the faux class type they render as.
// Reference fields are handled separately because they emit two members.
var fieldTypes = map[string]string{
	"string":          "String",
	"textarea":        "String",
	"phone":           "String",
	"url":             "String",
	"email":           "String",
	"encryptedstring": "String",
	"picklist":        "String",
	"multipicklist":   "String",
	"combobox":        "String",
	"id":              "Id",
	"boolean":         "Boolean",
	"int":             "Integer",
	"long":            "Long",
	"double":          "Decimal",
	"currency":        "Decimal",
	"percent":         "Decimal",
	"date":            "Date",
	"datetime":        "Datetime",
	"time":            "Time",
	"base64":          "Blob",
	"address":         "Address",
	"location":        "Location",
	"anyType":         "Object",
	"complexvalue":    "Object",
	"json":            "Object",
}

// Generator renders one object definition into stub source text.
// Implementations must be pure: same definition in, same text out.
type Generator interface {
	// Render returns the stub text for def, plus a non-fatal issue for each
	// field that had to be skipped. A malformed field never fails the
	// object; its stub is produced from the remaining fields.
	Render(def schema.ObjectDefinition) (string, []errors.FieldIssue)
}

// FauxClass renders Apex-shaped stub classes. The zero value is ready to use.
type FauxClass struct{}

// New creates a FauxClass generator.
func New() *FauxClass {
	return &FauxClass{}
}

// FileName returns the deterministic stub file name for an object.
func FileName(objectName string) string {
	return objectName + FileSuffix
}

// Render produces the faux class text for def. Fields are emitted in the
// order they appear in def.Fields; they are never re-sorted.
func (g *FauxClass) Render(def schema.ObjectDefinition) (string, []errors.FieldIssue) {
	var b strings.Builder
	var issues []errors.FieldIssue

	b.WriteString(header)
	if def.Label != "" && def.Label != def.Name {
		fmt.Fprintf(&b, "// %s\n", def.Label)
	}
	fmt.Fprintf(&b, "global class %s {\n", def.Name)

	for _, f := range def.Fields {
		lines, issue := renderField(def.Name, f)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		for _, line := range lines {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("}")
	return b.String(), issues
}

// renderField returns the member declaration lines for one field, or a
// FieldIssue when the field record is malformed and must be skipped.
func renderField(object string, f schema.FieldDefinition) ([]string, *errors.FieldIssue) {
	if f.Name == "" {
		return nil, &errors.FieldIssue{Object: object, Reason: "missing field name"}
	}

	if f.Type == "reference" {
		// A reference renders both the raw Id member and, when the describe
		// supplied a relationship, the typed relationship member.
		lines := []string{fmt.Sprintf("global Id %s;", f.Name)}
		if f.RelationshipName != "" && len(f.ReferenceTo) > 0 {
			lines = append(lines, fmt.Sprintf("global %s %s;", f.ReferenceTo[0], f.RelationshipName))
		}
		return lines, nil
	}

	typ, ok := fieldTypes[f.Type]
	if !ok {
		return nil, &errors.FieldIssue{
			Object: object,
			Field:  f.Name,
			Reason: fmt.Sprintf("unmapped field type %q", f.Type),
		}
	}

	line := fmt.Sprintf("global %s %s;", typ, f.Name)
	if len(f.PicklistValues) > 0 {
		line += " // " + strings.Join(f.PicklistValues, ", ")
	}
	return []string{line}, nil
}
