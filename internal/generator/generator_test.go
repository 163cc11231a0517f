package generator

import (
	"strings"
	"testing"

	"github.com/fauxforce/fauxforce/internal/schema"
)

func accountDef() schema.ObjectDefinition {
	return schema.ObjectDefinition{
		Name:  "Account",
		Label: "Account",
		Fields: []schema.FieldDefinition{
			{Name: "Id", Type: "id", Required: true},
			{Name: "Name", Type: "string"},
			{Name: "AnnualRevenue", Type: "currency"},
			{Name: "NumberOfEmployees", Type: "int"},
			{Name: "OwnerId", Type: "reference", ReferenceTo: []string{"User"}, RelationshipName: "Owner"},
			{Name: "Industry", Type: "picklist", PicklistValues: []string{"Banking", "Energy"}},
		},
	}
}

func TestRender(t *testing.T) {
	g := New()
	text, issues := g.Render(accountDef())

	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}

	wantLines := []string{
		"global class Account {",
		"global Id Id;",
		"global String Name;",
		"global Decimal AnnualRevenue;",
		"global Integer NumberOfEmployees;",
		"global Id OwnerId;",
		"global User Owner;",
		"global String Industry; // Banking, Energy",
	}
	for _, want := range wantLines {
		if !strings.Contains(text, want) {
			t.Errorf("stub missing %q\nstub:\n%s", want, text)
		}
	}
	if !strings.HasSuffix(text, "}") {
		t.Error("stub should end with closing brace")
	}
}

func TestRender_Deterministic(t *testing.T) {
	g := New()
	a, _ := g.Render(accountDef())
	b, _ := g.Render(accountDef())
	if a != b {
		t.Error("Render must be deterministic for the same definition")
	}
}

func TestRender_FieldOrderPreserved(t *testing.T) {
	def := schema.ObjectDefinition{
		Name: "Widget__c",
		Fields: []schema.FieldDefinition{
			{Name: "Zeta__c", Type: "string"},
			{Name: "Alpha__c", Type: "string"},
		},
	}
	g := New()
	text, _ := g.Render(def)

	zeta := strings.Index(text, "Zeta__c")
	alpha := strings.Index(text, "Alpha__c")
	if zeta < 0 || alpha < 0 {
		t.Fatalf("fields missing from stub:\n%s", text)
	}
	if zeta > alpha {
		t.Error("fields must be emitted in definition order, not sorted")
	}
}

func TestRender_SkipsMalformedField(t *testing.T) {
	def := schema.ObjectDefinition{
		Name: "Case",
		Fields: []schema.FieldDefinition{
			{Name: "Id", Type: "id"},
			{Name: "", Type: "string"},                 // missing name
			{Name: "Weird", Type: "quantum"},           // unmapped type
			{Name: "Subject", Type: "string"},
		},
	}
	g := New()
	text, issues := g.Render(def)

	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(issues), issues)
	}
	// Loss of one field must never lose the rest of the object's stub.
	for _, want := range []string{"global Id Id;", "global String Subject;"} {
		if !strings.Contains(text, want) {
			t.Errorf("stub missing %q despite skipped fields\nstub:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Weird") {
		t.Error("unmapped field should be skipped entirely")
	}

	for _, issue := range issues {
		if issue.Object != "Case" {
			t.Errorf("issue object = %q, want Case", issue.Object)
		}
	}
}

func TestRender_ReferenceWithoutRelationship(t *testing.T) {
	def := schema.ObjectDefinition{
		Name: "Task",
		Fields: []schema.FieldDefinition{
			{Name: "WhatId", Type: "reference"}, // polymorphic, no relationship metadata
		},
	}
	g := New()
	text, issues := g.Render(def)

	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if !strings.Contains(text, "global Id WhatId;") {
		t.Errorf("reference without relationship should still emit Id member:\n%s", text)
	}
}

func TestRender_EmptyObject(t *testing.T) {
	g := New()
	text, issues := g.Render(schema.ObjectDefinition{Name: "Empty__c"})

	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if !strings.Contains(text, "global class Empty__c {") {
		t.Errorf("stub should declare the class:\n%s", text)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Account"); got != "Account.cls" {
		t.Errorf("FileName = %q, want Account.cls", got)
	}
}
