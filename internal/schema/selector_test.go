package schema

import (
	"reflect"
	"testing"
)

func sampleListing() []ObjectSummary {
	return []ObjectSummary{
		{Name: "Account", Queryable: true},
		{Name: "Invoice__c", Custom: true, Queryable: true},
		{Name: "Contact", Queryable: true},
		{Name: "Shipment__c", Custom: true},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     []string
	}{
		{"standard", CategoryStandard, []string{"Account", "Contact"}},
		{"custom", CategoryCustom, []string{"Invoice__c", "Shipment__c"}},
		{"all", CategoryAll, []string{"Account", "Invoice__c", "Contact", "Shipment__c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Names(Filter(sampleListing(), tt.category))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%s) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestFilter_Partition(t *testing.T) {
	all := sampleListing()
	std := Filter(all, CategoryStandard)
	cst := Filter(all, CategoryCustom)

	if len(std)+len(cst) != len(all) {
		t.Fatalf("partition sizes %d+%d != %d", len(std), len(cst), len(all))
	}
	seen := make(map[string]bool)
	for _, o := range append(std, cst...) {
		if seen[o.Name] {
			t.Errorf("object %s appears in both categories", o.Name)
		}
		seen[o.Name] = true
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	all := sampleListing()
	want := sampleListing()
	_ = Filter(all, CategoryStandard)
	_ = Filter(all, CategoryAll)
	if !reflect.DeepEqual(all, want) {
		t.Error("Filter mutated its input")
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range []Category{CategoryStandard, CategoryCustom, CategoryAll} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Category("everything").Valid() {
		t.Error("unknown category should be invalid")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"STANDARD", CategoryStandard, false},
		{"custom", CategoryCustom, false},
		{"All", CategoryAll, false},
		{"everything", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCategory(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCancelledResult(t *testing.T) {
	r := CancelledResult()
	if r.Err != nil {
		t.Errorf("Err = %v, want nil", r.Err)
	}
	if r.Data == nil || !r.Data.Cancelled {
		t.Fatal("Data.Cancelled should be true")
	}
	if r.Data.StandardObjects != nil || r.Data.CustomObjects != nil {
		t.Error("cancelled result must not carry counts")
	}
}
