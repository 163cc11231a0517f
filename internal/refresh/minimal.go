package refresh

import "github.com/fauxforce/fauxforce/internal/schema"

// The minimal startup refresh renders a fixed, hardcoded subset of standard
// objects so completion works immediately after a project opens, before any
// describe call has run. The set never depends on the org's actual schema.

// minimalDefinitions returns fresh copies of the shipped startup subset.
func minimalDefinitions() []schema.ObjectDefinition {
	ref := func(name, relName string, to string) schema.FieldDefinition {
		return schema.FieldDefinition{Name: name, Type: "reference", ReferenceTo: []string{to}, RelationshipName: relName}
	}
	f := func(name, typ string) schema.FieldDefinition {
		return schema.FieldDefinition{Name: name, Type: typ}
	}
	std := func(name string, extra ...schema.FieldDefinition) schema.ObjectDefinition {
		fields := []schema.FieldDefinition{
			{Name: "Id", Type: "id", Required: true},
			f("Name", "string"),
			f("CreatedDate", "datetime"),
			f("LastModifiedDate", "datetime"),
		}
		return schema.ObjectDefinition{Name: name, Label: name, Fields: append(fields, extra...)}
	}

	return []schema.ObjectDefinition{
		std("Account",
			f("AccountNumber", "string"),
			f("AnnualRevenue", "currency"),
			f("Industry", "picklist"),
			ref("OwnerId", "Owner", "User"),
		),
		std("Case",
			f("CaseNumber", "string"),
			f("Status", "picklist"),
			f("Subject", "string"),
			ref("AccountId", "Account", "Account"),
		),
		std("Contact",
			f("Email", "email"),
			f("Phone", "phone"),
			ref("AccountId", "Account", "Account"),
		),
		std("Contract",
			f("ContractNumber", "string"),
			f("StartDate", "date"),
			ref("AccountId", "Account", "Account"),
		),
		std("Lead",
			f("Company", "string"),
			f("Email", "email"),
			f("IsConverted", "boolean"),
		),
		std("Note",
			f("Body", "textarea"),
			f("Title", "string"),
		),
		std("Opportunity",
			f("Amount", "currency"),
			f("CloseDate", "date"),
			f("StageName", "picklist"),
			ref("AccountId", "Account", "Account"),
		),
		std("Order",
			f("OrderNumber", "string"),
			f("EffectiveDate", "date"),
			f("TotalAmount", "currency"),
		),
		std("Pricebook2",
			f("IsActive", "boolean"),
			f("IsStandard", "boolean"),
		),
		std("PricebookEntry",
			f("UnitPrice", "currency"),
			ref("Product2Id", "Product2", "Product2"),
		),
		std("Product2",
			f("ProductCode", "string"),
			f("IsActive", "boolean"),
		),
		std("RecordType",
			f("DeveloperName", "string"),
			f("SobjectType", "string"),
		),
		std("Task",
			f("ActivityDate", "date"),
			f("Status", "picklist"),
			ref("WhoId", "Who", "Contact"),
		),
		std("User",
			f("Username", "string"),
			f("Email", "email"),
			f("IsActive", "boolean"),
		),
	}
}

// MinimalSetSize is the number of objects rendered by a minimal refresh.
func MinimalSetSize() int { return len(minimalDefinitions()) }
