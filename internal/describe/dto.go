package describe

import "github.com/fauxforce/fauxforce/internal/schema"

// Wire types for the org describe REST API. Kept separate from the domain
// model so payload quirks stay inside this package.

// listResponse is the body of the global describe listing.
type listResponse struct {
	Encoding     string       `json:"encoding"`
	MaxBatchSize int          `json:"maxBatchSize"`
	SObjects     []sobjectDTO `json:"sobjects"`
}

// sobjectDTO is one entry of the global listing.
type sobjectDTO struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Custom    bool   `json:"custom"`
	Queryable bool   `json:"queryable"`
	KeyPrefix string `json:"keyPrefix"`
}

// batchRequest is the body of a composite batch call.
type batchRequest struct {
	BatchRequests []batchSubrequest `json:"batchRequests"`
}

// batchSubrequest is one describe subrequest inside a batch.
type batchSubrequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// batchResponse is the body of a composite batch response. Results appear
// in the same order as the subrequests.
type batchResponse struct {
	HasErrors bool          `json:"hasErrors"`
	Results   []batchResult `json:"results"`
}

// batchResult is one subrequest's outcome.
type batchResult struct {
	StatusCode int          `json:"statusCode"`
	Result     describeBody `json:"result"`
}

// describeBody is the full per-object describe payload.
type describeBody struct {
	Name   string     `json:"name"`
	Label  string     `json:"label"`
	Custom bool       `json:"custom"`
	Fields []fieldDTO `json:"fields"`
}

// fieldDTO is one field of a describe payload.
type fieldDTO struct {
	Name             string        `json:"name"`
	Type             string        `json:"type"`
	Nillable         bool          `json:"nillable"`
	PicklistValues   []picklistDTO `json:"picklistValues"`
	ReferenceTo      []string      `json:"referenceTo"`
	RelationshipName string        `json:"relationshipName"`
}

// picklistDTO is one picklist entry of a field.
type picklistDTO struct {
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// mapSummaries converts listing DTOs to domain summaries, preserving order.
func mapSummaries(dtos []sobjectDTO) []schema.ObjectSummary {
	out := make([]schema.ObjectSummary, len(dtos))
	for i, d := range dtos {
		out[i] = schema.ObjectSummary{
			Name:      d.Name,
			Label:     d.Label,
			Custom:    d.Custom,
			Queryable: d.Queryable,
			KeyPrefix: d.KeyPrefix,
		}
	}
	return out
}

// mapDefinition converts a describe payload to a domain definition,
// preserving field order.
func mapDefinition(body describeBody) schema.ObjectDefinition {
	def := schema.ObjectDefinition{
		Name:   body.Name,
		Label:  body.Label,
		Custom: body.Custom,
		Fields: make([]schema.FieldDefinition, 0, len(body.Fields)),
	}
	for _, f := range body.Fields {
		var picklist []string
		for _, p := range f.PicklistValues {
			if p.Active {
				picklist = append(picklist, p.Value)
			}
		}
		def.Fields = append(def.Fields, schema.FieldDefinition{
			Name:             f.Name,
			Type:             f.Type,
			Required:         !f.Nillable,
			PicklistValues:   picklist,
			ReferenceTo:      f.ReferenceTo,
			RelationshipName: f.RelationshipName,
		})
	}
	return def
}
