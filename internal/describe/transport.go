// Package describe provides the metadata transport: an authenticated client
// for the org's describe API, able to list every schema object and to
// batch-fetch full field definitions.
package describe

import (
	"context"

	"github.com/fauxforce/fauxforce/internal/schema"
)

// Transport is the capability the refresh orchestrator needs from the org.
// Implementations must never return a partial listing silently: any auth,
// network, or payload failure surfaces as a DescribeError.
type Transport interface {
	// ListAll returns a summary for every schema object in the org.
	ListAll(ctx context.Context) ([]schema.ObjectSummary, error)

	// FetchDefinitions returns full definitions for the named objects, in
	// request order. Chunking of large name lists is the transport's
	// internal concern; callers see the same contract for one name or many.
	FetchDefinitions(ctx context.Context, names []string) ([]schema.ObjectDefinition, error)
}
