// Package source defines the paged data contract the picker consumes, and
// a couple of concrete backends: an in-memory slice source and an external
// listing command. Remote backends implement Source against whatever
// enumeration API they have; the picker only ever sees pages and tokens.
package source

import "context"

// Request asks a Source for one page. An empty Token requests the first
// page; any other value must be a NextToken returned by the same Source.
type Request struct {
	Token    string
	PageSize int
}

// Page is one fetched slice of a listing. NextToken is opaque to callers;
// it is only meaningful when HasMore is true.
type Page[T any] struct {
	Items     []T
	NextToken string
	HasMore   bool
}

// Source supplies successive pages of candidates. Fetch must honor context
// cancellation; a cancelled fetch returns ctx.Err().
type Source[T any] interface {
	Fetch(ctx context.Context, req Request) (Page[T], error)
}

// Entry is the listing item the shipped backends produce: a display name
// plus an optional detail line (path, size, whatever the backend knows).
type Entry struct {
	Name   string
	Detail string
}

// SearchKeys returns the text keys an Entry can be matched by.
func (e Entry) SearchKeys() []string {
	if e.Detail == "" {
		return []string{e.Name}
	}
	return []string{e.Name, e.Detail}
}
