package netbox

import "context"

// Client is the inventory API surface the registrator converges against.
// Get runs a filtered list query. Create posts a new object. Update patches
// only the fields present in body, Replace swaps the whole object.
type Client interface {
	Get(ctx context.Context, collection string, params Params) (*List, error)
	Create(ctx context.Context, collection string, body Body) (Row, error)
	Update(ctx context.Context, collection string, id int, body Body) (Row, error)
	Replace(ctx context.Context, collection string, id int, body Body) (Row, error)
}
