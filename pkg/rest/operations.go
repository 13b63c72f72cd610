package rest

import (
	"context"
	"fmt"
)

// List fetches a resource collection: GET /api/v1/{resource}.
func List[T any](ctx context.Context, c *Client, resource string, opts ...Option) ([]T, error) {
	var out []T
	resp, err := c.request(opts).
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("%s/%s", apiPrefix, resource))
	if err := c.interpret(resp, err); err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	return out, nil
}

// Get fetches one record: GET /api/v1/{resource}/{id}.
func Get[T any](ctx context.Context, c *Client, resource string, id int64, opts ...Option) (*T, error) {
	out := new(T)
	resp, err := c.request(opts).
		SetContext(ctx).
		SetResult(out).
		Get(fmt.Sprintf("%s/%s/%d", apiPrefix, resource, id))
	if err := c.interpret(resp, err); err != nil {
		return nil, fmt.Errorf("%s/%d: %w", resource, id, err)
	}
	return out, nil
}

// Create posts a new record: POST /api/v1/{resource}. The server's
// created record, ids and timestamps filled in, comes back.
func Create[T any](ctx context.Context, c *Client, resource string, body any) (*T, error) {
	out := new(T)
	resp, err := c.request(nil).
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		Post(fmt.Sprintf("%s/%s", apiPrefix, resource))
	if err := c.interpret(resp, err); err != nil {
		return nil, fmt.Errorf("create %s: %w", resource, err)
	}
	return out, nil
}

// Update replaces a record's editable fields: PUT /api/v1/{resource}/{id}.
func Update[T any](ctx context.Context, c *Client, resource string, id int64, body any) (*T, error) {
	out := new(T)
	resp, err := c.request(nil).
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		Put(fmt.Sprintf("%s/%s/%d", apiPrefix, resource, id))
	if err := c.interpret(resp, err); err != nil {
		return nil, fmt.Errorf("update %s/%d: %w", resource, id, err)
	}
	return out, nil
}

// Delete removes a record: DELETE /api/v1/{resource}/{id}. For files
// this is the reversible soft delete; HardDelete is the irreversible
// one.
func Delete(ctx context.Context, c *Client, resource string, id int64) error {
	resp, err := c.request(nil).
		SetContext(ctx).
		Delete(fmt.Sprintf("%s/%s/%d", apiPrefix, resource, id))
	if err := c.interpret(resp, err); err != nil {
		return fmt.Errorf("delete %s/%d: %w", resource, id, err)
	}
	return nil
}

// Restore reverses a soft delete: POST /api/v1/{resource}/{id}/restore.
// Only files expose this endpoint; restoring a record the server has
// hard-deleted reports ErrNotFound.
func Restore[T any](ctx context.Context, c *Client, resource string, id int64) (*T, error) {
	out := new(T)
	resp, err := c.request(nil).
		SetContext(ctx).
		SetResult(out).
		Post(fmt.Sprintf("%s/%s/%d/restore", apiPrefix, resource, id))
	if err := c.interpret(resp, err); err != nil {
		return nil, fmt.Errorf("restore %s/%d: %w", resource, id, err)
	}
	return out, nil
}

// HardDelete removes a record for good: DELETE /api/v1/{resource}/{id}/hard.
// There is no undo; callers confirm with the user before calling.
func HardDelete(ctx context.Context, c *Client, resource string, id int64) error {
	resp, err := c.request(nil).
		SetContext(ctx).
		Delete(fmt.Sprintf("%s/%s/%d/hard", apiPrefix, resource, id))
	if err := c.interpret(resp, err); err != nil {
		return fmt.Errorf("hard-delete %s/%d: %w", resource, id, err)
	}
	return nil
}

// Link attaches a child record to a parent:
// POST /api/v1/{parent}/{parentID}/{child}/{childID}. Link attributes
// (feed ppm, carrier ratio) go in the body as decimal strings; nil or
// empty attrs sends no body.
func Link(ctx context.Context, c *Client, parent string, parentID int64, child string, childID int64, attrs map[string]string) error {
	req := c.request(nil).SetContext(ctx)
	if len(attrs) > 0 {
		req.SetBody(attrs)
	}
	resp, err := req.Post(linkPath(parent, parentID, child, childID))
	if err := c.interpret(resp, err); err != nil {
		return fmt.Errorf("link %s/%d %s/%d: %w", parent, parentID, child, childID, err)
	}
	return nil
}

// Unlink detaches a child record from a parent:
// DELETE /api/v1/{parent}/{parentID}/{child}/{childID}.
func Unlink(ctx context.Context, c *Client, parent string, parentID int64, child string, childID int64) error {
	resp, err := c.request(nil).
		SetContext(ctx).
		Delete(linkPath(parent, parentID, child, childID))
	if err := c.interpret(resp, err); err != nil {
		return fmt.Errorf("unlink %s/%d %s/%d: %w", parent, parentID, child, childID, err)
	}
	return nil
}

func linkPath(parent string, parentID int64, child string, childID int64) string {
	return fmt.Sprintf("%s/%s/%d/%s/%d", apiPrefix, parent, parentID, child, childID)
}
