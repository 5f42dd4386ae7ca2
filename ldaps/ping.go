package ldaps

import (
	"context"
)

// Ping checks the directory is reachable and the bind succeeds.
func (c *Client) Ping(ctx context.Context) error {
	conn, err := c.dialAndBind(ctx)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}
