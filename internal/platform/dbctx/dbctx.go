package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the request context through a catalog repo call. Tx is the
// open aggregate transaction when the call is part of a write, nil for plain
// reads.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Conn returns the transaction when one is open, otherwise base. Repos pass
// their own handle as base so reads outside a write still work.
func (c Context) Conn(base *gorm.DB) *gorm.DB {
	if c.Tx != nil {
		return c.Tx
	}
	return base
}
