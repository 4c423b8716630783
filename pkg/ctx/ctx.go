package ctx

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-arcade/orgman/pkg/database"
)

// Context is the process-wide handle passed to storage executors.
type Context struct {
	MongoIns *database.MongoClient
	Ctx      context.Context
	Log      *zap.SugaredLogger
}

func NewContext(ctx context.Context, mongodb *database.MongoClient, log *zap.SugaredLogger) *Context {
	return &Context{
		MongoIns: mongodb,
		Ctx:      ctx,
		Log:      log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) GetMongoIns() *database.MongoClient {
	return c.MongoIns
}
