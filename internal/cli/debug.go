package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	DBPath      *DebugDBPathCmd      `cmd:"" help:"Show database path."`
	DumpSession *DebugDumpSessionCmd `cmd:"" help:"Dump the stored session as JSON."`
	DumpConfig  *DebugDumpConfigCmd  `cmd:"" help:"Dump the effective configuration as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpSessionCmd struct{}

func (cmd *DebugDumpSessionCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	rec, err := ctx.Store.GetSession()
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return ctx.printJSON(rec)
}

type DebugDumpConfigCmd struct{}

func (cmd *DebugDumpConfigCmd) Run(ctx *Context) error {
	return ctx.printJSON(ctx.config())
}

func (c *Context) printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}
