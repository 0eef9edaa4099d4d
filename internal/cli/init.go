package cli

import "github.com/julianstephens/replan/internal/logger"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	logger.Info("Initialized storage", "path", ctx.Store.GetConfigPath())
	ctx.printf("Initialized replan storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
