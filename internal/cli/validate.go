package cli

import (
	"fmt"

	"github.com/julianstephens/replan/internal/validation"
)

type ValidateCmd struct {
	Default bool `help:"Validate the default timetable."`
	Strict  bool `help:"Exit with an error when violations are found."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	bounds, err := ctx.bounds()
	if err != nil {
		return err
	}

	tt := sess.Get()
	if cmd.Default {
		tt = sess.Default()
	}

	result := validation.New(bounds).Validate(tt)
	ctx.println(result.FormatReport())

	if cmd.Strict && !result.Valid {
		return fmt.Errorf("%d violation(s) found", len(result.Violations))
	}
	return nil
}
