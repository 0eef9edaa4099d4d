package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/state"
	"github.com/julianstephens/replan/internal/utils"
)

type TemplateSaveCmd struct {
	Name string `arg:"" help:"Template name."`
	Yes  bool   `short:"y" help:"Overwrite an existing template without asking."`
}

func (c *TemplateSaveCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}

	if _, exists := sess.Templates()[c.Name]; exists {
		ok, err := confirm(fmt.Sprintf("Overwrite template %q?", c.Name), c.Yes)
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Save cancelled.")
			return nil
		}
	}

	if err := sess.SaveTemplate(c.Name, sess.Get()); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Template saved", "name", c.Name)
	ctx.printf("Saved template %q.\n", c.Name)
	return nil
}

type TemplateLoadCmd struct {
	Name string `arg:"" help:"Template name."`
}

func (c *TemplateLoadCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	if !sess.LoadTemplate(c.Name) {
		return fmt.Errorf("template not found: %s", c.Name)
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Template loaded", "name", c.Name)
	ctx.printf("Loaded template %q.\n", c.Name)
	return nil
}

type TemplateListCmd struct{}

func (c *TemplateListCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	templates := sess.Templates()
	if len(templates) == 0 {
		ctx.println("No templates found.")
		return nil
	}
	for _, name := range sess.TemplateNames() {
		tt := templates[name]
		span := "empty"
		if len(tt) > 0 {
			span = utils.FormatMinutes(tt[0].Start) + "-" + utils.FormatMinutes(tt[len(tt)-1].End())
		}
		ctx.printf("  %-20s %3d activities  %s\n", name, len(tt), span)
	}
	return nil
}

type TemplateDeleteCmd struct {
	Name string `arg:"" help:"Template name."`
}

func (c *TemplateDeleteCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	if !sess.DeleteTemplate(c.Name) {
		return fmt.Errorf("template not found: %s", c.Name)
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Template deleted", "name", c.Name)
	ctx.printf("Deleted template %q.\n", c.Name)
	return nil
}

type TemplateExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *TemplateExportCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}
	text, err := sess.ExportTemplates()
	if err != nil {
		return fmt.Errorf("failed to export templates: %w", err)
	}

	if c.Output == "" {
		ctx.println(text)
		return nil
	}
	if err := os.WriteFile(c.Output, []byte(text+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}
	ctx.printf("Exported %d template(s) to %s\n", len(sess.TemplateNames()), c.Output)
	return nil
}

type TemplateImportCmd struct {
	File string `arg:"" help:"JSON file to import, or '-' for stdin."`
	Yes  bool   `short:"y" help:"Overwrite existing templates without asking."`
}

func (c *TemplateImportCmd) Run(ctx *Context) error {
	sess, err := ctx.loadSession()
	if err != nil {
		return err
	}

	var data []byte
	if c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}
	text := string(data)

	incoming, err := state.ParseTemplates(text)
	if err != nil {
		return err
	}
	existing := sess.Templates()
	var collisions []string
	for name := range incoming {
		if _, ok := existing[name]; ok {
			collisions = append(collisions, name)
		}
	}
	sort.Strings(collisions)
	if len(collisions) > 0 {
		ok, err := confirm(fmt.Sprintf("Overwrite %s?", strings.Join(collisions, ", ")), c.Yes)
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	if err := sess.ImportTemplates(text); err != nil {
		return err
	}
	if err := ctx.saveSession(sess); err != nil {
		return err
	}
	logger.Info("Templates imported", "count", len(incoming), "overwritten", len(collisions))
	ctx.printf("Imported %d template(s).\n", len(incoming))
	return nil
}
