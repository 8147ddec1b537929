package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"markup/internal/config"
	"markup/internal/css"
	"markup/internal/html"
	"markup/internal/resolver"
	"markup/pkg/markup"
)

// readSource reads a named file or STDIN when name is empty or "-"
func readSource(engine *markup.Engine, name string) (*html.Document, error) {
	if name == "" || name == "-" {
		return engine.ParseHTMLReader(os.Stdin, "")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open source '%s': %w", name, err)
	}
	defer f.Close()
	return engine.ParseHTMLReader(f, "")
}

// writeOutput writes content to a file or, when filename is empty, to the
// application writer (stdout unless replaced)
func writeOutput(cmd *cli.Command, content, filename string) error {
	if filename == "" {
		_, err := io.WriteString(cmd.Root().Writer, content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	doc, err := readSource(env.Engine, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	var sb strings.Builder
	dumpTree(&sb, doc.Root(), 0, cmd.Bool("attributes"))
	return writeOutput(cmd, sb.String(), "")
}

func dumpTree(sb *strings.Builder, n *html.Node, depth int, attrs bool) {
	for _, c := range n.Children() {
		sb.WriteString(strings.Repeat("  ", depth))
		switch c.Kind() {
		case html.ElementNode:
			sb.WriteString(c.Tag())
			if c.SelfClosing() {
				sb.WriteString(" /")
			}
			if attrs && c.Attributes().Len() > 0 {
				sb.WriteString(" [")
				sb.WriteString(c.Attributes().String())
				sb.WriteString("]")
			}
			if t := strings.TrimSpace(c.Text()); t != "" {
				fmt.Fprintf(sb, " %q", t)
			}
		case html.TextNode:
			fmt.Fprintf(sb, "#text %q", c.Text())
		case html.CommentNode:
			fmt.Fprintf(sb, "#comment %q", c.Raw())
		case html.ProcessingInstructionNode:
			fmt.Fprintf(sb, "#pi %q", c.Raw())
		}
		sb.WriteByte('\n')
		dumpTree(sb, c, depth+1, attrs)
	}
}

func runFormat(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	engine := env.Engine
	if p := cmd.String("profile"); p != "" {
		cfg := *env.Cfg
		cfg.Parser = config.Profile(p)
		engine = markup.New(cfg, env.Log)
	}

	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)
	if src != "" && src != "-" {
		if fi, err := os.Stat(src); err == nil && fi.IsDir() {
			if dst == "" {
				return errors.New("destination directory is required when source is a directory")
			}
			return formatDir(cmd, env, engine, src, dst)
		}
	}

	doc, err := readSource(engine, src)
	if err != nil {
		return err
	}
	return writeOutput(cmd, doc.String(), dst)
}

// formatDir processes all HTML files under src keeping directory structure
func formatDir(cmd *cli.Command, env *localEnv, engine *markup.Engine, src, dst string) (err error) {
	var files []string
	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".html", ".htm":
				files = append(files, path)
			}
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("unable to scan source directory: %w", walkErr)
	}
	if len(files) == 0 {
		return fmt.Errorf("no HTML files found in directory '%s'", src)
	}

	for i, path := range files {
		env.Log.Debug("Processing", zap.Int("file", i+1), zap.Int("total", len(files)), zap.String("path", path))

		doc, er := readSource(engine, path)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		rel, er := filepath.Rel(src, path)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		if er := writeOutput(cmd, doc.String(), filepath.Join(dst, rel)); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to write '%s': %w", rel, er))
		}
	}
	env.Log.Info("Formatting completed", zap.Int("files", len(files)), zap.Int("failed", len(multierr.Errors(err))))
	return err
}

func runCSS(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no stylesheet specified")
	}
	for _, name := range cmd.Args().Slice() {
		var sheet *css.Stylesheet
		if cmd.Bool("html") {
			doc, er := readSource(env.Engine, name)
			if er != nil {
				err = multierr.Append(err, er)
				continue
			}
			sheet = env.Engine.Stylesheets(doc)
		} else {
			data, er := os.ReadFile(name)
			if er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to read stylesheet '%s': %w", name, er))
				continue
			}
			sheet = env.Engine.ParseCSS(string(data))
		}
		env.Log.Debug("Stylesheet parsed", zap.String("file", name), zap.Int("entries", sheet.Len()))
		if er := writeOutput(cmd, fmt.Sprintf("/* %s */\n%s\n", name, sheet), ""); er != nil {
			err = multierr.Append(err, er)
		}
	}
	return err
}

func runStyle(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	doc, err := readSource(env.Engine, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	id := cmd.String("id")
	n := doc.GetElementByID(id)
	if n == nil {
		return fmt.Errorf("element with id '%s' not found", id)
	}

	styles := make(map[string]string)
	if props := cmd.StringSlice("property"); len(props) > 0 {
		for _, p := range props {
			styles[p] = env.Engine.ActiveStyle(n, p)
		}
	} else {
		styles = env.Engine.ActiveStyles(n)
	}

	var sb strings.Builder
	for _, name := range resolver.SortedNames(styles) {
		fmt.Fprintf(&sb, "%s: %s\n", name, styles[name])
	}
	return writeOutput(cmd, sb.String(), "")
}

func runSelect(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	selector := cmd.Args().Get(0)
	if selector == "" {
		return errors.New("no selector specified")
	}
	doc, err := readSource(env.Engine, cmd.Args().Get(1))
	if err != nil {
		return err
	}
	nodes, err := env.Engine.Select(doc, selector)
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.OuterHTML())
		sb.WriteByte('\n')
	}
	env.Log.Debug("Selection completed", zap.String("selector", selector), zap.Int("matches", len(nodes)))
	return writeOutput(cmd, sb.String(), "")
}

func runEmbed(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	src := cmd.Args().Get(0)
	if src == "" {
		return errors.New("no source specified")
	}
	doc, err := readSource(env.Engine, src)
	if err != nil {
		return err
	}
	res, err := env.Engine.EmbedImages(doc, os.DirFS(filepath.Dir(src)))
	env.Log.Info("Images processed",
		zap.Int("embedded", res.Embedded),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed))
	for _, e := range multierr.Errors(err) {
		env.Log.Warn("Image left unchanged", zap.Error(e))
	}
	return writeOutput(cmd, doc.String(), cmd.Args().Get(1))
}

func runStats(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no document specified")
	}
	for _, name := range cmd.Args().Slice() {
		doc, er := readSource(env.Engine, name)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		s := env.Engine.Stats(doc)
		out := fmt.Sprintf("%s: elements=%d text=%d comments=%d instructions=%d depth=%d style-entries=%d\n",
			name, s.Elements, s.Text, s.Comments, s.Instructions, s.MaxDepth, s.StyleEntries)
		if er := writeOutput(cmd, out, ""); er != nil {
			err = multierr.Append(err, er)
		}
	}
	return err
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data  []byte
		err   error
		state = "actual"
	)
	if cmd.Bool("default") {
		state = "default"
		cfg := config.Default()
		data, err = config.Dump(&cfg)
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	env.Log.Debug("Outputing configuration", zap.String("state", state), zap.String("file", fname))
	if err := writeOutput(cmd, string(data), fname); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
