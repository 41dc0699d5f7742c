package modules

import (
	"bytes"
	"strings"

	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownModule renders <m-markdown> blocks. The generated HTML is sanitized
// before it is spliced into the tree.
type MarkdownModule struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdownModule() *MarkdownModule {
	return &MarkdownModule{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithXHTML(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

func (m *MarkdownModule) Name() string { return "markdown" }

func (m *MarkdownModule) EnterNode(ctx *engine.NodeContext) error {
	if !ctx.Node.IsTag("m-markdown") {
		return nil
	}

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(dedent(ctx.Node.TextContent())), &buf); err != nil {
		return engine.Wrap(engine.ErrInvalidSectionContent, err, "cannot render markdown")
	}

	root, err := dom.ParseFragment(bytes.NewReader(m.policy.SanitizeBytes(buf.Bytes())))
	if err != nil {
		return engine.Wrap(engine.ErrInvalidSectionContent, err, "cannot parse rendered markdown")
	}
	ctx.Replace(root.DetachChildren()...)
	return nil
}

// dedent strips the indentation shared by every non-blank line, so markdown
// nested in indented markup is not read as a code block.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || indent < prefix {
			prefix = indent
		}
	}
	if prefix <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= prefix {
			lines[i] = line[prefix:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
