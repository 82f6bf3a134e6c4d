package services

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// defaultPrompts are the built-in prompt templates.
// They are used when no PromptStore is configured and seed the on-disk files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSummarise: `你是一名科技情报分析师，关注{{.Topic}}。请阅读新闻标题，用中文生成一段约 80-120 字的深度解读。
{{- if .Gatekept}}
如果这条新闻与上述主题无关，只回复 {{.Sentinel}}，不要输出任何其他内容。
{{- end}}
格式要求：
1. 【核心内容】：简述发生了什么。
2. 【关键意义】：对行业意味着什么。
不要使用Markdown格式。`,

	driven.PromptSummarisePaper: `你是一名学术助手，关注{{.Topic}}。请阅读论文标题{{if .HasAbstract}}和摘要{{end}}，用中文简述其研究方向和核心创新点（80字左右）。
{{- if .Gatekept}}
如果这篇论文与上述主题无关，只回复 {{.Sentinel}}，不要输出任何其他内容。
{{- end}}
不要使用Markdown格式。`,

	driven.PromptDigest: `你是一名科技日报编辑。今天的日期是 {{.Date}}。
请根据用户提供的条目，为{{.Topic}}领域写一段不超过 {{.MaxChars}} 字的中文日报综述，以 "{{.Date}} AI 日报" 开头。
日期必须写为 {{.Date}}，不要推测或改写日期。不要使用Markdown格式。`,
}

// DefaultPrompts returns a copy of the built-in prompt templates keyed by name.
func DefaultPrompts() map[string]string {
	out := make(map[string]string, len(defaultPrompts))
	for name, content := range defaultPrompts {
		out[name] = content
	}
	return out
}

// promptData holds the fields available to prompt templates.
type promptData struct {
	Topic       string
	Sentinel    string
	Gatekept    bool
	HasAbstract bool
	Date        string
	MaxChars    int
}

// renderPrompt loads the named template and executes it against data.
// A store failure or a template that does not parse falls back to the
// built-in default.
func renderPrompt(store driven.PromptStore, name string, data promptData) (string, error) {
	text := defaultPrompts[name]
	if store != nil {
		if loaded, err := store.Load(name); err == nil && loaded != "" {
			text = loaded
		}
	}

	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		tmpl, err = template.New(name).Parse(defaultPrompts[name])
		if err != nil {
			return "", fmt.Errorf("parse prompt %q: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}
