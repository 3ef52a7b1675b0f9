package content

import (
	"strings"
	"text/template"
)

type updatePromptFields struct {
	Platform        string
	Guidance        string
	OriginalContent string
	UpdatePrompt    string
}

const updatePrompt = `You are an expert social media editor. Rewrite the post below for {{ .Platform }} according to the edit instruction.

Original post:
{{ .OriginalContent }}

Edit instruction:
{{ .UpdatePrompt }}

Platform style guidance:
{{ .Guidance }}

Rules:
- Preserve the core message of the original post.
- Preserve the original tone unless the instruction says otherwise.
- Keep existing hashtags unless the instruction says to change them.
- Keep all @mentions and links intact.
- Respect the platform's length limits.
- Return ONLY the rewritten post content, with no commentary or quotes.`

var updatePromptTmpl = template.Must(template.New("updatePrompt").Parse(updatePrompt))

// ComposeUpdatePrompt builds the single instruction sent to the AI backend
// for an edit of an existing post.
func ComposeUpdatePrompt(platform, originalContent, instruction string) string {
	var b strings.Builder
	// The template only references fields of the struct, so Execute cannot fail.
	_ = updatePromptTmpl.Execute(&b, updatePromptFields{
		Platform:        platform,
		Guidance:        Guidance(platform),
		OriginalContent: originalContent,
		UpdatePrompt:    instruction,
	})
	return b.String()
}

type generatePromptFields struct {
	Platform string
	Guidance string
	Topic    string
	Tone     string
}

const generatePrompt = `You are an expert social media copywriter. Write a single post for {{ .Platform }}.

Topic:
{{ .Topic }}
{{ if .Tone }}
Desired tone: {{ .Tone }}
{{ end }}
Platform style guidance:
{{ .Guidance }}

Rules:
- Respect the platform's length limits.
- Return ONLY the post content, with no commentary or quotes.`

var generatePromptTmpl = template.Must(template.New("generatePrompt").Parse(generatePrompt))

// ComposeGeneratePrompt builds the instruction for generating a brand new post.
func ComposeGeneratePrompt(platform, topic, tone string) string {
	var b strings.Builder
	_ = generatePromptTmpl.Execute(&b, generatePromptFields{
		Platform: platform,
		Guidance: Guidance(platform),
		Topic:    topic,
		Tone:     tone,
	})
	return b.String()
}
