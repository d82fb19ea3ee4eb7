package rewrite

import (
	"strings"
)

const promptHeader = `
You are an English-language financial journalist.

Rewrite the following Chinese financial news article.

Requirements:
1. Generate a concise, professional English news headline.
2. Rewrite the article into fluent, neutral, professional English.
3. DO NOT translate literally — rewrite based on meaning.
4. Preserve all facts, numbers, and entities.
5. Use a Western news structure.
6. Add 1–2 short paragraphs of original analysis or global context.
7. Return output in STRICT JSON format exactly as follows:

{
  "title": "English headline here",
  "content": "<p>HTML paragraph 1</p><p>HTML paragraph 2</p>"
}

Rules:
- Use ONLY <p> tags in content
- Do NOT use Markdown
- Do NOT include explanations outside JSON

-------------------------------
`

const promptRule = "-------------------------------\n"

// BuildPrompt returns the rewrite instructions for a Chinese article with
// the original title and body embedded.
func BuildPrompt(title, content string) string {
	var b strings.Builder

	b.WriteString(promptHeader)
	b.WriteString("【原始中文标题】\n")
	b.WriteString(title)
	b.WriteString("\n\n【原始中文正文】\n")
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(promptRule)

	return b.String()
}
