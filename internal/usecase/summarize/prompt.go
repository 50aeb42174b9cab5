package summarize

import (
	"fmt"

	"feeddigest/internal/utils/text"
)

// maxInputTokens bounds the article content portion of the prompt. The
// conversion to characters assumes ~4 chars per token, deliberately
// conservative.
const (
	maxInputTokens    = 2000
	approxCharsPerTok = 4
)

const summarySystemPrompt = `You are an AI content summarizer. Given an article title and text, produce a JSON object with exactly these fields:

{
  "eli5": "Explain like I'm 5 — simple, accessible summary",
  "eli16": "Explain like I'm 16 — more technical, includes key details",
  "why_this_matters": "Why this is important or relevant",
  "what_changed": "What's new or different from before",
  "key_quotes": ["Array of genuinely useful quotes from the text, or empty array if none"],
  "confidence_unknowns": "What you're not sure about or what's missing from the source"
}

Rules:
- Output ONLY valid JSON, no markdown fences, no extra text
- All fields are required
- Keep each field to 1-2 sentences max
- key_quotes: max 2 quotes, or empty array [] if none are genuinely useful
- confidence_unknowns: 1 sentence max
- If the content is too short or unclear, do your best and note limitations in confidence_unknowns`

const repairSystemPrompt = "Fix this JSON."

const repairPromptTemplate = `The following text was supposed to be valid JSON but isn't. Fix it and return ONLY the corrected JSON object. Do not add markdown fences or explanation.

Invalid JSON:
%s`

func userPrompt(title, content string) string {
	return fmt.Sprintf("Title: %s\n\nContent:\n%s", title, content)
}

func repairPrompt(raw string) string {
	return fmt.Sprintf(repairPromptTemplate, raw)
}

// truncateForInput cuts content to the input token budget, appending a
// marker so the model knows the text ends mid-article.
func truncateForInput(content string) string {
	maxChars := maxInputTokens * approxCharsPerTok
	if text.CountRunes(content) <= maxChars {
		return content
	}
	return text.TruncateRunes(content, maxChars) + "\n[truncated]"
}
