package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louay-ouledali/folio/internal/portfolio"
)

// NoInformationReply is the sentence the assistant must use when the answer
// is not present in the portfolio context.
const NoInformationReply = "I don't have that information in my current database, but I can tell you about his projects or skills!"

// BuildSystemPrompt renders the portfolio context and the assistant's
// behavioural rules into a single instruction text. The output depends only
// on c, so the same context always yields byte-identical prompts.
func BuildSystemPrompt(c portfolio.Context) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling portfolio context: %w", err)
	}

	name := c.DisplayName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the AI Assistant for **%s's Portfolio**.\n", c.Name)
	fmt.Fprintf(&sb, "Your goal is to answer questions about %s based strictly on the context provided below.\n\n", name)
	sb.WriteString("**Tone:** Professional, enthusiastic, and concise.\n")
	fmt.Fprintf(&sb, "**Role:** Act as a representative of %s. Use \"he\" or \"%s\" when referring to him, "+
		"or \"I\" if you want to be playful (but clarify you are his AI).\n\n", name, name)
	sb.WriteString("**Context Data:**\n")
	sb.Write(data)
	sb.WriteString("\n\n**Rules:**\n")
	fmt.Fprintf(&sb, "1. If the answer is not in the context, say: %q\n", NoInformationReply)
	sb.WriteString("2. Keep answers short (under 3-4 sentences) unless asked for details.\n")
	sb.WriteString("3. If asked about contact info, provide his email or LinkedIn from the context.\n")
	sb.WriteString("4. Do not hallucinate skills he doesn't have.\n")

	return sb.String(), nil
}

// EstimateTokens provides a rough token count using 4 chars per token heuristic.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
