package gpt

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	VariantRefined = "refined"
	VariantLegacy  = "legacy"
)

const (
	legacyPersona  = "You are a helpful assistant."
	refinedPersona = "You are an experienced legal and business writer who drafts official documents. " +
		"Produce a complete, formally worded document that is ready to print and sign. " +
		"Use plain text only: no Markdown, no code fences, no commentary before or after the document. " +
		"Keep the language of the user's request. Where details are missing, leave clearly marked blanks " +
		"such as [__________] instead of inventing facts."
)

// BuildMessages composes the system and user messages for one document request.
// The caller's text is embedded verbatim.
func BuildMessages(variant, documentType, userInput string) []openai.ChatCompletionMessage {
	persona, instruction := refinedPersona, refinedInstruction(documentType, userInput)
	if variant == VariantLegacy {
		persona = legacyPersona
		instruction = fmt.Sprintf("Создай официальный документ типа %s на основе следующих данных: %s", documentType, userInput)
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: persona},
		{Role: openai.ChatMessageRoleUser, Content: instruction},
	}
}

func refinedInstruction(documentType, userInput string) string {
	var b strings.Builder
	b.WriteString("Составь официальный документ")
	if documentType != "" {
		fmt.Fprintf(&b, " типа «%s»", documentType)
	}
	b.WriteString(" по следующему запросу.\n\n")
	b.WriteString(userInput)
	return b.String()
}
