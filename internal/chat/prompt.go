package chat

import (
	"fmt"
	"strings"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/extract"
	"docpipe-backend/internal/llm"
)

const documentSystemPrompt = `You are an assistant for a solar installation and roof coatings contractor.
Answer questions using only the document provided.
If the answer is not contained in the document, say so clearly.
Always cite the document name and its storage location in your answer.`

const bulkSystemPrompt = `You are an assistant for a solar installation and roof coatings contractor.
Answer the question using the document excerpts provided.
Give a comprehensive answer and reference the specific documents you relied on by name.
If the excerpts do not contain the answer, say so clearly.`

func documentMessages(doc documents.Document, question string, history []Turn) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Document name: %s\n", doc.FileName)
	fmt.Fprintf(&b, "Document location: %s\n", doc.FilePath)
	fmt.Fprintf(&b, "Document category: %s\n\n", doc.DocumentCategory)
	b.WriteString("Document content:\n")
	b.WriteString(doc.ExtractedText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)

	messages := []llm.Message{{Role: llm.RoleSystem, Content: documentSystemPrompt}}
	messages = append(messages, historyMessages(history)...)
	return append(messages, llm.Message{Role: llm.RoleUser, Content: b.String()})
}

func bulkMessages(query string, docs []documents.Document) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching documents.\n\n", len(docs))
	for i, doc := range docs {
		excerpt, _ := extract.Truncate(doc.ExtractedText, BulkContextChars)
		fmt.Fprintf(&b, "Document %d: %s (category: %s, location: %s)\n%s\n\n", i+1, doc.FileName, doc.DocumentCategory, doc.FilePath, excerpt)
	}
	b.WriteString("Question: ")
	b.WriteString(query)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: bulkSystemPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

// historyMessages keeps the most recent user and assistant turns.
func historyMessages(history []Turn) []llm.Message {
	var out []llm.Message
	for _, turn := range history {
		role := strings.ToLower(strings.TrimSpace(turn.Role))
		if role != llm.RoleUser && role != llm.RoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		out = append(out, llm.Message{Role: role, Content: turn.Content})
	}
	if len(out) > MaxHistoryTurns {
		out = out[len(out)-MaxHistoryTurns:]
	}
	return out
}
