// Package knowledge turns grantsmanship reference documents into retrievable
// passages: structure-aware chunking, a sqlite-backed passage index with
// stored embeddings, and cosine top-K retrieval.
package knowledge

import (
	"regexp"
	"strings"
)

const (
	chunkSize    = 850
	chunkOverlap = 120
)

// Section classification tags, assigned first match wins.
const (
	TypeEligibility   = "ELIGIBILITY"
	TypeEvaluation    = "EVALUATION"
	TypeBudget        = "BUDGET"
	TypeMission       = "MISSION"
	TypeProgram       = "PROGRAM"
	TypeReadiness     = "READINESS"
	TypeTGCIPrinciple = "TGCI_PRINCIPLE"
)

// Chunk is one passage of a source document, tagged with the heading it fell
// under and a coarse topic classification.
type Chunk struct {
	Content string
	Section string
	Source  string
	Type    string
}

// headingPattern matches a line that reads as a document heading: an
// all-caps run of at least six characters, or a numbered title such as
// "3. Budget Requirements".
var headingPattern = regexp.MustCompile(`^([A-Z][A-Z\s]{5,}|[0-9]+\.\s+[A-Z].+)$`)

type section struct {
	title string
	body  string
}

// splitByStructure partitions the text into heading-delimited sections. Text
// before the first heading lands in a section titled "GENERAL".
func splitByStructure(text string) []section {
	var sections []section
	title := "GENERAL"
	var buffer strings.Builder

	flush := func() {
		body := strings.TrimSpace(buffer.String())
		if body != "" {
			sections = append(sections, section{title: title, body: body})
		}
		buffer.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && headingPattern.MatchString(trimmed) {
			flush()
			title = trimmed
			continue
		}
		buffer.WriteString(line)
		buffer.WriteString("\n")
	}
	flush()
	return sections
}

// splitText slices a section body into chunks of at most chunkSize
// characters with chunkOverlap characters of trailing context carried into
// the next chunk. Breaks prefer paragraph and word boundaries.
func splitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}
		cut := breakPoint(text[start:end])
		if cut <= 0 {
			cut = chunkSize
		}
		chunk := strings.TrimSpace(text[start : start+cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		next := start + cut - chunkOverlap
		if next <= start {
			next = start + cut
		}
		start = next
	}
	return chunks
}

// breakPoint finds the best split offset inside a window: last blank line,
// else last newline, else last space in the trailing half.
func breakPoint(window string) int {
	if idx := strings.LastIndex(window, "\n\n"); idx > chunkSize/2 {
		return idx
	}
	if idx := strings.LastIndex(window, "\n"); idx > chunkSize/2 {
		return idx
	}
	if idx := strings.LastIndex(window, " "); idx > chunkSize/2 {
		return idx
	}
	return len(window)
}

// CreateChunks splits a document into classified, overlapping chunks.
func CreateChunks(text, sourceName string) []Chunk {
	var chunks []Chunk
	for _, sec := range splitByStructure(text) {
		for _, piece := range splitText(sec.body) {
			chunks = append(chunks, Chunk{
				Content: piece,
				Section: sec.title,
				Source:  sourceName,
				Type:    ClassifySection(sec.title),
			})
		}
	}
	return chunks
}

// ClassifySection maps a section heading onto a topic tag. Checks run in a
// fixed order and the first match wins; anything unmatched is a general
// grantsmanship principle.
func ClassifySection(sectionTitle string) string {
	title := strings.ToLower(sectionTitle)
	switch {
	case strings.Contains(title, "eligibility"):
		return TypeEligibility
	case strings.Contains(title, "evaluation"), strings.Contains(title, "measure"):
		return TypeEvaluation
	case strings.Contains(title, "budget"), strings.Contains(title, "finance"):
		return TypeBudget
	case strings.Contains(title, "mission"), strings.Contains(title, "purpose"):
		return TypeMission
	case strings.Contains(title, "program"), strings.Contains(title, "activities"):
		return TypeProgram
	case strings.Contains(title, "readiness"), strings.Contains(title, "capacity"):
		return TypeReadiness
	default:
		return TypeTGCIPrinciple
	}
}
