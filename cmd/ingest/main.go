// Command ingest builds the grantsmanship knowledge index: it extracts text
// from the source documents, chunks them by section, embeds the chunks, and
// writes everything to the sqlite index the API server loads at startup.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"grantwriter-backend/internal/extract"
	"grantwriter-backend/internal/knowledge"
	openai "grantwriter-backend/internal/llm/openai"
	"grantwriter-backend/internal/shared/config"
)

const embedBatchSize = 64

func main() {
	cfg := config.Load()
	if strings.TrimSpace(cfg.KnowledgeIndexPath) == "" {
		log.Fatal("KNOWLEDGE_INDEX_PATH must be set")
	}

	ctx := context.Background()

	chunks, err := collectChunks(ctx, cfg.KnowledgeSourceDir)
	if err != nil {
		log.Fatalf("collect chunks: %v", err)
	}
	if len(chunks) == 0 {
		log.Fatalf("no ingestable documents under %s", cfg.KnowledgeSourceDir)
	}

	embedder, err := openai.NewEmbeddingClient(os.Getenv("OPENAI_API_KEY"), cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("embedding client: %v", err)
	}
	vectors, err := embedChunks(ctx, embedder, chunks)
	if err != nil {
		log.Fatalf("embed chunks: %v", err)
	}

	index, err := knowledge.OpenIndex(cfg.KnowledgeIndexPath)
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer index.Close()

	if err := index.Add(ctx, chunks, vectors); err != nil {
		log.Fatalf("store passages: %v", err)
	}
	total, err := index.Count(ctx)
	if err != nil {
		log.Fatalf("count passages: %v", err)
	}
	log.Printf("ingested %d chunks; index now holds %d passages at %s", len(chunks), total, cfg.KnowledgeIndexPath)
}

func collectChunks(ctx context.Context, sourceDir string) ([]knowledge.Chunk, error) {
	var chunks []knowledge.Chunk
	err := filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".pdf" && ext != ".docx" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text, err := extract.TextFromBytes(ctx, data, "", d.Name())
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			return nil
		}
		fileChunks := knowledge.CreateChunks(text, d.Name())
		log.Printf("chunked %s into %d passages", d.Name(), len(fileChunks))
		chunks = append(chunks, fileChunks...)
		return nil
	})
	return chunks, err
}

func embedChunks(ctx context.Context, embedder *openai.EmbeddingClient, chunks []knowledge.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}
		batch, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
