package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/Jolt-Capital/langelot/pkg/models"
)

const defaultMaxTokens = 4096

// maxRetrievalUses bounds how many searches a single retrieval-augmented
// call may issue.
const maxRetrievalUses = 5

var filesBetas = []anthropic.AnthropicBeta{anthropic.AnthropicBetaFilesAPI2025_04_14}

// Generate issues one plain generation call and returns the text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     c.resolveModel(req.Model),
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate: %w", errors.Join(ErrGeneration, err))
	}

	usage := c.recordUsage(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return GenerateResponse{Text: collectText(resp.Content), Usage: usage}, nil
}

// GenerateWithRetrieval issues one generation call with the web search
// server tool enabled and harvests source citations from the response.
func (c *Client) GenerateWithRetrieval(ctx context.Context, prompt, model string) (RetrievalResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     c.resolveModel(model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
					MaxUses: anthropic.Int(maxRetrievalUses),
				},
			},
		},
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return RetrievalResponse{}, fmt.Errorf("generate with retrieval: %w", errors.Join(ErrRetrieval, err))
	}

	usage := c.recordUsage(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return RetrievalResponse{
		Text:      collectText(resp.Content),
		Citations: collectCitations(resp.Content),
		Usage:     usage,
	}, nil
}

// UploadDocument uploads a local file to the service's file storage and
// returns its remote identity.
func (c *Client) UploadDocument(ctx context.Context, localPath string) (Upload, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Upload{}, fmt.Errorf("upload document: %w", errors.Join(ErrUpload, err))
	}
	defer f.Close()

	name := filepath.Base(localPath)
	meta, err := c.inner.Beta.Files.Upload(ctx, anthropic.BetaFileUploadParams{
		File:  anthropic.File(f, name, mimeTypeFor(localPath)),
		Betas: filesBetas,
	})
	if err != nil {
		return Upload{}, fmt.Errorf("upload document %s: %w", name, errors.Join(ErrUpload, err))
	}

	return Upload{
		RemoteID:    meta.ID,
		ByteSize:    meta.SizeBytes,
		DisplayName: meta.Filename,
	}, nil
}

// GenerateWithDocuments issues one generation call whose user message
// references previously uploaded documents by remote ID.
func (c *Client) GenerateWithDocuments(ctx context.Context, prompt string, remoteIDs []string, model string) (GenerateResponse, error) {
	blocks := make([]anthropic.BetaContentBlockParamUnion, 0, len(remoteIDs)+1)
	for _, id := range remoteIDs {
		blocks = append(blocks, anthropic.BetaContentBlockParamUnion{
			OfDocument: &anthropic.BetaRequestDocumentBlockParam{
				Source: anthropic.BetaRequestDocumentBlockSourceUnionParam{
					OfFile: &anthropic.BetaFileDocumentSourceParam{FileID: id},
				},
			},
		})
	}
	blocks = append(blocks, anthropic.NewBetaTextBlock(prompt))

	resp, err := c.inner.Beta.Messages.New(ctx, anthropic.BetaMessageNewParams{
		Model:     c.resolveModel(model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.BetaMessageParam{
			anthropic.NewBetaUserMessage(blocks...),
		},
		Betas: filesBetas,
	})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate with documents: %w", errors.Join(ErrGeneration, err))
	}

	usage := c.recordUsage(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return GenerateResponse{Text: collectBetaText(resp.Content), Usage: usage}, nil
}

func (c *Client) recordUsage(input, output int64) models.TokenUsage {
	c.tracker.Add(input, output)
	return models.TokenUsage{PromptTokens: input, CompletionTokens: output}
}

func maxTokensOrDefault(n int64) int64 {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}

// collectText concatenates the text blocks of a response.
func collectText(content []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}

func collectBetaText(content []anthropic.BetaContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range content {
		if text, ok := block.AsAny().(anthropic.BetaTextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}

// collectCitations gathers web search citations from text blocks,
// de-duplicated by URL in document order.
func collectCitations(content []anthropic.ContentBlockUnion) []models.SourceCitation {
	var citations []models.SourceCitation
	seen := make(map[string]bool)

	for _, block := range content {
		text, ok := block.AsAny().(anthropic.TextBlock)
		if !ok {
			continue
		}
		for _, cit := range text.Citations {
			loc, ok := cit.AsAny().(anthropic.CitationsWebSearchResultLocation)
			if !ok || loc.URL == "" || seen[loc.URL] {
				continue
			}
			seen[loc.URL] = true
			citations = append(citations, models.SourceCitation{
				Title:   loc.Title,
				URL:     loc.URL,
				Snippet: loc.CitedText,
			})
		}
	}
	return citations
}

// mimeTypeFor maps the accepted document extensions to content types.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
