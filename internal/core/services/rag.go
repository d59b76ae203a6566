package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

// Generation defaults.
const (
	DefaultTemperature     = 0.1
	DefaultMaxOutputTokens = 1024

	// maxPromptContextLength clamps the context embedded in the prompt.
	maxPromptContextLength = 3000
)

// User-facing fallback answers. The pipeline never surfaces raw errors
// to the end user; each failure kind maps to one of these.
const (
	answerNoQuestion = "I didn't receive a question. Please ask me something about financial literacy."

	answerPipelineError = "I apologize, but I encountered an error while processing your question. " +
		"Please try again."

	answerGenerationUnavailable = "I'm experiencing technical difficulties right now. " +
		"Please try again later."

	answerGenerationBlocked = "I can't answer that as asked. " +
		"Please rephrase your question and avoid sensitive phrasing."

	answerEmptyGeneration = "I couldn't generate a response. Please try rephrasing your question."
)

// Prompt templates. Both take their placeholders via fmt.Sprintf: the
// grounded template receives (context, question), the ungrounded one
// receives (question).
const (
	DefaultGroundedPrompt = `You are a knowledgeable financial advisor. Based on the provided information, give a clear and helpful answer.

Financial Information:
%s

User Question: %s

Please provide a practical answer that helps the user understand the topic. Use simple language and include specific details when helpful.`

	DefaultUngroundedPrompt = `You are a knowledgeable financial advisor. Answer this question with clear, practical advice.

User Question: %s

Please provide a helpful answer using your knowledge of finance and investments. Use simple language that anyone can understand.`
)

// RAGConfig holds orchestrator defaults. Zero values fall back to the
// package defaults.
type RAGConfig struct {
	// TopK is the default number of chunks to retrieve.
	TopK int

	// ScoreThreshold is the default minimum similarity.
	ScoreThreshold float64

	// Temperature is the default generation temperature.
	Temperature float64

	// MaxOutputTokens bounds the generated answer length.
	MaxOutputTokens int

	// GroundedPrompt overrides the prompt template used when context is
	// available. Must contain two %s placeholders (context, question).
	GroundedPrompt string

	// UngroundedPrompt overrides the prompt template used without
	// context. Must contain one %s placeholder (question).
	UngroundedPrompt string
}

// RAGService orchestrates the retrieval-augmented answer pipeline:
// embed the question, retrieve chunks, assemble context, generate. Each
// call is one linear synchronous pass; concurrent calls share no
// mutable state.
type RAGService struct {
	retriever driving.Retriever
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	llm       driven.LLMService
	cfg       RAGConfig
}

// NewRAGService creates the orchestrator. The embedder and index are
// used for status reporting; retrieval goes through the retriever.
func NewRAGService(
	retriever driving.Retriever,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
	cfg RAGConfig,
) *RAGService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = DefaultScoreThreshold
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.GroundedPrompt == "" {
		cfg.GroundedPrompt = DefaultGroundedPrompt
	}
	if cfg.UngroundedPrompt == "" {
		cfg.UngroundedPrompt = DefaultUngroundedPrompt
	}
	return &RAGService{
		retriever: retriever,
		embedder:  embedder,
		index:     index,
		llm:       llm,
		cfg:       cfg,
	}
}

// Query answers a single question. Failures anywhere in the pipeline
// are converted into a safe answer with the Err field set; the method
// always returns a usable response object.
func (s *RAGService) Query(
	ctx context.Context, question string, opts driving.QueryOptions,
) *domain.QueryResponse {
	return s.answer(ctx, question, opts, DefaultQueryContextLength)
}

// Chat answers the most recent user turn of a conversation. With no
// user turn present it short-circuits to a fixed answer without calling
// any external capability.
func (s *RAGService) Chat(
	ctx context.Context, messages []domain.ChatMessage, opts driving.QueryOptions,
) *domain.ChatResponse {
	latest, ok := domain.LatestUserMessage(messages)
	if !ok {
		logger.Debug("Chat: no user message, short-circuiting")
		return &domain.ChatResponse{
			QueryResponse: domain.QueryResponse{
				Answer:  answerNoQuestion,
				Sources: []domain.Source{},
			},
			Messages: messages,
		}
	}

	resp := s.answer(ctx, latest.Content, opts, DefaultChatContextLength)
	return &domain.ChatResponse{
		QueryResponse: *resp,
		Messages:      messages,
	}
}

// answer is the shared pipeline behind Query and Chat.
func (s *RAGService) answer(
	ctx context.Context, question string, opts driving.QueryOptions, maxContextLength int,
) *domain.QueryResponse {
	logger.Section("RAG Pipeline")
	logger.Debug("Question: %q", question)

	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	threshold := opts.ScoreThreshold
	if threshold < 0 {
		threshold = s.cfg.ScoreThreshold
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = s.cfg.Temperature
	}

	// Retrieval runs only when context is requested; an empty result
	// set is fine and leads to ungrounded generation.
	var results []domain.RetrievalResult
	if opts.IncludeContext {
		var err error
		results, err = s.retriever.Retrieve(ctx, question, driving.RetrieveOptions{
			TopK:           topK,
			ScoreThreshold: threshold,
			Strategy:       driving.StrategySingle,
		})
		if err != nil {
			logger.Warn("Retrieval failed: %v", err)
			return s.failedResponse(question, answerPipelineError, err)
		}
		logger.Debug("Retrieved %d chunks", len(results))
	}

	contextText := BuildContext(results, maxContextLength)
	logger.Debug("Assembled context: %d characters", len(contextText))

	prompt := s.buildPrompt(question, contextText)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: temperature,
		MaxTokens:   s.cfg.MaxOutputTokens,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		switch {
		case errors.Is(err, domain.ErrGenerationBlocked):
			return s.failedResponse(question, answerGenerationBlocked, err)
		case errors.Is(err, domain.ErrGenerationUnavailable):
			return s.failedResponse(question, answerGenerationUnavailable, err)
		default:
			return s.failedResponse(question, answerPipelineError, err)
		}
	}

	// Degenerate but successful output is non-fatal: keep the sources
	// so the caller can still show what was retrieved.
	answer = strings.TrimSpace(answer)
	if answer == "" {
		logger.Warn("Generation returned empty output")
		answer = answerEmptyGeneration
	}

	sources := make([]domain.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, domain.NewSource(r))
	}

	logger.Info("Generated answer with %d sources", len(sources))
	return &domain.QueryResponse{
		Question:    question,
		Answer:      answer,
		Sources:     sources,
		ContextUsed: contextText != "",
		NumSources:  len(sources),
	}
}

// Status reports component health and collection info.
func (s *RAGService) Status(ctx context.Context) *domain.SystemStatus {
	healthy := s.index.Health(ctx)

	info, err := s.index.Info(ctx)
	if err != nil {
		logger.Warn("Collection info unavailable: %v", err)
		healthy = false
	}

	if err := s.embedder.Ping(ctx); err != nil {
		logger.Warn("Embedding service unreachable: %v", err)
		healthy = false
	}
	if err := s.llm.Ping(ctx); err != nil {
		logger.Warn("LLM service unreachable: %v", err)
		healthy = false
	}

	return &domain.SystemStatus{
		Healthy:            healthy,
		Collection:         info,
		EmbeddingModel:     s.embedder.ModelName(),
		EmbeddingDimension: s.embedder.Dimensions(),
		LLMModel:           s.llm.ModelName(),
		TopK:               s.cfg.TopK,
		ScoreThreshold:     s.cfg.ScoreThreshold,
	}
}

// buildPrompt renders the generation prompt, clamping oversized context.
func (s *RAGService) buildPrompt(question, context string) string {
	if context == "" {
		return fmt.Sprintf(s.cfg.UngroundedPrompt, question)
	}
	if len(context) > maxPromptContextLength {
		context = context[:maxPromptContextLength] + "..."
	}
	return fmt.Sprintf(s.cfg.GroundedPrompt, context, question)
}

// failedResponse wraps a pipeline failure in a safe response object.
// The raw error goes into Err for diagnostics, never into Answer.
func (s *RAGService) failedResponse(question, answer string, err error) *domain.QueryResponse {
	return &domain.QueryResponse{
		Question:    question,
		Answer:      answer,
		Sources:     []domain.Source{},
		ContextUsed: false,
		Err:         err.Error(),
	}
}
