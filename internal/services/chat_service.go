package services

import (
	"context"
	"encoding/json"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sailsmart/sailsmart/internal/assistant"
	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

// ChatService runs one assistant turn end to end: classify, sanitize, scope
// tools, call the model, execute tool calls, and sanitize the reply.
type ChatService interface {
	Chat(ctx context.Context, userID string, req *models.ChatRequest) (*models.ChatResponse, error)
}

const (
	historyMessages = 12
	// maxToolRounds bounds the model-tool loop so a misbehaving model cannot
	// spin forever.
	maxToolRounds = 4
)

type chatService struct {
	llm           assistant.ChatClient
	model         string
	classifier    *assistant.Classifier
	executor      *assistant.Executor
	contexts      ContextService
	conversations repositories.ConversationRepository
	pending       repositories.PendingActionRepository
	logger        *zap.Logger
}

func NewChatService(
	llm assistant.ChatClient,
	model string,
	classifier *assistant.Classifier,
	executor *assistant.Executor,
	contexts ContextService,
	conversations repositories.ConversationRepository,
	pending repositories.PendingActionRepository,
	logger *zap.Logger,
) ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &chatService{
		llm:           llm,
		model:         model,
		classifier:    classifier,
		executor:      executor,
		contexts:      contexts,
		conversations: conversations,
		pending:       pending,
		logger:        logger,
	}
}

func (s *chatService) Chat(ctx context.Context, userID string, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req == nil || req.Message == "" {
		return nil, apperrors.New(apperrors.CodeInvalidValue, "message is required")
	}

	conversation, err := s.ensureConversation(ctx, userID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	classification := s.classifier.Classify(ctx, req.Message)
	if classification.Intent == assistant.IntentClarificationRequest {
		// nothing reaches the main model this turn
		s.persistTurn(ctx, conversation.ID, req.Message, classification.Message)
		return &models.ChatResponse{
			ConversationID: conversation.ID,
			Message:        classification.Message,
		}, nil
	}

	uc, err := s.contexts.BuildUserContext(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not assemble user context")
	}

	sanitizedContext, err := assistant.SanitizeContext(uc, classification.Intent)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not sanitize context")
	}
	sanitizedMessage := assistant.SanitizeMessage(req.Message)

	tools := assistant.PrioritizeTools(classification.Intent, uc.Roles, sanitizedMessage, uc)
	systemPrompt, err := assistant.BuildSystemPrompt(classification.Intent, sanitizedContext, tools)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	messages = append(messages, s.historyFor(ctx, conversation.ID)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: sanitizedMessage,
	})

	actor := assistant.Actor{UserID: userID, Roles: uc.Roles, ConversationID: &conversation.ID}
	reply, pendingIDs, err := s.runModelLoop(ctx, messages, assistant.OpenAITools(tools), actor)
	if err != nil {
		return nil, err
	}

	reply = assistant.SanitizeResponse(reply)
	s.persistTurn(ctx, conversation.ID, req.Message, reply)
	if len(pendingIDs) > 0 {
		s.contexts.Invalidate(userID)
	}

	resp := &models.ChatResponse{ConversationID: conversation.ID, Message: reply}
	for _, id := range pendingIDs {
		action, err := s.pending.GetByID(ctx, id)
		if err != nil || action == nil {
			continue
		}
		resp.PendingActions = append(resp.PendingActions, action)
	}
	return resp, nil
}

// runModelLoop alternates model turns and tool execution until the model
// answers in text. Tool calls within a turn run concurrently.
func (s *chatService) runModelLoop(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
	tools []openai.Tool,
	actor assistant.Actor,
) (string, []string, error) {
	var pendingIDs []string

	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    s.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return "", nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "assistant is unavailable")
		}
		if len(resp.Choices) == 0 {
			return "", nil, apperrors.New(apperrors.CodeExecutionError, "assistant returned no reply")
		}
		choice := resp.Choices[0].Message

		if len(choice.ToolCalls) == 0 {
			return choice.Content, pendingIDs, nil
		}

		messages = append(messages, choice)
		results := s.executeToolCalls(ctx, choice.ToolCalls, actor)
		for i, result := range results {
			if result.Error == "" {
				if id := pendingActionID(result.Result); id != "" {
					pendingIDs = append(pendingIDs, id)
				}
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: choice.ToolCalls[i].ID,
				Name:       result.Name,
				Content:    encodeToolResult(result),
			})
		}
	}

	return "", nil, apperrors.New(apperrors.CodeExecutionError, "assistant did not finish within the tool budget")
}

// executeToolCalls runs one model turn's tool calls concurrently, preserving
// result order.
func (s *chatService) executeToolCalls(ctx context.Context, calls []openai.ToolCall, actor assistant.Actor) []models.ToolResult {
	results := make([]models.ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call openai.ToolCall) {
			defer wg.Done()
			results[i] = s.executor.ExecuteTool(ctx, models.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: json.RawMessage(call.Function.Arguments),
			}, actor)
		}(i, call)
	}
	wg.Wait()
	return results
}

func encodeToolResult(result models.ToolResult) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return `{"error":"tool result could not be serialized"}`
	}
	return string(raw)
}

// pendingActionID extracts the created action id from an action tool payload.
func pendingActionID(payload interface{}) string {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := m["pendingActionId"].(string)
	return id
}

func (s *chatService) ensureConversation(ctx context.Context, userID string, conversationID *string) (*models.Conversation, error) {
	if conversationID != nil && *conversationID != "" {
		conversation, err := s.conversations.GetByID(ctx, *conversationID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load conversation")
		}
		if conversation == nil {
			return nil, apperrors.New(apperrors.CodeNotFound, "conversation %s not found", *conversationID)
		}
		if conversation.UserID != userID {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "conversation belongs to another user")
		}
		return conversation, nil
	}
	conversation := &models.Conversation{UserID: userID}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not create conversation")
	}
	return conversation, nil
}

// historyFor loads recent turns as model messages. History failures degrade
// to an empty history rather than failing the turn.
func (s *chatService) historyFor(ctx context.Context, conversationID string) []openai.ChatCompletionMessage {
	stored, err := s.conversations.ListMessages(ctx, conversationID, historyMessages)
	if err != nil {
		s.logger.Warn("could not load conversation history", zap.Error(err))
		return nil
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(stored))
	for _, m := range stored {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: assistant.SanitizeMessage(m.Content)})
	}
	return messages
}

// persistTurn stores the user and assistant messages. Storage failures are
// logged; the reply is already computed and still returned.
func (s *chatService) persistTurn(ctx context.Context, conversationID, userMessage, reply string) {
	if err := s.conversations.AppendMessage(ctx, &models.ConversationMessage{
		ConversationID: conversationID,
		Role:           "user",
		Content:        userMessage,
	}); err != nil {
		s.logger.Warn("could not store user message", zap.Error(err))
	}
	if err := s.conversations.AppendMessage(ctx, &models.ConversationMessage{
		ConversationID: conversationID,
		Role:           "assistant",
		Content:        reply,
	}); err != nil {
		s.logger.Warn("could not store assistant message", zap.Error(err))
	}
}
