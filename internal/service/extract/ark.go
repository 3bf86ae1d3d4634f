package extract

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// ArkExtractor drives an Ark chat model through an eino chain to pull
// structured attributes out of free-form witness statements.
type ArkExtractor struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkExtractor compiles the extraction chain around the supplied model.
func NewArkExtractor(ctx context.Context, chatModel model.ChatModel) (*ArkExtractor, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction chain: %w", err)
	}

	return &ArkExtractor{chain: runnable}, nil
}

// Name implements Extractor.
func (e *ArkExtractor) Name() string { return "ark" }

// Extract implements Extractor by invoking the chain once per utterance.
func (e *ArkExtractor) Extract(ctx context.Context, utterance string, history []interview.Message) (Result, error) {
	input := map[string]any{
		"system":  extractionInstruction(),
		"history": historyMessages(history),
		"query":   utterance,
	}

	response, err := e.chain.Invoke(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("failed to run extraction chain: %w", err)
	}

	result, err := decodeResult(response.Content)
	if err != nil {
		return Result{}, err
	}

	log.Debug().Int("categories", len(result.Attributes)).Msg("ark extraction completed")
	return result, nil
}

// historyMessages converts the most recent transcript entries into chain
// history, newest last.
func historyMessages(history []interview.Message) []*schema.Message {
	const historyLimit = 10

	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyLimit {
		startIdx = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, msg := range history[startIdx:] {
		switch msg.Speaker {
		case "user":
			messages = append(messages, schema.UserMessage(msg.Text))
		case "assistant":
			messages = append(messages, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return messages
}
