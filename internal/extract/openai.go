// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/olegiv/storybook-go/internal/model"
)

const ocrPrompt = "Transcribe all text printed on this storybook page exactly as written, " +
	"preserving line breaks. The text is usually Arabic. Reply with the text only. " +
	"If there is no text, reply with an empty message."

// OpenAI extracts text with a vision-capable chat model.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI extractor. An empty baseURL uses the default
// endpoint. Extra options are passed to the client.
func NewOpenAI(apiKey, model, baseURL string, opts ...option.RequestOption) *OpenAI {
	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	clientOpts = append(clientOpts, opts...)
	return &OpenAI{client: openai.NewClient(clientOpts...), model: model}
}

// ExtractText implements Extractor.
func (o *OpenAI) ExtractText(ctx context.Context, img model.ImageRef) (string, error) {
	if img.IsZero() {
		return "", ErrEmptyImage
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(ocrPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    img.DataURI(),
					Detail: "high",
				}),
			}),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
