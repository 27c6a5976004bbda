// Package ai turns free-text messages into transaction suggestions. The
// model only ever picks values from the fixed taxonomy lists it is shown;
// whatever it returns is re-validated by the ledger guard before anything is
// persisted.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ddsapp/cashflow/internal/taxonomy"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Entry is the model's suggestion for one transaction. All classification
// fields hold machine values from the taxonomy, or "" when unsure.
type Entry struct {
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Amount      string  `json:"amount"`
	Date        string  `json:"date"`
	Comment     string  `json:"comment"`
	Confidence  float64 `json:"confidence"`
}

const systemPromptTemplate = `Ты помощник учёта движения денежных средств. Разбери сообщение пользователя
в структурированную запись о поступлении или списании.

Текущая дата: %s

Допустимые машинные значения (выбирай ТОЛЬКО из этих списков, сервер
перепроверит согласованность):

type: income (поступление), expense (списание)

category по типам:
%s

subcategory по категориям:
%s

Правила:
1. amount — число с точкой, без валюты, не более двух знаков после запятой.
2. date в формате YYYY-MM-DD; относительные даты («вчера») считай от текущей.
   Если дата не указана — оставь пустой строкой.
3. comment — короткое описание на языке пользователя.
4. Если категорию определить нельзя — оставь category и subcategory пустыми.
5. confidence — уверенность от 0 до 1.`

func systemPrompt() string {
	var cats strings.Builder
	for _, t := range taxonomy.Types() {
		values := make([]string, 0, 8)
		for _, c := range taxonomy.CategoriesFor(t) {
			values = append(values, fmt.Sprintf("%s (%s)", c, c.Label()))
		}
		fmt.Fprintf(&cats, "- %s: %s\n", t, strings.Join(values, ", "))
	}

	var subs strings.Builder
	for _, c := range taxonomy.Categories() {
		values := make([]string, 0, 8)
		for _, s := range taxonomy.SubcategoriesFor(c) {
			values = append(values, fmt.Sprintf("%s (%s)", s, s.Label()))
		}
		fmt.Fprintf(&subs, "- %s: %s\n", c, strings.Join(values, ", "))
	}

	return fmt.Sprintf(systemPromptTemplate,
		time.Now().Format("2006-01-02"), cats.String(), subs.String())
}

var entrySchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"type": {
			"type": "string",
			"enum": ["income", "expense", ""],
			"description": "Transaction type machine value"
		},
		"category": {
			"type": "string",
			"description": "Category machine value from the allowed list, or empty"
		},
		"subcategory": {
			"type": "string",
			"description": "Subcategory machine value from the allowed list, or empty"
		},
		"amount": {
			"type": "string",
			"description": "Decimal amount, dot separator, max two fraction digits"
		},
		"date": {
			"type": "string",
			"description": "Transaction date YYYY-MM-DD, or empty"
		},
		"comment": {
			"type": "string",
			"description": "Short free-text description"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score between 0 and 1"
		}
	},
	"required": ["type", "amount", "confidence"],
	"additionalProperties": false
}`)

// ParseEntry asks the model to classify one message against the taxonomy.
func (c *Client) ParseEntry(ctx context.Context, userMessage string) (*Entry, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "entry",
				Schema: entrySchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	entry := &Entry{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry: %w", err)
	}
	return entry, nil
}
