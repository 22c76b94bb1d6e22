package openrouter

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

var (
	fenceRegex = regexp.MustCompile("```(?:json)?\\s*")
	jsonRegex  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// parseExtractResponse parses the chat completion response from the
// OpenRouter API into partial line items.
func parseExtractResponse(respBody []byte) ([]domain.GeneratedItem, error) {
	type Choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}

	type Response struct {
		Choices []Choice `json:"choices"`
	}

	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, &OpenRouterError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	if len(response.Choices) == 0 {
		return nil, &OpenRouterError{
			Op:  "check_response_choices",
			Err: fmt.Errorf("no choices in response"),
		}
	}

	content := response.Choices[0].Message.Content

	items, err := decodeItems(content)
	if err == nil {
		return items, nil
	}

	// Some models wrap the JSON in a markdown fence despite the schema
	// constraint. Strip fences and retry on the first object found.
	stripped := fenceRegex.ReplaceAllString(content, "")
	if match := jsonRegex.FindString(stripped); match != "" {
		if items, err := decodeItems(match); err == nil {
			return items, nil
		}
	}

	return nil, &OpenRouterError{
		Op:  "parse_model_content",
		Err: fmt.Errorf("failed to extract line items from model response"),
	}
}

func decodeItems(content string) ([]domain.GeneratedItem, error) {
	var payload struct {
		Items []domain.GeneratedItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}
