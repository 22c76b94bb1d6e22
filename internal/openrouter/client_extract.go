package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

const systemInstruction = "You are a helpful accounting assistant that extracts structured invoice data from unstructured descriptions."

// itemSchema constrains the model output to an object holding an array of
// partial line items. Quantity and rate are required; the model is told to
// guess 1 and 0 respectively rather than omit an item.
var itemSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Description of the product or service",
					},
					"quantity": map[string]interface{}{
						"type":        "number",
						"description": "Quantity or hours worked",
					},
					"rate": map[string]interface{}{
						"type":        "number",
						"description": "Price per unit or hourly rate",
					},
				},
				"required":             []string{"description", "quantity", "rate"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"items"},
	"additionalProperties": false,
}

// ExtractLineItems sends freeform text describing work performed to the
// model and returns the partial line items it finds. The call is
// all-or-nothing: any network, service or parse failure surfaces as a
// single error and no items are returned.
func (c *Client) ExtractLineItems(ctx context.Context, text string) ([]domain.GeneratedItem, error) {
	if c.apiKey == "" {
		return nil, &OpenRouterError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("OpenRouter API key is not configured. Please set OPENROUTER_API_KEY environment variable"),
		}
	}

	type Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	prompt := fmt.Sprintf("Extract invoice line items from the following text. "+
		"If a value is missing, make a reasonable guess or set it to 1 (for quantity) or 0 (for rate).\n\nInput Text: %q", text)

	requestPayload := map[string]interface{}{
		"model": c.modelID,
		"messages": []Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		"response_format": map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "invoice_line_items",
				"strict": true,
				"schema": itemSchema,
			},
		},
	}

	requestData, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal request payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "create_extract_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "send_extract_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &OpenRouterError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(respBody)),
		}
	}

	return parseExtractResponse(respBody)
}
