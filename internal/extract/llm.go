package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
)

// DefaultGeminiEndpoint is the production Generative Language API host.
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// Structurer turns flattened OCR text into the fixed order schema.
// Implementations must emit numeric fields as numbers and normalize dates
// to ISO-8601; unknown values are null.
type Structurer interface {
	Structure(ctx context.Context, rawText string) (*domain.ExtractionData, error)
}

// GeminiStructurer structures text through the Gemini generateContent REST
// call, requesting strict JSON output matching the order schema.
type GeminiStructurer struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewGeminiStructurer validates the credential up front: a missing API key
// is a configuration error reported at construction, not discovered
// mid-call.
func NewGeminiStructurer(apiKey, model string, timeout time.Duration) (*GeminiStructurer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key not configured")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("gemini model not configured")
	}
	return &GeminiStructurer{
		apiKey:     apiKey,
		model:      model,
		endpoint:   DefaultGeminiEndpoint,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SetEndpoint overrides the API host (tests point it at a local server).
func (s *GeminiStructurer) SetEndpoint(endpoint string) {
	s.endpoint = strings.TrimRight(endpoint, "/")
}

// Wire types mirroring the generateContent request/response format.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string `json:"response_mime_type"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Structure sends the schema prompt and decodes the strict-JSON reply into
// the extraction schema. Any transport, status, or decode problem is
// returned as an error for the pipeline to convert into a fallback result.
func (s *GeminiStructurer) Structure(ctx context.Context, rawText string) (*domain.ExtractionData, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildPrompt(rawText)}},
		}},
		GenerationConfig: geminiGenerationConfig{ResponseMIMEType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.endpoint, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty gemini response")
	}

	content := cleanJSONResponse(apiResp.Candidates[0].Content.Parts[0].Text)

	var data domain.ExtractionData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, fmt.Errorf("parse structured order json: %w", err)
	}
	return &data, nil
}

// cleanJSONResponse strips markdown fences and surrounding prose by slicing
// from the first '{' to the last '}'. If no object is present the input is
// returned unchanged so the JSON decoder reports a proper error.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start > end {
		return content
	}
	return strings.TrimSpace(content[start : end+1])
}

// buildPrompt describes the fixed order schema and the formatting rules the
// model must follow (numbers as numbers, ISO-8601 dates, nulls for unknown).
func buildPrompt(rawText string) string {
	return fmt.Sprintf(`You are an expert document parser specializing in purchase orders. Analyze the following raw text extracted from a purchase order document and format it into a structured JSON object.

Raw Text:
%s

Extract and format the information into the following JSON structure. If any information is not available, use null values:

{
  "order_id": "extracted order number or PO number",
  "customer_details": {
    "company_name": "customer company name",
    "contact_person": "contact person name",
    "email": "email address",
    "phone": "phone number",
    "billing_address": "billing address",
    "shipping_address": "shipping/delivery address"
  },
  "order_items": [
    {
      "item_code": "product/item code",
      "description": "item description",
      "quantity": numeric_quantity,
      "unit_price": numeric_unit_price,
      "total_price": numeric_total_price,
      "specifications": "technical specifications",
      "delivery_date": "delivery date in YYYY-MM-DD format"
    }
  ],
  "order_totals": {
    "subtotal": numeric_subtotal,
    "tax_amount": numeric_tax,
    "shipping_cost": numeric_shipping,
    "total_amount": numeric_total,
    "currency": "currency code"
  },
  "delivery_requirements": {
    "delivery_date": "delivery date in YYYY-MM-DD format",
    "shipping_method": "shipping method",
    "special_instructions": "special delivery instructions"
  },
  "payment_terms": {
    "terms": "payment terms (e.g., Net 30)",
    "due_date": "payment due date in YYYY-MM-DD format"
  }
}

Important instructions:
1. Extract all numeric values as numbers, not strings
2. Use ISO date format (YYYY-MM-DD) for all dates
3. If multiple line items exist, include all of them in the order_items array
4. Be precise with numeric calculations
5. Return ONLY the JSON structure, no additional text or explanations
6. Ensure all JSON syntax is valid`, rawText)
}
