// Package extract implements the document extraction pipeline: OCR a raw
// document into positioned text fragments, flatten them to centroid tokens,
// structure the flattened text through an external LLM call, and degrade to
// a deterministic regex fallback when structuring fails. The pipeline's
// external contract is that a structuring failure is converted into data,
// never surfaced as an error.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OCRResult is the raw recognition output: one bounding box [x1,y1,x2,y2]
// per recognized text fragment, boxes and texts of equal length.
type OCRResult struct {
	Boxes [][4]float64 `json:"boxes"`
	Texts []string     `json:"texts"`
}

// OCRClient recognizes text fragments in a document file.
type OCRClient interface {
	Recognize(ctx context.Context, filePath string) (*OCRResult, error)
}

// Token is a recognized fragment reduced to its bounding-box centroid.
// Layout (columns, tables) is deliberately discarded: the structuring step
// consumes a flat list and relies on semantic understanding, not spatial
// sorting, so tokens at the same height carry no left-to-right guarantee.
type Token struct {
	X    float64
	Y    float64
	Text string
}

// FlattenTokens reduces each (box, text) pair to a centroid token by
// averaging the box's horizontal and vertical extents. Mismatched box/text
// lengths are truncated to the shorter side.
func FlattenTokens(res *OCRResult) []Token {
	n := len(res.Boxes)
	if len(res.Texts) < n {
		n = len(res.Texts)
	}
	tokens := make([]Token, 0, n)
	for i := 0; i < n; i++ {
		b := res.Boxes[i]
		tokens = append(tokens, Token{
			X:    (b[0] + b[2]) / 2,
			Y:    (b[1] + b[3]) / 2,
			Text: res.Texts[i],
		})
	}
	return tokens
}

// FormatTokens renders the token list as the text handed to the structuring
// step, one "(x,y) text" line per token in recognition order.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "(%.1f,%.1f) %s", t.X, t.Y, t.Text)
	}
	return sb.String()
}

// HTTPOCRClient calls a PaddleOCR-style serving endpoint: the document is
// posted base64-encoded and the response carries boxes and texts arrays.
type HTTPOCRClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPOCRClient returns a client for the serving endpoint with an
// explicit per-call timeout.
func NewHTTPOCRClient(endpoint string, timeout time.Duration) *HTTPOCRClient {
	return &HTTPOCRClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Recognize reads filePath and posts it to the OCR service.
func (c *HTTPOCRClient) Recognize(ctx context.Context, filePath string) (*OCRResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ocr response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr service error (status %d): %s", resp.StatusCode, string(body))
	}

	var result OCRResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse ocr response: %w", err)
	}
	return &result, nil
}
