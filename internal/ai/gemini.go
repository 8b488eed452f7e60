package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when a generative endpoint is called without
// a configured API key.  Handlers translate it into HTTP 503.
var ErrNotConfigured = errors.New("gemini api key not configured")

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Gemini is a thin HTTP client for the generateContent endpoint.  The local
// code only shapes requests, extracts the first candidate's text and
// translates errors; everything generative happens on the other side.
type Gemini struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGemini builds a client for the given API key and model.  An empty key
// is allowed; every call will then fail with ErrNotConfigured so the
// handlers can answer 503.
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: geminiBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
	}
}

// Available reports whether the client has an API key to work with.
func (g *Gemini) Available() bool { return g.apiKey != "" }

// Model returns the configured model identifier.
func (g *Gemini) Model() string { return g.model }

// Status is the payload served by the assistant health endpoint.
func (g *Gemini) Status() map[string]any {
	return map[string]any{
		"available": g.Available(),
		"model":     g.model,
		"hasApiKey": g.Available(),
		"service":   "Gemini AI",
	}
}

// request/response shapes of the generateContent API.

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends a prompt (with optional system instruction) to the
// model and returns the first candidate's text.
func (g *Gemini) GenerateContent(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if !g.Available() {
		return "", ErrNotConfigured
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	reqBody.GenerationConfig.Temperature = 0.7
	reqBody.GenerationConfig.MaxOutputTokens = 1000
	if systemInstruction != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemInstruction}}}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("gemini: request failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("gemini: HTTP %d from API", resp.StatusCode)
		return "", fmt.Errorf("gemini: HTTP %d: %s", resp.StatusCode, body)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini: parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// SuggestFromNotes asks the model for actionable suggestions over the
// user's note bodies.
func (g *Gemini) SuggestFromNotes(ctx context.Context, userNotes string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following notes, provide 3-5 actionable suggestions for the user:

User Notes:
%s

Please provide suggestions in a clear, concise format. Focus on:
1. Task prioritization
2. Productivity improvements
3. Organization tips
4. Follow-up actions needed

Keep suggestions practical and specific.`, userNotes)

	return g.GenerateContent(ctx, prompt,
		"You are a helpful productivity assistant that analyzes notes and provides actionable suggestions.")
}

// Chat answers a free-form user query grounded in their notes.
func (g *Gemini) Chat(ctx context.Context, userQuery, contextNotes string) (string, error) {
	prompt := fmt.Sprintf(`User Query: %s

Context from user's notes:
%s

Please provide a helpful, intelligent response based on the user's notes and their query.
If relevant, suggest specific actions or insights from their notes.`, userQuery, contextNotes)

	return g.GenerateContent(ctx, prompt,
		"You are an intelligent assistant that helps users understand and act on their notes. Be helpful, specific, and actionable.")
}
