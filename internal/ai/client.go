package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/boazmichaely/JobHuntAI/internal/config"
	"github.com/boazmichaely/JobHuntAI/internal/smartlog"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

// Extract asks the configured provider to parse freeform text into a
// structured extraction, given a summary of the existing opportunities
// so the model can match against them. Callers must treat any error as
// "nothing extracted": the service is best-effort and its failures never
// propagate past the smart-log form.
func Extract(text string, opportunities []models.Opportunity) (smartlog.Extraction, error) {
	provider := config.AppConfig.AIProvider

	switch provider {
	case "openai":
		return extractWithOpenAI(text, opportunities)
	case "anthropic":
		return extractWithAnthropic(text, opportunities)
	case "ollama":
		return extractWithOllama(text, opportunities)
	case "lmstudio":
		return extractWithLMStudio(text, opportunities)
	default:
		return smartlog.Extraction{}, fmt.Errorf("unsupported AI provider: %s", provider)
	}
}

// buildExtractionPrompt creates the prompt for smart-log extraction
func buildExtractionPrompt(text string, opportunities []models.Opportunity) string {
	summaries := []string{}
	for _, opp := range opportunities {
		summaries = append(summaries, fmt.Sprintf(`{"id":%q,"company":%q,"position":%q,"role":%q}`,
			opp.ID, opp.Company, opp.Position, opp.Role))
	}

	prompt := fmt.Sprintf(`You are a job-search assistant. Parse the note below into structured data.

Existing opportunities:
[%s]

Note:
%s

Decide whether the note refers to one of the existing opportunities or a new one.
Respond with ONLY a JSON object, no commentary, in exactly this shape:
{
  "isNewOpportunity": bool,
  "opportunityMatchId": "id of the matched opportunity, empty if new",
  "opportunityData": {"position": "", "role": "", "company": "", "description": "", "status": ""},
  "activityData": {"title": "", "type": "", "date": "YYYY-MM-DD", "description": "", "followUp": "", "followUpDate": ""},
  "contacts": [{"name": "", "role": "", "company": "", "email": "", "phone": ""}],
  "reasoning": "one sentence"
}

Rules:
1. "type" must be one of: Initiation, Apply, Submit, Interview, Reference, Networking, Offer, Rejection, Other
2. "status" must be one of: Identified, Applied, Interviewing, Offered, Rejected, Withdrawn, Ghosted
3. Omit fields you cannot infer rather than guessing
4. Only list people explicitly named in the note as contacts`,
		strings.Join(summaries, ","),
		text,
	)

	return prompt
}

// parseExtraction decodes the model's reply, tolerating markdown fences
// around the JSON object.
func parseExtraction(reply string) (smartlog.Extraction, error) {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```json")
		reply = strings.TrimPrefix(reply, "```")
		if idx := strings.LastIndex(reply, "```"); idx >= 0 {
			reply = reply[:idx]
		}
		reply = strings.TrimSpace(reply)
	}
	// Some models wrap the object in prose despite instructions; take the
	// outermost braces.
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return smartlog.Extraction{}, fmt.Errorf("no JSON object in extraction reply")
	}
	var ex smartlog.Extraction
	if err := json.Unmarshal([]byte(reply[start:end+1]), &ex); err != nil {
		return smartlog.Extraction{}, fmt.Errorf("malformed extraction reply: %w", err)
	}
	return ex, nil
}

// extractWithOpenAI runs the extraction through the OpenAI API
func extractWithOpenAI(text string, opportunities []models.Opportunity) (smartlog.Extraction, error) {
	apiKey := config.AppConfig.OpenAIKey
	if apiKey == "" {
		return smartlog.Extraction{}, fmt.Errorf("OpenAI API key not configured. Run: jobhuntai config set --key openai_key --value YOUR_KEY")
	}

	prompt := buildExtractionPrompt(text, opportunities)
	model := config.AppConfig.DefaultModel
	if model == "" {
		model = "gpt-4"
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
		"max_tokens":  1000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return smartlog.Extraction{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	if resp.StatusCode != 200 {
		return smartlog.Extraction{}, fmt.Errorf("OpenAI API error: %s", string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return smartlog.Extraction{}, err
	}
	if len(result.Choices) == 0 {
		return smartlog.Extraction{}, fmt.Errorf("unexpected response format from OpenAI")
	}

	return parseExtraction(result.Choices[0].Message.Content)
}

// extractWithAnthropic runs the extraction through the Anthropic API
func extractWithAnthropic(text string, opportunities []models.Opportunity) (smartlog.Extraction, error) {
	apiKey := config.AppConfig.AnthropicKey
	if apiKey == "" {
		return smartlog.Extraction{}, fmt.Errorf("Anthropic API key not configured. Run: jobhuntai config set --key anthropic_key --value YOUR_KEY")
	}

	prompt := buildExtractionPrompt(text, opportunities)

	reqBody := map[string]interface{}{
		"model":      "claude-3-5-sonnet-20241022",
		"max_tokens": 1024,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req, err := http.NewRequest("POST", "https://api.anthropic.com/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return smartlog.Extraction{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	if resp.StatusCode != 200 {
		return smartlog.Extraction{}, fmt.Errorf("Anthropic API error: %s", string(body))
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return smartlog.Extraction{}, err
	}
	if len(result.Content) == 0 {
		return smartlog.Extraction{}, fmt.Errorf("unexpected response format from Anthropic")
	}

	return parseExtraction(result.Content[0].Text)
}

// extractWithOllama runs the extraction through a local Ollama server
func extractWithOllama(text string, opportunities []models.Opportunity) (smartlog.Extraction, error) {
	url := config.AppConfig.OllamaURL
	if url == "" {
		url = "http://localhost:11434"
	}

	prompt := buildExtractionPrompt(text, opportunities)
	model := config.AppConfig.DefaultModel
	if model == "" {
		model = "llama3.2"
	}

	reqBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req, err := http.NewRequest("POST", url+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return smartlog.Extraction{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	if resp.StatusCode != 200 {
		return smartlog.Extraction{}, fmt.Errorf("Ollama API error: %s", string(body))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return smartlog.Extraction{}, err
	}
	if result.Response == "" {
		return smartlog.Extraction{}, fmt.Errorf("unexpected response format from Ollama")
	}

	return parseExtraction(result.Response)
}

// extractWithLMStudio runs the extraction through a local LMStudio server
func extractWithLMStudio(text string, opportunities []models.Opportunity) (smartlog.Extraction, error) {
	url := config.AppConfig.LMStudioURL
	if url == "" {
		url = "http://localhost:1234"
	}

	prompt := buildExtractionPrompt(text, opportunities)
	model := config.AppConfig.DefaultModel
	if model == "" {
		model = "local-model"
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
		"max_tokens":  1000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req, err := http.NewRequest("POST", url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return smartlog.Extraction{}, err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return smartlog.Extraction{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return smartlog.Extraction{}, err
	}

	if resp.StatusCode != 200 {
		return smartlog.Extraction{}, fmt.Errorf("LMStudio API error: %s", string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return smartlog.Extraction{}, err
	}
	if len(result.Choices) == 0 {
		return smartlog.Extraction{}, fmt.Errorf("unexpected response format from LMStudio")
	}

	return parseExtraction(result.Choices[0].Message.Content)
}
