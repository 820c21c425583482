// Package advisor implements the optional LLM second-opinion layer over
// the rule engine. The advisor can only make a consultation result more
// conservative: it may raise the triage level and append differential
// diagnoses, never lower urgency or remove rule-based findings. On any
// transport or parse failure the rule-based result is returned unchanged,
// keeping the rule engine the system of record.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
	"github.com/Winfry/AfiCare-sub000/logging"
)

// Compile-time check to ensure Client implements Advisor
var _ interfaces.Advisor = (*Client)(nil)

const systemPrompt = `You are a clinical decision support reviewer for a rural telehealth service.
You receive a patient presentation and a rule-based consultation result.
Respond ONLY with a JSON object of the form:
{"triage_level":"EMERGENCY|URGENT|LESS_URGENT|NON_URGENT","additional_conditions":[{"condition":"name","confidence":0.0}]}
Only escalate the triage level when the presentation clearly warrants it.`

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an advisor client. baseURL points at the API root,
// e.g. a local Ollama or any OpenAI-compatible gateway.
func NewClient(baseURL, model, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type secondOpinion struct {
	TriageLevel          entities.TriageLevel `json:"triage_level"`
	AdditionalConditions []struct {
		Condition  string  `json:"condition"`
		Confidence float64 `json:"confidence"`
	} `json:"additional_conditions"`
}

// Advise requests a second opinion and merges it conservatively into the
// rule-based result.
func (c *Client) Advise(ctx context.Context, input entities.PatientInput, result entities.ConsultationResult) entities.ConsultationResult {
	opinion, err := c.secondOpinion(ctx, input, result)
	if err != nil {
		logging.Warn("Advisor unavailable, keeping rule-based result", "error", err)
		return result
	}
	return merge(result, opinion)
}

func (c *Client) secondOpinion(ctx context.Context, input entities.PatientInput, result entities.ConsultationResult) (*secondOpinion, error) {
	payload, err := json.Marshal(map[string]any{
		"patient": input,
		"rule_based_result": map[string]any{
			"triage_level":         result.TriageLevel,
			"suspected_conditions": result.SuspectedConditions,
		},
	})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("advisor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode advisor response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("advisor returned no choices")
	}

	var opinion secondOpinion
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &opinion); err != nil {
		return nil, fmt.Errorf("advisor returned unparseable opinion: %w", err)
	}
	return &opinion, nil
}

// merge applies the conservative-only policy: the triage level may move
// up, never down, and advisor diagnoses join the list without displacing
// rule-based matches of equal confidence.
func merge(result entities.ConsultationResult, opinion *secondOpinion) entities.ConsultationResult {
	if opinion.TriageLevel.Valid() && opinion.TriageLevel.MoreSevere(result.TriageLevel) {
		logging.Info("Advisor escalated triage level",
			"from", result.TriageLevel,
			"to", opinion.TriageLevel,
		)
		result.TriageLevel = opinion.TriageLevel
		result.ReferralNeeded = result.TriageLevel.NeedsReferral()
		if result.ReferralNeeded {
			result.FollowUpRequired = true
		}
	}

	known := make(map[string]bool, len(result.SuspectedConditions))
	for _, match := range result.SuspectedConditions {
		known[match.ConditionKey] = true
		known[match.DisplayName] = true
	}

	added := false
	for _, extra := range opinion.AdditionalConditions {
		if extra.Condition == "" || known[extra.Condition] {
			continue
		}
		confidence := extra.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		result.SuspectedConditions = append(result.SuspectedConditions, entities.ConditionMatch{
			ConditionKey: extra.Condition,
			DisplayName:  extra.Condition,
			Confidence:   confidence,
			Special:      "advisory",
		})
		added = true
	}

	if added {
		sort.SliceStable(result.SuspectedConditions, func(i, j int) bool {
			return result.SuspectedConditions[i].Confidence > result.SuspectedConditions[j].Confidence
		})
		if len(result.SuspectedConditions) > 0 {
			result.ConfidenceScore = result.SuspectedConditions[0].Confidence
		}
	}

	return result
}
