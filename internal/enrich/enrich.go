// Package enrich 使用 ADK agent 为候选名字生成文化释义。
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/easeaico/shiming/internal/models"
	"github.com/easeaico/shiming/internal/types"
	"github.com/easeaico/shiming/internal/utils"
)

const (
	explainerAppName = "shiming_explainer"
	explainerUserID  = "name_explainer"

	defaultTimeout = 15 * time.Second
)

// explainInstruction 要求模型仅返回符合结构的 JSON。
const explainInstruction = `You are a scholar of classical Chinese literature and traditional naming.
Given a candidate Chinese given name with its source line, character meanings and analysis, write a short cultural explanation.

Requirements:
- Write in Chinese, within 100-150 characters
- Ground the explanation in the cited source line when one is given
- Mention the imagery of each character and how they combine
- Return a valid JSON object that matches the output schema
- Do not include any extra keys or text outside the JSON object`

// Config is the runtime enrichment configuration.
type Config struct {
	Enabled bool
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// Status reports the current enrichment state.
type Status struct {
	Enabled    bool   `json:"enabled"`
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
	State      string `json:"state"`
}

// Explanation is the structured output of the explainer.
type Explanation struct {
	Explanation string `json:"explanation"`
}

// Service augments generated names with model-written explanations. Enrich
// must never fail the generation flow; callers log and continue on error.
type Service interface {
	Configure(ctx context.Context, cfg Config) error
	Status() Status
	Enrich(ctx context.Context, name *types.GeneratedName) error
}

type explainerRunner interface {
	Run(ctx context.Context, userID, sessionID string, msg *genai.Content, cfg agent.RunConfig) iter.Seq2[*session.Event, error]
}

// Explainer runs an ADK llmagent over whichever chat model is configured.
type Explainer struct {
	mu             sync.RWMutex
	cfg            Config
	runner         explainerRunner
	sessionService session.Service
	counter        uint64
}

// NewExplainer builds an unconfigured explainer; Configure wires the model.
func NewExplainer() *Explainer {
	return &Explainer{}
}

// Configure rebuilds the agent from the given config. A disabled config tears
// the agent down and is not an error.
func (e *Explainer) Configure(ctx context.Context, cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if !cfg.Enabled {
		e.cfg = cfg
		e.runner = nil
		e.sessionService = nil
		return nil
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("enrichment API key is required")
	}
	if cfg.Model == "" {
		return fmt.Errorf("enrichment model name is required")
	}

	var (
		llm model.LLM
		err error
	)
	if cfg.APIURL != "" {
		llm, err = models.NewOpenAIModel(cfg.Model, cfg.APIKey, cfg.APIURL)
	} else {
		llm, err = gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
			APIKey: cfg.APIKey,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to create enrichment model: %w", err)
	}

	llmAgent, err := llmagent.New(llmagent.Config{
		Name:            "name_explainer",
		Description:     "名字文化释义智能体",
		Model:           llm,
		Instruction:     explainInstruction,
		OutputSchema:    explanationOutputSchema(),
		IncludeContents: llmagent.IncludeContentsNone,
	})
	if err != nil {
		return fmt.Errorf("failed to create explainer agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        explainerAppName,
		Agent:          llmAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return fmt.Errorf("failed to create explainer runner: %w", err)
	}

	e.cfg = cfg
	e.runner = r
	e.sessionService = sessionService
	slog.Info("enrichment configured", "model", cfg.Model, "timeout", cfg.Timeout)
	return nil
}

// Status reports whether enrichment is enabled and ready.
func (e *Explainer) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{
		Enabled:    e.cfg.Enabled,
		Configured: e.runner != nil,
		Model:      e.cfg.Model,
	}
	switch {
	case !st.Enabled:
		st.State = "disabled"
	case st.Configured:
		st.State = "ready"
	default:
		st.State = "unconfigured"
	}
	return st
}

// Enrich fills name.Explanation from the model. It returns an error when the
// explainer is not ready, the call times out, or the output cannot be parsed.
func (e *Explainer) Enrich(ctx context.Context, name *types.GeneratedName) error {
	e.mu.RLock()
	r := e.runner
	sessionService := e.sessionService
	timeout := e.cfg.Timeout
	e.mu.RUnlock()

	if r == nil {
		return fmt.Errorf("enrichment is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sessID := fmt.Sprintf("explain-%d", atomic.AddUint64(&e.counter, 1))
	if _, err := sessionService.Create(ctx, &session.CreateRequest{
		AppName:   explainerAppName,
		UserID:    explainerUserID,
		SessionID: sessID,
	}); err != nil {
		if _, getErr := sessionService.Get(ctx, &session.GetRequest{
			AppName:   explainerAppName,
			UserID:    explainerUserID,
			SessionID: sessID,
		}); getErr != nil {
			return fmt.Errorf("failed to create explainer session: %w", err)
		}
	}

	msg := genai.NewContentFromText(buildPrompt(name), "user")
	events := r.Run(ctx, explainerUserID, sessID, msg, agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	})

	var last string
	for event, err := range events {
		if err != nil {
			return err
		}
		if event == nil || event.Content == nil {
			continue
		}
		if event.Author == "user" {
			continue
		}
		text := strings.TrimSpace(utils.ExtractContentText(event.Content))
		if text == "" {
			continue
		}
		last = text
		if event.IsFinalResponse() {
			break
		}
	}
	if last == "" {
		return fmt.Errorf("empty explanation response")
	}

	explanation, err := parseExplanation(last)
	if err != nil {
		return err
	}
	name.Explanation = explanation.Explanation
	return nil
}

// buildPrompt 拼装候选名字的上下文描述。
func buildPrompt(name *types.GeneratedName) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "姓名：%s（%s）\n", name.FullName, name.Pinyin)
	fmt.Fprintf(&sb, "出处：%s\n", name.Origin)
	if name.Meaning != "" {
		fmt.Fprintf(&sb, "寓意：%s\n", name.Meaning)
	}
	if len(name.Tags) > 0 {
		fmt.Fprintf(&sb, "意象标签:%s\n", strings.Join(name.Tags, "、"))
	}
	fmt.Fprintf(&sb, "综合评分：%.1f（%s）", name.Score.TotalScore, name.Score.Level.Grade)
	return sb.String()
}

func explanationOutputSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"explanation": {
				Type: genai.TypeString,
			},
		},
		Required: []string{"explanation"},
	}
}

// parseExplanation 从模型输出中提取 JSON 并解码。
func parseExplanation(raw string) (Explanation, error) {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	var out Explanation
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return Explanation{}, fmt.Errorf("failed to parse explanation json: %w", err)
	}
	if strings.TrimSpace(out.Explanation) == "" {
		return Explanation{}, fmt.Errorf("explanation is empty")
	}
	return out, nil
}
