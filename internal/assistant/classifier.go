package assistant

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Classification is the result of intent detection for one user turn.
// Message carries a user-facing prompt when the intent is
// CLARIFICATION_REQUEST.
type Classification struct {
	Intent          Intent  `json:"intent"`
	SecondaryIntent Intent  `json:"secondaryIntent,omitempty"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning,omitempty"`
	Message         string  `json:"message,omitempty"`
}

type weightedPattern struct {
	re     *regexp.Regexp
	weight float64
}

// patternConfig is built once at startup and never mutated afterwards.
type patternConfig struct {
	patterns map[Intent][]weightedPattern
	// totalWeight normalizes per-intent scores to 0..1.
	totalWeight map[Intent]float64
	// locationTerms + actionVerbs grant a contextual bonus when they
	// co-occur, a strong signal for registration/search intents.
	locationTerms *regexp.Regexp
	actionVerbs   *regexp.Regexp
	bonus         float64
	// syncThreshold gates the fast path for the synchronous variant. The
	// async path always falls through to the LLM (threshold +Inf) for
	// quality.
	syncThreshold  float64
	asyncThreshold float64
}

func pat(weight float64, expr string) weightedPattern {
	return weightedPattern{re: regexp.MustCompile("(?i)" + expr), weight: weight}
}

func defaultPatternConfig() *patternConfig {
	cfg := &patternConfig{
		patterns: map[Intent][]weightedPattern{
			IntentCrewRegister: {
				pat(3, `\b(register|sign\s*up|join|apply)\b`),
				pat(2, `\bleg\b`),
				pat(1, `\b(crew|sail|voyage|passage)\b`),
			},
			IntentCrewSearch: {
				pat(3, `\b(find|search|look(ing)?\s+for|browse)\b.*\b(leg|journey|voyage|boat|passage)\b`),
				pat(2, `\b(available|upcoming)\b.*\b(leg|journey)s?\b`),
				pat(1, `\bwhere\b.*\bsail\b`),
			},
			IntentOwnerManagement: {
				pat(3, `\b(my|our)\b.*\b(boat|journey|crew|registration)s?\b`),
				pat(2, `\b(approve|reject|review)\b.*\b(registration|applicant|crew)\b`),
				pat(1, `\b(owner|skipper|captain)\b`),
			},
			IntentProfileImprovement: {
				pat(3, `\b(my|improve|update|complete)\b.*\bprofile\b`),
				pat(2, `\b(certification|skill|experience)s?\b.*\b(add|update|missing)\b`),
				pat(1, `\bhow\s+do\s+i\s+look\b`),
			},
			IntentGeneralConversation: {
				pat(1, `\b(hi|hello|hey|thanks|thank you)\b`),
				pat(1, `\b(what|how|why)\b.*\b(sailsmart|work|mean)s?\b`),
			},
		},
		locationTerms: regexp.MustCompile(`(?i)\b(barcelona|mallorca|menorca|ibiza|palma|gibraltar|azores|canaries|biscay|solent|channel|adriatic|aegean|mediterranean|atlantic|lisbon|porto|valencia|split|corfu|athens)\b`),
		actionVerbs:   regexp.MustCompile(`(?i)\b(register|join|sign\s*up|apply|sail|crew|find|search)\b`),
		bonus:         0.2,
		syncThreshold: 0.35,
		// always use the LLM when it is available
		asyncThreshold: math.Inf(1),
	}
	cfg.totalWeight = make(map[Intent]float64, len(cfg.patterns))
	for intent, pats := range cfg.patterns {
		var total float64
		for _, p := range pats {
			total += p.weight
		}
		cfg.totalWeight[intent] = total
	}
	return cfg
}

// Classifier detects use-case intent with a fast regex phase and an LLM
// fallback. It never returns an error: failures degrade to a clarification
// request.
type Classifier struct {
	cfg    *patternConfig
	llm    ChatClient
	model  string
	logger *zap.Logger
}

func NewClassifier(llm ChatClient, model string, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{cfg: defaultPatternConfig(), llm: llm, model: model, logger: logger}
}

// Classify runs both phases. The fast path only short-circuits when its
// normalized score clears the async threshold; otherwise the LLM decides.
func (c *Classifier) Classify(ctx context.Context, message string) Classification {
	intent, score := c.fastScore(message)
	if score >= c.cfg.asyncThreshold {
		return Classification{
			Intent:     intent,
			Confidence: score,
			Reasoning:  "pattern match",
			Message:    message,
		}
	}
	if c.llm == nil {
		return c.fastResult(message)
	}
	return c.llmClassify(ctx, message)
}

// ClassifySync is the latency-sensitive variant: fast path only, never an
// LLM call. Weak matches default to GENERAL_CONVERSATION at zero confidence.
func (c *Classifier) ClassifySync(message string) Classification {
	return c.fastResult(message)
}

func (c *Classifier) fastResult(message string) Classification {
	intent, score := c.fastScore(message)
	if score < c.cfg.syncThreshold {
		return Classification{
			Intent:     IntentGeneralConversation,
			Confidence: 0,
			Reasoning:  "no pattern matched strongly enough",
			Message:    message,
		}
	}
	return Classification{
		Intent:     intent,
		Confidence: score,
		Reasoning:  "pattern match",
		Message:    message,
	}
}

// fastScore returns the best-scoring intent and its normalized score.
func (c *Classifier) fastScore(message string) (Intent, float64) {
	best := IntentGeneralConversation
	bestScore := 0.0
	hasLocation := c.cfg.locationTerms.MatchString(message)
	hasVerb := c.cfg.actionVerbs.MatchString(message)

	for intent, pats := range c.cfg.patterns {
		var matched float64
		for _, p := range pats {
			if p.re.MatchString(message) {
				matched += p.weight
			}
		}
		if matched == 0 {
			continue
		}
		score := matched / c.cfg.totalWeight[intent]
		if hasLocation && hasVerb && (intent == IntentCrewRegister || intent == IntentCrewSearch) {
			score += c.cfg.bonus
		}
		if score > bestScore {
			best = intent
			bestScore = score
		}
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return best, bestScore
}

const classifierSystemPrompt = `You are an intent classifier for a sailing crew marketplace assistant.
Classify the user's message into exactly one of these intents:
- CREW_SEARCH: the user wants to find legs, journeys or boats to sail on
- CREW_REGISTER: the user wants to register for or join a specific leg
- OWNER_MANAGEMENT: a boat owner managing journeys, legs or crew registrations
- PROFILE_IMPROVEMENT: the user wants to improve or complete their profile
- GENERAL_CONVERSATION: greetings, questions about the product, anything else

Respond with strict JSON only, no markdown, in this shape:
{"intent":"...","secondaryIntent":"...","confidence":0.0,"reasoning":"..."}
secondaryIntent may be empty. confidence is between 0 and 1.`

const clarificationMessage = "I'm not sure what you'd like to do. Could you rephrase? For example: are you looking for a leg to join, or updating your profile?"

// llmClassify asks the model for a strict-JSON classification and degrades
// to CLARIFICATION_REQUEST on any parse or validity failure.
func (c *Classifier) llmClassify(ctx context.Context, message string) Classification {
	resp, err := c.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		c.logger.Warn("classifier LLM call failed", zap.Error(err))
		return c.clarification()
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("classifier LLM returned no choices")
		return c.clarification()
	}

	raw, err := ExtractJSONObject(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("classifier response was not JSON", zap.Error(err))
		return c.clarification()
	}

	var parsed struct {
		Intent          string  `json:"intent"`
		SecondaryIntent string  `json:"secondaryIntent"`
		Confidence      float64 `json:"confidence"`
		Reasoning       string  `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Warn("classifier JSON did not match schema", zap.Error(err))
		return c.clarification()
	}

	parsed.Intent = strings.ToUpper(strings.TrimSpace(parsed.Intent))
	if !ValidIntent(parsed.Intent) {
		c.logger.Warn("classifier returned invalid intent", zap.String("intent", parsed.Intent))
		return c.clarification()
	}

	result := Classification{
		Intent:     Intent(parsed.Intent),
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
		Message:    message,
	}
	if ValidIntent(strings.ToUpper(parsed.SecondaryIntent)) {
		result.SecondaryIntent = Intent(strings.ToUpper(parsed.SecondaryIntent))
	}
	return result
}

func (c *Classifier) clarification() Classification {
	return Classification{
		Intent:     IntentClarificationRequest,
		Confidence: 0,
		Reasoning:  "classification failed",
		Message:    clarificationMessage,
	}
}
