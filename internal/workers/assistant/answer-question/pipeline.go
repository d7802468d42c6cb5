// internal/workers/assistant/answer-question/pipeline.go
package answerquestion

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "childcare-assistant/internal/common/errors"
	commonhttp "childcare-assistant/internal/common/http"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/common/observability"
	"childcare-assistant/internal/models"
	classifyintent "childcare-assistant/internal/workers/assistant/classify-intent"
	findproviders "childcare-assistant/internal/workers/assistant/find-providers"
	generateanswer "childcare-assistant/internal/workers/assistant/generate-answer"
	resolvecost "childcare-assistant/internal/workers/assistant/resolve-cost"
	retrieveevidence "childcare-assistant/internal/workers/assistant/retrieve-evidence"
	validateoutput "childcare-assistant/internal/workers/assistant/validate-output"
)

// Stages are the single-purpose handlers the pipeline runs in-process. The
// same handlers serve the per-stage job workers.
type Stages struct {
	Classify  *classifyintent.Handler
	Retrieve  *retrieveevidence.Handler
	Cost      *resolvecost.Handler
	Generate  *generateanswer.Handler
	Validate  *validateoutput.Handler
	Providers *findproviders.Handler
}

type Pipeline struct {
	config *Config
	stages Stages
	obs    *observability.Observability
	logger logger.Logger
}

func NewPipeline(config *Config, stages Stages, obs *observability.Observability, log logger.Logger) *Pipeline {
	return &Pipeline{config: config, stages: stages, obs: obs, logger: log}
}

// Answer runs one question end to end and always returns an envelope.
// Failures are folded into it with Kind set.
func (p *Pipeline) Answer(ctx context.Context, req *models.ChatRequest) *models.Envelope {
	intent, env, err := p.run(ctx, req)
	if err != nil {
		return errorEnvelope(intent, err)
	}
	return env
}

// Run is Answer without the error folding, for callers that treat upstream
// failures differently from user-facing ones.
func (p *Pipeline) Run(ctx context.Context, req *models.ChatRequest) (*models.Envelope, error) {
	_, env, err := p.run(ctx, req)
	return env, err
}

// run also reports the intent reached, which is empty when the request
// failed before classification.
func (p *Pipeline) run(ctx context.Context, req *models.ChatRequest) (intent models.Intent, env *models.Envelope, err error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	ctx = commonhttp.WithRequestID(ctx, req.RequestID)
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	log := logger.ForRequest(p.logger, req.RequestID, req.Jurisdiction)

	defer func() {
		outcome := "ok"
		switch {
		case err != nil:
			code := apperrors.ErrCodeUpstreamFailure
			if stdErr, ok := apperrors.AsStandard(err); ok {
				code = stdErr.Code
			}
			outcome = strings.ToLower(string(code))
			log.WithError(err).Warn("question failed", map[string]interface{}{"intent": intent})
		case env.Failed():
			outcome = strings.ToLower(env.Kind)
			log.Warn("answer rejected", map[string]interface{}{"intent": intent, "kind": env.Kind})
		default:
			log.Info("question answered", map[string]interface{}{
				"intent":   intent,
				"duration": time.Since(start).String(),
			})
		}
		metrics.RequestsTotal.WithLabelValues(string(intent), outcome).Inc()
		p.obs.RecordRequest(ctx, string(intent), outcome, time.Since(start))
	}()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		if override, ok := models.ParseIntent(req.Intent); !ok || override != models.IntentCost {
			return "", nil, apperrors.NewInputInvalidError("message is empty")
		}
	}

	var classified *classifyintent.Output
	err = p.stage(ctx, "classify", func(ctx context.Context) error {
		var err error
		classified, err = p.stages.Classify.Execute(ctx, &classifyintent.Input{
			Message:      message,
			Jurisdiction: req.Jurisdiction,
			Intent:       req.Intent,
		})
		return err
	})
	if err != nil {
		return "", nil, err
	}
	intent = classified.Intent
	jurisdiction := classified.Jurisdiction
	log = log.With(map[string]interface{}{"intent": intent, "jurisdiction": jurisdiction})
	log.Debug("intent classified", map[string]interface{}{"overridden": classified.Overridden})

	switch intent {
	case models.IntentCost:
		env, err = p.answerCost(ctx, jurisdiction, message, req.Hints)
	case models.IntentFindProvider:
		env, err = p.answerProviders(ctx, jurisdiction, message, req.Hints)
	default:
		env, err = p.answerGenerated(ctx, intent, jurisdiction, message)
	}
	return intent, env, err
}

func (p *Pipeline) answerCost(ctx context.Context, jurisdiction, message string, hints models.Hints) (*models.Envelope, error) {
	var out *resolvecost.Output
	err := p.stage(ctx, "resolve-cost", func(ctx context.Context) error {
		var err error
		out, err = p.stages.Cost.Execute(ctx, &resolvecost.Input{
			Jurisdiction:  jurisdiction,
			Message:       message,
			SubRegionCode: hints.SubRegionCode,
			SubRegionName: hints.SubRegionName,
			Age:           hints.Age,
			Setting:       hints.Setting,
			Metric:        hints.Metric,
			Units:         hints.Units,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return costEnvelope(out.Cost), nil
}

func (p *Pipeline) answerProviders(ctx context.Context, jurisdiction, message string, hints models.Hints) (*models.Envelope, error) {
	var out *findproviders.Output
	err := p.stage(ctx, "find-providers", func(ctx context.Context) error {
		var err error
		out, err = p.stages.Providers.Execute(ctx, &findproviders.Input{
			Jurisdiction: jurisdiction,
			CityOrZip:    hints.CityOrZip,
			Message:      message,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return providerEnvelope(out), nil
}

func (p *Pipeline) answerGenerated(ctx context.Context, intent models.Intent, jurisdiction, message string) (*models.Envelope, error) {
	var evidence *retrieveevidence.Output
	err := p.stage(ctx, "retrieve", func(ctx context.Context) error {
		var err error
		evidence, err = p.stages.Retrieve.Execute(ctx, &retrieveevidence.Input{
			Jurisdiction: jurisdiction,
			Intent:       intent,
			Query:        message,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var generated *generateanswer.Output
	err = p.stage(ctx, "generate", func(ctx context.Context) error {
		var err error
		generated, err = p.stages.Generate.Execute(ctx, &generateanswer.Input{
			Intent:       intent,
			Jurisdiction: jurisdiction,
			Question:     message,
			Documents:    evidence.Documents,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var validated *validateoutput.Result
	err = p.stage(ctx, "validate", func(ctx context.Context) error {
		var err error
		validated, err = p.stages.Validate.Execute(ctx, &validateoutput.Input{Intent: intent, Raw: generated.Raw})
		return err
	})
	if err != nil {
		return nil, err
	}

	var env *models.Envelope
	_ = p.stage(ctx, "compose", func(context.Context) error {
		env = Compose(intent, jurisdiction, validated, evidence.Sources)
		return nil
	})
	return env, nil
}

// stage times fn and wraps it in a span named after the stage.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.obs.StartSpan(ctx, name, attribute.String("stage", name))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
