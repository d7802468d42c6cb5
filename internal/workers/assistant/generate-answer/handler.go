package generateanswer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/llm"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/pkg/registry"
)

const (
	TaskType = "childcare-generate-answer"
)

type Handler struct {
	config    *Config
	completer llm.Completer
	registry  *registry.Registry
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, completer llm.Completer, reg *registry.Registry, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		completer: completer,
		registry:  reg,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, apperrors.NewInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.Question) == "" {
		return nil, apperrors.NewInputInvalidError("question is required for generation")
	}

	jurisdiction := strings.ToUpper(input.Jurisdiction)
	system := SystemPrompt(input.Intent, jurisdiction)
	user := UserPrompt(input.Intent, jurisdiction, input.Question, input.Documents, h.config.ContextChars)

	// schema-backed intents get the provider's JSON mode
	if _, ok := h.registry.Lookup(input.Intent.String()); ok {
		ctx = llm.WithJSONOutput(ctx)
	}

	raw, err := h.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("completion", err)
	}

	h.logger.Debug("completion received", map[string]interface{}{
		"intent":    input.Intent,
		"documents": len(input.Documents),
		"rawLength": len(raw),
	})
	return &Output{Raw: raw}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
