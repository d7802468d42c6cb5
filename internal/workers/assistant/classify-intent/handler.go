package classifyintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

const (
	TaskType = "childcare-classify-intent"
)

var (
	ErrUnknownIntent = errors.New("UNKNOWN_INTENT")
)

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputInvalidError("input cannot be nil")
	}

	out := &Output{}
	if input.Intent != "" {
		intent, ok := models.ParseIntent(input.Intent)
		if !ok {
			return nil, apperrors.NewInputInvalidError(fmt.Sprintf("%v: %q", ErrUnknownIntent, input.Intent))
		}
		out.Intent = intent
		out.Overridden = true
	} else {
		out.Intent = Classify(input.Message)
	}

	out.Jurisdiction = h.resolveJurisdiction(input)

	h.logger.Debug("intent classified", map[string]interface{}{
		"intent":       out.Intent,
		"jurisdiction": out.Jurisdiction,
		"overridden":   out.Overridden,
	})
	return out, nil
}

// explicit request value, then a code found in the text, then the default
func (h *Handler) resolveJurisdiction(input *Input) string {
	if j := strings.ToUpper(strings.TrimSpace(input.Jurisdiction)); j != "" {
		return j
	}
	return DetectJurisdiction(input.Message, h.config.DefaultJurisdiction)
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
