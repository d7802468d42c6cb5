package retrieveevidence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

const (
	TaskType = "childcare-retrieve-evidence"
)

type Handler struct {
	config *Config
	engine *Engine
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, engine *Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: engine,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.Query) == "" {
		return nil, apperrors.NewInputInvalidError("query is required for retrieval")
	}
	if input.Jurisdiction == "" {
		return nil, apperrors.NewInputInvalidError("jurisdiction is required for retrieval")
	}

	ignore := input.IgnoreIntent || input.Intent == models.IntentDocumentation
	k := input.K
	if k <= 0 {
		k = h.config.TopK
	}

	docs, err := h.engine.Search(ctx, SearchRequest{
		Jurisdiction:   strings.ToUpper(input.Jurisdiction),
		Intent:         input.Intent,
		AllowedIntents: input.AllowedIntents,
		Query:          input.Query,
		K:              k,
		IgnoreIntent:   ignore,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("evidence retrieved", map[string]interface{}{
		"intent":       input.Intent,
		"jurisdiction": input.Jurisdiction,
		"documents":    len(docs),
		"ignoreIntent": ignore,
	})

	return &Output{
		Documents: docs,
		Sources:   models.SourcesFromDocuments(docs),
	}, nil
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
