package findproviders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
)

const (
	TaskType = "childcare-find-providers"
)

type Handler struct {
	config *Config
	finder *Finder
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, searcher ProviderSearcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		finder: NewFinder(searcher, config.Limit),
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
	if input == nil {
		return nil, apperrors.NewInputInvalidError("input cannot be nil")
	}
	jurisdiction := strings.ToUpper(strings.TrimSpace(input.Jurisdiction))
	if jurisdiction == "" {
		return nil, apperrors.NewInputInvalidError("jurisdiction is required")
	}

	out, err := h.finder.Find(ctx, jurisdiction, input.CityOrZip, input.Message)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("providers found", map[string]interface{}{
		"jurisdiction": jurisdiction,
		"place":        out.Place,
		"count":        len(out.Providers),
	})
	return out, nil
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
