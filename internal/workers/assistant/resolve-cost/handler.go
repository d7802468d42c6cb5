package resolvecost

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
	TaskType = "childcare-resolve-cost"
)

type Handler struct {
	config   *Config
	resolver *Resolver
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, resolver *Resolver, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		resolver: resolver,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
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
		// SUBREGION_NOT_FOUND and PRICE_NOT_FOUND are thrown as BPMN errors
		// so the process can render the guidance text
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Jurisdiction == "" {
		return nil, apperrors.NewInputInvalidError("jurisdiction is required for cost lookups")
	}

	answer, err := h.resolver.Resolve(ctx, Query{
		Jurisdiction:  strings.ToUpper(input.Jurisdiction),
		SubRegionCode: input.SubRegionCode,
		SubRegionName: input.SubRegionName,
		Age:           input.Age,
		Setting:       input.Setting,
		Metric:        input.Metric,
		Units:         input.Units,
		Message:       input.Message,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("cost resolved", map[string]interface{}{
		"county":  answer.County,
		"answers": len(answer.Answers),
	})
	return &Output{Cost: answer}, nil
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
