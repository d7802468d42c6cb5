package answerquestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
)

const (
	TaskType = "childcare-answer-question"
)

type Handler struct {
	pipeline *Pipeline
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(pipeline *Pipeline, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		pipeline: pipeline,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

// Handle runs the whole pipeline for one job. Lookup and input errors are
// thrown as BPMN errors, upstream failures are retried, and rejected model
// output completes the job with a failure envelope.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx := context.Background()

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

	env, err := h.pipeline.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	return &Output{RequestID: input.RequestID, Envelope: env}, nil
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
