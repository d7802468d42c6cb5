// internal/app/workers.go
package app

import (
	"childcare-assistant/internal/common/camunda"
	answerquestion "childcare-assistant/internal/workers/assistant/answer-question"
	classifyintent "childcare-assistant/internal/workers/assistant/classify-intent"
	findproviders "childcare-assistant/internal/workers/assistant/find-providers"
	generateanswer "childcare-assistant/internal/workers/assistant/generate-answer"
	resolvecost "childcare-assistant/internal/workers/assistant/resolve-cost"
	retrieveevidence "childcare-assistant/internal/workers/assistant/retrieve-evidence"
	validateoutput "childcare-assistant/internal/workers/assistant/validate-output"
)

// WorkerStarter opens a job worker per task type.
type WorkerStarter interface {
	Start(taskType string, handler camunda.HandlerFunc)
}

// StartWorkers registers one worker per pipeline stage plus the worker that
// answers a whole question in a single job.
func (r *Resources) StartWorkers(w WorkerStarter, stages answerquestion.Stages, pipeline *answerquestion.Pipeline) {
	w.Start(classifyintent.TaskType, stages.Classify.Handle)
	w.Start(retrieveevidence.TaskType, stages.Retrieve.Handle)
	w.Start(resolvecost.TaskType, stages.Cost.Handle)
	w.Start(generateanswer.TaskType, stages.Generate.Handle)
	w.Start(validateoutput.TaskType, stages.Validate.Handle)
	w.Start(findproviders.TaskType, stages.Providers.Handle)
	w.Start(answerquestion.TaskType, answerquestion.NewHandler(pipeline, r.Logger).Handle)
}
