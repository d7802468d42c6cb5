// internal/app/stages.go
package app

import (
	"time"

	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/store/postgres"
	"childcare-assistant/internal/store/search"
	answerquestion "childcare-assistant/internal/workers/assistant/answer-question"
	classifyintent "childcare-assistant/internal/workers/assistant/classify-intent"
	findproviders "childcare-assistant/internal/workers/assistant/find-providers"
	generateanswer "childcare-assistant/internal/workers/assistant/generate-answer"
	resolvecost "childcare-assistant/internal/workers/assistant/resolve-cost"
	retrieveevidence "childcare-assistant/internal/workers/assistant/retrieve-evidence"
	validateoutput "childcare-assistant/internal/workers/assistant/validate-output"
)

// ProviderSearcher picks the provider backend named in configuration.
func (r *Resources) ProviderSearcher() findproviders.ProviderSearcher {
	if r.Search != nil {
		return search.NewProviderIndex(r.Search.Client, r.Config.Assistant.ProvidersIndex)
	}
	return postgres.NewProviderStore(r.Postgres.DB)
}

// Stages builds every stage handler over the shared resources.
func (r *Resources) Stages() answerquestion.Stages {
	cfg := r.Config
	a := cfg.Assistant
	log := r.Logger
	db := r.Postgres.DB

	var cache *retrieveevidence.EmbeddingCache
	if r.Redis != nil {
		cache = retrieveevidence.NewEmbeddingCache(r.Redis.Client, r.Embedder.EmbeddingModel(),
			config.GetDuration(a.EmbeddingCacheTTL), log)
	}
	engine := retrieveevidence.NewEngine(r.Embedder, postgres.NewDocumentStore(db), cache, a.DocumentationTopK, log)
	resolver := resolvecost.NewResolver(postgres.NewRegionStore(db), postgres.NewPriceStore(db), a.ReferenceYear)

	return answerquestion.Stages{
		Classify: classifyintent.NewHandler(&classifyintent.Config{
			DefaultJurisdiction: a.DefaultJurisdiction,
			Timeout:             r.timeout(classifyintent.TaskType),
		}, log),
		Retrieve: retrieveevidence.NewHandler(&retrieveevidence.Config{
			TopK:     a.TopK,
			CacheTTL: config.GetDuration(a.EmbeddingCacheTTL),
			Timeout:  r.timeout(retrieveevidence.TaskType),
		}, engine, log),
		Cost: resolvecost.NewHandler(&resolvecost.Config{
			ReferenceYear: a.ReferenceYear,
			Timeout:       r.timeout(resolvecost.TaskType),
		}, resolver, log),
		Generate: generateanswer.NewHandler(&generateanswer.Config{
			ContextChars: a.ContextChars,
			Timeout:      r.timeout(generateanswer.TaskType),
		}, r.Completer, r.Registry, log),
		Validate: validateoutput.NewHandler(&validateoutput.Config{
			Timeout: r.timeout(validateoutput.TaskType),
		}, validateoutput.NewValidator(r.Registry), log),
		Providers: findproviders.NewHandler(&findproviders.Config{
			Limit:   a.ProvidersLimit,
			Timeout: r.timeout(findproviders.TaskType),
		}, r.ProviderSearcher(), log),
	}
}

// Pipeline wires the stages into the end-to-end question pipeline.
func (r *Resources) Pipeline() *answerquestion.Pipeline {
	return answerquestion.NewPipeline(&answerquestion.Config{
		Timeout: r.timeout(answerquestion.TaskType),
	}, r.Stages(), r.Obs, r.Logger)
}

func (r *Resources) timeout(taskType string) time.Duration {
	return config.GetDuration(config.GetWorkerConfig(r.Config, taskType).Timeout)
}
