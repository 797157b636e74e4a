package knowledge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/optimize"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
	"github.com/XiaoConstantine/trajectory-go/pkg/utils"
)

const extractSystemPrompt = "You are a knowledge extraction assistant. You will be given a structured description of a " +
	"completed web automation trajectory. Extract the entities and relations it contains.\n\n" +
	"Allowed entity types: 'task', 'website', 'interaction_element', 'action_sequence', 'outcome'.\n\n" +
	"Your response MUST be a single valid JSON object with these fields:\n" +
	"'entities' (array of objects with 'type', 'name', 'summary'),\n" +
	"'relations' (array of objects with 'source', 'target', 'type', 'description', where source and target are entity names from the entities array).\n\n" +
	"Do NOT include ```json markers or any other text outside the JSON."

// IngestorConfig holds generation parameters and concurrency for ingestion.
type IngestorConfig struct {
	Temperature float64
	MaxTokens   int
	Workers     int
}

// DefaultIngestorConfig returns the parameters used for entity extraction.
func DefaultIngestorConfig() IngestorConfig {
	return IngestorConfig{Temperature: 0.2, MaxTokens: 1000, Workers: 4}
}

// IngestSummary aggregates a batch ingestion pass.
type IngestSummary struct {
	Total    int
	Ingested int
	Failed   int
}

// Ingestor summarizes optimized trajectories into typed entities and
// relations and persists them.
type Ingestor struct {
	oracle core.Oracle
	store  Store
	cfg    IngestorConfig
}

// NewIngestor wires an ingestor around one oracle and one store.
func NewIngestor(oracle core.Oracle, store Store, cfg IngestorConfig) *Ingestor {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultIngestorConfig().Workers
	}
	return &Ingestor{oracle: oracle, store: store, cfg: cfg}
}

// IngestRun extracts and persists the knowledge of a single run. All
// failures carry the IngestFailed code so batch callers can count them
// uniformly.
func (ing *Ingestor) IngestRun(ctx context.Context, run *trajectory.Run) error {
	ctx = logging.WithRunID(ctx, run.Name())

	traj, err := run.LoadTrajectory()
	if err != nil {
		return errors.Wrap(err, errors.IngestFailed, "failed to load trajectory for ingestion")
	}
	meta, err := run.LoadMetadata()
	if err != nil {
		return errors.Wrap(err, errors.IngestFailed, "failed to load metadata for ingestion")
	}
	if traj.Len() == 0 {
		return errors.New(errors.IngestFailed, "trajectory has no steps")
	}

	episode, err := buildEpisodeText(run, traj, meta)
	if err != nil {
		return errors.Wrap(err, errors.IngestFailed, "failed to build episode text")
	}

	resp, err := ing.oracle.GenerateWithContent(ctx,
		[]core.ContentBlock{core.NewTextBlock(episode)},
		core.WithSystemPrompt(extractSystemPrompt),
		core.WithTemperature(ing.cfg.Temperature),
		core.WithMaxTokens(ing.cfg.MaxTokens),
	)
	if err != nil {
		return errors.Wrap(err, errors.IngestFailed, "entity extraction call failed")
	}

	parsed, err := utils.ExtractJSONObject(resp.Content)
	if err != nil {
		return errors.Wrap(err, errors.IngestFailed, "entity extraction returned unusable output")
	}

	entities, relations, err := decodeExtraction(parsed, run.Name())
	if err != nil {
		return err
	}

	for _, e := range entities {
		if err := ing.store.AddEntity(ctx, e); err != nil {
			return errors.Wrap(err, errors.IngestFailed, "failed to persist entity")
		}
	}
	for _, r := range relations {
		if err := ing.store.AddRelation(ctx, r); err != nil {
			return errors.Wrap(err, errors.IngestFailed, "failed to persist relation")
		}
	}

	logging.GetLogger().Info(ctx, "ingested %d entities and %d relations", len(entities), len(relations))
	return nil
}

// IngestAll runs ingestion over every run directory under rootDir with
// bounded concurrency. Per-run failures are counted, not fatal.
func (ing *Ingestor) IngestAll(ctx context.Context, rootDir string, limit int) (*IngestSummary, error) {
	logger := logging.GetLogger()

	runs, err := optimize.ScanRuns(rootDir)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	summary := &IngestSummary{Total: len(runs)}
	results := make([]error, len(runs))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(ing.cfg.Workers)
	for i, run := range runs {
		idx, r := i, run
		p.Go(func(ctx context.Context) error {
			results[idx] = ing.IngestRun(ctx, r)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return summary, errors.Wrap(err, errors.Canceled, "batch ingestion canceled")
	}

	for i, err := range results {
		if err != nil {
			summary.Failed++
			logger.Error(ctx, "ingestion of %s failed: %v", runs[i].Name(), err)
			continue
		}
		summary.Ingested++
	}

	logger.Info(ctx, "ingestion complete: %d runs, %d ingested, %d failed",
		summary.Total, summary.Ingested, summary.Failed)
	return summary, nil
}

// decodeExtraction turns a parsed oracle response into store rows. Entities
// with unknown types are rejected; relations naming unknown entities are
// dropped with the run still counting as ingested.
func decodeExtraction(parsed map[string]interface{}, runID string) ([]*Entity, []*Relation, error) {
	now := time.Now()

	rawEntities, ok := parsed["entities"].([]interface{})
	if !ok {
		return nil, nil, errors.New(errors.IngestFailed, "extraction response missing entities array")
	}

	byName := make(map[string]*Entity, len(rawEntities))
	entities := make([]*Entity, 0, len(rawEntities))
	for _, raw := range rawEntities {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		typ, _ := obj["type"].(string)
		summary, _ := obj["summary"].(string)
		if name == "" || !validEntityTypes[EntityType(typ)] {
			continue
		}
		e := &Entity{
			ID:        uuid.NewString(),
			Type:      EntityType(typ),
			Name:      name,
			Summary:   summary,
			RunID:     runID,
			CreatedAt: now,
		}
		byName[name] = e
		entities = append(entities, e)
	}
	if len(entities) == 0 {
		return nil, nil, errors.New(errors.IngestFailed, "extraction produced no usable entities")
	}

	var relations []*Relation
	if rawRelations, ok := parsed["relations"].([]interface{}); ok {
		for _, raw := range rawRelations {
			obj, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			source, _ := obj["source"].(string)
			target, _ := obj["target"].(string)
			src, srcOK := byName[source]
			dst, dstOK := byName[target]
			if !srcOK || !dstOK {
				continue
			}
			typ, _ := obj["type"].(string)
			description, _ := obj["description"].(string)
			relations = append(relations, &Relation{
				ID:          uuid.NewString(),
				SourceID:    src.ID,
				TargetID:    dst.ID,
				Type:        typ,
				Description: description,
				RunID:       runID,
				CreatedAt:   now,
			})
		}
	}
	return entities, relations, nil
}
