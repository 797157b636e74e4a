// Package trajectory post-processes recorded browser-automation
// trajectories: it removes verified-redundant steps, corrects mismatched
// task instructions, and turns the results into retrieval context and
// training data.
//
// A trajectory run is a directory holding trajectory.json (a map of
// string-encoded step indices to step payloads), metadata.json, and an
// images/ directory of per-step screenshots. The pipeline stages operate
// on trees of such directories:
//
//   - Optimization (pkg/optimize): an oracle proposes redundant steps,
//     a second oracle pass verifies the proposal against screenshots, and
//     confirmed steps are removed with dense renumbering. Artifact files
//     are never moved or renamed; the pre-rewrite trajectory is backed up
//     exactly once and a machine-readable report records each pass.
//
//   - Instruction augmentation (pkg/augment): the oracle reconciles the
//     recorded 3-level instructions with what the steps and final
//     screenshots show actually happened, rewriting metadata and the HTML
//     report with the same backup-once discipline.
//
//   - Knowledge ingestion (pkg/knowledge): finished trajectories are
//     summarized into typed entities and relations and persisted to a
//     local SQLite store for retrieval context.
//
//   - Dataset export and statistics (pkg/datasets): flattens runs into a
//     Parquet training dataset and aggregates run-level statistics.
//
// Supporting packages: pkg/core defines the Oracle abstraction, pkg/llms
// provides the Anthropic-backed implementation, pkg/trajectory holds the
// run-directory model and its write-order guarantees, pkg/utils extracts
// JSON objects from free-form oracle output, and pkg/config carries the
// pipeline configuration. cmd/trajectory-cli drives all stages over a
// results tree.
package trajectory
