package datasets

import (
	"context"
	"os"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// exportSchema is one row per trajectory step. step_index is the current
// (post-optimization) index; screenshot keeps the original artifact
// filename, which is why the two can disagree.
var exportSchema = arrow.NewSchema([]arrow.Field{
	{Name: "run_id", Type: arrow.BinaryTypes.String},
	{Name: "step_index", Type: arrow.PrimitiveTypes.Int32},
	{Name: "screenshot", Type: arrow.BinaryTypes.String},
	{Name: "code", Type: arrow.BinaryTypes.String},
	{Name: "description", Type: arrow.BinaryTypes.String},
	{Name: "goal", Type: arrow.BinaryTypes.String},
	{Name: "instruction_low", Type: arrow.BinaryTypes.String},
	{Name: "success", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

// ExportParquet flattens the given runs into a columnar training dataset at
// path. Runs that cannot be loaded are skipped with a log line; an empty
// run set still produces a valid file with the schema and zero rows.
func ExportParquet(ctx context.Context, runs []*trajectory.Run, path string) (int, error) {
	logger := logging.GetLogger()

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.WithFields(
			errors.Wrap(err, errors.RewriteIOError, "failed to create dataset file"),
			errors.Fields{"path": path},
		)
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(exportSchema, f,
		parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return 0, errors.Wrap(err, errors.Unknown, "failed to create parquet writer")
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, exportSchema)
	defer builder.Release()

	rows := 0
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return rows, errors.Wrap(err, errors.Canceled, "dataset export canceled")
		}

		traj, err := run.LoadTrajectory()
		if err != nil {
			logger.Warn(ctx, "skipping %s: %v", run.Name(), err)
			continue
		}
		meta, err := run.LoadMetadata()
		if err != nil {
			logger.Warn(ctx, "skipping %s: %v", run.Name(), err)
			continue
		}

		indices, err := traj.Indices()
		if err != nil {
			logger.Warn(ctx, "skipping %s: %v", run.Name(), err)
			continue
		}
		for _, n := range indices {
			step, _ := traj.StepAt(n)
			builder.Field(0).(*array.StringBuilder).Append(run.Name())
			builder.Field(1).(*array.Int32Builder).Append(int32(n))
			builder.Field(2).(*array.StringBuilder).Append(step.Screenshot)
			builder.Field(3).(*array.StringBuilder).Append(step.Action.Code)
			builder.Field(4).(*array.StringBuilder).Append(step.Action.Description)
			builder.Field(5).(*array.StringBuilder).Append(meta.Goal)
			builder.Field(6).(*array.StringBuilder).Append(meta.Task.Instruction.LowLevel)
			builder.Field(7).(*array.BooleanBuilder).Append(meta.Success)
			rows++
		}
	}

	record := builder.NewRecord()
	defer record.Release()
	if err := writer.Write(record); err != nil {
		writer.Close()
		return 0, errors.Wrap(err, errors.RewriteIOError, "failed to write dataset rows")
	}
	if err := writer.Close(); err != nil {
		return 0, errors.Wrap(err, errors.RewriteIOError, "failed to finalize dataset file")
	}

	logger.Info(ctx, "exported %d rows from %d runs to %s", rows, len(runs), path)
	return rows, nil
}
