package snowflake

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	dialect "github.com/leapstack-labs/sfcatalog/pkg/dialects/snowflake"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	sf "github.com/snowflakedb/gosnowflake"
	"golang.org/x/sync/errgroup"
)

const copyFileFormat = `FILE_FORMAT=(TYPE=CSV FIELD_OPTIONALLY_ENCLOSED_BY='"' SKIP_HEADER=1 EMPTY_FIELD_AS_NULL=TRUE COMPRESSION=AUTO)`

// statusLoaded is the COPY status of a fully loaded file.
const statusLoaded = "LOADED"

// BulkLoad stages f as CSV chunks in a temporary stage and copies them
// into table. The session's current database and schema are used.
func (a *Adapter) BulkLoad(ctx context.Context, f *frame.Frame, table string) (*core.LoadResult, error) {
	if a.DB == nil {
		return nil, errors.New("database connection not established")
	}

	chunks, err := encodeChunks(ctx, f, a.params.ChunkSize, a.params.Parallel)
	if err != nil {
		return nil, err
	}

	stage := dialect.QuoteIdentifier(a.stageName())
	if err := a.Exec(ctx, "CREATE TEMPORARY STAGE "+stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	result, err := a.loadStaged(ctx, stage, chunks, f.ColumnNames(), table)

	// temporary stages vanish with the session, a failed drop only leaks until then
	if dropErr := a.Exec(context.WithoutCancel(ctx), "DROP STAGE IF EXISTS "+stage); dropErr != nil {
		if err != nil {
			return nil, multierror.Append(err, fmt.Errorf("failed to drop stage: %w", dropErr))
		}
		a.Logger.Warn("failed to drop stage", slog.String("stage", stage), slog.Any("error", dropErr))
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Adapter) loadStaged(ctx context.Context, stage string, chunks [][]byte, columns []string, table string) (*core.LoadResult, error) {
	compress := "TRUE"
	if a.params.AutoCompress != nil && !*a.params.AutoCompress {
		compress = "FALSE"
	}

	for i, chunk := range chunks {
		put := fmt.Sprintf("PUT file://chunk_%d.csv @%s AUTO_COMPRESS=%s", i, stage, compress)
		a.Logger.Debug("staging chunk", slog.Int("chunk", i), slog.Int("bytes", len(chunk)))
		if err := a.Exec(sf.WithFileStream(ctx, bytes.NewReader(chunk)), put); err != nil {
			return nil, fmt.Errorf("failed to stage chunk %d: %w", i, err)
		}
	}

	rows, err := a.Query(ctx, copyStatement(table, columns, stage))
	if err != nil {
		return nil, fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	statuses, err := parseCopyResult(rows.Rows)
	if err != nil {
		return nil, err
	}

	result := &core.LoadResult{Success: true, Chunks: len(chunks), Output: statuses}
	for _, s := range statuses {
		if !strings.EqualFold(s.Status, statusLoaded) {
			result.Success = false
		}
		result.Rows += s.RowsLoaded
	}
	return result, nil
}

// copyStatement builds the COPY INTO for the staged files.
func copyStatement(table string, columns []string, stage string) string {
	var b strings.Builder
	b.WriteString("COPY INTO ")
	b.WriteString(dialect.QuoteIdentifier(table))
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = dialect.QuoteIdentifier(c)
		}
		b.WriteString(" (" + strings.Join(quoted, ", ") + ")")
	}
	b.WriteString(" FROM @" + stage + " " + copyFileFormat + " PURGE=TRUE ON_ERROR=ABORT_STATEMENT")
	return b.String()
}

// encodeChunks splits f into CSV documents of at most size rows each,
// encoding up to parallel chunks at once. An empty frame has no chunks.
func encodeChunks(ctx context.Context, f *frame.Frame, size, parallel int) ([][]byte, error) {
	n := f.Len()
	if n == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = n
	}

	chunks := make([][]byte, (n+size-1)/size)
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range chunks {
		lo := i * size
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := frame.WriteCSV(&buf, frame.New(f.Columns, f.Rows[lo:hi])); err != nil {
				return fmt.Errorf("failed to encode chunk %d: %w", i, err)
			}
			chunks[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// parseCopyResult reads the per-file rows of a COPY INTO result. A result
// without a file column (no files processed) yields no statuses.
func parseCopyResult(rows *sql.Rows) ([]core.CopyStatus, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read copy result columns: %w", err)
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[strings.ToLower(c)] = i
	}

	var statuses []core.CopyStatus
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan copy result: %w", err)
		}
		if _, ok := index["file"]; !ok {
			continue
		}

		get := func(name string) string {
			if i, ok := index[name]; ok {
				return values[i].String
			}
			return ""
		}
		statuses = append(statuses, core.CopyStatus{
			File:       get("file"),
			Status:     get("status"),
			RowsParsed: parseCount(get("rows_parsed")),
			RowsLoaded: parseCount(get("rows_loaded")),
			FirstError: get("first_error"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating copy result: %w", err)
	}
	return statuses, nil
}

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
