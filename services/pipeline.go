package services

import (
	"context"
	"fmt"
	"io"

	"complaints-etl/models"
	"complaints-etl/storage"
	"complaints-etl/utils"
)

// ComplaintPipeline reads, samples, normalizes and persists the complaint data.
type ComplaintPipeline struct {
	reader     storage.RowReader
	writer     storage.TableWriter
	normalizer *Normalizer
	reporter   *ReportService
	sampleSize int
	logger     *utils.Logger
}

func NewComplaintPipeline(reader storage.RowReader, writer storage.TableWriter, sampleSize int, logger *utils.Logger, out io.Writer) *ComplaintPipeline {
	return &ComplaintPipeline{
		reader:     reader,
		writer:     writer,
		normalizer: NewNormalizer(logger),
		reporter:   NewReportService(logger, out),
		sampleSize: sampleSize,
		logger:     logger,
	}
}

// Run executes one load. Tables are appended one after another in
// TableOrder; a failure stops the run but earlier tables stay written.
func (p *ComplaintPipeline) Run(ctx context.Context) (*models.RunReport, error) {
	p.logger.Info("Starting NY complaint data processing...")

	raw, err := p.reader.ReadAll()
	if err != nil {
		return nil, err
	}
	read := len(raw)
	p.logger.Info("Read %d raw complaint rows", read)

	p.logger.Info("Sampling the data")
	raw = Sample(raw, p.sampleSize)

	tables, stats, err := p.normalizer.Build(ctx, raw)
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		p.logger.Info("Writing %d %s records to database", t.Len(), t.Name)
		if _, err := p.writer.Write(ctx, t); err != nil {
			return nil, fmt.Errorf("pipeline: write %s: %w", t.Name, err)
		}
	}

	return p.reporter.Generate(read, len(raw), len(raw)-stats.InputRows, tables, stats), nil
}

// Print writes the run summary.
func (p *ComplaintPipeline) Print(r *models.RunReport) {
	p.reporter.Print(r)
}
