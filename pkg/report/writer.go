package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/christopher-wolff-zz/lab-old/pkg/config"
	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
	"github.com/christopher-wolff-zz/lab-old/pkg/logger"
	"github.com/christopher-wolff-zz/lab-old/pkg/statistics"
)

const (
	statisticsSheet = "statistics"
	summarySheet    = "summary"
	averageReturns  = "average_returns"
)

// Writer stores experiment statistics under a directory of an afero filesystem
type Writer struct {
	fs     afero.Fs
	dir    string
	window int
	logger logger.Logger
}

// NewWriter returns a Writer rooted at dir. A smoothing window above 1 adds
// smoothed series to the charts.
func NewWriter(fs afero.Fs, dir string, smoothingWindow int, log logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Writer{fs: fs, dir: dir, window: smoothingWindow, logger: log}
}

// Write stores stats as name.<format> for each format and returns the written paths
func (w *Writer) Write(name string, stats *statistics.IterationStatistics, formats ...string) ([]string, error) {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return nil, labError.NewFromError(fmt.Errorf("failed to create report directory: %w", err), labError.WriteReport)
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		var render func(io.Writer, *statistics.IterationStatistics) error
		switch format {
		case config.CSVFormat:
			render = WriteCSV
		case config.HTMLFormat:
			render = w.WriteHTML
		case config.XLSXFormat:
			render = WriteXLSX
		default:
			return paths, fmt.Errorf("unknown report format %q: %w", format, labError.ErrInvalidConfig)
		}

		path := filepath.Join(w.dir, name+"."+format)
		if err := w.writeFile(path, stats, render); err != nil {
			return paths, labError.NewFromError(fmt.Errorf("failed to write %s: %w", path, err), labError.WriteReport)
		}
		w.logger.Infof("Wrote %s report to %s", format, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFile(path string, stats *statistics.IterationStatistics, render func(io.Writer, *statistics.IterationStatistics) error) error {
	f, err := w.fs.Create(path)
	if err != nil {
		return err
	}
	if err := render(f, stats); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes stats in long format, one metric,index,value row per recorded value
func WriteCSV(out io.Writer, stats *statistics.IterationStatistics) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"metric", "index", "value"}); err != nil {
		return err
	}
	for _, key := range stats.Keys() {
		for i, v := range stats.Get(key) {
			row := []string{key, strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHTML renders a line chart of the per-iteration average returns
func (w *Writer) WriteHTML(out io.Writer, stats *statistics.IterationStatistics) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Average return per iteration"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "return"}),
	)

	iterations := 0
	for _, mode := range []core.Mode{core.Train, core.Eval} {
		if n := stats.Len(mode.Key(averageReturns)); n > iterations {
			iterations = n
		}
	}
	xs := make([]string, iterations)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xs)

	for _, mode := range []core.Mode{core.Train, core.Eval} {
		values := stats.Get(mode.Key(averageReturns))
		if values == nil {
			continue
		}
		line.AddSeries(mode.String(), lineData(values))
		if w.window > 1 {
			smoothed, err := Smooth(values, w.window, Mirror)
			if err != nil {
				return err
			}
			line.AddSeries(mode.String()+" (smoothed)", lineData(smoothed))
		}
	}
	return line.Render(out)
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}

// WriteXLSX writes a workbook with one column per metric and a summary sheet
func WriteXLSX(out io.Writer, stats *statistics.IterationStatistics) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", statisticsSheet); err != nil {
		return err
	}
	for col, key := range stats.Keys() {
		header, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(statisticsSheet, header, key); err != nil {
			return err
		}
		for row, v := range stats.Get(key) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(statisticsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	headers := []interface{}{"metric", "n", "mean", "stddev", "min", "max"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return err
	}
	for i, s := range Summarize(stats) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.Key, s.N, s.Mean, s.StdDev, s.Min, s.Max}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(out)
	return err
}
