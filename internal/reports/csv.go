package reports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	if _, err := s.buf.WriteString(line); err != nil {
		return err
	}
	return nil
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

func writeSummaryCSV(w io.Writer, summary *Summary) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Scan Activity Summary"); err != nil {
		return err
	}
	rangeLine := fmt.Sprintf("# Range: %s s/d %s | Generated: %s",
		summary.From.Format("2006-01-02"),
		summary.To.Format("2006-01-02"),
		summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if err := streamer.writeComment(rangeLine); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Date", "Scans", "Reviewed", "Unreviewed"}); err != nil {
		return err
	}
	for _, row := range summary.Days {
		if err := streamer.writeRow([]string{
			row.Date,
			strconv.Itoa(row.ScanCount),
			strconv.Itoa(row.ReviewedCount),
			strconv.Itoa(row.UnreviewedCount),
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", "", ""}); err != nil {
		return err
	}
	totalsRows := [][]string{
		{"Totals", strconv.Itoa(summary.TotalScans), strconv.Itoa(summary.Reviewed), strconv.Itoa(summary.Unreviewed)},
	}
	for _, row := range totalsRows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Close()
}
