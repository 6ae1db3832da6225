// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ghosttype/ghosttype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RunMetrics computes WPM, CPM, and efficiency for a run. Speed is measured
// over simulated time so pacing flags like --no-delay do not skew history.
// Efficiency is payload characters per emitted event; typo overhead pushes it
// below 1.
func RunMetrics(chars, events int, simulatedMs int64) (wpm, cpm, efficiency float64) {
	if simulatedMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(simulatedMs) / 60000.0
	wpm = (float64(chars) / 5.0) / minutes
	cpm = float64(chars) / minutes
	if events > 0 {
		efficiency = float64(chars) / float64(events)
	}
	return wpm, cpm, efficiency
}

// TypoRate returns typos per 100 payload characters.
func TypoRate(typos, chars int) float64 {
	if chars <= 0 {
		return 0
	}
	return float64(typos) / float64(chars) * 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for runs.
func RenderSummary(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	var totalWPM, totalEff float64
	bestWPM := 0.0
	var chars, typos, corrections int
	var simulated time.Duration
	for _, r := range runs {
		wpm, _, eff := RunMetrics(r.Chars, r.Events, r.SimulatedMs)
		totalWPM += wpm
		totalEff += eff
		if wpm > bestWPM {
			bestWPM = wpm
		}
		chars += r.Chars
		typos += r.Typos
		corrections += r.Corrections
		simulated += time.Duration(r.SimulatedMs) * time.Millisecond
	}
	count := float64(len(runs))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d\n", len(runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Efficiency: %.2f%%\n", (totalEff/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", chars); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Typos: %d (%.2f per 100 chars)\n", typos, TypoRate(typos, chars)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Corrections: %d\n", corrections); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Simulated time: %s\n", simulated.Round(time.Second)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints speed and typo rate curves across runs.
func RenderCurves(w io.Writer, runs []model.RunRecord, window int) error {
	return RenderCurvesWithSize(w, runs, window, 0, 10, false)
}

// RenderCurvesWithSize prints speed and typo rate curves sized to a given
// total width.
func RenderCurvesWithSize(w io.Writer, runs []model.RunRecord, window, totalWidth, height int, useColor bool) error {
	if len(runs) == 0 {
		return nil
	}
	wpms := make([]float64, len(runs))
	rates := make([]float64, len(runs))
	for i, r := range runs {
		wpm, _, _ := RunMetrics(r.Chars, r.Events, r.SimulatedMs)
		wpms[i] = wpm
		rates[i] = TypoRate(r.Typos, r.Chars)
	}
	wpms = MovingAverage(wpms, window)
	rates = MovingAverage(rates, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Run Curves", []Series{
		{Name: "WPM", Values: wpms},
		{Name: "Typos/100", Values: rates},
	}, width, height, useColor)
}

// RenderRunsTable prints one row per run, oldest first.
func RenderRunsTable(w io.Writer, runs []model.RunRecord) error {
	return renderRunsTable(w, "Runs", runs)
}

// RenderTopRuns prints the n fastest runs.
func RenderTopRuns(w io.Writer, runs []model.RunRecord, n int) error {
	return renderRunsTable(w, "Top Runs", TopRunsByWPM(runs, n))
}

func renderRunsTable(w io.Writer, title string, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Ended", "Source", "Chars", "WPM", "Typos", "Bursts", "Wall"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		wpm, _, _ := RunMetrics(r.Chars, r.Events, r.SimulatedMs)
		wall := (time.Duration(r.WallMs) * time.Millisecond).Round(100 * time.Millisecond)
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			fmt.Sprintf("%d", r.Chars),
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%d", r.Typos),
			fmt.Sprintf("%d", r.Corrections),
			wall.String(),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderSourceTable prints per-source aggregates.
func RenderSourceTable(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		return nil
	}
	type bucket struct {
		runs     int
		totalWPM float64
		chars    int
		typos    int
	}
	bySource := map[string]*bucket{}
	for _, r := range runs {
		b, ok := bySource[r.Source]
		if !ok {
			b = &bucket{}
			bySource[r.Source] = b
		}
		wpm, _, _ := RunMetrics(r.Chars, r.Events, r.SimulatedMs)
		b.runs++
		b.totalWPM += wpm
		b.chars += r.Chars
		b.typos += r.Typos
	}
	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	if _, err := fmt.Fprintln(w, "By Source"); err != nil {
		return err
	}
	headers := []string{"Source", "Runs", "Avg WPM", "Typos/100"}
	rows := make([][]string, 0, len(sources))
	for _, source := range sources {
		b := bySource[source]
		rows = append(rows, []string{
			source,
			fmt.Sprintf("%d", b.runs),
			fmt.Sprintf("%.1f", b.totalWPM/float64(b.runs)),
			fmt.Sprintf("%.2f", TypoRate(b.typos, b.chars)),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderBursts prints the correction burst length histogram.
func RenderBursts(w io.Writer, buckets []model.BurstBucket) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintln(w, "No correction bursts recorded.")
		return err
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if _, err := fmt.Fprintln(w, "Correction Bursts"); err != nil {
		return err
	}
	headers := []string{"Length", "Count", "Share"}
	rows := make([][]string, 0, len(buckets))
	counts := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		share := 0.0
		if total > 0 {
			share = float64(b.Count) / float64(total) * 100
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.Length),
			fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("%.1f%%", share),
		})
		counts = append(counts, float64(b.Count))
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Distribution: %s\n", Sparkline(counts)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
