package services

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"outlet-sales/models"
	"outlet-sales/regression"
	"outlet-sales/utils"
)

const worstMissCount = 5

// ReportService summarises predictions and prints them for the terminal.
type ReportService struct {
	logger *utils.Logger
	out    io.Writer
}

// NewReportService creates a ReportService printing to stdout.
func NewReportService(logger *utils.Logger) *ReportService {
	return NewReportServiceTo(logger, os.Stdout)
}

// NewReportServiceTo creates a ReportService printing to w.
func NewReportServiceTo(logger *utils.Logger, w io.Writer) *ReportService {
	return &ReportService{logger: logger, out: w}
}

// Generate builds the actual-vs-predicted summary of a batch run.
func (s *ReportService) Generate(res *BatchResult) *models.PredictionReport {
	report := &models.PredictionReport{
		AverageByOutlet: make(map[string]float64),
	}
	if res == nil || len(res.Predictions) == 0 {
		return report
	}
	if res.Artifact != nil {
		report.ModelID = res.Artifact.ID
	}
	report.TotalPredictions = len(res.Predictions)

	var (
		total        float64
		outletTotals = make(map[string]float64)
		outletCounts = make(map[string]int)
		comparisons  []*models.Comparison
		actual       []float64
		predicted    []float64
	)
	report.MinPredicted = res.Predictions[0].PredictedSales
	report.MaxPredicted = res.Predictions[0].PredictedSales

	for i, p := range res.Predictions {
		y := p.PredictedSales
		total += y
		report.MinPredicted = min(report.MinPredicted, y)
		report.MaxPredicted = max(report.MaxPredicted, y)

		r := res.Records[i]
		outletTotals[r.OutletType] += y
		outletCounts[r.OutletType]++

		if r.HasTarget() {
			comparisons = append(comparisons, &models.Comparison{
				ItemIdentifier:   r.ItemIdentifier,
				OutletIdentifier: r.OutletIdentifier,
				OutletType:       r.OutletType,
				Actual:           *r.ItemOutletSales,
				Predicted:        y,
			})
			actual = append(actual, *r.ItemOutletSales)
			predicted = append(predicted, y)
		}
	}

	report.AveragePredicted = round2(total / float64(len(res.Predictions)))
	report.MinPredicted = round2(report.MinPredicted)
	report.MaxPredicted = round2(report.MaxPredicted)
	for outlet, sum := range outletTotals {
		report.AverageByOutlet[outlet] = round2(sum / float64(outletCounts[outlet]))
	}

	report.WithActual = len(comparisons)
	if len(comparisons) > 0 {
		if m, err := regression.Evaluate(actual, predicted); err != nil {
			s.logger.Warn("[report] Could not compute metrics: %v", err)
		} else {
			report.Metrics = &m
		}

		slices.SortStableFunc(comparisons, func(a, b *models.Comparison) int {
			return cmp.Compare(math.Abs(b.Error()), math.Abs(a.Error()))
		})
		report.WorstMisses = comparisons[:min(worstMissCount, len(comparisons))]
	}

	return report
}

// Print writes the batch report.
func (s *ReportService) Print(r *models.PredictionReport) {
	w := s.out
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📈 OUTLET SALES PREDICTIONS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Model                  : \033[1m%s\033[0m\n", r.ModelID)
	fmt.Fprintf(w, "  Rows predicted         : \033[1m%d\033[0m\n", r.TotalPredictions)
	fmt.Fprintf(w, "  Rows with actual sales : \033[1m%d\033[0m\n", r.WithActual)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Predicted Sales\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalPredictions > 0 {
		fmt.Fprintf(w, "  Average : \033[1;32m%.2f\033[0m\n", r.AveragePredicted)
		fmt.Fprintf(w, "  Minimum : \033[1;32m%.2f\033[0m\n", r.MinPredicted)
		fmt.Fprintf(w, "  Maximum : \033[1;32m%.2f\033[0m\n", r.MaxPredicted)
	} else {
		fmt.Fprintf(w, "  No predictions\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Actual vs Predicted\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Metrics == nil {
		fmt.Fprintf(w, "  No rows with actual sales\n")
	} else {
		printMetrics(w, *r.Metrics)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  \033[1mLargest misses\033[0m\n")
		for i, c := range r.WorstMisses {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-7s %-7s actual %9.2f  predicted %9.2f  \033[1;31m%+9.2f\033[0m\n",
				i+1, c.ItemIdentifier, c.OutletIdentifier, c.Actual, c.Predicted, c.Error())
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Average Prediction by Outlet Type\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	outlets := make([]string, 0, len(r.AverageByOutlet))
	for o := range r.AverageByOutlet {
		outlets = append(outlets, o)
	}
	slices.SortFunc(outlets, func(a, b string) int {
		return cmp.Compare(r.AverageByOutlet[b], r.AverageByOutlet[a])
	})
	peak := 0.0
	if len(outlets) > 0 {
		peak = r.AverageByOutlet[outlets[0]]
	}
	for _, o := range outlets {
		avg := r.AverageByOutlet[o]
		bar := ""
		if peak > 0 && avg > 0 {
			bar = strings.Repeat("█", int(math.Round(avg/peak*20)))
		}
		fmt.Fprintf(w, "  %-20s %s %.2f\n", truncate(o, 20), bar, avg)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// PrintTraining writes the evaluation of a freshly trained artifact.
func (s *ReportService) PrintTraining(a *models.Artifact) {
	w := s.out
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n\033[1;33m  Model %s\033[0m\n", a.ID)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Features   : %d\n", a.Schema.Len())
	fmt.Fprintf(w, "  Train rows : %d\n", a.TrainRows)
	fmt.Fprintf(w, "  Test rows  : %d\n", a.TestRows)
	printMetrics(w, a.Metrics)
	fmt.Fprintln(w)
}

// PrintSingle writes the outcome of one interactive prediction.
func (s *ReportService) PrintSingle(p *models.SinglePrediction) {
	w := s.out
	r := p.Record
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n\033[1;33m  Prediction for %s @ %s\033[0m\n", r.ItemIdentifier, r.OutletIdentifier)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  MRP            : %.2f\n", r.ItemMRP)
	if r.ItemVisibility != nil {
		fmt.Fprintf(w, "  Visibility     : %.4f\n", *r.ItemVisibility)
	}
	fmt.Fprintf(w, "  Fat content    : %s\n", r.ItemFatContent)
	fmt.Fprintf(w, "  Location type  : %s\n", r.OutletLocationType)
	fmt.Fprintf(w, "  Outlet type    : %s\n", r.OutletType)
	fmt.Fprintf(w, "  Established    : %d\n", r.OutletEstablishmentYear)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Predicted      : \033[1;32m%.2f\033[0m\n", p.Predicted)
	if diff, ok := p.Difference(); ok {
		fmt.Fprintf(w, "  Actual         : %.2f\n", *r.ItemOutletSales)
		fmt.Fprintf(w, "  Difference     : \033[1;31m%+.2f\033[0m\n", diff)
	} else {
		fmt.Fprintf(w, "  Actual         : unknown\n")
	}
	fmt.Fprintln(w)
}

// PrintHistory writes saved predictions, newest first.
func (s *ReportService) PrintHistory(preds []*models.Prediction) {
	w := s.out
	if len(preds) == 0 {
		fmt.Fprintf(w, "  No predictions saved yet\n")
		return
	}
	fmt.Fprintf(w, "\n  %-20s %-8s %-8s %12s  %s\n", "Created", "Item", "Outlet", "Predicted", "Model")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 60))
	for _, p := range preds {
		fmt.Fprintf(w, "  %-20s %-8s %-8s %12.2f  %s\n",
			p.CreatedAt.Format("2006-01-02 15:04:05"), p.ItemIdentifier, p.OutletIdentifier,
			p.PredictedSales, truncate(p.ModelID, 8))
	}
	fmt.Fprintln(w)
}

// PrintSchema writes the artifact's feature columns in encoding order.
func (s *ReportService) PrintSchema(a *models.Artifact) {
	w := s.out
	fmt.Fprintf(w, "\n  Model       : %s\n", a.ID)
	fmt.Fprintf(w, "  Fingerprint : %s\n", a.Fingerprint)
	fmt.Fprintf(w, "  Columns     : %d\n", a.Schema.Len())
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 60))
	for i, c := range a.Schema.Columns() {
		fmt.Fprintf(w, "  %3d  %-40s % .4f\n", i+1, c.Name, a.Model.Coefficients[i])
	}
	fmt.Fprintf(w, "       %-40s % .4f\n\n", "(intercept)", a.Model.Intercept)
}

func printMetrics(w io.Writer, m regression.Metrics) {
	fmt.Fprintf(w, "  R²   : \033[1;32m%.4f\033[0m\n", m.R2)
	fmt.Fprintf(w, "  MAE  : %.2f\n", m.MAE)
	fmt.Fprintf(w, "  RMSE : %.2f\n", m.RMSE)
	fmt.Fprintf(w, "  N    : %d\n", m.N)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
