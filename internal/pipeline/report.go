package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// ViewSummary holds the scalar facts shown as metric tiles for a view.
type ViewSummary struct {
	TopKey    string           `json:"top_key"`
	TopValues map[string]Value `json:"top_values"`
	RankMin   Value            `json:"rank_min"`
	RankMax   Value            `json:"rank_max"`
	RankTotal Value            `json:"rank_total"`
}

// ViewResult is one computed view. Groups are ranked and truncated;
// TotalGroups counts the groups before truncation.
type ViewResult struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Key         dataset.Field       `json:"key"`
	Metrics     []Metric            `json:"metrics"`
	RankBy      string              `json:"rank_by"`
	TopN        int                 `json:"top_n,omitempty"`
	TotalGroups int                 `json:"total_groups"`
	Groups      []AggregationResult `json:"groups"`
	Summary     *ViewSummary        `json:"summary,omitempty"` // nil when the view has no groups
}

// Report is the output of one generation pass over a date range.
type Report struct {
	ID                string        `json:"id"`
	GeneratedAt       time.Time     `json:"generated_at"`
	Source            string        `json:"source"`
	FilterField       dataset.Field `json:"filter_field"`
	Range             DateRange     `json:"range"`
	Rows              int           `json:"rows"`
	Empty             bool          `json:"empty"`
	Views             []ViewResult  `json:"views"`
	ReviewScores      []float64     `json:"-"`
	ScoreDistribution [5]int        `json:"score_distribution"`
}

// View returns the named view result.
func (r *Report) View(name string) (ViewResult, bool) {
	for _, v := range r.Views {
		if v.Name == name {
			return v, true
		}
	}
	return ViewResult{}, false
}

// Reporter runs a fixed list of views over a filtered dataset.
type Reporter struct {
	views       []View
	filterField dataset.Field
	logger      *zap.Logger
	now         func() time.Time
}

// NewReporter validates views and the filter field.
func NewReporter(views []View, filterField dataset.Field, logger *zap.Logger) (*Reporter, error) {
	if kind, ok := filterField.Kind(); !ok || kind != dataset.KindTime {
		return nil, fmt.Errorf("%w: %s", ErrNonTimeField, filterField)
	}
	for _, v := range views {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	logger.Info("Reporter initialized",
		zap.String("filter_field", string(filterField)),
		zap.Int("views", len(views)),
	)
	return &Reporter{
		views:       views,
		filterField: filterField,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Views returns the configured views.
func (r *Reporter) Views() []View {
	out := make([]View, len(r.views))
	copy(out, r.views)
	return out
}

// FilterField returns the timestamp field ranges apply to.
func (r *Reporter) FilterField() dataset.Field {
	return r.filterField
}

// Run filters ds to rng and computes every view. A range that retains no
// records yields a report with Empty set and no error.
func (r *Reporter) Run(ds *dataset.Dataset, rng DateRange) (*Report, error) {
	filtered, err := Filter(ds, r.filterField, rng)
	if err != nil {
		reportRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	filteredRows.Set(float64(filtered.Len()))

	report := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: r.now().UTC(),
		Source:      ds.Source(),
		FilterField: r.filterField,
		Range:       rng,
		Rows:        filtered.Len(),
		Views:       make([]ViewResult, 0, len(r.views)),
	}
	logger := r.logger.With(zap.String("report_id", report.ID))

	if rangeErr := rng.Validate(); rangeErr != nil {
		logger.Warn("Inverted date range, report will be empty", zap.Error(rangeErr))
	}

	if filtered.Len() == 0 {
		report.Empty = true
		reportRuns.WithLabelValues("empty").Inc()
		logger.Info("No records in range",
			zap.Time("start", rng.Start),
			zap.Time("end", rng.End),
		)
		return report, nil
	}

	for _, v := range r.views {
		vr, err := runView(filtered, v)
		if err != nil {
			reportRuns.WithLabelValues("error").Inc()
			logger.Error("View failed", zap.String("view", v.Name), zap.Error(err))
			return nil, err
		}
		viewGroups.WithLabelValues(v.Name).Set(float64(vr.TotalGroups))
		report.Views = append(report.Views, vr)
	}

	report.ReviewScores = ReviewScores(filtered)
	report.ScoreDistribution = ScoreDistribution(report.ReviewScores)

	reportRuns.WithLabelValues("ok").Inc()
	logger.Info("Report generated",
		zap.Int("rows", report.Rows),
		zap.Int("views", len(report.Views)),
		zap.Int("review_scores", len(report.ReviewScores)),
	)
	return report, nil
}

func runView(ds *dataset.Dataset, v View) (ViewResult, error) {
	results, err := Aggregate(ds, v.Spec)
	if err != nil {
		return ViewResult{}, fmt.Errorf("view %s: %w", v.Name, err)
	}

	ranked := Rank(results, v.RankBy, v.TopN)
	vr := ViewResult{
		Name:        v.Name,
		Title:       v.Title,
		Key:         v.Spec.Key,
		Metrics:     v.Spec.Metrics,
		RankBy:      v.RankBy,
		TopN:        v.TopN,
		TotalGroups: len(results),
		Groups:      ranked,
	}

	summary, err := summarizeView(ranked, results, v.RankBy)
	switch {
	case errors.Is(err, ErrEmptyResult):
		return vr, nil
	case err != nil:
		return ViewResult{}, fmt.Errorf("view %s: %w", v.Name, err)
	}
	vr.Summary = summary
	return vr, nil
}

// summarizeView reads the top entry from ranked and the rank-metric extent
// and total from the full, untruncated result set.
func summarizeView(ranked, all []AggregationResult, rankBy string) (*ViewSummary, error) {
	top, err := Top(ranked)
	if err != nil {
		return nil, err
	}

	s := &ViewSummary{TopKey: top.Key, TopValues: top.Values}
	lo, hi, err := Extent(all, rankBy)
	switch {
	case errors.Is(err, ErrAbsentMetric):
		return s, nil
	case err != nil:
		return nil, err
	}
	s.RankMin, s.RankMax = Present(lo), Present(hi)

	total, err := Total(all, rankBy)
	if err != nil {
		return nil, err
	}
	s.RankTotal = Present(total)
	return s, nil
}
