package pipeline

import (
	"fmt"

	"github.com/sanspareilsmyn/orderlens/internal/config"
	"github.com/sanspareilsmyn/orderlens/internal/dataset"
)

// Built-in view and metric names.
const (
	ViewRevenueByRegion = "revenue_by_region"
	ViewCategoryReviews = "category_reviews"

	MetricOrderCount         = "order_count"
	MetricRevenue            = "revenue"
	MetricAverageReviewScore = "average_review_score"
	MetricReviewCount        = "review_count"
	MetricMinReviewScore     = "min_review_score"
	MetricMaxReviewScore     = "max_review_score"
	MetricReviewScoreStd     = "review_score_std"

	categoryTopN = 10
)

// View is a declarative report section: what to group, what to compute and
// how to rank it.
type View struct {
	Name   string          `json:"name"`
	Title  string          `json:"title"`
	Spec   AggregationSpec `json:"spec"`
	RankBy string          `json:"rank_by"`
	TopN   int             `json:"top_n,omitempty"` // 0 keeps every group
}

// Validate checks the aggregation and that RankBy names one of its metrics.
func (v View) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidView)
	}
	if err := v.Spec.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidView, v.Name, err)
	}
	if v.TopN < 0 {
		return fmt.Errorf("%w: %s: negative topN", ErrInvalidView, v.Name)
	}
	for _, m := range v.Spec.Metrics {
		if m.Name == v.RankBy {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: rankBy %q: %w", ErrInvalidView, v.Name, v.RankBy, ErrUnknownMetric)
}

// DefaultViews returns the revenue-by-region and top-10 category views.
func DefaultViews() []View {
	return []View{
		{
			Name:  ViewRevenueByRegion,
			Title: "Total Payment and Order Count by Customer State",
			Spec: AggregationSpec{
				Key: dataset.CustomerState,
				Metrics: []Metric{
					{Name: MetricOrderCount, Field: dataset.OrderID, Func: UniqueCount},
					{Name: MetricRevenue, Field: dataset.PaymentValue, Func: Sum},
				},
			},
			RankBy: MetricRevenue,
		},
		{
			Name:  ViewCategoryReviews,
			Title: "Top 10 Product Categories by Order Count",
			Spec: AggregationSpec{
				Key: dataset.ProductCategory,
				Metrics: []Metric{
					{Name: MetricOrderCount, Field: dataset.OrderID, Func: UniqueCount},
					{Name: MetricAverageReviewScore, Field: dataset.ReviewScore, Func: Mean},
					{Name: MetricReviewCount, Field: dataset.ReviewScore, Func: Count},
					{Name: MetricMinReviewScore, Field: dataset.ReviewScore, Func: Min},
					{Name: MetricMaxReviewScore, Field: dataset.ReviewScore, Func: Max},
					{Name: MetricReviewScoreStd, Field: dataset.ReviewScore, Func: StdDev},
				},
			},
			RankBy: MetricOrderCount,
			TopN:   categoryTopN,
		},
	}
}

// ViewsFromConfig converts configured views, falling back to DefaultViews
// when none are configured.
func ViewsFromConfig(cfgs []config.ViewConfig) ([]View, error) {
	if len(cfgs) == 0 {
		return DefaultViews(), nil
	}

	views := make([]View, 0, len(cfgs))
	for _, vc := range cfgs {
		key, err := dataset.ParseField(vc.GroupBy)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidView, vc.Name, err)
		}

		metrics := make([]Metric, 0, len(vc.Metrics))
		for _, mc := range vc.Metrics {
			field, err := dataset.ParseField(mc.Field)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidView, vc.Name, err)
			}
			fn, err := ParseFunc(mc.Func)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidView, vc.Name, err)
			}
			metrics = append(metrics, Metric{Name: mc.Name, Field: field, Func: fn})
		}

		v := View{
			Name:   vc.Name,
			Title:  vc.Title,
			Spec:   AggregationSpec{Key: key, Metrics: metrics},
			RankBy: vc.RankBy,
			TopN:   vc.TopN,
		}
		if v.Title == "" {
			v.Title = v.Name
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
