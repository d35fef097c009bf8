package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/config"
)

const testHeader = ",order_id,customer_state,product_category_name_english,payment_value,review_score," +
	"order_purchase_timestamp,order_approved_at,order_delivered_carrier_date," +
	"order_delivered_customer_date,order_estimated_delivery_date,shipping_limit_date"

func csvBody(rows ...string) string {
	return testHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func newTestLoader() *CSVLoader {
	return NewCSVLoader(config.DatasetConfig{
		Delimiter:   ",",
		HTTPTimeout: 5 * time.Second,
		RetryDelay:  time.Millisecond,
	}, zap.NewNop())
}

func TestParse_ValidRows(t *testing.T) {
	t.Parallel()

	body := csvBody(
		"0,o1,SP,bed_bath_table,100.50,5,2017-10-02 10:56:33,2017-10-02 11:07:15,2017-10-04 19:55:00,2017-10-10 21:25:13,2017-10-18 00:00:00,2017-10-06 11:07:15",
		"1,o2,RJ,,30,,2018-01-01 00:00:00,,,,2018-01-20,",
	)

	ds, err := newTestLoader().Parse(strings.NewReader(body), "mem")
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.At(0)
	id, ok := first.Text(OrderID)
	require.True(t, ok)
	assert.Equal(t, "o1", id)

	pay, ok := first.Decimal(PaymentValue)
	require.True(t, ok)
	assert.Equal(t, "100.5", pay.String())

	score, ok := first.Number(ReviewScore)
	require.True(t, ok)
	assert.InDelta(t, 5.0, score, 0)

	approved, ok := first.Time(OrderApprovedAt)
	require.True(t, ok)
	assert.Equal(t, time.Date(2017, 10, 2, 11, 7, 15, 0, time.UTC), approved)

	second := ds.At(1)
	assert.False(t, second.Has(ProductCategory), "blank text is absent")
	assert.False(t, second.Has(ReviewScore), "blank score is absent")
	assert.False(t, second.Has(OrderApprovedAt), "blank timestamp is absent")

	estimated, ok := second.Time(OrderEstimatedDeliveryDate)
	require.True(t, ok)
	assert.Equal(t, time.Date(2018, 1, 20, 0, 0, 0, 0, time.UTC), estimated)
}

func TestParse_AcceptsFloatScore(t *testing.T) {
	t.Parallel()

	body := csvBody("0,o1,SP,toys,1,4.0,,,,,,")
	ds, err := newTestLoader().Parse(strings.NewReader(body), "mem")
	require.NoError(t, err)

	score, ok := ds.At(0).Number(ReviewScore)
	require.True(t, ok)
	assert.InDelta(t, 4.0, score, 0)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		want   error
		column Field
		line   int
	}{
		{
			name: "empty input",
			body: "",
			want: ErrMalformedTable,
		},
		{
			name: "missing column",
			body: "order_id,customer_state\no1,SP\n",
			want: ErrMissingColumn,
		},
		{
			name: "ragged row",
			body: csvBody("0,o1,SP"),
			want: ErrMalformedTable,
		},
		{
			name:   "bad timestamp",
			body:   csvBody("0,o1,SP,toys,1,5,,yesterday,,,,", "1,o2,SP,toys,1,5,,,,,,"),
			want:   ErrParseFailed,
			column: OrderApprovedAt,
			line:   2,
		},
		{
			name:   "negative payment",
			body:   csvBody("0,o1,SP,toys,1,5,,,,,,", "1,o2,SP,toys,-3,5,,,,,,"),
			want:   ErrParseFailed,
			column: PaymentValue,
			line:   3,
		},
		{
			name:   "score out of range",
			body:   csvBody("0,o1,SP,toys,1,6,,,,,,"),
			want:   ErrParseFailed,
			column: ReviewScore,
			line:   2,
		},
		{
			name:   "fractional score",
			body:   csvBody("0,o1,SP,toys,1,4.5,,,,,,"),
			want:   ErrParseFailed,
			column: ReviewScore,
			line:   2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestLoader().Parse(strings.NewReader(tt.body), "mem")
			require.ErrorIs(t, err, tt.want)

			if tt.column != "" {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.column, pe.Column)
				assert.Equal(t, tt.line, pe.Line)
			}
		})
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "df.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody("0,o1,SP,toys,10,5,,,,,,")), 0o600))

	ds, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, path, ds.Source())
}

func TestLoad_MissingLocalFile(t *testing.T) {
	t.Parallel()

	_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, ErrLoadFailed)
	require.ErrorIs(t, err, ErrSourceUnreachable)
}

func TestLoad_ParseErrorIsLoadError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "df.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody("0,o1,SP,toys,abc,5,,,,,,")), 0o600))

	_, err := newTestLoader().Load(context.Background(), path)
	require.ErrorIs(t, err, ErrLoadFailed)
	require.ErrorIs(t, err, ErrParseFailed)
}

func TestLoad_HTTPRetriesOnceOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(csvBody("0,o1,SP,toys,10,5,,,,,,")))
	}))
	defer srv.Close()

	ds, err := newTestLoader().Load(context.Background(), srv.URL+"/df.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_HTTPGivesUpAfterOneRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestLoader().Load(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrSourceUnreachable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_HTTPClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestLoader().Load(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrSourceUnreachable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewCSVLoader_SemicolonDelimiter(t *testing.T) {
	t.Parallel()

	loader := NewCSVLoader(config.DatasetConfig{Delimiter: ";"}, zap.NewNop())
	body := strings.ReplaceAll(csvBody("0,o1,SP,toys,10,5,,,,,,"), ",", ";")

	ds, err := loader.Parse(strings.NewReader(body), "mem")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}
