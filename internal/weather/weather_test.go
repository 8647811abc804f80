package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletdash/internal/logx"
)

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code int
		want string
	}{
		{code: 0, want: "Clear"},
		{code: 1, want: "Partly Cloudy"},
		{code: 3, want: "Partly Cloudy"},
		{code: 45, want: "Rainy"},
		{code: 67, want: "Rainy"},
		{code: 71, want: "Snowy"},
		{code: 77, want: "Snowy"},
		{code: 95, want: "Cloudy"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.code).Text, "code %d", tt.code)
	}
}

func TestClientCurrent(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "temperature_2m,weathercode", r.URL.Query().Get("current"))
		assert.Equal(t, "19.0760", r.URL.Query().Get("latitude"))
		assert.Equal(t, "Asia/Kolkata", r.URL.Query().Get("timezone"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":28.6,"weathercode":2}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), server.URL, Location{})
	report, err := client.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 29, report.Temperature)
	assert.Equal(t, 2, report.Code)
	assert.Equal(t, "Partly Cloudy", report.Condition)
	assert.Equal(t, "Mumbai, India", report.Location)
}

func TestClientErrors(t *testing.T) {
	t.Parallel()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(failing.Close)
	_, err := NewClient(failing.Client(), failing.URL, DefaultLocation).Current(context.Background())
	assert.ErrorContains(t, err, "unexpected status")

	partial := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":10}}`))
	}))
	t.Cleanup(partial.Close)
	_, err = NewClient(partial.Client(), partial.URL, DefaultLocation).Current(context.Background())
	assert.True(t, errors.Is(err, ErrIncomplete))
}

type fakeFetcher struct {
	calls atomic.Int32
	err   error
}

func (fetcher *fakeFetcher) Current(ctx context.Context) (Report, error) {
	fetcher.calls.Add(1)
	if fetcher.err != nil {
		return Report{}, fetcher.err
	}
	return Report{Temperature: 21, Condition: "Clear"}, nil
}

func TestPollerFetchesOnStartAndThrottlesManualRefresh(t *testing.T) {
	fetcher := &fakeFetcher{}
	updates := make(chan Report, 4)
	poller := NewPoller(fetcher, PollerConfig{Interval: time.Hour, MinManualGap: time.Hour}, logx.Nop(), func(report Report) {
		updates <- report
	})

	require.NoError(t, poller.Start(context.Background()))
	t.Cleanup(poller.Stop)

	select {
	case report := <-updates:
		assert.Equal(t, 21, report.Temperature)
	case <-time.After(2 * time.Second):
		t.Fatal("no weather update")
	}
	last, ok := poller.Last()
	require.True(t, ok)
	assert.Equal(t, "Clear", last.Condition)

	assert.True(t, poller.Refresh())
	assert.False(t, poller.Refresh())
}

func TestPollerKeepsLastReportOnError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("offline")}
	poller := NewPoller(fetcher, PollerConfig{Interval: time.Hour}, logx.Nop(), nil)
	require.NoError(t, poller.Start(context.Background()))
	poller.Stop()

	assert.EqualValues(t, 1, fetcher.calls.Load())
	_, ok := poller.Last()
	assert.False(t, ok)
}

func TestPollerStopWaitsForEveryFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	poller := NewPoller(fetcher, PollerConfig{Interval: time.Hour}, logx.Nop(), nil)
	require.NoError(t, poller.Start(context.Background()))

	stop := make(chan struct{})
	var callers sync.WaitGroup
	for i := 0; i < 8; i++ {
		callers.Add(1)
		go func() {
			defer callers.Done()
			for {
				select {
				case <-stop:
					return
				default:
					poller.refreshAsync()
				}
			}
		}()
	}
	require.Eventually(t, func() bool { return fetcher.calls.Load() > 1 }, 2*time.Second, time.Millisecond)

	poller.Stop()
	fetched := fetcher.calls.Load()
	time.Sleep(20 * time.Millisecond)
	close(stop)
	callers.Wait()

	assert.Equal(t, fetched, fetcher.calls.Load())
	poller.Stop()
}
