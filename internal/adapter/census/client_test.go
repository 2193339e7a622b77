package census

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
)

var testLocation = domain.Location{StateCode: "06", CountyFIPS: "037"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return NewClient(server.URL, "test-key", 5*time.Second, catalog.NewIndex(), logger)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestFetchYear(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2019/acs/acs5", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "NAME,B01003_001E,B19013_001E", q.Get("get"))
		assert.Equal(t, "county:037", q.Get("for"))
		assert.Equal(t, "state:06", q.Get("in"))
		assert.Equal(t, "test-key", q.Get("key"))

		table := [][]string{
			{"NAME", "B01003_001E", "B19013_001E", "state", "county"},
			{"Los Angeles County, California", "10039107", "68044", "06", "037"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(table))
	})

	result, err := client.FetchYear(context.Background(), testLocation, "2019", []string{"B01003_001E", "B19013_001E"})

	require.NoError(t, err)
	assert.Equal(t, "2019", result.Year)
	assert.Equal(t, "Los Angeles County, California", result.Location)
	require.Len(t, result.Variables, 2)

	pop, ok := result.Variable("B01003_001E")
	require.True(t, ok)
	assert.Equal(t, "Total Population", pop.Name)
	require.NotNil(t, pop.RawValue)
	assert.Equal(t, 10039107.0, *pop.RawValue)
	assert.Equal(t, "10,039,107", pop.FormattedValue)

	income, ok := result.Variable("B19013_001E")
	require.True(t, ok)
	assert.Equal(t, "$68,044", income.FormattedValue)
}

func TestFetchYear_NonNumericCell(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		table := [][]string{
			{"NAME", "B01003_001E"},
			{"Somewhere", "-"},
		}
		json.NewEncoder(w).Encode(table)
	})

	result, err := client.FetchYear(context.Background(), testLocation, "2019", []string{"B01003_001E"})

	require.NoError(t, err)
	v, ok := result.Variable("B01003_001E")
	require.True(t, ok)
	assert.Nil(t, v.RawValue)
	assert.Equal(t, "N/A", v.FormattedValue)
}

func TestFetchYear_MissingColumn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		table := [][]string{
			{"NAME", "B01003_001E"},
			{"Somewhere", "500"},
		}
		json.NewEncoder(w).Encode(table)
	})

	result, err := client.FetchYear(context.Background(), testLocation, "2019", []string{"B01003_001E", "B19013_001E"})

	require.NoError(t, err)
	income, ok := result.Variable("B19013_001E")
	require.True(t, ok)
	assert.Nil(t, income.RawValue)
	assert.Equal(t, "N/A", income.FormattedValue)
}

func TestFetchYear_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusNotFound)
	})

	_, err := client.FetchYear(context.Background(), testLocation, "2019", []string{"B01003_001E"})

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "census", httpErr.Source)
}

func TestFetchYear_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not a table", `{"error": "nope"}`},
		{"header row only", `[["NAME","B01003_001E"]]`},
		{"empty table", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.FetchYear(context.Background(), testLocation, "2019", []string{"B01003_001E"})

			var shapeErr *domain.ResponseShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, "census", shapeErr.Source)
		})
	}
}

func TestFetchYear_NetworkError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	client := NewClient("http://127.0.0.1:1", "", time.Second, catalog.NewIndex(), logger)

	_, err := client.FetchYear(context.Background(), testLocation, "2019", []string{"B01003_001E"})

	var httpErr *domain.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Zero(t, httpErr.Status)
}
