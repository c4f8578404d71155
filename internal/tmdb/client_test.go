package tmdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cache *DetailCache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:  srv.URL + "/3/",
		APIKey:   "test-key",
		Language: "fr-FR",
		Timeout:  5 * time.Second,
		Cache:    cache,
	}, testLogger())
}

func TestSearchMovies_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/search/movie" {
			t.Errorf("path = %q, ожидается /3/search/movie", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "Dune" {
			t.Errorf("query = %q, ожидается Dune", q.Get("query"))
		}
		if q.Get("language") != "fr-FR" {
			t.Errorf("language = %q, ожидается fr-FR", q.Get("language"))
		}
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q", q.Get("api_key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":438631,"title":"Dune","original_title":"Dune","release_date":"2021-09-15",
			 "poster_path":"/p.jpg","backdrop_path":"/b.jpg","vote_count":12000,"popularity":80.5}
		],"total_pages":1,"total_results":1}`))
	}, nil)

	results, err := client.SearchMovies(context.Background(), "  Dune ")
	if err != nil {
		t.Fatalf("SearchMovies() вернул ошибку: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, ожидается 1", len(results))
	}
	if results[0].ID != 438631 || results[0].VoteCount != 12000 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if y, ok := results[0].ReleaseYear(); !ok || y != 2021 {
		t.Errorf("ReleaseYear() = %d, %v; ожидается 2021, true", y, ok)
	}
}

func TestSearchMovies_EmptyQuery(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}, nil)

	results, err := client.SearchMovies(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchMovies() вернул ошибку: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %#v, ожидается пустой срез", results)
	}
	if calls.Load() != 0 {
		t.Errorf("выполнено %d запросов, ожидается 0", calls.Load())
	}
}

func TestSearchMovies_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key.","success":false}`))
	}, nil)

	_, err := client.SearchMovies(context.Background(), "Dune")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ошибка = %v, ожидается *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, ожидается 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid API key: You must be granted a valid key." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestMovieDetails_DecodesAndCaches(t *testing.T) {
	var calls atomic.Int32
	cache := NewDetailCache(10, time.Minute)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/3/movie/438631" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,videos" {
			t.Errorf("append_to_response = %q", got)
		}
		_, _ = w.Write([]byte(`{"id":438631,"runtime":155,"adult":false,
			"genres":[{"id":878,"name":"Science-Fiction"}],
			"credits":{"cast":[{"name":"Timothée Chalamet","character":"Paul Atreides","profile_path":"/t.jpg","order":0}],
			           "crew":[{"name":"Denis Villeneuve","job":"Director","department":"Directing"}]},
			"videos":{"results":[{"key":"n9xhJrPXop4","site":"YouTube","type":"Trailer","name":"Bande-annonce"}]}}`))
	}, cache)

	for range 2 {
		d, err := client.MovieDetails(context.Background(), 438631)
		if err != nil {
			t.Fatalf("MovieDetails() вернул ошибку: %v", err)
		}
		if d.Runtime != 155 {
			t.Errorf("Runtime = %d, ожидается 155", d.Runtime)
		}
		if d.Credits == nil || len(d.Credits.Crew) != 1 || d.Credits.Crew[0].Job != "Director" {
			t.Errorf("Credits = %+v", d.Credits)
		}
		if d.Videos == nil || len(d.Videos.Results) != 1 {
			t.Errorf("Videos = %+v", d.Videos)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("выполнено %d запросов, ожидается 1 (второй — из кэша)", calls.Load())
	}
	if cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, ожидается 1", cache.Len())
	}
}

func TestMovieDetails_MissingFieldsStayNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"runtime":0}`))
	}, nil)

	d, err := client.MovieDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("MovieDetails() вернул ошибку: %v", err)
	}
	if d.Genres != nil || d.Credits != nil || d.Videos != nil {
		t.Errorf("отсутствующие поля должны быть nil: %+v", d)
	}
}

func TestMovieDetails_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}, nil)

	if _, err := client.MovieDetails(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("ошибка = %v, ожидается ErrNotFound", err)
	}
	if _, err := client.MovieDetails(context.Background(), 0); err == nil {
		t.Error("MovieDetails(0) не вернул ошибку")
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL, APIKey: "k", RateLimit: 0.001, RateBurst: 1}, testLogger())

	if _, err := client.SearchMovies(context.Background(), "a"); err != nil {
		t.Fatalf("первый запрос: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.SearchMovies(ctx, "b"); err == nil {
		t.Error("второй запрос должен упереться в лимит и завершиться по контексту")
	}
}

func TestReadinessChecker(t *testing.T) {
	ok := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/configuration" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"images":{}}`))
	}, nil)
	if status, msg := NewReadinessChecker(ok, time.Second).CheckReady(); status != "ok" {
		t.Errorf("status = %q (%s), ожидается ok", status, msg)
	}

	failing := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)
	if status, _ := NewReadinessChecker(failing, time.Second).CheckReady(); status != "degraded" {
		t.Errorf("status = %q, ожидается degraded", status)
	}
}

func TestNew_Timeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"zero disables", 0, 0},
		{"negative disables", -time.Second, 0},
		{"explicit", 7 * time.Second, 7 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{BaseURL: "http://tmdb.local", Timeout: tt.timeout}, testLogger())
			if c.httpClient.Timeout != tt.want {
				t.Errorf("Timeout = %v, ожидается %v", c.httpClient.Timeout, tt.want)
			}
		})
	}

	if r := NewReadinessChecker(New(Options{}, testLogger()), 0); r.timeout != 3*time.Second {
		t.Errorf("readiness timeout = %v, ожидается 3s", r.timeout)
	}
}
