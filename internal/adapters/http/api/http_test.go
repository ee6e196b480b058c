package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fortsentinel/dispatch/internal/adapters/http/api"
	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/domain/dispatch"
	"github.com/fortsentinel/dispatch/internal/domain/model"
)

// stubDeps serves canned records and captures pipeline submissions.
type stubDeps struct {
	records   []api.Record
	processed []model.Article
	written   bool

	lastFilter repository.Filter
}

func (s *stubDeps) ProcessArticle(ctx context.Context, article model.Article) (api.Result, error) {
	if strings.TrimSpace(article.URL) == "" {
		return api.Result{}, fmt.Errorf("%w: empty url", dispatch.ErrInvalidArticle)
	}
	s.processed = append(s.processed, article)
	return api.Result{
		ArticleURL: article.URL,
		ID:         "deadbeefdead1",
		Voice:      "RedWitness",
		Tags:       []string{"eliteFallout"},
		Written:    s.written,
	}, nil
}

func (s *stubDeps) Get(ctx context.Context, id string) (api.Record, error) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return api.Record{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
}

func (s *stubDeps) List(ctx context.Context, f repository.Filter) ([]api.Record, error) {
	s.lastFilter = f
	return s.records, nil
}

func newTestServer(deps api.Dependencies) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func sampleRecord() api.Record {
	return api.Record{
		ID:            "deadbeefdead1",
		ArticleURL:    "https://example.com/fraud-story",
		DatePartition: "2026-08-29",
		Tags:          []string{"eliteFallout"},
		Voice:         "RedWitness",
		Title:         "Corporate fraud exposed",
		Summary:       "Corporate fraud exposed. Details surfaced.",
		SourceName:    "Example Wire",
		CreatedAt:     time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Body:          "The witness does not look away.",
	}
}

func TestDispatchesEndpoints(t *testing.T) {
	convey.Convey("Given a server over a stub store", t, func() {
		deps := &stubDeps{records: []api.Record{sampleRecord()}}
		srv := newTestServer(deps)
		defer srv.Close()

		convey.Convey("When listing dispatches", func() {
			resp, err := http.Get(srv.URL + "/api/dispatches")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the listing omits bodies", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var out struct {
					Dispatches []map[string]any `json:"dispatches"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(out.Dispatches, convey.ShouldHaveLength, 1)
				convey.So(out.Dispatches[0]["id"], convey.ShouldEqual, "deadbeefdead1")
				convey.So(out.Dispatches[0], convey.ShouldNotContainKey, "body")
			})
		})

		convey.Convey("When listing with filters", func() {
			resp, err := http.Get(srv.URL + "/api/dispatches?tag=eliteFallout&voice=RedWitness&from=2026-08-01&to=2026-08-29")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the filter reaches the store", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(deps.lastFilter.Tag, convey.ShouldEqual, "eliteFallout")
				convey.So(deps.lastFilter.Voice, convey.ShouldEqual, "RedWitness")
				convey.So(deps.lastFilter.From.Format("2006-01-02"), convey.ShouldEqual, "2026-08-01")
				convey.So(deps.lastFilter.To.Format("2006-01-02"), convey.ShouldEqual, "2026-08-29")
			})
		})

		convey.Convey("When listing with a malformed date", func() {
			resp, err := http.Get(srv.URL + "/api/dispatches?from=yesterday")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When fetching a stored dispatch", func() {
			resp, err := http.Get(srv.URL + "/api/dispatches/deadbeefdead1")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the full record including the body is returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var out map[string]any
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(out["id"], convey.ShouldEqual, "deadbeefdead1")
				convey.So(out["body"], convey.ShouldEqual, "The witness does not look away.")
			})
		})

		convey.Convey("When fetching an unknown dispatch", func() {
			resp, err := http.Get(srv.URL + "/api/dispatches/missing0000")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the API answers not found", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)

				var out struct {
					Code string `json:"code"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(out.Code, convey.ShouldEqual, "not_found")
			})
		})

		convey.Convey("When using an unsupported method", func() {
			req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/dispatches", nil)
			resp, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestGenerateEndpoint(t *testing.T) {
	convey.Convey("Given a server over a stub pipeline", t, func() {
		deps := &stubDeps{written: true}
		srv := newTestServer(deps)
		defer srv.Close()

		convey.Convey("When submitting a valid article", func() {
			payload := `{
				"url": "https://example.com/fraud-story",
				"title": "Corporate fraud exposed",
				"body_text": "New details of corruption surfaced today.",
				"source_name": "Example Wire",
				"published_at": "2026-08-29T10:00:00Z"
			}`
			resp, err := http.Post(srv.URL+"/api/generate", "application/json", strings.NewReader(payload))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then a dispatch is created", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)

				var out struct {
					ID      string   `json:"id"`
					Voice   string   `json:"voice"`
					Tags    []string `json:"tags"`
					Created bool     `json:"created"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(out.ID, convey.ShouldEqual, "deadbeefdead1")
				convey.So(out.Voice, convey.ShouldEqual, "RedWitness")
				convey.So(out.Created, convey.ShouldBeTrue)
			})

			convey.Convey("And the parsed article reaches the pipeline", func() {
				convey.So(deps.processed, convey.ShouldHaveLength, 1)
				convey.So(deps.processed[0].URL, convey.ShouldEqual, "https://example.com/fraud-story")
				convey.So(deps.processed[0].PublishedAt.IsZero(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the article already exists", func() {
			deps.written = false
			resp, err := http.Post(srv.URL+"/api/generate", "application/json",
				strings.NewReader(`{"url": "https://example.com/fraud-story", "title": "t"}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When the article is invalid", func() {
			resp, err := http.Post(srv.URL+"/api/generate", "application/json",
				strings.NewReader(`{"title": "no url"}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the API rejects it", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)

				var out struct {
					Code string `json:"code"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(out.Code, convey.ShouldEqual, "invalid_article")
			})
		})

		convey.Convey("When the payload is not JSON", func() {
			resp, err := http.Post(srv.URL+"/api/generate", "application/json", strings.NewReader("not-json"))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the published_at timestamp is malformed", func() {
			resp, err := http.Post(srv.URL+"/api/generate", "application/json",
				strings.NewReader(`{"url": "https://example.com/a", "published_at": "last tuesday"}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		convey.Convey("When probing the health endpoint", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it serves the metrics exposition", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
