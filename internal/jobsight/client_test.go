package jobsight

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/jobsight/internal/jobs"
	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/roadmap"
)

func newTestClient(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(zaptest.NewLogger(t), Options{APIURL: srv.URL})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		if creds.Password != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user":  map[string]any{"id": 7, "email": creds.Email},
			"token": "tok",
		})
	})
	c := newTestClient(t, r)

	resp, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, ID("7"), resp.User.ID)
	assert.Equal(t, "a@b.c", resp.User.Email)
	assert.Empty(t, c.Bearer())

	_, err = c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "nope"})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestRegisterUsesSessionCookie(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/register", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "jid", Value: "cookie-token", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		cookie, err := req.Cookie("jid")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "1", "email": cookie.Value + "@x"})
	})
	c := newTestClient(t, r)

	resp, err := c.Register(context.Background(), Credentials{Email: "n@x", Password: "longpass"})
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", resp.Token)
	assert.Equal(t, "n@x", resp.User.Email)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cookie-token@x", me.Email)
}

func TestBearerHeaderOnlyWhenSet(t *testing.T) {
	var seen []string
	r := chi.NewRouter()
	r.Post("/api/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		seen = append(seen, req.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	c := newTestClient(t, r)

	require.NoError(t, c.Logout(context.Background()))
	c.SetBearer("abc")
	require.NoError(t, c.Logout(context.Background()))

	assert.Equal(t, []string{"", "Bearer abc"}, seen)
}

func TestSearchQueryAndEnvelopes(t *testing.T) {
	bodies := []string{
		`[{"id":"1","title":"Go dev","company":{"display_name":"Acme"},"redirect_url":"https://x/1"}]`,
		`{"results":[{"id":"1","title":"Go dev","redirect_url":"https://x/1"}]}`,
		`{"content":[{"id":"1","title":"Go dev","salaryMin":1000,"url":"https://x/1"}]}`,
		`{"data":[{"id":"1","title":"Go dev","postedAt":"2024-01-02","url":"https://x/1"}]}`,
	}

	for _, body := range bodies {
		var query string
		r := chi.NewRouter()
		r.Get("/api/jobs/search", func(w http.ResponseWriter, req *http.Request) {
			query = req.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		})
		c := newTestClient(t, r)

		params := &SearchParams{What: "go", Where: "berlin", FullTime: true}
		got, err := c.Search(context.Background(), params)
		require.NoError(t, err, body)
		assert.Equal(t, SearchParams{What: "go", Where: "berlin", FullTime: true}, *params)
		require.Equal(t, 1, got.Len(), body)
		assert.Equal(t, "Go dev", got.Items[0].Title)
		assert.Equal(t, "fullTime=true&page=0&permanent=false&size=12&sortBy=date&what=go&where=berlin", query)
	}
}

func TestSearchSkipsUnknownRecords(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/jobs/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"foo":1},{"id":"2","title":"Ok","redirect_url":"https://x/2"}]`)
	})
	c := newTestClient(t, r)

	got, err := c.Search(context.Background(), &SearchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "2", got.Items[0].ID)
}

func TestSearchErrors(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/jobs/search", func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Query().Get("what") {
		case "message":
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "Upstream down"})
		case "bare":
			w.WriteHeader(http.StatusInternalServerError)
		case "html":
			_, _ = io.WriteString(w, "<html>oops</html>")
		default:
			writeJSON(w, http.StatusOK, map[string]int{"total": 0})
		}
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	_, err := c.Search(ctx, &SearchParams{What: "message"})
	assert.EqualError(t, err, "Upstream down")

	_, err = c.Search(ctx, &SearchParams{What: "bare"})
	assert.EqualError(t, err, "Search failed (500)")

	_, err = c.Search(ctx, &SearchParams{What: "html"})
	assert.ErrorIs(t, err, ErrUnexpectedFormat)

	_, err = c.Search(ctx, &SearchParams{What: "other"})
	assert.ErrorIs(t, err, ErrUnexpectedFormat)
}

func TestSavedSearches(t *testing.T) {
	var posted SavedSearch
	var deleted string
	r := chi.NewRouter()
	r.Route("/api/saved/searches", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[{"id":3,"what":"go","location":"Berlin","sortBy":"date","createdAt":"2024-05-01T10:00:00Z"}]`)
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&posted))
			posted.ID = "4"
			writeJSON(w, http.StatusCreated, posted)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			deleted = chi.URLParam(req, "id")
			w.WriteHeader(http.StatusNoContent)
		})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	list, err := c.SavedSearches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ID("3"), list[0].ID)
	assert.Equal(t, "Berlin", list[0].Place())
	assert.Equal(t, 2024, list[0].CreatedAt.Year())

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	saved, err := c.SaveSearch(ctx, NewSavedSearch(&SearchParams{What: "go", SortBy: "salaryHigh"}, now))
	require.NoError(t, err)
	assert.Equal(t, ID("4"), saved.ID)
	assert.Equal(t, "date", posted.SortBy)
	assert.Equal(t, "0", posted.Page)
	assert.Equal(t, "12", posted.Size)
	assert.Equal(t, "2024-06-01T00:00:00Z", posted.SavedAt)

	require.NoError(t, c.DeleteSearch(ctx, "3"))
	assert.Equal(t, "3", deleted)
}

func TestSaveRoadmapAndCompare(t *testing.T) {
	var roadmapBody map[string]any
	var compareBody SavedCompare
	r := chi.NewRouter()
	r.Post("/api/saved/roadmaps", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&roadmapBody))
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "title": roadmapBody["title"], "source": "precise", "planText": roadmapBody["planText"]})
	})
	r.Post("/api/saved/compares", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&compareBody))
		compareBody.ID = "9"
		writeJSON(w, http.StatusCreated, compareBody)
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	req := &roadmap.PreciseRequest{TargetRole: "Data Analyst", TimelineMonths: 6}
	payload, err := roadmap.NewSavePayload(req, "Month 1", "m", time.Now())
	require.NoError(t, err)
	saved, err := c.SaveRoadmap(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "precise", saved.Source)
	assert.Equal(t, "precise", roadmapBody["source"])
	assert.Equal(t, "Month 1", saved.PlanText)

	picks := []*jobs.Job{{ID: "1", Key: "1", Title: "Go dev"}, {Key: "k2", Title: "Rust dev"}}
	set, err := c.SaveCompare(ctx, "Backend roles", picks)
	require.NoError(t, err)
	assert.Equal(t, ID("9"), set.ID)
	assert.Equal(t, "Backend roles", compareBody.Title)

	back, err := set.Jobs()
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, "k2", back[1].Identity())
}

func TestResumeAndRoadmapServices(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/resume/analyze", func(w http.ResponseWriter, req *http.Request) {
		f, hdr, err := req.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "resume bytes", string(data))
		writeJSON(w, http.StatusOK, map[string]any{"skills": []string{"python", "sql"}})
	})
	r.Post("/api/roadmap/build", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Major  string   `json:"major"`
			Skills []string `json:"skills"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		if in.Major == "NONE" {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, roadmap.Plan{Title: "Roadmap: " + in.Major, Tracks: []roadmap.Track{{Title: "Core"}}})
	})
	r.Post("/api/roadmap/precise", func(w http.ResponseWriter, req *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		assert.Equal(t, "6", in["timelineMonths"])
		writeJSON(w, http.StatusOK, map[string]string{"plan": "Title: X", "model": "llama3.2:3b"})
	})
	r.Post("/api/quiz/result", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	skills, err := c.AnalyzeResume(ctx, "cv.pdf", strings.NewReader("resume bytes"))
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "sql"}, skills)

	plan, err := c.BuildRoadmap(ctx, "DS", nil)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap: DS", plan.Title)

	plan, err = c.BuildRoadmap(ctx, "NONE", nil)
	require.NoError(t, err)
	assert.Nil(t, plan)

	res, err := c.GeneratePrecise(ctx, &roadmap.PreciseRequest{TargetRole: "X", TimelineMonths: 6})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2:3b", res.Model)

	err = c.PostQuizResult(ctx, &quiz.Submission{Answers: []int{1}})
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestGzipResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "gzip", req.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = io.WriteString(gz, `{"id":1,"email":"z@z"}`)
		_ = gz.Close()
	})
	c := newTestClient(t, r)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "z@z", me.Email)
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"x-1","c":null}`), &v))
	assert.Equal(t, ID("12"), v.A)
	assert.Equal(t, ID("x-1"), v.B)
	assert.Equal(t, ID(""), v.C)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"x-1","c":""}`, string(out))
}
