package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"ipotracker/internal/controllers"
	"ipotracker/internal/logger"
	"ipotracker/internal/models"
	"ipotracker/internal/routes"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type staticSource struct {
	snapshot models.Snapshot
	calls    int
}

func (s *staticSource) Current(ctx context.Context) models.Snapshot {
	s.calls++
	return s.snapshot
}

func (s *staticSource) LastFetchedAt() (time.Time, bool) {
	return s.snapshot.FetchedAt, true
}

var fetchedAt = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func populated() models.Snapshot {
	return models.NewSnapshot(
		[]string{"IPO", "Price", "GMP"},
		[]models.IpoRecord{
			{Name: "Zen Tech", Fields: []models.Field{{Column: "IPO", Value: "Zen Tech"}, {Column: "Price", Value: "100"}, {Column: "GMP", Value: "20"}}},
			{Name: "Acme Ltd", Fields: []models.Field{{Column: "IPO", Value: "Acme Ltd"}, {Column: "Price", Value: "55"}, {Column: "GMP", Value: "0"}}},
		},
		fetchedAt,
	)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

var _ = Describe("IPOController", func() {
	var (
		source *staticSource
		router *gin.Engine
	)

	BeforeEach(func() {
		source = &staticSource{snapshot: populated()}
		router = routes.SetupRouter(source, logger.Discard())
	})

	Describe("GET /health", func() {
		It("reports the last fetch", func() {
			resp := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Body.String()).To(MatchJSON(`{"status":"UP","last_fetched_at":"2025-06-02T09:30:00Z"}`))
		})
	})

	Describe("GET /api/v1/ipos", func() {
		It("returns rows with columns in source order", func() {
			resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/ipos", nil))

			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Body.String()).To(ContainSubstring(`{"IPO":"Zen Tech","Price":"100","GMP":"20"}`))
			Expect(resp.Body.String()).To(MatchJSON(`{
				"ipos": [
					{"IPO":"Zen Tech","Price":"100","GMP":"20"},
					{"IPO":"Acme Ltd","Price":"55","GMP":"0"}
				],
				"columns": ["IPO","Price","GMP"],
				"fetched_at": "2025-06-02T09:30:00Z",
				"is_empty": false
			}`))
			Expect(source.calls).To(Equal(1))
		})

		It("flags an empty snapshot as unavailable", func() {
			source.snapshot = models.EmptySnapshot(fetchedAt)

			resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/ipos", nil))

			Expect(resp.Code).To(Equal(http.StatusOK))

			var body struct {
				IPOs    []map[string]string `json:"ipos"`
				IsEmpty bool                `json:"is_empty"`
				Error   string              `json:"error"`
			}
			Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
			Expect(body.IPOs).To(BeEmpty())
			Expect(body.IsEmpty).To(BeTrue())
			Expect(body.Error).To(Equal(controllers.UnavailableMessage))
		})
	})

	Describe("GET /", func() {
		It("renders the table and the alert form", func() {
			resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(resp.Code).To(Equal(http.StatusOK))
			html := resp.Body.String()
			Expect(html).To(ContainSubstring("Indian IPO Tracker &amp; GMP"))
			Expect(html).To(ContainSubstring(time.Now().Format("02 January, 2006")))
			Expect(html).To(ContainSubstring("<th>GMP</th>"))
			Expect(html).To(ContainSubstring("<td>Zen Tech</td><td>100</td><td>20</td>"))
			Expect(html).To(ContainSubstring(`<option value="Acme Ltd">Acme Ltd</option>`))
			Expect(html).NotTo(ContainSubstring(`id="unavailable"`))
			Expect(html).To(ContainSubstring("Disclaimer: GMP is an unofficial market estimate"))
		})

		It("shows the maintenance message when there is no data", func() {
			source.snapshot = models.EmptySnapshot(fetchedAt)

			resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(resp.Code).To(Equal(http.StatusOK))
			html := resp.Body.String()
			Expect(html).To(ContainSubstring(`id="unavailable"`))
			Expect(html).To(ContainSubstring("might be down for maintenance"))
			Expect(html).NotTo(ContainSubstring(`<form`))
		})
	})

	Describe("POST /alerts", func() {
		post := func(values url.Values) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader(values.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return serve(router, req)
		}

		It("confirms the registration on the page", func() {
			resp := post(url.Values{"email": {"investor@example.com"}, "ipo": {"Acme Ltd"}})

			Expect(resp.Code).To(Equal(http.StatusCreated))
			Expect(resp.Body.String()).To(ContainSubstring("Successfully registered! We will email alerts for Acme Ltd to investor@example.com."))
			Expect(resp.Body.String()).To(ContainSubstring(`<option value="Acme Ltd" selected>`))
		})

		It("asks for an email address when it is blank", func() {
			resp := post(url.Values{"email": {"  "}, "ipo": {"Acme Ltd"}})

			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body.String()).To(ContainSubstring("Please enter a valid email address."))
		})

		It("reports an unreadable form as an invalid body", func() {
			req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader("email=%zz"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			resp := serve(router, req)

			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body.String()).To(ContainSubstring("Invalid request body."))
			Expect(resp.Body.String()).NotTo(ContainSubstring("Please enter a valid email address."))
		})
	})
})
