package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/query-engine/api/v1"
	"github.com/kubev2v/query-engine/internal/catalog"
	"github.com/kubev2v/query-engine/internal/config"
	"github.com/kubev2v/query-engine/internal/handlers"
	"github.com/kubev2v/query-engine/internal/models"
	"github.com/kubev2v/query-engine/internal/services"
	"github.com/kubev2v/query-engine/internal/store"
	"github.com/kubev2v/query-engine/internal/store/migrations"
	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
)

var _ = Describe("Records Handlers", func() {
	var (
		mockSrv *MockRecordService
		router  *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockSrv = &MockRecordService{}
		router = gin.New()
		handlers.RegisterHandlers(router, handlers.New(mockSrv))
	})

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("ListTables", func() {
		It("should return the table names", func() {
			mockSrv.TablesResult = []string{"animals", "users"}

			w := get("/tables")

			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.TableList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Tables).To(Equal([]string{"animals", "users"}))
		})
	})

	Describe("ListRecords", func() {
		It("should pass every query parameter to the service", func() {
			page := models.NewPage(nil, 0, 2, 5)
			mockSrv.ListResult = &page

			w := get("/records/animals?search=dog&searchFields=species,name&filter=age:2:gt&sortBy=name&order=desc&page=2&limit=5&include=adopter.role")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockSrv.LastTable).To(Equal("animals"))
			Expect(mockSrv.LastListParams).To(Equal(services.RecordListParams{
				Search:       "dog",
				SearchFields: "species,name",
				Filter:       "age:2:gt",
				SortBy:       "name",
				Order:        "desc",
				Page:         2,
				Limit:        5,
				Include:      "adopter.role",
			}))
		})

		It("should default to the first page", func() {
			page := models.NewPage(nil, 0, 1, 10)
			mockSrv.ListResult = &page

			w := get("/records/animals")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockSrv.LastListParams.Page).To(Equal(1))
			Expect(mockSrv.LastListParams.Limit).To(BeZero())
		})

		It("should return the page envelope", func() {
			page := models.NewPage([]models.Row{
				{"id": int64(1), "name": "Rex", "latestSurvey": nil},
			}, 23, 1, 10)
			mockSrv.ListResult = &page

			w := get("/records/animals")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{
				"data": [{"id": 1, "name": "Rex", "latestSurvey": null}],
				"total": 23,
				"totalPage": 3,
				"page": 1,
				"limit": 10
			}`))
		})

		It("should return 400 for a non numeric page", func() {
			w := get("/records/animals?page=first")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		tests := []struct {
			name     string
			err      error
			expected int
		}{
			{name: "invalid sort field", err: srvErrors.NewInvalidSortFieldError("animals", "color"), expected: http.StatusBadRequest},
			{name: "invalid sort direction", err: srvErrors.NewInvalidSortDirectionError("sideways"), expected: http.StatusBadRequest},
			{name: "unknown table", err: srvErrors.NewTableNotFoundError("vinfo"), expected: http.StatusNotFound},
			{name: "invalid relation", err: srvErrors.NewInvalidRelationError("adopter", "missing target table"), expected: http.StatusInternalServerError},
			{name: "store failure", err: errors.New("connection reset"), expected: http.StatusInternalServerError},
		}

		for _, test := range tests {
			test := test
			It("should map "+test.name+" errors", func() {
				mockSrv.ListError = test.err

				w := get("/records/animals")

				Expect(w.Code).To(Equal(test.expected))
			})
		}

		It("should not leak store errors to the client", func() {
			mockSrv.ListError = errors.New("connection reset")

			w := get("/records/animals")

			Expect(w.Body.String()).NotTo(ContainSubstring("connection reset"))
			Expect(w.Body.String()).To(ContainSubstring("failed to list records"))
		})
	})

	Describe("GetRecord", func() {
		It("should look up by the path value", func() {
			mockSrv.GetResult = models.Row{"id": int64(1), "email": "alice@example.com"}

			w := get("/records/users/alice@example.com?field=email&include=role")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockSrv.LastTable).To(Equal("users"))
			Expect(mockSrv.LastField).To(Equal("email"))
			Expect(mockSrv.LastValue).To(Equal("alice@example.com"))
			Expect(mockSrv.LastInclude).To(Equal("role"))
			Expect(w.Body.String()).To(MatchJSON(`{"id": 1, "email": "alice@example.com"}`))
		})

		It("should return 404 when the record does not exist", func() {
			mockSrv.GetError = srvErrors.NewResourceNotFoundError("users", "42")

			w := get("/records/users/42")

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for an unknown lookup field", func() {
			mockSrv.GetError = srvErrors.NewUnknownFieldError("users", "nickname")

			w := get("/records/users/bob?field=nickname")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

var _ = Describe("Records API", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		router *gin.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		gin.SetMode(gin.TestMode)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		_, err = db.ExecContext(ctx, `INSERT INTO users (id, name) VALUES (1, 'alice')`)
		Expect(err).NotTo(HaveOccurred())
		_, err = db.ExecContext(ctx, `INSERT INTO animals (id, name, species, age, adopter_id) VALUES (1, 'Rex', 'dog', 3, 1), (2, 'Tom', 'cat', 5, NULL)`)
		Expect(err).NotTo(HaveOccurred())
		_, err = db.ExecContext(ctx, `INSERT INTO surveys (id, animal_id, user_id, score) VALUES (1, 1, 1, 4)`)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.NewConfigurationWithOptionsAndDefaults()
		srv := services.NewRecordService(store.NewStore(db), catalog.New(), cfg.Query)

		router = gin.New()
		handlers.RegisterHandlers(router.Group("/api/v1"), handlers.New(srv))
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	It("should list hydrated records", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/records/animals?filter=age:4:gt&include=adopter,latestSurvey", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Data  []map[string]any `json:"data"`
			Total int              `json:"total"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
		Expect(response.Total).To(Equal(1))
		Expect(response.Data).To(HaveLen(1))
		Expect(response.Data[0]).To(HaveKeyWithValue("name", "Tom"))
		Expect(response.Data[0]).To(HaveKeyWithValue("adopter", BeNil()))
		Expect(response.Data[0]).To(HaveKeyWithValue("latestSurvey", BeNil()))
	})

	It("should reject an invalid sort direction", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/records/animals?sortBy=name&order=sideways", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should get a record with its relations", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/records/animals/1?include=surveys", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
		Expect(response).To(HaveKeyWithValue("name", "Rex"))
		Expect(response["surveys"]).To(HaveLen(1))
	})

	It("should return 404 for an unknown table", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/records/vinfo", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
