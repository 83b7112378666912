package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
	"github.com/kubev2v/query-engine/pkg/query"
)

var _ = Describe("ResolveSort", func() {
	var table *query.Table

	BeforeEach(func() {
		table = animalsTable()
	})

	It("should resolve an ascending sort", func() {
		s, err := query.ResolveSort("name", "asc", table)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(query.Sort{Field: "name"}))
		Expect(s.OrderBy(table, "animals")).To(Equal(`"animals"."name" ASC`))
	})

	It("should resolve a descending sort on a normalized field", func() {
		s, err := query.ResolveSort("created_at", "desc", table)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(query.Sort{Field: "createdAt", Desc: true}))
		Expect(s.OrderBy(table, "a")).To(Equal(`"a"."created_at" DESC`))
	})

	It("should reject an unknown field", func() {
		_, err := query.ResolveSort("doesNotExist", "asc", table)
		Expect(err).To(HaveOccurred())
		Expect(srvErrors.IsInvalidSortFieldError(err)).To(BeTrue())
		Expect(srvErrors.IsClientInputError(err)).To(BeTrue())
	})

	It("should reject an unknown direction", func() {
		_, err := query.ResolveSort("name", "sideways", table)
		Expect(err).To(HaveOccurred())
		Expect(srvErrors.IsInvalidSortDirectionError(err)).To(BeTrue())
		Expect(srvErrors.IsClientInputError(err)).To(BeTrue())
	})

	It("should require the exact direction spelling", func() {
		_, err := query.ResolveSort("name", "ASC", table)
		Expect(srvErrors.IsInvalidSortDirectionError(err)).To(BeTrue())
	})
})
