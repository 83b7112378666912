package query_test

import (
	sq "github.com/Masterminds/squirrel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/query-engine/pkg/filter"
	"github.com/kubev2v/query-engine/pkg/query"
)

func toSql(preds []sq.Sqlizer) ([]string, [][]any) {
	var sqls []string
	var args [][]any
	for _, p := range preds {
		s, a, err := p.ToSql()
		Expect(err).NotTo(HaveOccurred())
		sqls = append(sqls, s)
		args = append(args, a)
	}
	return sqls, args
}

var _ = Describe("CompilePredicates", func() {
	var table *query.Table

	BeforeEach(func() {
		table = animalsTable()
	})

	Context("Operators", func() {
		type testCase struct {
			input string
			sql   string
			args  []any
		}

		tests := []testCase{
			{input: "age:18,20", sql: `"animals"."age" IN (?,?)`, args: []any{int64(18), int64(20)}},
			{input: "age:18,20:in", sql: `"animals"."age" IN (?,?)`, args: []any{int64(18), int64(20)}},
			{input: "age:18,20:nin", sql: `"animals"."age" NOT IN (?,?)`, args: []any{int64(18), int64(20)}},
			{input: "age:20:gt", sql: `"animals"."age" > ?`, args: []any{int64(20)}},
			{input: "age:20:lt", sql: `"animals"."age" < ?`, args: []any{int64(20)}},
			{input: "age:20:gte", sql: `"animals"."age" >= ?`, args: []any{int64(20)}},
			{input: "age:20:lte", sql: `"animals"."age" <= ?`, args: []any{int64(20)}},
			{input: "name:rex:like", sql: `"animals"."name" LIKE ?`, args: []any{"%rex%"}},
			{input: "age:2:like", sql: `CAST("animals"."age" AS VARCHAR) LIKE ?`, args: []any{"%2%"}},
			{input: "age::null", sql: `"animals"."age" IS NULL`, args: nil},
			{input: "age::notnull", sql: `"animals"."age" IS NOT NULL`, args: nil},
			{input: "name:rex:eq", sql: `"animals"."name" = ?`, args: []any{"rex"}},
			{input: "name:rex:ne", sql: `"animals"."name" <> ?`, args: []any{"rex"}},
			{input: "age:20:whatever", sql: `"animals"."age" IN (?)`, args: []any{int64(20)}},

			// only the first value is used by single value operators
			{input: "age:20,30:gt", sql: `"animals"."age" > ?`, args: []any{int64(20)}},

			// coercion by column type
			{input: "weight:2.5:gte", sql: `"animals"."weight" >= ?`, args: []any{2.5}},
			{input: "vaccinated:true:eq", sql: `"animals"."vaccinated" = ?`, args: []any{true}},
			{input: "age:abc:gt", sql: `"animals"."age" > ?`, args: []any{"abc"}},
			{input: "age:020,018", sql: `"animals"."age" IN (?,?)`, args: []any{int64(20), int64(18)}},

			// field names are normalized to the column field
			{input: "community_id:3", sql: `"animals"."community_id" IN (?)`, args: []any{int64(3)}},
		}

		for _, test := range tests {
			test := test
			It("should compile: "+test.input, func() {
				sqls, args := toSql(query.CompilePredicates(filter.Parse(test.input), table))
				Expect(sqls).To(Equal([]string{test.sql}))
				if test.args == nil {
					Expect(args[0]).To(BeEmpty())
				} else {
					Expect(args[0]).To(Equal(test.args))
				}
			})
		}
	})

	It("should ignore fields that are not columns", func() {
		Expect(query.CompilePredicates(filter.Parse("doesNotExist:1"), table)).To(BeEmpty())
	})

	It("should compile nothing for an empty condition", func() {
		Expect(query.CompilePredicates(nil, table)).To(BeEmpty())
	})

	It("should leave reserved temporal fields alone", func() {
		Expect(query.CompilePredicates(filter.Parse("year:2024;month:5"), table)).To(BeEmpty())
	})

	It("should compile fields in a stable order", func() {
		sqls, _ := toSql(query.CompilePredicates(filter.Parse("name:rex;age:3:gt"), table))
		Expect(sqls).To(Equal([]string{`"animals"."age" > ?`, `"animals"."name" IN (?)`}))
	})
})

var _ = Describe("CompileTemporalPredicates", func() {
	var table *query.Table

	BeforeEach(func() {
		table = animalsTable()
	})

	It("should extract the year from the creation timestamp", func() {
		sqls, args := toSql(query.CompileTemporalPredicates(filter.Parse("year:2024"), table, ""))
		Expect(sqls).To(Equal([]string{`date_part('year', "animals"."created_at") = ?`}))
		Expect(args[0]).To(Equal([]any{int64(2024)}))
	})

	It("should support range operators on the month", func() {
		sqls, args := toSql(query.CompileTemporalPredicates(filter.Parse("month:6:gte"), table, "createdAt"))
		Expect(sqls).To(Equal([]string{`date_part('month', "animals"."created_at") >= ?`}))
		Expect(args[0]).To(Equal([]any{int64(6)}))
	})

	It("should use only the first value of a list", func() {
		sqls, args := toSql(query.CompileTemporalPredicates(filter.Parse("year:2023,2024"), table, ""))
		Expect(sqls).To(Equal([]string{`date_part('year', "animals"."created_at") = ?`}))
		Expect(args[0]).To(Equal([]any{int64(2023)}))
	})

	It("should compile year before month", func() {
		sqls, _ := toSql(query.CompileTemporalPredicates(filter.Parse("month:5:ne;year:2024"), table, ""))
		Expect(sqls).To(Equal([]string{
			`date_part('year', "animals"."created_at") = ?`,
			`date_part('month', "animals"."created_at") <> ?`,
		}))
	})

	It("should read leading zeros in base 10", func() {
		_, args := toSql(query.CompileTemporalPredicates(filter.Parse("year:02025;month:010"), table, ""))
		Expect(args).To(Equal([][]any{{int64(2025)}, {int64(10)}}))
	})

	It("should target another timestamp column", func() {
		visits := query.NewTable("visits", []query.Column{
			{Field: "id", Name: "id", Type: query.Integer},
			{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
			{Field: "updatedAt", Name: "updated_at", Type: query.Timestamp},
		})

		sqls, args := toSql(query.CompileTemporalPredicates(filter.Parse("year:2025;month:3:lt"), visits, "updatedAt"))
		Expect(sqls).To(Equal([]string{
			`date_part('year', "visits"."updated_at") = ?`,
			`date_part('month', "visits"."updated_at") < ?`,
		}))
		Expect(args).To(Equal([][]any{{int64(2025)}, {int64(3)}}))
	})

	It("should compile nothing when the temporal column is unknown", func() {
		Expect(query.CompileTemporalPredicates(filter.Parse("year:2024"), table, "bornAt")).To(BeEmpty())
	})
})

var _ = Describe("CompileFilter", func() {
	It("should AND regular and temporal predicates", func() {
		pred := query.CompileFilter(filter.Parse("age:3:gt;year:2024"), animalsTable())
		Expect(pred).NotTo(BeNil())

		s, args, err := pred.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(`("animals"."age" > ? AND date_part('year', "animals"."created_at") = ?)`))
		Expect(args).To(Equal([]any{int64(3), int64(2024)}))
	})

	It("should return nil without predicates", func() {
		Expect(query.CompileFilter(filter.Parse(""), animalsTable())).To(BeNil())
		Expect(query.CompileFilter(filter.Parse("doesNotExist:1"), animalsTable())).To(BeNil())
	})
})
