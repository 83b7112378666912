package relation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/query-engine/pkg/relation"
)

var _ = Describe("Paths", func() {
	It("should parse flat and dotted paths into a tree", func() {
		paths := relation.ParsePaths("adopter,surveys.user,surveys.animal.community")
		Expect(paths).To(Equal(relation.Paths{
			"adopter": relation.Paths{},
			"surveys": relation.Paths{
				"user":   relation.Paths{},
				"animal": relation.Paths{"community": relation.Paths{}},
			},
		}))
	})

	It("should skip empty segments and whitespace", func() {
		paths := relation.ParsePaths(" adopter , ,surveys..user,")
		Expect(paths).To(Equal(relation.Paths{
			"adopter": relation.Paths{},
			"surveys": relation.Paths{},
		}))
	})

	It("should be empty for an empty string", func() {
		Expect(relation.ParsePaths("")).To(BeEmpty())
	})

	It("should list names in order", func() {
		Expect(relation.ParsePaths("b,a,c.d").Names()).To(Equal([]string{"a", "b", "c"}))
	})

	It("should add a name without touching the original", func() {
		paths := relation.ParsePaths("a.b")
		with := paths.With("c")
		Expect(with.Has("c")).To(BeTrue())
		Expect(with.Has("a")).To(BeTrue())
		Expect(paths.Has("c")).To(BeFalse())
		Expect(with.With("a")["a"]).To(HaveKey("b"))
	})

	It("should add a name to a nil tree", func() {
		var paths relation.Paths
		Expect(paths.With("a")).To(HaveKey("a"))
	})
})
