package gitgen_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/contribmatrix/gitgen"
)

var _ = Describe("Profile", func() {
	It("has built-in defaults", func() {
		p := gitgen.Defaults()
		Expect(p.Message).To(Equal("contribmatrix"))
		Expect(p.Intensity).To(Equal(10))
		Expect(p.Push.Remote).To(Equal("origin"))
		Expect(p.Push.Branch).To(Equal("main"))
		Expect(p.Author.Name).To(BeEmpty())
		Expect(p.Author.Email).To(BeEmpty())
	})

	It("overlays file values on the defaults", func() {
		path := filepath.Join(GinkgoT().TempDir(), "profile.toml")
		Expect(os.WriteFile(path, []byte(`
message = "bad apple"

[author]
name = "Octo Cat"
`), 0o644)).To(Succeed())

		p, err := gitgen.LoadProfile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Message).To(Equal("bad apple"))
		Expect(p.Author.Name).To(Equal("Octo Cat"))
		Expect(p.Intensity).To(Equal(10))
		Expect(p.Push.Remote).To(Equal("origin"))
		Expect(p.Push.Branch).To(Equal("main"))
	})

	It("fails on a missing file", func() {
		_, err := gitgen.LoadProfile(filepath.Join(GinkgoT().TempDir(), "nope.toml"))
		Expect(err).To(MatchError(ContainSubstring("load profile")))
	})
})
