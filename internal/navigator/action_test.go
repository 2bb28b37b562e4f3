package navigator_test

import (
	"errors"

	"github.com/manno/inflow/internal/navigator"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Callback data", func() {
	DescribeTable("round trips",
		func(a navigator.Action, data string) {
			Expect(navigator.EncodeCallback(a)).To(Equal(data))
			decoded, err := navigator.DecodeCallback(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(a))
		},
		Entry("press", navigator.Action{Kind: navigator.ActionPress, StepKey: "size", Row: 1, Col: 2}, "size:1:2"),
		Entry("done", navigator.Action{Kind: navigator.ActionDone, StepKey: "extras"}, "done:extras"),
		Entry("back", navigator.Action{Kind: navigator.ActionBack, StepKey: "extras"}, "back:extras"),
		Entry("press on a step named done", navigator.Action{Kind: navigator.ActionPress, StepKey: "done", Row: 0, Col: 0}, "done:0:0"),
	)

	DescribeTable("rejects malformed data",
		func(data string) {
			_, err := navigator.DecodeCallback(data)
			Expect(errors.Is(err, navigator.ErrBadCallback)).To(BeTrue())
			Expect(errors.Is(err, navigator.ErrValidation)).To(BeTrue())
		},
		Entry("empty", ""),
		Entry("step only", "size"),
		Entry("non numeric row", "size:a:1"),
		Entry("non numeric col", "size:1:b"),
		Entry("done without step", "done:"),
		Entry("too many parts", "a:1:2:3"),
	)

	It("names action kinds", func() {
		Expect(navigator.ActionPress.String()).To(Equal("press"))
		Expect(navigator.ActionDone.String()).To(Equal("done"))
		Expect(navigator.ActionBack.String()).To(Equal("back"))
	})
})
