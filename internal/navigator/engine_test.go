package navigator_test

import (
	"errors"
	"math/rand"

	"github.com/manno/inflow/internal/flow"
	"github.com/manno/inflow/internal/navigator"
	"github.com/manno/inflow/internal/selection"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func press(step string, row, col int) navigator.Action {
	return navigator.Action{Kind: navigator.ActionPress, StepKey: step, Row: row, Col: col}
}

func done(step string) navigator.Action {
	return navigator.Action{Kind: navigator.ActionDone, StepKey: step}
}

func back(step string) navigator.Action {
	return navigator.Action{Kind: navigator.ActionBack, StepKey: step}
}

var _ = Describe("Engine", func() {
	var (
		def    *flow.Definition
		engine *navigator.Engine
		st     navigator.State
	)

	BeforeEach(func() {
		def = sevenSteps()
		engine = navigator.New(def, discardLogger())
		st = navigator.NewState()
	})

	expectUnchanged := func(before navigator.State) {
		Expect(st.Index).To(Equal(before.Index))
		Expect(st.History).To(Equal(before.History))
		Expect(st.Selections.Snapshot()).To(Equal(before.Selections.Snapshot()))
	}

	Context("auto steps", func() {
		It("records the value and advances on a default button", func() {
			out, err := engine.Apply(&st, press("s0", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Moved).To(BeTrue())
			Expect(out.From).To(Equal(0))
			Expect(out.To).To(Equal(1))
			Expect(out.Button.Label).To(Equal("Go"))
			Expect(st.History).To(Equal([]int{0}))

			v, ok := st.Selections.Value("s0")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("go"))
		})
	})

	Context("manual steps", func() {
		BeforeEach(func() {
			_, err := engine.Apply(&st, press("s0", 0, 0))
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the last radio choice per group", func() {
			_, err := engine.Apply(&st, press("s1", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			_, err = engine.Apply(&st, press("s1", 0, 1))
			Expect(err).NotTo(HaveOccurred())

			v, _ := st.Selections.Radio("crust")
			Expect(v).To(Equal("thick"))
			Expect(st.Index).To(Equal(1))
		})

		It("restores checkbox membership after a double toggle", func() {
			_, err := engine.Apply(&st, press("s1", 1, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Selections.Checked("s1", "olives")).To(BeTrue())

			_, err = engine.Apply(&st, press("s1", 1, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Selections.Checked("s1", "olives")).To(BeFalse())
			Expect(st.Index).To(Equal(1))
		})

		It("flips a toggle from its initial state", func() {
			_, err := engine.Apply(&st, press("s1", 2, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Selections.Toggle("cheese", false)).To(BeTrue())

			_, err = engine.Apply(&st, press("s1", 2, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Selections.Toggle("cheese", true)).To(BeFalse())
		})

		It("records a default button without advancing", func() {
			out, err := engine.Apply(&st, press("s1", 3, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Moved).To(BeFalse())
			Expect(st.Index).To(Equal(1))

			v, _ := st.Selections.Value("s1")
			Expect(v).To(Equal("note"))
		})

		It("rejects done while a radio group is unselected", func() {
			before := st.Clone()

			_, err := engine.Apply(&st, done("s1"))
			Expect(errors.Is(err, navigator.ErrValidation)).To(BeTrue())
			Expect(errors.Is(err, navigator.ErrIncompleteStep)).To(BeTrue())

			var inc *navigator.IncompleteError
			Expect(errors.As(err, &inc)).To(BeTrue())
			Expect(inc.Groups).To(Equal([]string{"crust"}))
			Expect(err.Error()).To(ContainSubstring("crust"))
			expectUnchanged(before)
		})

		It("advances on done once every radio group is chosen", func() {
			_, err := engine.Apply(&st, press("s1", 0, 0))
			Expect(err).NotTo(HaveOccurred())

			out, err := engine.Apply(&st, done("s1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Button).To(BeNil())
			Expect(st.Index).To(Equal(2))
			Expect(st.History).To(Equal([]int{0, 1}))
		})
	})

	Context("done on an auto step", func() {
		It("is an invalid state", func() {
			before := st.Clone()
			_, err := engine.Apply(&st, done("s0"))
			Expect(errors.Is(err, navigator.ErrInvalidState)).To(BeTrue())
			Expect(errors.Is(err, navigator.ErrNotManual)).To(BeTrue())
			expectUnchanged(before)
		})
	})

	Context("going back", func() {
		It("restores the exact previous index and keeps selections", func() {
			_, err := engine.Apply(&st, press("s0", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			_, err = engine.Apply(&st, press("s1", 0, 1))
			Expect(err).NotTo(HaveOccurred())
			_, err = engine.Apply(&st, done("s1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Index).To(Equal(2))

			_, err = engine.Apply(&st, back("s2"))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Index).To(Equal(1))
			Expect(st.History).To(Equal([]int{0}))

			v, _ := st.Selections.Radio("crust")
			Expect(v).To(Equal("thick"))
		})

		It("returns to the step that advanced", func() {
			for _, a := range []navigator.Action{
				press("s0", 0, 0), press("s1", 0, 0), done("s1"),
				press("s2", 0, 0), press("s3", 0, 0),
			} {
				_, err := engine.Apply(&st, a)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(st.Index).To(Equal(4))

			_, err := engine.Apply(&st, press("s4", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Index).To(Equal(5))

			_, err = engine.Apply(&st, back("s5"))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Index).To(Equal(4))
		})

		It("is rejected with an empty history", func() {
			st.Index = 2
			before := st.Clone()

			_, err := engine.Apply(&st, back("s2"))
			Expect(errors.Is(err, navigator.ErrNoHistory)).To(BeTrue())
			Expect(errors.Is(err, navigator.ErrInvalidState)).To(BeTrue())
			expectUnchanged(before)
		})

		It("is rejected on a step without a back button", func() {
			_, err := engine.Apply(&st, press("s0", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			st.Index = 4
			before := st.Clone()

			_, err = engine.Apply(&st, back("s4"))
			Expect(errors.Is(err, navigator.ErrNoBackButton)).To(BeTrue())
			expectUnchanged(before)
		})
	})

	Context("skipping", func() {
		It("finishes when a skip of two is pressed at index 4 of 7", func() {
			st.Index = 4
			st.History = []int{0, 1, 2, 3}

			out, err := engine.Apply(&st, press("s4", 1, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.To).To(Equal(7))
			Expect(out.Finished).To(BeTrue())
			Expect(engine.Finished(&st)).To(BeTrue())
			Expect(st.Selections.Snapshot()).To(ContainElement(selection.Entry{Key: "s4", Value: "any"}))
		})

		It("lands on the step after the skipped ones", func() {
			short := mustLoad(flow.RawWorkflow{Steps: []flow.RawStep{
				{Key: "a", Options: [][]flow.RawButton{{{ButtonName: "Skip", Value: "x", Type: "skip", SkipSteps: intp(1)}}}},
				{Key: "b", Options: [][]flow.RawButton{{{ButtonName: "B", Value: "b"}}}},
				{Key: "c", Options: [][]flow.RawButton{{{ButtonName: "C", Value: "c"}}}},
			}})
			e := navigator.New(short, discardLogger())
			s := navigator.NewState()

			_, err := e.Apply(&s, press("a", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Index).To(Equal(2))
			Expect(s.History).To(Equal([]int{0}))
		})

		It("clamps a huge skip to finished", func() {
			huge := mustLoad(flow.RawWorkflow{Steps: []flow.RawStep{
				{Key: "a", Options: [][]flow.RawButton{{{ButtonName: "Skip", Value: "x", Type: "skip", SkipSteps: intp(1000)}}}},
				{Key: "b", Options: [][]flow.RawButton{{{ButtonName: "B", Value: "b"}}}},
			}})
			e := navigator.New(huge, discardLogger())
			s := navigator.NewState()

			_, err := e.Apply(&s, press("a", 0, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Index).To(Equal(huge.Len()))
		})
	})

	Context("finishing", func() {
		BeforeEach(func() {
			st.Index = 4
			_, err := engine.Apply(&st, press("s4", 2, 0))
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the finish value", func() {
			Expect(engine.Finished(&st)).To(BeTrue())
			v, _ := st.Selections.Value("s4")
			Expect(v).To(Equal("early"))
		})

		It("rejects every further action", func() {
			before := st.Clone()
			for _, a := range []navigator.Action{press("s4", 0, 0), done("s4"), back("s4"), press("s0", 0, 0)} {
				_, err := engine.Apply(&st, a)
				Expect(errors.Is(err, navigator.ErrFinished)).To(BeTrue())
				Expect(errors.Is(err, navigator.ErrInvalidState)).To(BeTrue())
			}
			expectUnchanged(before)
		})

		It("can start over after a reset", func() {
			st.Reset()
			Expect(engine.Finished(&st)).To(BeFalse())
			Expect(st.Selections.Len()).To(BeZero())
			_, err := engine.Apply(&st, press("s0", 0, 0))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("rejections", func() {
		It("rejects a press from an older step as stale", func() {
			st.Index = 3
			st.History = []int{0, 1, 2}
			st.Selections.RecordDefault("s2", "s2-next")
			before := st.Clone()

			_, err := engine.Apply(&st, press("s2", 0, 0))
			Expect(errors.Is(err, navigator.ErrStalePress)).To(BeTrue())

			var stale *navigator.StaleError
			Expect(errors.As(err, &stale)).To(BeTrue())
			Expect(stale.Pressed).To(Equal("s2"))
			Expect(stale.Current).To(Equal("s3"))
			expectUnchanged(before)
		})

		It("rejects a position that does not exist", func() {
			before := st.Clone()
			_, err := engine.Apply(&st, press("s0", 5, 0))
			Expect(errors.Is(err, navigator.ErrUnknownButton)).To(BeTrue())
			Expect(errors.Is(err, navigator.ErrValidation)).To(BeTrue())
			expectUnchanged(before)
		})
	})

	Context("Prepare", func() {
		BeforeEach(func() {
			st.Index = 1
		})

		It("seeds toggles with their initial state", func() {
			engine.Prepare(&st)
			Expect(st.Selections.Snapshot()).To(Equal([]selection.Entry{{Key: "cheese", Value: false}}))
		})

		It("leaves radio groups alone by default", func() {
			engine.Prepare(&st)
			_, ok := st.Selections.Radio("crust")
			Expect(ok).To(BeFalse())
		})

		It("preselects the first radio option when enabled", func() {
			e := navigator.New(def, discardLogger(), navigator.WithPreselectRadios(true))
			e.Prepare(&st)
			v, ok := st.Selections.Radio("crust")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("thin"))

			_, err := e.Apply(&st, done("s1"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("does nothing once finished", func() {
			st.Index = def.Len()
			engine.Prepare(&st)
			Expect(st.Selections.Len()).To(BeZero())
		})
	})

	Context("CanGoBack", func() {
		It("needs both history and a back button", func() {
			st.Index = 1
			Expect(engine.CanGoBack(&st)).To(BeFalse())
			st.History = []int{0}
			Expect(engine.CanGoBack(&st)).To(BeTrue())
			st.Index = 4
			Expect(engine.CanGoBack(&st)).To(BeFalse())
		})
	})

	It("keeps the index in range for any sequence of actions", func() {
		rng := rand.New(rand.NewSource(42))
		for run := 0; run < 50; run++ {
			s := navigator.NewState()
			for i := 0; i < 40; i++ {
				key := "s0"
				if step, ok := engine.CurrentStep(&s); ok {
					key = step.Key
				}
				var a navigator.Action
				switch rng.Intn(4) {
				case 0:
					a = done(key)
				case 1:
					a = back(key)
				default:
					a = press(key, rng.Intn(4), rng.Intn(2))
				}
				_, _ = engine.Apply(&s, a)
				Expect(s.Index).To(BeNumerically(">=", 0))
				Expect(s.Index).To(BeNumerically("<=", def.Len()))
			}
		}
	})
})
