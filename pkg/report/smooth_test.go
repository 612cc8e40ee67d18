package report_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
	"github.com/christopher-wolff-zz/lab-old/pkg/report"
)

func expectClose(got, want []float64) {
	ExpectWithOffset(1, got).To(HaveLen(len(want)))
	for i := range want {
		ExpectWithOffset(1, got[i]).To(BeNumerically("~", want[i], 1e-12), "index %d", i)
	}
}

var _ = Describe("Smooth", func() {
	x := []float64{1, 2, 3, 4}

	It("keeps the series for a window of one", func() {
		for _, method := range []string{report.Same, report.Mirror} {
			out, err := report.Smooth(x, 1, method)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(x))
		}
	})

	It("repeats the boundary values", func() {
		out, err := report.Smooth(x, 3, report.Same)
		Expect(err).ToNot(HaveOccurred())
		expectClose(out, []float64{4.0 / 3, 2, 3, 11.0 / 3})
	})

	It("mirrors the boundary values", func() {
		out, err := report.Smooth(x, 5, report.Mirror)
		Expect(err).ToNot(HaveOccurred())
		expectClose(out, []float64{1.8, 2.2, 2.8, 3.2})
	})

	It("takes the extra value of an even window from the right", func() {
		out, err := report.Smooth([]float64{1, 3}, 2, report.Same)
		Expect(err).ToNot(HaveOccurred())
		expectClose(out, []float64{2, 3})
	})

	It("handles windows longer than the series", func() {
		out, err := report.Smooth([]float64{1, 2}, 7, report.Mirror)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(HaveLen(2))
	})

	It("leaves a constant series unchanged", func() {
		out, err := report.Smooth([]float64{5, 5, 5, 5, 5}, 4, report.Mirror)
		Expect(err).ToNot(HaveOccurred())
		expectClose(out, []float64{5, 5, 5, 5, 5})
	})

	It("returns an empty series for empty input", func() {
		out, err := report.Smooth(nil, 3, report.Same)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(BeEmpty())
	})

	It("rejects invalid arguments", func() {
		_, err := report.Smooth(x, 0, report.Same)
		Expect(errors.Is(err, labError.ErrInvalidConfig)).To(BeTrue())
		_, err = report.Smooth(x, 3, "reflect")
		Expect(errors.Is(err, labError.ErrInvalidConfig)).To(BeTrue())
	})
})
