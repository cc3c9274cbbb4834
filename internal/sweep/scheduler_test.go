package sweep

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func drain(s *Scheduler) [][]float64 {
	var points [][]float64
	batch := s.NewBatch()
	for {
		n := s.Next(batch)
		if n == 0 {
			return points
		}
		for i := 0; i < n; i++ {
			p := make([]float64, s.Dims())
			copy(p, batch[i*s.Dims():(i+1)*s.Dims()])
			points = append(points, p)
		}
	}
}

func constantAxes(n int) []Axis {
	return make([]Axis, n)
}

var _ = Describe("Scheduler", func() {
	Describe("construction", func() {
		It("rejects an empty axis list", func() {
			_, err := New(nil, 4, nil)
			Expect(err).To(MatchError(ErrNoAxes))
		})

		It("rejects a non-positive batch size", func() {
			_, err := New(constantAxes(1), 0, nil)
			Expect(err).To(MatchError(ErrBatchSize))
		})

		It("multiplies the division counts of the non-constant axes", func() {
			s, err := New([]Axis{
				{Divisions: 0},
				{Divisions: 1},
				{From: 0, To: 1, Divisions: 2},
				{From: 0, To: 3, Divisions: 3},
			}, 10, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Total()).To(Equal(uint64(6)))
			Expect(s.Dims()).To(Equal(4))
		})
	})

	It("yields the start point once when every axis is constant", func() {
		s, err := New(constantAxes(4), 64, nil)
		Expect(err).NotTo(HaveOccurred())

		batch := s.NewBatch()
		Expect(s.Next(batch)).To(Equal(1))
		Expect(batch[:4]).To(Equal([]float64{0, 0, 0, 0}))
		Expect(s.Next(batch)).To(Equal(0))
		Expect(s.Done()).To(BeTrue())
	})

	It("returns a whole small grid in one batch", func() {
		s, err := New([]Axis{
			{}, {},
			{From: 0, To: 1, Divisions: 2},
			{From: 0, To: 3, Divisions: 3},
		}, 10, nil)
		Expect(err).NotTo(HaveOccurred())

		batch := s.NewBatch()
		Expect(s.Next(batch)).To(Equal(6))
		Expect(batch[:24]).To(Equal([]float64{
			0, 0, 0, 0,
			0, 0, 0, 1,
			0, 0, 0, 2,
			0, 0, 0.5, 0,
			0, 0, 0.5, 1,
			0, 0, 0.5, 2,
		}))
		Expect(s.Next(batch)).To(Equal(0))
	})

	It("pins constant axes at their lower bound", func() {
		s, err := New([]Axis{
			{From: 7, To: 100, Divisions: 1},
			{From: 0, To: 2, Divisions: 2},
		}, 8, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(drain(s)).To(Equal([][]float64{{7, 0}, {7, 1}}))
	})

	It("emits every combination exactly once in odometer order", func() {
		axes := []Axis{
			{From: 0, To: 3, Divisions: 3},
			{From: 0, To: 4, Divisions: 4},
			{From: 0, To: 5, Divisions: 5},
		}
		s, err := New(axes, 7, nil)
		Expect(err).NotTo(HaveOccurred())

		points := drain(s)
		Expect(points).To(HaveLen(int(s.Total())))

		i := 0
		for a := 0; a < 3; a++ {
			for b := 0; b < 4; b++ {
				for c := 0; c < 5; c++ {
					Expect(points[i]).To(Equal([]float64{float64(a), float64(b), float64(c)}))
					i++
				}
			}
		}
		Expect(s.Offset()).To(Equal(s.Total()))
	})

	It("never returns more than the batch limit", func() {
		s, err := New([]Axis{{From: 0, To: 1, Divisions: 10}}, 3, nil)
		Expect(err).NotTo(HaveOccurred())

		batch := s.NewBatch()
		var counts []int
		for n := s.Next(batch); n > 0; n = s.Next(batch) {
			counts = append(counts, n)
		}
		Expect(counts).To(Equal([]int{3, 3, 3, 1}))
	})

	It("honours a buffer shorter than a full batch", func() {
		s, err := New([]Axis{{From: 0, To: 1, Divisions: 10}}, 8, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Next(make([]float64, 2))).To(Equal(2))
		Expect(s.Offset()).To(Equal(uint64(2)))
	})

	Describe("progress", func() {
		It("reports strictly increasing percentages ending at 100", func() {
			var seen []uint
			s, err := New([]Axis{
				{From: 0, To: 1, Divisions: 7},
				{From: 0, To: 1, Divisions: 13},
			}, 5, func(p uint) { seen = append(seen, p) })
			Expect(err).NotTo(HaveOccurred())

			batch := s.NewBatch()
			for s.Next(batch) > 0 {
				Expect(seen).NotTo(BeEmpty())
				Expect(seen[len(seen)-1]).To(Equal(s.Progress()))
			}

			Expect(seen[len(seen)-1]).To(Equal(uint(100)))
			for i := 1; i < len(seen); i++ {
				Expect(seen[i]).To(BeNumerically(">", seen[i-1]))
			}
			Expect(seen[0]).To(BeNumerically(">", 0))
		})

		It("reaches 100 only at exhaustion", func() {
			var last uint
			s, err := New([]Axis{{From: 0, To: 1, Divisions: 200}}, 1, func(p uint) { last = p })
			Expect(err).NotTo(HaveOccurred())

			batch := s.NewBatch()
			for i := 0; i < 199; i++ {
				Expect(s.Next(batch)).To(Equal(1))
			}
			Expect(last).To(Equal(uint(99)))
			Expect(s.Next(batch)).To(Equal(1))
			Expect(last).To(Equal(uint(100)))
		})

		It("does not fire after exhaustion", func() {
			calls := 0
			s, err := New(constantAxes(2), 4, func(uint) { calls++ })
			Expect(err).NotTo(HaveOccurred())

			batch := s.NewBatch()
			s.Next(batch)
			s.Next(batch)
			s.Next(batch)
			Expect(calls).To(Equal(1))
		})

		It("tolerates a missing callback", func() {
			s, err := New([]Axis{{From: 0, To: 1, Divisions: 4}}, 1, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(drain(s)).To(HaveLen(4))
		})
	})
})

var _ = Describe("Locked", func() {
	It("hands every point to exactly one goroutine", func() {
		s, err := New([]Axis{
			{From: 0, To: 32, Divisions: 32},
			{From: 0, To: 64, Divisions: 64},
		}, 16, nil)
		Expect(err).NotTo(HaveOccurred())
		l := NewLocked(s)

		var (
			mu   sync.Mutex
			seen = make(map[[2]float64]int)
			wg   sync.WaitGroup
		)
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				batch := l.NewBatch()
				for {
					n := l.Next(batch)
					if n == 0 {
						return
					}
					mu.Lock()
					for i := 0; i < n; i++ {
						seen[[2]float64{batch[2*i], batch[2*i+1]}]++
					}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Expect(seen).To(HaveLen(32 * 64))
		for _, c := range seen {
			Expect(c).To(Equal(1))
		}
		Expect(l.Scheduler().Done()).To(BeTrue())
	})
})
