package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		samples []int
		mean    float64
		stdev   float64
		min     float64
		max     float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891, 10, 124},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{1, 1}, 1, 0, 1, 1},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, sample := range c.samples {
			s.Push(float64(sample))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.True(FuzzyEqual(s.Min(), c.min))
		is.True(FuzzyEqual(s.Max(), c.max))
		is.Equal(s.Iterations(), len(c.samples))
	}
}

func TestLast(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	s.Push(3)
	s.Push(41)
	s.Push(7)
	is.Equal(s.Last(), 7.0)
}

func TestFuzzyEqual(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(1.0, 1.0+Epsilon/2))
	is.True(!FuzzyEqual(1.0, 1.0+2*Epsilon))
}
