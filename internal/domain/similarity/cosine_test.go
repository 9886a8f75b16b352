package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/lostaf-io/lostaf/internal/domain"
)

const eps = 1e-9

func TestCosine_Identical(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0.3, -0.2, 0.9},
		{5, 5, 5, 5},
	}
	for _, v := range vectors {
		got, err := Cosine(v, v)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", v, err)
		}
		if math.Abs(got-1.0) > 1e-6 {
			t.Errorf("Cosine(%v, %v) = %f, want 1.0", v, v, got)
		}
	}
}

func TestCosine_Symmetric(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 2, 3}, {3, 2, 1}},
		{{0.5, -0.5}, {0.1, 0.9}},
		{{-1, 0, 0}, {1, 1, 0}},
	}
	for _, p := range pairs {
		ab, err := Cosine(p[0], p[1])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ba, err := Cosine(p[1], p[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(ab-ba) > eps {
			t.Errorf("asymmetric: %f vs %f", ab, ba)
		}
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	got, err := Cosine([]float32{1, 0}, []float32{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	got, err := Cosine([]float32{1, 0}, []float32{-1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -1 {
		t.Errorf("expected -1, got %f", got)
	}
}

func TestCosine_Invalid(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name string
		a, b []float32
	}{
		{"zero norm a", []float32{0, 0}, []float32{1, 0}},
		{"zero norm b", []float32{1, 0}, []float32{0, 0}},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}},
		{"empty", nil, []float32{1}},
		{"nan", []float32{nan, 1}, []float32{1, 1}},
		{"inf", []float32{inf, 1}, []float32{1, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Cosine(tc.a, tc.b)
			if !errors.Is(err, domain.ErrInvalidEmbedding) {
				t.Fatalf("expected ErrInvalidEmbedding, got %v", err)
			}
			if Exceeds(got, DefaultThreshold) {
				t.Errorf("invalid pair must not pass the threshold, got %f", got)
			}
		})
	}
}

func TestExceeds_Boundary(t *testing.T) {
	tests := []struct {
		score float64
		want  bool
	}{
		{0.70, false},
		{0.7000001, true},
		{0.69, false},
		{1.0, true},
		{-1.0, false},
	}
	for _, tc := range tests {
		if got := Exceeds(tc.score, DefaultThreshold); got != tc.want {
			t.Errorf("Exceeds(%f) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{1.0, 100},
		{0.734, 73},
		{0.735, 74},
		{0.7049, 70},
		{0, 0},
	}
	for _, tc := range tests {
		if got := Percent(tc.score); got != tc.want {
			t.Errorf("Percent(%f) = %d, want %d", tc.score, got, tc.want)
		}
	}
}
