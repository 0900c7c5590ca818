package graph

import "math"

const (
	powerIterations = 100
	powerTolerance  = 1e-9
)

// projectTo2D reduces the row vectors to their first two principal
// components. The implementation is plain PCA by power iteration with a
// fixed all-ones start vector, so identical input always yields identical
// coordinates with no randomness anywhere.
//
// Fewer than two rows cannot span a meaningful plane; every row maps to
// the origin in that case.
func projectTo2D(vectors [][]float32) [][2]float64 {
	n := len(vectors)
	points := make([][2]float64, n)
	if n < 2 {
		return points
	}
	dim := len(vectors[0])
	if dim == 0 {
		return points
	}

	// Center the data column-wise.
	rows := make([][]float64, n)
	mean := make([]float64, dim)
	for i, vec := range vectors {
		rows[i] = make([]float64, dim)
		for j := 0; j < dim && j < len(vec); j++ {
			rows[i][j] = float64(vec[j])
			mean[j] += rows[i][j]
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] -= mean[j]
		}
	}

	first := principalComponent(rows, nil)
	second := principalComponent(rows, first)

	for i, row := range rows {
		points[i][0] = dot(row, first)
		points[i][1] = dot(row, second)
	}
	return points
}

// principalComponent runs power iteration on the covariance of rows,
// applied implicitly as w = Xᵀ(X v). When exclude is non-nil the iterate
// is re-orthogonalized against it each step, which yields the next
// component without forming a deflated matrix.
func principalComponent(rows [][]float64, exclude []float64) []float64 {
	dim := len(rows[0])
	v := make([]float64, dim)
	for j := range v {
		v[j] = 1.0
	}
	if exclude != nil {
		orthogonalize(v, exclude)
	}
	if normalize(v) == 0 {
		return v
	}

	w := make([]float64, dim)
	prev := make([]float64, dim)
	for iter := 0; iter < powerIterations; iter++ {
		copy(prev, v)
		for j := range w {
			w[j] = 0
		}
		for _, row := range rows {
			p := dot(row, v)
			for j, x := range row {
				w[j] += p * x
			}
		}
		if exclude != nil {
			orthogonalize(w, exclude)
		}
		if normalize(w) == 0 {
			break
		}
		copy(v, w)

		diff := 0.0
		for j := range v {
			d := v[j] - prev[j]
			diff += d * d
		}
		if diff < powerTolerance {
			break
		}
	}

	// Fix the sign so the component is unique: largest-magnitude entry
	// positive.
	maxIdx := 0
	for j := range v {
		if math.Abs(v[j]) > math.Abs(v[maxIdx]) {
			maxIdx = j
		}
	}
	if v[maxIdx] < 0 {
		for j := range v {
			v[j] = -v[j]
		}
	}
	return v
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// orthogonalize removes the projection of v onto the unit vector u in place.
func orthogonalize(v, u []float64) {
	p := dot(v, u)
	for j := range v {
		v[j] -= p * u[j]
	}
}

// normalize scales v to unit length in place and returns the original norm.
func normalize(v []float64) float64 {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return 0
	}
	for j := range v {
		v[j] /= norm
	}
	return norm
}
