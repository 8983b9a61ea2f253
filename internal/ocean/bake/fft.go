package bake

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
)

// inverse2D replaces data (n x n, row-major) with its unnormalised inverse DFT.
// Rows are transformed first, then columns, each pass split into bands that
// own a private FFT plan and scratch buffer.
func inverse2D(data []complex128, n, workers int) error {
	if err := inverseRows(data, n, workers); err != nil {
		return err
	}
	return inverseColumns(data, n, workers)
}

func bands(n, workers int) int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	return (n + workers - 1) / workers
}

func inverseRows(data []complex128, n, workers int) error {
	step := bands(n, workers)
	var g errgroup.Group
	for r0 := 0; r0 < n; r0 += step {
		r1 := min(r0+step, n)
		g.Go(func() error {
			fft := fourier.NewCmplxFFT(n)
			buf := make([]complex128, n)
			for r := r0; r < r1; r++ {
				row := data[r*n : (r+1)*n]
				fft.Sequence(buf, row)
				copy(row, buf)
			}
			return nil
		})
	}
	return g.Wait()
}

func inverseColumns(data []complex128, n, workers int) error {
	step := bands(n, workers)
	var g errgroup.Group
	for c0 := 0; c0 < n; c0 += step {
		c1 := min(c0+step, n)
		g.Go(func() error {
			fft := fourier.NewCmplxFFT(n)
			col := make([]complex128, n)
			buf := make([]complex128, n)
			for c := c0; c < c1; c++ {
				for r := 0; r < n; r++ {
					col[r] = data[r*n+c]
				}
				fft.Sequence(buf, col)
				for r := 0; r < n; r++ {
					data[r*n+c] = buf[r]
				}
			}
			return nil
		})
	}
	return g.Wait()
}
