package terrain

import (
	"fmt"

	"github.com/gruppe-adler/demgen/internal/dem"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Method selects the convolution algorithm.
type Method string

const (
	// MethodAuto picks FFT for large inputs and direct summation otherwise.
	MethodAuto Method = "auto"
	// MethodDirect sums kernel products cell by cell.
	MethodDirect Method = "direct"
	// MethodFFT multiplies spectra of the zero-padded kernel and the input.
	MethodFFT Method = "fft"
)

// ParseMethod converts a config string to a Method. The empty string is auto.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodAuto:
		return MethodAuto, nil
	case MethodDirect, MethodFFT:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: unknown convolution method %q", ErrInvalidParameter, s)
}

// directLimit is the largest kernel (in cells) auto mode still sums directly.
const directLimit = 64

// ValidShape returns the output shape of a valid convolution of an
// h x w input with a kh x kw kernel.
func ValidShape(h, w, kh, kw int) (rows, cols int, err error) {
	if kh > h || kw > w {
		return 0, 0, fmt.Errorf("%w: kernel %dx%d does not fit in grid %dx%d", ErrInvalidParameter, kh, kw, h, w)
	}
	return h - kh + 1, w - kw + 1, nil
}

// ConvolveValid convolves in with k and keeps only outputs fully supported
// by the input, so the result is (kh-1) rows and (kw-1) columns smaller.
func ConvolveValid(in *dem.Grid, k *Kernel, method Method) (*dem.Grid, error) {
	h, w := in.Shape()
	kh, kw := k.Dims()
	rows, cols, err := ValidShape(h, w, kh, kw)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodDirect:
		return convolveDirect(in, k, rows, cols), nil
	case MethodFFT:
		return convolveFFT(in, k, rows, cols), nil
	case MethodAuto, "":
		if kh*kw > directLimit && h*w > directLimit*directLimit {
			return convolveFFT(in, k, rows, cols), nil
		}
		return convolveDirect(in, k, rows, cols), nil
	}
	return nil, fmt.Errorf("%w: unknown convolution method %q", ErrInvalidParameter, method)
}

func convolveDirect(in *dem.Grid, k *Kernel, rows, cols int) *dem.Grid {
	kh, kw := k.Dims()
	out := dem.NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		dst := out.Row(i)
		for u := 0; u < kh; u++ {
			src := in.Row(i + kh - 1 - u)
			for v := 0; v < kw; v++ {
				wt := k.At(u, v)
				off := kw - 1 - v
				for j := range dst {
					dst[j] += wt * src[j+off]
				}
			}
		}
	}
	return out
}

// convolveFFT computes the circular convolution over the full input extent.
// Wrap-around only touches the first kh-1 rows and kw-1 columns of the
// circular result, which are exactly the ones a valid convolution drops.
func convolveFFT(in *dem.Grid, k *Kernel, rows, cols int) *dem.Grid {
	h, w := in.Shape()
	kh, kw := k.Dims()

	signal := spectrum2D(h, w, func(r int, dst []float64) {
		copy(dst, in.Row(r))
	})
	kernel := spectrum2D(h, w, func(r int, dst []float64) {
		for j := range dst {
			dst[j] = 0
		}
		if r < kh {
			for j := 0; j < kw; j++ {
				dst[j] = k.At(r, j)
			}
		}
	})
	for i := range signal {
		signal[i] *= kernel[i]
	}
	kernel = nil

	half := w/2 + 1
	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	seq := make([]complex128, h)
	for j := 0; j < half; j++ {
		for r := 0; r < h; r++ {
			col[r] = signal[r*half+j]
		}
		colFFT.Sequence(seq, col)
		for r := 0; r < h; r++ {
			signal[r*half+j] = seq[r]
		}
	}

	rowFFT := fourier.NewFFT(w)
	line := make([]float64, w)
	scale := 1 / float64(h*w)
	out := dem.NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		r := i + kh - 1
		rowFFT.Sequence(line, signal[r*half:(r+1)*half])
		dst := out.Row(i)
		for j := range dst {
			dst[j] = line[j+kw-1] * scale
		}
	}
	return out
}

// spectrum2D returns the h x (w/2+1) half spectrum of a real h x w field,
// row-major. fill writes row r of the field into dst.
func spectrum2D(h, w int, fill func(r int, dst []float64)) []complex128 {
	half := w/2 + 1
	freq := make([]complex128, h*half)

	rowFFT := fourier.NewFFT(w)
	line := make([]float64, w)
	for r := 0; r < h; r++ {
		fill(r, line)
		rowFFT.Coefficients(freq[r*half:(r+1)*half], line)
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	coeff := make([]complex128, h)
	for j := 0; j < half; j++ {
		for r := 0; r < h; r++ {
			col[r] = freq[r*half+j]
		}
		colFFT.Coefficients(coeff, col)
		for r := 0; r < h; r++ {
			freq[r*half+j] = coeff[r]
		}
	}
	return freq
}
