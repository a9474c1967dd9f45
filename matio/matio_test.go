package matio

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fasp-go/fasp/ferr"
	"github.com/fasp-go/fasp/sparse"
	"github.com/stretchr/testify/require"
)

// sampleCSR builds a small symmetric CSR matrix whose rows hold one, two
// or three entries, to exercise every format on rows of differing length.
func sampleCSR() *sparse.CSR {
	coo := sparse.NewCOO(4, 4)
	coo.Append(0, 0, 4)
	coo.Append(0, 1, -1)
	coo.Append(1, 0, -1)
	coo.Append(1, 1, 4)
	coo.Append(1, 2, -1)
	coo.Append(2, 1, -1)
	coo.Append(2, 2, 4)
	coo.Append(3, 3, 2)
	return coo.ToCSR()
}

func TestCSRRoundTrip(t *testing.T) {
	a := sampleCSR()
	var buf bytes.Buffer
	require.NoError(t, WriteCSR(&buf, a))

	got, err := ReadCSR(&buf)
	require.NoError(t, err)
	require.Equal(t, a.Row, got.Row)
	require.Equal(t, a.Col, got.Col)
	require.Equal(t, a.IA, got.IA)
	require.Equal(t, a.JA, got.JA)
	require.InDeltaSlice(t, a.Val, got.Val, 1e-12)
}

func TestCSRVecRoundTrip(t *testing.T) {
	a := sampleCSR()
	b := []float64{1, 2, 3, 4}
	var buf bytes.Buffer
	require.NoError(t, WriteCSRVec(&buf, a, b))

	got, gotB, err := ReadCSRVec(&buf)
	require.NoError(t, err)
	require.Equal(t, a.IA, got.IA)
	require.Equal(t, a.JA, got.JA)
	require.InDeltaSlice(t, b, gotB, 1e-12)
}

func TestCOORoundTrip(t *testing.T) {
	a := sampleCSR()
	var buf bytes.Buffer
	require.NoError(t, WriteCOO(&buf, a))

	got, err := ReadCOO(&buf)
	require.NoError(t, err)
	require.Equal(t, a.Row, got.Row)
	require.Equal(t, a.Col, got.Col)
	for i := 0; i < a.Row; i++ {
		for j := 0; j < a.Col; j++ {
			require.InDelta(t, a.At(i, j), got.At(i, j), 1e-12)
		}
	}
}

func TestMatrixMarketGeneralRoundTrip(t *testing.T) {
	a := sampleCSR()
	var buf bytes.Buffer
	require.NoError(t, WriteMatrixMarket(&buf, a))

	got, err := ReadMatrixMarket(&buf)
	require.NoError(t, err)
	for i := 0; i < a.Row; i++ {
		for j := 0; j < a.Col; j++ {
			require.InDelta(t, a.At(i, j), got.At(i, j), 1e-12)
		}
	}
}

func TestMatrixMarketSymmetricRoundTrip(t *testing.T) {
	coo := sparse.NewCOO(3, 3)
	coo.Append(0, 0, 2)
	coo.Append(1, 0, -1)
	coo.Append(0, 1, -1)
	coo.Append(1, 1, 2)
	coo.Append(2, 1, -1)
	coo.Append(1, 2, -1)
	coo.Append(2, 2, 2)
	a := coo.ToCSR()

	var buf bytes.Buffer
	require.NoError(t, WriteMatrixMarketSymmetric(&buf, a))
	got, err := ReadMatrixMarket(&buf)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.InDelta(t, a.At(i, j), got.At(i, j), 1e-12)
		}
	}
}

func TestSTRRoundTrip(t *testing.T) {
	m := &sparse.STR{
		Nx: 4, Ny: 1, Nz: 1, Nc: 1,
		Offsets: []int{-1, 1},
		Diag:    []float64{2, 2, 2, 2},
		OffDiag: [][]float64{
			{-1, -1, -1},
			{-1, -1, -1},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSTR(&buf, m))

	got, err := ReadSTR(&buf)
	require.NoError(t, err)
	require.Equal(t, m.Nx, got.Nx)
	require.Equal(t, m.Ny, got.Ny)
	require.Equal(t, m.Nz, got.Nz)
	require.Equal(t, m.Nc, got.Nc)
	require.Equal(t, m.Offsets, got.Offsets)
	require.InDeltaSlice(t, m.Diag, got.Diag, 1e-12)
	for b := range m.OffDiag {
		require.InDeltaSlice(t, m.OffDiag[b], got.OffDiag[b], 1e-12)
	}

	// Expanding both to scalar CSR should also agree, exercising SpMV
	// consistency across the round trip.
	require.Equal(t, m.ToCSR().Val, got.ToCSR().Val)
}

func TestBSRRoundTrip(t *testing.T) {
	a := sampleCSR()
	b := sparse.CSRToBSR(a, 2)
	var buf bytes.Buffer
	require.NoError(t, WriteBSR(&buf, b))

	got, err := ReadBSR(&buf)
	require.NoError(t, err)
	require.Equal(t, b.Row, got.Row)
	require.Equal(t, b.Col, got.Col)
	require.Equal(t, b.NB, got.NB)
	require.Equal(t, b.IA, got.IA)
	require.Equal(t, b.JA, got.JA)
	require.InDeltaSlice(t, b.Val, got.Val, 1e-12)
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float64{1.5, -2.25, 0, 3.125}
	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, v))

	got, err := ReadVector(&buf)
	require.NoError(t, err)
	require.InDeltaSlice(t, v, got, 1e-12)
}

func TestIndexedVectorRoundTrip(t *testing.T) {
	v := []float64{0, 7, 0, -3, 0}
	var buf bytes.Buffer
	require.NoError(t, WriteIndexedVector(&buf, v))

	got, err := ReadIndexedVector(&buf)
	require.NoError(t, err)
	require.InDeltaSlice(t, v, got, 1e-12)
}

func TestReadCSRRejectsTruncatedFile(t *testing.T) {
	_, err := ReadCSR(bytes.NewBufferString("4\n1 2 3\n"))
	require.Error(t, err)
}

func TestReadMatrixMarketRejectsWrongHeader(t *testing.T) {
	_, err := ReadMatrixMarket(bytes.NewBufferString("not a matrix market file\n"))
	require.Error(t, err)
}

func TestReadCSRRejectsBadIAWithoutPanicking(t *testing.T) {
	// On-disk IA[0] must be 1 (decoding to 0); here it is 2, which would
	// make sparse.NewCSR panic if matio didn't validate first.
	_, err := ReadCSR(bytes.NewBufferString("1\n2\n2\n1\n3.0\n"))
	require.Error(t, err)
}

func TestCSRFileRoundTrip(t *testing.T) {
	a := sampleCSR()
	path := filepath.Join(t.TempDir(), "a.csr")
	require.NoError(t, WriteCSRFile(path, a))

	got, err := ReadCSRFile(path)
	require.NoError(t, err)
	require.Equal(t, a.IA, got.IA)
	require.Equal(t, a.JA, got.JA)
	require.InDeltaSlice(t, a.Val, got.Val, 1e-12)
}

func TestReadCSRFileMissingPathReturnsOpenFileError(t *testing.T) {
	_, err := ReadCSRFile(filepath.Join(t.TempDir(), "does-not-exist.csr"))
	require.Error(t, err)
	require.ErrorIs(t, err, &ferr.SolverError{Code: ferr.OPENFILE})
}
