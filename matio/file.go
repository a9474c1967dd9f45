package matio

import (
	"os"

	"github.com/fasp-go/fasp/sparse"
)

// ReadCSRFile opens path and reads it as the plain CSR text format.
func ReadCSRFile(path string) (*sparse.CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadCSR(f)
}

// WriteCSRFile writes a to path in the plain CSR text format, creating or
// truncating the file.
func WriteCSRFile(path string, a *sparse.CSR) error {
	f, err := os.Create(path)
	if err != nil {
		return openError(path, err)
	}
	defer f.Close()
	return WriteCSR(f, a)
}

// ReadCSRVecFile opens path and reads it as the combined CSR+RHS format.
func ReadCSRVecFile(path string) (*sparse.CSR, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, openError(path, err)
	}
	defer f.Close()
	return ReadCSRVec(f)
}

// WriteCSRVecFile writes a and b to path in the combined CSR+RHS format.
func WriteCSRVecFile(path string, a *sparse.CSR, b []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return openError(path, err)
	}
	defer f.Close()
	return WriteCSRVec(f, a, b)
}

// ReadMatrixMarketFile opens path and reads it as a MatrixMarket file.
func ReadMatrixMarketFile(path string) (*sparse.CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadMatrixMarket(f)
}

// ReadBSRFile opens path and reads it as a BSR file.
func ReadBSRFile(path string) (*sparse.BSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadBSR(f)
}

// ReadSTRFile opens path and reads it as a structured-matrix file.
func ReadSTRFile(path string) (*sparse.STR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadSTR(f)
}

// ReadVectorFile opens path and reads it as a plain dense vector file.
func ReadVectorFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadVector(f)
}
