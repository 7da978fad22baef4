// Package rmat provides small dense matrices of float64 values with
// named rows and columns. NaN is used as the missing-value marker.
package rmat

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Matrix is a row-major dense matrix with row and column labels.
type Matrix struct {
	rowNames []string
	colNames []string
	rowIndex map[string]int
	data     []float64
}

// New creates a matrix with the given row and column labels, filled
// with NaN.
func New(rowNames, colNames []string) *Matrix {
	m := &Matrix{
		rowNames: rowNames,
		colNames: colNames,
		rowIndex: make(map[string]int, len(rowNames)),
		data:     make([]float64, len(rowNames)*len(colNames)),
	}
	for i, name := range rowNames {
		m.rowIndex[name] = i
	}
	for i := range m.data {
		m.data[i] = math.NaN()
	}
	return m
}

// NRows returns the number of rows.
func (m *Matrix) NRows() int {
	return len(m.rowNames)
}

// NCols returns the number of columns.
func (m *Matrix) NCols() int {
	return len(m.colNames)
}

// RowNames returns the row labels.
func (m *Matrix) RowNames() []string {
	return m.rowNames
}

// ColNames returns the column labels.
func (m *Matrix) ColNames() []string {
	return m.colNames
}

// RowID returns the index of a row label, -1 if unknown.
func (m *Matrix) RowID(name string) int {
	i, ok := m.rowIndex[name]
	if !ok {
		return -1
	}
	return i
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*len(m.colNames)+j]
}

// Set sets the value at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*len(m.colNames)+j] = v
}

// Row returns row i as a slice sharing the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	nc := len(m.colNames)
	return m.data[i*nc : (i+1)*nc]
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	res := make([]float64, len(m.rowNames))
	for i := range res {
		res[i] = m.At(i, j)
	}
	return res
}

// CheckAligned returns an error unless o has exactly the same row and
// column labels in the same order.
func (m *Matrix) CheckAligned(o *Matrix) error {
	if len(m.rowNames) != len(o.rowNames) || len(m.colNames) != len(o.colNames) {
		return fmt.Errorf("matrix shape mismatch: %dx%d vs %dx%d",
			len(m.rowNames), len(m.colNames), len(o.rowNames), len(o.colNames))
	}
	for i, name := range m.rowNames {
		if o.rowNames[i] != name {
			return fmt.Errorf("row %d label mismatch: %q vs %q", i, name, o.rowNames[i])
		}
	}
	for j, name := range m.colNames {
		if o.colNames[j] != name {
			return fmt.Errorf("column %d label mismatch: %q vs %q", j, name, o.colNames[j])
		}
	}
	return nil
}

// String returns a truncated preview of the matrix.
func (m *Matrix) String() string {
	var buffer bytes.Buffer
	buffer.WriteString("<Matrix\n")
	for i := range m.rowNames {
		if i == 10 {
			buffer.WriteString("...\n")
			break
		}
		buffer.WriteString("  " + m.rowNames[i])
		for j := range m.colNames {
			if j == 10 {
				buffer.WriteString("\t...")
				break
			}
			buffer.WriteByte('\t')
			buffer.WriteString(strconv.FormatFloat(m.At(i, j), 'E', 3, 64))
		}
		buffer.WriteByte('\n')
	}
	buffer.WriteByte('>')
	return buffer.String()
}
