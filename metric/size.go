// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metric

import (
	"fmt"
	"io"
)

// StorageSize is an amount of bytes, printed with binary units.
type StorageSize int64

// MB returns the size of n mebibytes.
func MB(n int) StorageSize { return StorageSize(n) << 20 }

func (ss StorageSize) String() string {
	switch {
	case ss >= 1<<30:
		return fmt.Sprintf("%.2f GiB", float64(ss)/(1<<30))
	case ss >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(ss)/(1<<20))
	case ss >= 1<<10:
		return fmt.Sprintf("%.2f KiB", float64(ss)/(1<<10))
	}
	return fmt.Sprintf("%d B", ss)
}

// CountingWriter forwards writes to W and sums the bytes written.
type CountingWriter struct {
	W    io.Writer
	Size StorageSize
}

func (cw *CountingWriter) Write(b []byte) (int, error) {
	n, err := cw.W.Write(b)
	cw.Size += StorageSize(n)
	return n, err
}
