// Package `compress` provides the compression pipelines that the ECMWF
// addons apply around transfers.
package compress

import (
	"io"
	"os"

	"github.com/DataDog/zstd"
)

// `Pipeline` converts between a plain file and a compressed file.
type Pipeline interface {
	Compress2File(src, dst string) error
	File2Uncompress(src, dst string) error
}

// `Zstd` compresses with zstd.  `Level` zero uses the zstd default.
type Zstd struct {
	Level int
}

var _ Pipeline = Zstd{}

func (z Zstd) level() int {
	if z.Level == 0 {
		return zstd.DefaultCompression
	}
	return z.Level
}

func (z Zstd) Compress2File(src, dst string) error {
	return convert(src, dst, func(w io.Writer, r io.Reader) error {
		zw := zstd.NewWriterLevel(w, z.level())
		if _, err := io.Copy(zw, r); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	})
}

func (z Zstd) File2Uncompress(src, dst string) error {
	return convert(src, dst, func(w io.Writer, r io.Reader) error {
		zr := zstd.NewReader(r)
		if _, err := io.Copy(w, zr); err != nil {
			_ = zr.Close()
			return err
		}
		return zr.Close()
	})
}

// `convert()` applies `fn` from `src` to `dst`.  It removes a partial `dst`
// on error.
func convert(src, dst string, fn func(w io.Writer, r io.Reader) error) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := fn(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}
