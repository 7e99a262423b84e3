package restorer

import (
	"archive/tar"
	"context"
	"io"
	iofs "io/fs"
	"time"

	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
)

// Compression selects how WriteTar compresses its output.
type Compression uint

const (
	CompressionOff Compression = iota
	CompressionFast
	CompressionMax
)

func newZstdWriter(w io.Writer, mode Compression) (*zstd.Encoder, error) {
	level := zstd.SpeedDefault
	if mode == CompressionMax {
		level = zstd.SpeedBestCompression
	}

	opts := []zstd.EOption{
		// Set the compression level configured.
		zstd.WithEncoderLevel(level),
		// Disable CRC, tar already checksums its headers and the archive
		// content is not protected either.
		zstd.WithEncoderCRC(false),
		// Set a window of 512kbyte, so we have good lookbehind for usual
		// file sizes.
		zstd.WithWindowSize(512 * 1024),
	}

	enc, err := zstd.NewWriter(w, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "zstd.NewWriter")
	}
	return enc, nil
}

// WriteTar writes the file or directory archivePath and everything below it
// to w as a tar stream. Paths in the tar file are relative to archivePath.
func (r *Restorer) WriteTar(ctx context.Context, w io.Writer, archivePath string, mode Compression) (err error) {
	if mode != CompressionOff {
		var enc *zstd.Encoder
		enc, err = newZstdWriter(w, mode)
		if err != nil {
			return err
		}
		defer func() {
			cerr := enc.Close()
			if err == nil {
				err = errors.Wrap(cerr, "zstd")
			}
		}()
		w = enc
	}

	base := archive.CleanPath(archivePath)
	baseInfo, err := r.arch.Stat(archivePath)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(w)
	err = r.arch.Walk(base, func(item string, fi *archive.FileInfo, err error) error {
		if err != nil {
			return r.opts.Error(item, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if !r.opts.Select(item, fi) {
			if fi.IsDir() {
				return iofs.SkipDir
			}
			return nil
		}

		rel := relativePath(base, baseInfo, item)
		if rel == "" {
			return nil
		}
		if err := checkName(fi.Name()); err != nil {
			return r.opts.Error(item, err)
		}

		if err := r.writeTarEntry(tw, rel, fi); err != nil {
			return r.opts.Error(item, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return errors.Wrap(tw.Close(), "tar")
}

func (r *Restorer) writeTarEntry(tw *tar.Writer, name string, fi *archive.FileInfo) error {
	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return errors.WithStack(err)
	}

	hdr.Name = name
	if fi.IsDir() {
		hdr.Name += "/"
	}
	// times before 1970 are not representable in the ustar format
	if hdr.ModTime.Before(time.Unix(0, 0)) {
		hdr.ModTime = time.Unix(0, 0)
	}

	log.Debugf("tar: %v (%d bytes)", hdr.Name, hdr.Size)

	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "header %v", name)
	}
	if fi.IsDir() {
		r.dirs.Add(1)
		return nil
	}

	n, err := io.Copy(tw, r.arch.OpenInfo(fi))
	if err != nil {
		return errors.Wrapf(err, "write %v", name)
	}

	r.files.Add(1)
	r.bytes.Add(uint64(n))
	return nil
}
