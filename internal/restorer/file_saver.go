package restorer

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/fs"
	"golang.org/x/sync/errgroup"
)

// FileSaver concurrently writes file contents to the local filesystem.
type FileSaver struct {
	r  *Restorer
	ch chan<- saveFileJob
}

type saveFileJob struct {
	item   string
	target string
	fi     *archive.FileInfo
}

// NewFileSaver returns a new file saver. A worker pool is started, it is
// stopped when ctx is cancelled or TriggerShutdown is called.
func NewFileSaver(ctx context.Context, wg *errgroup.Group, r *Restorer, workers uint) *FileSaver {
	ch := make(chan saveFileJob)
	s := &FileSaver{
		r:  r,
		ch: ch,
	}

	for i := uint(0); i < workers; i++ {
		wg.Go(func() error {
			return s.worker(ctx, ch)
		})
	}

	return s
}

func (s *FileSaver) worker(ctx context.Context, jobs <-chan saveFileJob) error {
	for {
		var job saveFileJob
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case job, ok = <-jobs:
			if !ok {
				return nil
			}
		}

		err := s.saveFile(job)
		if err != nil {
			err = s.r.opts.Error(job.item, err)
		}
		if err != nil {
			log.Debugf("saveFile returned error, exiting: %v", err)
			return err
		}
	}
}

func (s *FileSaver) saveFile(job saveFileJob) error {
	log.Debugf("write %v to %v", job.item, job.target)

	src := s.r.arch.OpenInfo(job.fi)

	f, err := fs.Create(job.target, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	n, err := io.Copy(f, src)
	if err == nil && n != job.fi.Size() {
		err = errors.Errorf("wrote %d bytes, want %d", n, job.fi.Size())
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// don't leave a truncated file behind
		if rerr := fs.RemoveIfExists(job.target); rerr != nil {
			log.Warnf("unable to remove %v: %v", job.target, rerr)
		}
		return errors.Wrapf(err, "write %v", job.target)
	}

	s.r.files.Add(1)
	s.r.bytes.Add(uint64(n))

	return restoreMetadata(job.target, job.fi)
}

// Save queues the file fi to be written to target.
func (s *FileSaver) Save(ctx context.Context, item, target string, fi *archive.FileInfo) {
	select {
	case s.ch <- saveFileJob{item: item, target: target, fi: fi}:
	case <-ctx.Done():
		log.Debugf("not sending job, context is cancelled")
	}
}

// TriggerShutdown stops the workers once all queued files are written.
func (s *FileSaver) TriggerShutdown() {
	close(s.ch)
}
