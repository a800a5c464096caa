package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentflow/auth-service/internal/api/metrics"
	"github.com/talentflow/auth-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrPoolClosed is returned by Hash once the pool has stopped.
var ErrPoolClosed = errors.New("hash pool closed")

type jobKind int

const (
	jobHash jobKind = iota
	jobVerify
)

type hashJob struct {
	kind     jobKind
	password string
	hash     string
	result   chan hashResult
}

type hashResult struct {
	hash string
	ok   bool
	err  error
}

// HashPool runs password hashing on a fixed set of workers so concurrent
// registrations and logins cannot occupy more CPUs than configured. It
// satisfies ports.PasswordHasher and delegates the actual work to hasher.
type HashPool struct {
	hasher  ports.PasswordHasher
	jobs    chan hashJob
	workers int
	log     zerolog.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHashPool(hasher ports.PasswordHasher, numWorkers int, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &HashPool{
		hasher:  hasher,
		jobs:    make(chan hashJob, channelBuffer),
		workers: numWorkers,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until they have all returned.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		<-ctx.Done()
		p.stopOnce.Do(func() { close(p.done) })
	}()
	p.log.Info().Int("workers", p.workers).Msg("hash pool started")
}

// Wait blocks until every goroutine started by Start has exited.
func (p *HashPool) Wait() {
	p.wg.Wait()
}

func (p *HashPool) Hash(password string) (string, error) {
	res, err := p.submit(hashJob{kind: jobHash, password: password})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Verify falls back to the wrapped hasher on the caller's goroutine once the
// pool is closed.
func (p *HashPool) Verify(password, hash string) bool {
	res, err := p.submit(hashJob{kind: jobVerify, password: password, hash: hash})
	if err != nil {
		p.log.Debug().Err(err).Msg("verifying inline")
		return p.hasher.Verify(password, hash)
	}
	return res.ok
}

func (p *HashPool) submit(job hashJob) (hashResult, error) {
	job.result = make(chan hashResult, 1)

	select {
	case <-p.done:
		return hashResult{}, ErrPoolClosed
	case p.jobs <- job:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	}

	select {
	case res := <-job.result:
		return res, nil
	case <-p.done:
		return hashResult{}, ErrPoolClosed
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	worker := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			job.result <- p.run(job, worker)
		}
	}
}

func (p *HashPool) run(job hashJob, worker string) hashResult {
	start := time.Now()
	var res hashResult

	switch job.kind {
	case jobHash:
		res.hash, res.err = p.hasher.Hash(job.password)
		metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
		if res.err != nil {
			p.log.Debug().Err(res.err).Str("worker_id", worker).Msg("hash failed")
		}
	case jobVerify:
		res.ok = p.hasher.Verify(job.password, job.hash)
		metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}
	return res
}
