package assess

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/Code-Hex/go-generics-cache"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	typedsf "github.com/t2bot/go-typed-singleflight"
	"github.com/trustguard/trustguard/metrics"
)

type AssessorConfig struct {
	// Upper bound on each call to the assessment service.
	Timeout time.Duration
	// Maximum number of concurrent calls to the assessment service.
	PoolSize int
	// How long successful assessments are reused for identical requests. Zero disables caching.
	CacheTTL time.Duration
}

// Assessor - runs assessment requests through a Provider, bounding concurrency and de-duplicating identical
// requests. Message contents are never logged.
type Assessor struct {
	provider Provider
	timeout  time.Duration
	cacheTTL time.Duration

	pool  *ants.MultiPool
	sf    *typedsf.Group[*Assessment]       // keyed by request hash
	cache *cache.Cache[string, *Assessment] // keyed by request hash
}

func NewAssessor(provider Provider, cnf *AssessorConfig) (*Assessor, error) {
	if provider == nil {
		return nil, errors.New("provider not set")
	}
	if cnf.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	size := cnf.PoolSize
	if size <= 0 {
		size = 1
	}

	pool, err := ants.NewMultiPool(1, size, ants.RoundRobin, ants.WithOptions(ants.Options{
		ExpiryDuration:   1 * time.Minute,
		PreAlloc:         false,
		MaxBlockingTasks: 0, // no limit on submissions
		Nonblocking:      false,
		Logger:           log.Default(),
		DisablePurge:     false,
	}))
	if err != nil {
		return nil, err
	}

	return &Assessor{
		provider: provider,
		timeout:  cnf.Timeout,
		cacheTTL: cnf.CacheTTL,
		pool:     pool,
		sf:       new(typedsf.Group[*Assessment]),
		cache:    cache.New[string, *Assessment](cache.WithJanitorInterval[string, *Assessment](5 * time.Minute)),
	}, nil
}

func (a *Assessor) ProviderName() string {
	return a.provider.Name()
}

// Close - waits for in-flight assessments to finish, up to `timeout`.
func (a *Assessor) Close(timeout time.Duration) error {
	return a.pool.ReleaseTimeout(timeout)
}

// Assess - asks the assessment service about the message. Returns ErrEmptyMessage for a blank message and a
// *ServiceError when the service fails, times out, or gives an unusable answer.
func (a *Assessor) Assess(ctx context.Context, req *Request) (*Assessment, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	req = &Request{
		Message:   req.Message,
		Sender:    strings.TrimSpace(req.Sender),
		Allowlist: NormalizeAllowlist(req.Allowlist),
	}

	key, err := requestKey(req)
	if err != nil {
		return nil, err
	}

	if a.cacheTTL > 0 {
		if res, ok := a.cache.Get(key); ok {
			metrics.RecordAssessmentCacheRequest(true)
			metrics.RecordAssessment(metrics.AssessmentStatusOk)
			return cloneAssessment(res), nil
		}
		metrics.RecordAssessmentCacheRequest(false)
	}

	type result struct {
		res *Assessment
		err error
	}
	ch := make(chan result, 1) // buffered so the worker never blocks on a caller which went away
	t := metrics.StartPoolTimer()

	err = a.pool.Submit(func() {
		res, err, _ := a.sf.Do(key, func() (*Assessment, error) {
			// The flight may serve several callers, so it isn't tied to any one of their contexts.
			callCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
			defer cancel()
			return a.doAssess(callCtx, req, key)
		})
		ch <- result{res: res, err: err}
	})
	if err != nil {
		t.ObserveDurationWithExemplar(prometheus.Labels{"waitedUntil": "error"})
		metrics.RecordAssessment(metrics.AssessmentStatusError)
		return nil, newServiceError(err)
	}

	select {
	case r := <-ch:
		if r.err != nil {
			t.ObserveDurationWithExemplar(prometheus.Labels{"waitedUntil": "error"})
			return nil, r.err
		}
		if r.res == nil {
			// "should never happen"
			t.ObserveDurationWithExemplar(prometheus.Labels{"waitedUntil": "error"})
			return nil, newServiceError(errors.New("nil result"))
		}
		t.ObserveDurationWithExemplar(prometheus.Labels{"waitedUntil": "result"})
		return cloneAssessment(r.res), nil
	case <-ctx.Done():
		t.ObserveDurationWithExemplar(prometheus.Labels{"waitedUntil": "timeout"})
		log.Printf("[assess | %s] Caller went away before the assessment finished: %v", a.provider.Name(), ctx.Err())
		return nil, ctx.Err()
	}
}

func (a *Assessor) doAssess(ctx context.Context, req *Request, key string) (*Assessment, error) {
	// Note: we don't want to log message contents in production
	log.Printf("[assess | %s] Assessing message %s (%d characters)", a.provider.Name(), key[:12], len(req.Message))

	t := metrics.StartAssessmentTimer(a.provider.Name())
	res, err := a.provider.Assess(ctx, req)
	t.ObserveDuration()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[assess | %s] Timed out assessing message %s", a.provider.Name(), key[:12])
			metrics.RecordAssessment(metrics.AssessmentStatusTimeout)
			return nil, newServiceError(fmt.Errorf("no answer within %s", a.timeout))
		}
		log.Printf("[assess | %s] Error assessing message %s: %v", a.provider.Name(), key[:12], err)
		metrics.RecordAssessment(metrics.AssessmentStatusError)
		return nil, newServiceError(err)
	}

	log.Printf("[assess | %s] Message %s assessed as %s (%d/100)", a.provider.Name(), key[:12], res.Verdict, res.Score)
	metrics.RecordAssessment(metrics.AssessmentStatusOk)
	metrics.RecordVerdict(verdictLabel(res.Verdict))
	if a.cacheTTL > 0 {
		a.cache.Set(key, res, cache.WithExpiration(a.cacheTTL))
	}
	return res, nil
}

// requestKey - a stable digest of everything that affects the answer.
func requestKey(req *Request) (string, error) {
	b, err := json.Marshal([]any{req.Message, req.Sender, req.Allowlist})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func cloneAssessment(a *Assessment) *Assessment {
	c := *a
	if a.Confidence != nil {
		confidence := *a.Confidence
		c.Confidence = &confidence
	}
	c.Reasons = slices.Clone(a.Reasons)
	c.Advice = slices.Clone(a.Advice)
	return &c
}
