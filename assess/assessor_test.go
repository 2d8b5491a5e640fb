package assess

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/internal"
	"github.com/trustguard/trustguard/test"
)

type fakeProvider struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req *Request) (*Assessment, error)
}

func (p *fakeProvider) Name() string {
	return "fake"
}

func (p *fakeProvider) Assess(ctx context.Context, req *Request) (*Assessment, error) {
	p.calls.Add(1)
	return p.fn(ctx, req)
}

func scamAssessment() *Assessment {
	return &Assessment{
		Verdict:    "High",
		Score:      90,
		Confidence: internal.Pointer(0.8),
		Reasons:    []string{"Asks for a 2FA code"},
		Advice:     []string{"Do not reply"},
	}
}

func makeAssessor(t *testing.T, provider Provider, cnf *AssessorConfig) *Assessor {
	assessor, err := NewAssessor(provider, cnf)
	assert.NoError(t, err)
	assert.NotNil(t, assessor)
	t.Cleanup(func() {
		_ = assessor.Close(5 * time.Second)
	})
	return assessor
}

func TestNewAssessorValidation(t *testing.T) {
	t.Parallel()

	assessor, err := NewAssessor(nil, &AssessorConfig{Timeout: time.Second})
	assert.Error(t, err)
	assert.Nil(t, assessor)

	assessor, err = NewAssessor(&fakeProvider{}, &AssessorConfig{Timeout: 0})
	assert.Error(t, err)
	assert.Nil(t, assessor)
}

func TestAssessorRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: time.Second, PoolSize: 1})

	for _, req := range []*Request{nil, {}, {Message: " \n\t"}} {
		res, err := assessor.Assess(context.Background(), req)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestAssessorNormalizesRequest(t *testing.T) {
	t.Parallel()

	var seen *Request
	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		seen = req
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: time.Second, PoolSize: 1})

	original := &Request{
		Message:   "Send me the code",
		Sender:    " a@google.com ",
		Allowlist: []string{" google.com", "GOOGLE.COM", ""},
	}
	res, err := assessor.Assess(context.Background(), original)
	assert.NoError(t, err)
	assert.Equal(t, scamAssessment(), res)

	assert.NotNil(t, seen)
	assert.Equal(t, "Send me the code", seen.Message)
	assert.Equal(t, "a@google.com", seen.Sender)
	assert.Equal(t, []string{"google.com"}, seen.Allowlist)
	assert.Equal(t, " a@google.com ", original.Sender) // caller's request untouched
}

func TestAssessorCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: time.Second, PoolSize: 2, CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := assessor.Assess(ctx, &Request{Message: "hello", Sender: "a@example.org"})
	assert.NoError(t, err)
	first.Reasons[0] = "mutated by caller"
	*first.Confidence = 0.1

	second, err := assessor.Assess(ctx, &Request{Message: "hello", Sender: "a@example.org"})
	assert.NoError(t, err)
	assert.Equal(t, scamAssessment(), second)
	assert.Equal(t, int32(1), provider.calls.Load())

	// anything which affects the answer is part of the key
	_, err = assessor.Assess(ctx, &Request{Message: "hello", Sender: "b@example.org"})
	assert.NoError(t, err)
	_, err = assessor.Assess(ctx, &Request{Message: "hello", Sender: "a@example.org", Allowlist: []string{"example.org"}})
	assert.NoError(t, err)
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestAssessorCacheDisabled(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: time.Second, PoolSize: 1, CacheTTL: 0})

	for i := 0; i < 2; i++ {
		_, err := assessor.Assess(context.Background(), &Request{Message: "hello"})
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestAssessorServiceErrors(t *testing.T) {
	t.Parallel()

	failure := errors.New("service unavailable")
	fail := atomic.Bool{}
	fail.Store(true)
	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		if fail.Load() {
			return nil, failure
		}
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: time.Second, PoolSize: 1, CacheTTL: time.Minute})
	ctx := context.Background()

	res, err := assessor.Assess(ctx, &Request{Message: "hello"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, failure)
	var serviceErr *ServiceError
	if assert.ErrorAs(t, err, &serviceErr) {
		assert.Equal(t, ServiceHint, serviceErr.Hint)
		assert.Contains(t, serviceErr.Error(), "service unavailable")
	}

	// failures aren't cached
	fail.Store(false)
	res, err = assessor.Assess(ctx, &Request{Message: "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "High", res.Verdict)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestAssessorTimeout(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: 50 * time.Millisecond, PoolSize: 1})

	res, err := assessor.Assess(context.Background(), &Request{Message: "hello"})
	assert.Nil(t, res)
	var serviceErr *ServiceError
	if assert.ErrorAs(t, err, &serviceErr) {
		assert.Contains(t, serviceErr.Error(), "no answer within 50ms")
		assert.Equal(t, ServiceHint, serviceErr.Hint)
	}
}

func TestAssessorCallerGoesAway(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		<-release
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: 5 * time.Second, PoolSize: 1, CacheTTL: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := assessor.Assess(ctx, &Request{Message: "hello"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.As(err, new(*ServiceError)))

	// the work still finishes in the background and benefits the next caller
	close(release)
	key, err := requestKey(&Request{Message: "hello", Allowlist: []string{}})
	assert.NoError(t, err)
	assert.Eventually(t, func() bool {
		_, ok := assessor.cache.Get(key)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	res, err = assessor.Assess(context.Background(), &Request{Message: "hello"})
	assert.NoError(t, err)
	assert.Equal(t, scamAssessment(), res)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestAssessorDeduplicatesInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	provider := &fakeProvider{fn: func(ctx context.Context, req *Request) (*Assessment, error) {
		<-release
		return scamAssessment(), nil
	}}
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: 5 * time.Second, PoolSize: 8, CacheTTL: time.Minute})

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := assessor.Assess(context.Background(), &Request{Message: "hello"})
			assert.NoError(t, err)
			assert.Equal(t, scamAssessment(), res)
		}()
	}

	assert.Eventually(t, func() bool {
		return provider.calls.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond) // let the other callers join the flight
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestAssessorWithOpenAIChat(t *testing.T) {
	t.Parallel()

	apiKey := "not_a_real_key"
	server := test.MakeOpenAIAssessmentServer(t, apiKey)
	provider, err := NewOpenAIChat(&config.InstanceConfig{
		OpenAIApiKey: apiKey,
		OpenAIApiUrl: server.URL,
		OpenAIModel:  "gpt-test",
	})
	assert.NoError(t, err)
	assessor := makeAssessor(t, provider, &AssessorConfig{Timeout: 200 * time.Millisecond, PoolSize: 2, CacheTTL: time.Minute})
	assert.Equal(t, "openai", assessor.ProviderName())

	res, err := assessor.Assess(context.Background(), &Request{Message: test.KeywordScam})
	assert.NoError(t, err)
	assert.Equal(t, "High", res.Verdict)

	res, err = assessor.Assess(context.Background(), &Request{Message: test.KeywordSlow})
	assert.Nil(t, res)
	var serviceErr *ServiceError
	assert.ErrorAs(t, err, &serviceErr)

	res, err = assessor.Assess(context.Background(), &Request{Message: test.KeywordIntentionalFail})
	assert.Nil(t, res)
	assert.ErrorAs(t, err, &serviceErr)
}
