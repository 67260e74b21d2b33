package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	blobmemory "github.com/volutil-lab/volutil/pkg/blob/memory"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/repository/memory"
	"github.com/volutil-lab/volutil/pkg/usecase"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

// stubRunner is a volatility.Runner that returns canned output and counts
// invocations.
type stubRunner struct {
	mu     sync.Mutex
	output []byte
	err    error
	calls  []volatility.RunRequest
}

func (r *stubRunner) Run(ctx context.Context, req volatility.RunRequest) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	if r.err != nil {
		return nil, r.err
	}
	return r.output, nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type testEnv struct {
	uc     *usecase.UseCases
	repo   *memory.Memory
	blob   *blobmemory.Storage
	runner *stubRunner
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()

	repo := memory.New()
	blob := blobmemory.New()
	runner := &stubRunner{output: []byte(`{"rows": []}`)}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	return &testEnv{
		uc:     usecase.New(repo, blob, engine, opts...),
		repo:   repo,
		blob:   blob,
		runner: runner,
	}
}

func createTestSession(t *testing.T, env *testEnv, name string) *model.Session {
	t.Helper()

	session, err := env.uc.Session.Create(context.Background(), usecase.CreateSessionInput{
		Name:      name,
		ImagePath: "/images/" + name + ".vmem",
		Profile:   "Win7SP1x64",
	})
	gt.NoError(t, err).Required()
	return session
}
