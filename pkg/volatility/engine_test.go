package volatility_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
	"github.com/volutil-lab/volutil/pkg/volatility"
)

type mockRunner struct {
	mu     sync.Mutex
	calls  []volatility.RunRequest
	output []byte
	err    error
}

func (m *mockRunner) Run(ctx context.Context, req volatility.RunRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testSession() *model.Session {
	return &model.Session{
		ID:        model.NewSessionID(),
		Name:      "case-42",
		ImagePath: "/images/memory.raw",
		Profile:   "Win7SP1x64",
	}
}

func TestEngine_UnknownPlugin(t *testing.T) {
	runner := &mockRunner{}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	_, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "doesNotExist",
		Style:   types.OutputStyleJSON,
	})

	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, volatility.ErrUnknownPlugin)).True()
	gt.Number(t, runner.callCount()).Equal(0)
}

func TestEngine_PstreeAlwaysGraph(t *testing.T) {
	runner := &mockRunner{output: []byte("digraph processtree { 4 -> 368 }")}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	for _, style := range types.AllOutputStyles() {
		env, err := engine.Execute(context.Background(), volatility.ExecuteInput{
			Session: testSession(),
			Plugin:  "pstree",
			Style:   style,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, env.Kind).Equal(types.EnvelopeGraph)
		gt.Value(t, env.Graph).Equal("digraph processtree { 4 -> 368 }")
	}

	gt.Number(t, runner.callCount()).Equal(len(types.AllOutputStyles()))
	for _, call := range runner.calls {
		gt.Value(t, call.Render).Equal(volatility.RenderDot)
	}
}

func TestEngine_ImageinfoAlwaysText(t *testing.T) {
	runner := &mockRunner{output: []byte("Suggested Profile(s) : Win7SP1x64")}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	env, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "imageinfo",
		Style:   types.OutputStyleJSON,
	})

	gt.NoError(t, err).Required()
	gt.Value(t, env.Kind).Equal(types.EnvelopeText)
	gt.Array(t, env.Columns).Equal([]string{"Plugin Output"})
	gt.Value(t, runner.calls[0].Render).Equal(volatility.RenderText)
}

func TestEngine_MemdumpRequiresPID(t *testing.T) {
	runner := &mockRunner{output: []byte("dumped")}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	_, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "memdump",
		DumpDir: "/tmp/dumps",
		Style:   types.OutputStyleJSON,
	})

	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, volatility.ErrMissingParameter)).True()
	gt.Number(t, runner.callCount()).Equal(0)
}

func TestEngine_MemdumpWithPID(t *testing.T) {
	runner := &mockRunner{output: []byte("Writing System [4] to 4.dmp")}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	pid := 4
	env, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "memdump",
		PID:     &pid,
		DumpDir: "/tmp/dumps",
		Style:   types.OutputStyleJSON,
	})

	gt.NoError(t, err).Required()
	gt.Value(t, env.Kind).Equal(types.EnvelopeText)

	cfgPID, ok := runner.calls[0].Config.Value("pid")
	gt.Bool(t, ok).True()
	gt.Value(t, cfgPID).Equal(any(4))
}

func TestEngine_DumpfilesRequiresOffset(t *testing.T) {
	runner := &mockRunner{output: []byte("extracted")}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	_, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "dumpfiles",
		Style:   types.OutputStyleText,
	})

	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, volatility.ErrMissingParameter)).True()
	gt.Number(t, runner.callCount()).Equal(0)

	env, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "dumpfiles",
		Options: map[string]string{"physoffset": "0x02108578"},
		Style:   types.OutputStyleText,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, env.Kind).Equal(types.EnvelopeText)

	// Option keys fold to lower case in the run config, so the check
	// accepts any casing.
	_, err = engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "dumpfiles",
		Options: map[string]string{"PHYSOFFSET": "0x02108578"},
		Style:   types.OutputStyleText,
	})
	gt.NoError(t, err)
}

func TestEngine_StyleSelectsEnvelope(t *testing.T) {
	t.Run("json renders structured", func(t *testing.T) {
		runner := &mockRunner{output: []byte(`{"columns": ["PID"], "rows": [[4]]}`)}
		engine := volatility.NewEngine(volatility.NewRegistry(), runner)

		env, err := engine.Execute(context.Background(), volatility.ExecuteInput{
			Session: testSession(),
			Plugin:  "pslist",
			Style:   types.OutputStyleJSON,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, env.Kind).Equal(types.EnvelopeStructured)
		gt.Value(t, runner.calls[0].Render).Equal(volatility.RenderJSON)
	})

	t.Run("text renders preformatted", func(t *testing.T) {
		runner := &mockRunner{output: []byte("Offset  Name\n0x1000  System")}
		engine := volatility.NewEngine(volatility.NewRegistry(), runner)

		env, err := engine.Execute(context.Background(), volatility.ExecuteInput{
			Session: testSession(),
			Plugin:  "pslist",
			Style:   types.OutputStyleText,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, env.Kind).Equal(types.EnvelopeText)
		gt.Value(t, runner.calls[0].Render).Equal(volatility.RenderText)
	})
}

func TestEngine_RunnerFailure(t *testing.T) {
	runner := &mockRunner{err: errors.New("No suitable address space mapping found")}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)

	_, err := engine.Execute(context.Background(), volatility.ExecuteInput{
		Session: testSession(),
		Plugin:  "pslist",
		Style:   types.OutputStyleJSON,
	})

	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, volatility.ErrPluginFailed)).True()
	gt.String(t, err.Error()).Contains("No suitable address space mapping found")
}

func TestEngine_OverlayIsolation(t *testing.T) {
	runner := &mockRunner{output: []byte(`{"columns": [], "rows": []}`)}
	engine := volatility.NewEngine(volatility.NewRegistry(), runner)
	session := testSession()

	var wg sync.WaitGroup
	for _, value := range []string{"1", "2"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			_, err := engine.Execute(context.Background(), volatility.ExecuteInput{
				Session: session,
				Plugin:  "pslist",
				Options: map[string]string{"x": v},
				Style:   types.OutputStyleJSON,
			})
			gt.NoError(t, err)
		}(value)
	}
	wg.Wait()

	gt.Number(t, runner.callCount()).Equal(2)

	seen := map[any]bool{}
	for _, call := range runner.calls {
		v, ok := call.Config.Value("x")
		gt.Bool(t, ok).True()
		seen[v] = true
	}
	gt.Bool(t, seen["1"]).True()
	gt.Bool(t, seen["2"]).True()
}
