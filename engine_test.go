package advice_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/advice"
	"github.com/junioryono/advice/internal/testutil"
)

func TestBind_Success(t *testing.T) {
	hooks := testutil.NewRecordingHooks()
	a := advice.New(hooks)

	add, err := advice.Bind(a, func(x, y int) int { return x + y }, advice.WithName("add"))
	require.NoError(t, err)

	assert.Equal(t, 5, add(2, 3))
	testutil.AssertPhases(t, hooks, advice.PhaseBefore, advice.PhaseOnSuccess, advice.PhaseAfter)

	events := hooks.Events()
	assert.Equal(t, advice.Pending, events[0].State)
	assert.False(t, events[0].Succeeded)
	assert.False(t, events[0].Failed)

	assert.Equal(t, advice.Succeeded, events[1].State)
	assert.True(t, events[1].Succeeded)
	assert.Equal(t, 5, events[1].Result)
	assert.NoError(t, events[1].Err)

	assert.True(t, events[2].Succeeded, "After observes the final outcome")
	assert.Equal(t, "add", events[2].Name)
}

func TestBind_ReturnsTargetResultForAnyArguments(t *testing.T) {
	a := advice.New(nil)
	concat, err := advice.Bind(a, func(parts ...string) (string, int) {
		out := ""
		for _, p := range parts {
			out += p
		}
		return out, len(parts)
	})
	require.NoError(t, err)

	tests := [][]string{nil, {"a"}, {"a", "b", "c"}}
	for _, parts := range tests {
		t.Run(fmt.Sprint(parts), func(t *testing.T) {
			s, n := concat(parts...)
			wantS, wantN := "", len(parts)
			for _, p := range parts {
				wantS += p
			}
			assert.Equal(t, wantS, s)
			assert.Equal(t, wantN, n)
		})
	}
}

func TestBind_FailurePropagates(t *testing.T) {
	hooks := testutil.NewRecordingHooks()
	a := advice.New(hooks)

	fetch, err := advice.Bind(a, func() (int, error) {
		return 7, testutil.ErrIntentional
	})
	require.NoError(t, err)

	n, err := fetch()
	assert.True(t, err == testutil.ErrIntentional, "the identical error reaches the caller")
	assert.Equal(t, 7, n, "the target's own values are handed back")

	testutil.AssertPhases(t, hooks, advice.PhaseBefore, advice.PhaseOnFailure, advice.PhaseAfter)

	failure := hooks.Events()[1]
	assert.True(t, failure.Failed)
	assert.Equal(t, advice.Failed, failure.State)
	assert.Equal(t, testutil.ErrIntentional, failure.Err)
	assert.Nil(t, failure.Result)
}

// detailError is comparable by type but holds its detail in an interface field.
type detailError struct{ Detail any }

func (e detailError) Error() string { return fmt.Sprintf("detail: %v", e.Detail) }

func TestBind_FailureWithUncomparableErrorValue(t *testing.T) {
	a := advice.New(nil)

	fetch, err := advice.Bind(a, func() (int, error) {
		return 7, detailError{Detail: []string{"a", "b"}}
	})
	require.NoError(t, err)

	var n int
	require.NotPanics(t, func() { n, err = fetch() })

	var de detailError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"a", "b"}, de.Detail)
	assert.Equal(t, 0, n)
}

func TestBind_FailureSuppressed(t *testing.T) {
	hooks := testutil.NewRecordingHooks()
	a := advice.New(hooks)

	fetch, err := advice.Bind(a, func() (int, error) {
		return 7, testutil.ErrIntentional
	}, advice.Suppress())
	require.NoError(t, err)

	n, err := fetch()
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	failure := hooks.Events()[1]
	assert.True(t, failure.Failed)
	assert.Equal(t, testutil.ErrIntentional, failure.Err)
	assert.Equal(t, 1, hooks.Count(advice.PhaseAfter))
}

func TestBind_AdviceDefaultsApplyToEveryBinding(t *testing.T) {
	a := advice.New(nil, advice.Suppress())

	fail, err := advice.Bind(a, func() error { return testutil.ErrIntentional })
	require.NoError(t, err)
	assert.NoError(t, fail())

	strict, err := advice.Bind(a, func() error { return testutil.ErrIntentional }, advice.WithPropagate(true))
	require.NoError(t, err)
	assert.ErrorIs(t, strict(), testutil.ErrIntentional)
}

func TestBind_PanickingTarget(t *testing.T) {
	t.Run("propagates the original panic value", func(t *testing.T) {
		var seen *advice.Context
		hooks := advice.HookFuncs{
			OnFailureFunc: func(c *advice.Context) error {
				seen = c
				return nil
			},
		}
		a := advice.New(hooks)

		explode := advice.MustBind(a, func() { panic("boom") })

		assert.PanicsWithValue(t, "boom", explode)
		require.NotNil(t, seen)
		assert.True(t, seen.Panicked())
		assert.Contains(t, seen.Traceback(), "panic: boom")

		pe := testutil.AssertErrorType[*advice.PanicError](t, seen.Err)
		assert.Equal(t, "boom", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	})

	t.Run("suppressed panic returns zero values", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		a := advice.New(hooks, advice.Suppress())

		explode := advice.MustBind(a, func() (string, error) { panic(testutil.ErrTest) })

		var (
			s   string
			err error
		)
		assert.NotPanics(t, func() { s, err = explode() })
		assert.Empty(t, s)
		assert.NoError(t, err)

		failure := hooks.Events()[1]
		assert.ErrorIs(t, failure.Err, testutil.ErrTest, "PanicError unwraps to an error panic value")
	})
}

func TestBind_HookFailures(t *testing.T) {
	t.Run("OnSuccess error supersedes result and After still runs", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.FailOn[advice.PhaseOnSuccess] = true
		a := advice.New(hooks)

		get := advice.MustBind(a, func() (int, error) { return 1, nil })

		n, err := get()
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, testutil.ErrHook)
		assert.True(t, advice.IsHookError(err))

		he := testutil.AssertErrorType[*advice.HookError](t, err)
		assert.Equal(t, advice.PhaseOnSuccess, he.Phase)

		testutil.AssertPhases(t, hooks, advice.PhaseBefore, advice.PhaseOnSuccess, advice.PhaseAfter)
	})

	t.Run("OnFailure error supersedes target failure", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.FailOn[advice.PhaseOnFailure] = true
		a := advice.New(hooks)

		fail := advice.MustBind(a, func() error { return testutil.ErrIntentional })

		err := fail()
		assert.ErrorIs(t, err, testutil.ErrHook)
		assert.NotErrorIs(t, err, testutil.ErrIntentional)
		assert.Equal(t, 1, hooks.Count(advice.PhaseAfter))
	})

	t.Run("hook error without error result panics", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.FailOn[advice.PhaseOnSuccess] = true
		a := advice.New(hooks)

		noop := advice.MustBind(a, func() {})

		testutil.AssertPanicsWithError(t, testutil.ErrHook, noop)
		assert.Equal(t, 1, hooks.Count(advice.PhaseAfter))
	})

	t.Run("hook panic unwinds after After runs", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.PanicOn[advice.PhaseOnFailure] = true
		a := advice.New(hooks)

		fail := advice.MustBind(a, func() error { return testutil.ErrIntentional })

		assert.PanicsWithValue(t, testutil.ErrHook, func() { _ = fail() })
		testutil.AssertPhases(t, hooks, advice.PhaseBefore, advice.PhaseOnFailure, advice.PhaseAfter)
	})

	t.Run("Before error skips target and After", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.FailOn[advice.PhaseBefore] = true
		a := advice.New(hooks)

		called := false
		run := advice.MustBind(a, func() error {
			called = true
			return nil
		})

		err := run()
		assert.ErrorIs(t, err, testutil.ErrHook)
		assert.False(t, called)
		testutil.AssertPhases(t, hooks, advice.PhaseBefore)
	})

	t.Run("After error surfaces when nothing else failed", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.FailOn[advice.PhaseAfter] = true
		a := advice.New(hooks)

		run := advice.MustBind(a, func() (string, error) { return "ok", nil })

		s, err := run()
		assert.Empty(t, s)
		he := testutil.AssertErrorType[*advice.HookError](t, err)
		assert.Equal(t, advice.PhaseAfter, he.Phase)
	})

	t.Run("first hook error wins over After error", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		hooks.FailOn[advice.PhaseOnSuccess] = true
		hooks.FailOn[advice.PhaseAfter] = true
		a := advice.New(hooks)

		run := advice.MustBind(a, func() error { return nil })

		he := testutil.AssertErrorType[*advice.HookError](t, run())
		assert.Equal(t, advice.PhaseOnSuccess, he.Phase)
	})
}

func TestBind_AfterRunsExactlyOncePerCall(t *testing.T) {
	hooks := testutil.NewRecordingHooks()
	a := advice.New(hooks, advice.Suppress())

	maybe := advice.MustBind(a, func(fail bool) error {
		if fail {
			return testutil.ErrIntentional
		}
		return nil
	})

	for i := 0; i < 10; i++ {
		_ = maybe(i%2 == 0)
	}

	assert.Equal(t, 10, hooks.Count(advice.PhaseBefore))
	assert.Equal(t, 10, hooks.Count(advice.PhaseAfter))
	assert.Equal(t, 5, hooks.Count(advice.PhaseOnSuccess))
	assert.Equal(t, 5, hooks.Count(advice.PhaseOnFailure))
}

func TestBind_HookOverrides(t *testing.T) {
	t.Run("per-call propagate override", func(t *testing.T) {
		hooks := testutil.NewRecordingHooks()
		suppress := false
		hooks.Propagate = &suppress
		a := advice.New(hooks)

		fail := advice.MustBind(a, func() error { return testutil.ErrIntentional })
		assert.NoError(t, fail())
	})

	t.Run("replaced failure reaches caller", func(t *testing.T) {
		replacement := errors.New("replaced")
		a := advice.New(advice.HookFuncs{
			OnFailureFunc: func(c *advice.Context) error {
				c.Err = fmt.Errorf("%w: %v", replacement, c.Err)
				return nil
			},
		})

		fetch := advice.MustBind(a, func() (int, error) { return 3, testutil.ErrIntentional })

		n, err := fetch()
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, replacement)
	})

	t.Run("cleared failure returns zero values", func(t *testing.T) {
		a := advice.New(advice.HookFuncs{
			OnFailureFunc: func(c *advice.Context) error {
				c.Err = nil
				return nil
			},
		})

		fail := advice.MustBind(a, func() error { return testutil.ErrIntentional })
		assert.NoError(t, fail())
	})
}

func TestBind_ContextContents(t *testing.T) {
	type key struct{}

	var seen *advice.Context
	a := advice.New(advice.HookFuncs{
		AfterFunc: func(c *advice.Context) error {
			seen = c
			return nil
		},
	}, advice.WithValue(key{}, "configured"))

	add := advice.MustBind(a, func(ctx context.Context, a, b int) int { return a + b },
		advice.WithName("add"),
		advice.WithParams("ctx", "a", "b"),
	)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	assert.Equal(t, 5, add(ctx, 2, 3))

	require.NotNil(t, seen)
	assert.NotEmpty(t, seen.ID)
	assert.Equal(t, "add", seen.Name)
	assert.Equal(t, []any{ctx, 2, 3}, seen.Args)
	assert.Equal(t, 2, seen.Named["a"])
	assert.Equal(t, 3, seen.Named["b"])
	assert.Equal(t, "configured", seen.Value(key{}))
	assert.Nil(t, seen.Value("missing"))
	assert.Equal(t, "v", seen.Ctx().Value(ctxKey{}))
	assert.Equal(t, []any{5}, seen.Results)
	assert.True(t, seen.Done())
	assert.False(t, seen.Started.IsZero())
	assert.GreaterOrEqual(t, int64(seen.Elapsed), int64(0))
}

func TestBind_VariadicArgsAreExpanded(t *testing.T) {
	var args []any
	a := advice.New(advice.HookFuncs{
		BeforeFunc: func(c *advice.Context) error {
			args = c.Args
			return nil
		},
	})

	sum := advice.MustBind(a, func(label string, nums ...int) int {
		total := 0
		for _, n := range nums {
			total += n
		}
		return total
	})

	assert.Equal(t, 6, sum("x", 1, 2, 3))
	assert.Equal(t, []any{"x", 1, 2, 3}, args)

	assert.Equal(t, 0, sum("y"))
	assert.Equal(t, []any{"y"}, args)
}

func TestBind_RecursiveCallsGetOwnContexts(t *testing.T) {
	hooks := testutil.NewRecordingHooks()
	ids := map[string]bool{}
	depth, maxDepth := 0, 0
	a := advice.New(advice.Chain(hooks, advice.HookFuncs{
		BeforeFunc: func(c *advice.Context) error {
			ids[c.ID] = true
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
			return nil
		},
		AfterFunc: func(c *advice.Context) error {
			depth--
			return nil
		},
	}))

	var factorial func(int) int
	factorial = advice.MustBind(a, func(n int) int {
		if n <= 1 {
			return 1
		}
		return n * factorial(n-1)
	}, advice.WithName("factorial"))

	assert.Equal(t, 120, factorial(5))
	assert.Len(t, ids, 5)
	assert.Equal(t, 5, maxDepth)
	assert.Equal(t, 0, depth)
	assert.Equal(t, 5, hooks.Count(advice.PhaseAfter))
}

type handler func(string) error

type greeter struct{ prefix string }

func (g *greeter) Greet(name string) string { return g.prefix + name }

func TestBind_PreservesTypeAndName(t *testing.T) {
	hooks := testutil.NewRecordingHooks()
	a := advice.New(hooks)

	var h handler = func(s string) error { return nil }
	wrapped, err := advice.Bind(a, h)
	require.NoError(t, err)
	assert.IsType(t, handler(nil), wrapped)
	assert.NoError(t, wrapped("x"))

	g := &greeter{prefix: "hi "}
	greet, err := advice.Bind(a, g.Greet)
	require.NoError(t, err)
	assert.Equal(t, "hi bob", greet("bob"))

	assert.Contains(t, hooks.Names(advice.PhaseBefore), "greeter.Greet")
}

func TestBind_ConfigurationErrors(t *testing.T) {
	a := advice.New(nil)

	tests := []struct {
		name  string
		bind  func() error
		cause error
	}{
		{
			name: "not a function",
			bind: func() error {
				_, err := advice.Bind(a, 42)
				return err
			},
			cause: advice.ErrNotCallable,
		},
		{
			name: "nil function",
			bind: func() error {
				_, err := advice.Bind(a, (func())(nil))
				return err
			},
			cause: advice.ErrNilTarget,
		},
		{
			name: "untyped nil",
			bind: func() error {
				_, err := a.Wrap(nil)
				return err
			},
			cause: advice.ErrNilTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertConfigurationError(t, tt.bind(), tt.cause)
		})
	}

	t.Run("MustBind panics", func(t *testing.T) {
		testutil.AssertPanicsWithError(t, advice.ErrNotCallable, func() {
			advice.MustBind(a, "not a func")
		})
	})
}
