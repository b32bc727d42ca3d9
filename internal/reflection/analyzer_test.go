package reflection_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/advice/internal/reflection"
)

type service struct{}

func (s *service) Handle() {}

func plain(a int, b string) string { return b }

func failing() (int, error) { return 0, errors.New("boom") }

func variadic(prefix string, rest ...int) {}

func errorInMiddle() (error, int) { return nil, 0 }

func TestAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name      string
		fn        any
		numIn     int
		numOut    int
		variadic  bool
		errorIdx  int
		wantError bool
	}{
		{name: "plain function", fn: plain, numIn: 2, numOut: 1, errorIdx: -1},
		{name: "trailing error", fn: failing, numIn: 0, numOut: 2, errorIdx: 1},
		{name: "variadic", fn: variadic, numIn: 2, numOut: 0, variadic: true, errorIdx: -1},
		{name: "error not last", fn: errorInMiddle, numIn: 0, numOut: 2, errorIdx: -1},
		{name: "not a function", fn: 42, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := reflection.New()
			sig, err := analyzer.Analyze(reflect.TypeOf(tt.fn))
			if tt.wantError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.numIn, sig.NumIn)
			assert.Equal(t, tt.numOut, sig.NumOut)
			assert.Equal(t, tt.variadic, sig.Variadic)
			assert.Equal(t, tt.errorIdx, sig.ErrorIndex)
			assert.Equal(t, tt.errorIdx >= 0, sig.HasErrorReturn())
		})
	}
}

func TestAnalyzer_NilType(t *testing.T) {
	_, err := reflection.New().Analyze(nil)
	assert.Error(t, err)
}

func TestAnalyzer_Cache(t *testing.T) {
	analyzer := reflection.New()

	first, err := analyzer.Analyze(reflect.TypeOf(plain))
	require.NoError(t, err)

	second, err := analyzer.Analyze(reflect.TypeOf(func(int, string) string { return "" }))
	require.NoError(t, err)

	assert.Same(t, first, second, "same signature shares one analysis")
	assert.Equal(t, 1, analyzer.Len())

	analyzer.Clear()
	assert.Equal(t, 0, analyzer.Len())
}

func TestAnalyzer_Concurrent(t *testing.T) {
	analyzer := reflection.New()
	typ := reflect.TypeOf(failing)

	var wg sync.WaitGroup
	results := make([]*reflection.Signature, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = analyzer.Analyze(typ)
		}(i)
	}
	wg.Wait()

	for _, sig := range results {
		assert.Same(t, results[0], sig)
	}
}

func TestSignature_ZeroResults(t *testing.T) {
	sig, err := reflection.New().Analyze(reflect.TypeOf(failing))
	require.NoError(t, err)

	out := sig.ZeroResults()
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Interface())
	assert.True(t, out[1].IsNil())
}

func TestFuncName(t *testing.T) {
	s := &service{}

	assert.Equal(t, "plain", reflection.FuncName(reflect.ValueOf(plain)))
	assert.Equal(t, "service.Handle", reflection.FuncName(reflect.ValueOf(s.Handle)))
	assert.Equal(t, "<nil>", reflection.FuncName(reflect.ValueOf((func())(nil))))
	assert.Equal(t, "<nil>", reflection.FuncName(reflect.Value{}))
}

func TestShortName(t *testing.T) {
	tests := map[string]string{
		"github.com/acme/pkg.(*Service).Run-fm": "Service.Run",
		"github.com/acme/pkg.Service.Stop":      "Service.Stop",
		"main.handler":                          "handler",
		"github.com/acme/pkg.TestX.func1":       "TestX.func1",
	}

	for full, want := range tests {
		assert.Equal(t, want, reflection.ShortName(full), full)
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "service", reflection.TypeName(reflect.TypeOf(&service{})))
	assert.Equal(t, "<nil>", reflection.TypeName(nil))
}
