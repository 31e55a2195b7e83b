package suite

import (
	"context"
	"fmt"
	"strings"
)

// stopTest is the panic value used to unwind a test body after FailNow,
// SkipNow or Must. It never escapes Run.
type stopTest struct{}

// T is the handle passed to every test method. It satisfies the TestingT
// interfaces of testify's assert and require packages.
type T struct {
	ctx      context.Context
	name     string
	failed   bool
	errored  bool
	skipped  bool
	output   []string
	cleanups []func()
}

func newT(ctx context.Context, name string) *T {
	return &T{ctx: ctx, name: name}
}

// Context is cancelled when the run is interrupted.
func (t *T) Context() context.Context { return t.ctx }

// Name returns the method name.
func (t *T) Name() string { return t.name }

// Helper is a no-op; it lets testify skip its own frames.
func (t *T) Helper() {}

// Logf records a line shown in the failure report.
func (t *T) Logf(format string, args ...any) {
	t.output = append(t.output, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Errorf marks the test failed and keeps running.
func (t *T) Errorf(format string, args ...any) {
	t.failed = true
	t.Logf(format, args...)
}

// Error is Errorf with Sprint semantics.
func (t *T) Error(args ...any) {
	t.failed = true
	t.output = append(t.output, strings.TrimRight(fmt.Sprint(args...), "\n"))
}

// FailNow marks the test failed and stops it.
func (t *T) FailNow() {
	t.failed = true
	panic(stopTest{})
}

// Fatalf is Errorf followed by FailNow.
func (t *T) Fatalf(format string, args ...any) {
	t.Logf(format, args...)
	t.FailNow()
}

// SkipNow stops the test and reports it as skipped unless it already failed.
func (t *T) SkipNow() {
	t.skipped = true
	panic(stopTest{})
}

// Skipf logs a reason and skips.
func (t *T) Skipf(format string, args ...any) {
	t.Logf(format, args...)
	t.SkipNow()
}

// Must stops the test with ERROR status when err is non-nil. Use it for
// errors the test did not expect, as opposed to assertion failures.
func (t *T) Must(err error) {
	if err == nil {
		return
	}
	t.errored = true
	t.Logf("unexpected error: %v", err)
	panic(stopTest{})
}

// Cleanup registers fn to run after the test and its TearDown, LIFO.
func (t *T) Cleanup(fn func()) {
	t.cleanups = append(t.cleanups, fn)
}

// Failed reports whether the test has failed or errored so far.
func (t *T) Failed() bool { return t.failed || t.errored }
