package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/philipp01105/logtree/appender"
)

func permutations(names []string) [][]string {
	if len(names) <= 1 {
		return [][]string{append([]string(nil), names...)}
	}
	var out [][]string
	for i := range names {
		rest := make([]string, 0, len(names)-1)
		rest = append(rest, names[:i]...)
		rest = append(rest, names[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{names[i]}, p...))
		}
	}
	return out
}

func TestRegistry_LinkageOrderIndependent(t *testing.T) {
	want := map[string]string{
		"a":       RootName,
		"a.b":     "a",
		"a.b.c":   "a.b",
		"a.x.y":   "a",
		"a.bc":    "a",
		"a.b.c.d": "a.b.c",
	}
	names := make([]string, 0, len(want))
	for n := range want {
		names = append(names, n)
	}

	for _, order := range permutations(names) {
		r := NewRegistry()
		for _, n := range order {
			r.Logger(n)
		}
		for n, parent := range want {
			l, ok := r.Exists(n)
			if !ok {
				t.Fatalf("order %v: Exists(%q) = false", order, n)
			}
			if got := l.Parent().Name(); got != parent {
				t.Errorf("order %v: Logger(%q).Parent() = %q, want %q", order, n, got, parent)
			}
		}
	}
}

func TestRegistry_ChildBeforeParent(t *testing.T) {
	r := NewRegistry()
	xy := r.Logger("x.y")
	if xy.Parent() != r.Root() {
		t.Fatalf("Parent() = %q, want root", xy.Parent().Name())
	}

	x := r.Logger("x")
	if xy.Parent() != x {
		t.Errorf("after creating x, Parent() = %q, want x", xy.Parent().Name())
	}
	if x.Parent() != r.Root() {
		t.Errorf("x.Parent() = %q, want root", x.Parent().Name())
	}
}

func TestRegistry_IntermediateKeepsDeeperParent(t *testing.T) {
	r := NewRegistry()
	abcd := r.Logger("a.b.c.d")
	abc := r.Logger("a.b.c")
	a := r.Logger("a")

	if abcd.Parent() != abc {
		t.Errorf("a.b.c.d parent = %q, want a.b.c", abcd.Parent().Name())
	}
	if abc.Parent() != a {
		t.Errorf("a.b.c parent = %q, want a", abc.Parent().Name())
	}

	ab := r.Logger("a.b")
	if abc.Parent() != ab {
		t.Errorf("a.b.c parent = %q, want a.b", abc.Parent().Name())
	}
	if abcd.Parent() != abc {
		t.Errorf("a.b.c.d parent = %q, want a.b.c", abcd.Parent().Name())
	}
}

func TestIsSelfOrDescendant(t *testing.T) {
	tests := []struct {
		name, ancestor string
		want           bool
	}{
		{"a.b", "a.b", true},
		{"a.b.c", "a.b", true},
		{"a.bc", "a.b", false},
		{"a", "a.b", false},
		{"b.a", "a", false},
	}
	for _, tt := range tests {
		if got := isSelfOrDescendant(tt.name, tt.ancestor); got != tt.want {
			t.Errorf("isSelfOrDescendant(%q, %q) = %v, want %v", tt.name, tt.ancestor, got, tt.want)
		}
	}
}

func TestRegistry_SameInstance(t *testing.T) {
	r := NewRegistry()
	if r.Logger("svc") != r.Logger("svc") {
		t.Error("Logger() returned different instances for the same name")
	}
	if r.Logger("") != r.Root() {
		t.Error(`Logger("") should return the root`)
	}
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	r := NewRegistry()
	names := []string{"a.b.c", "a", "a.b", "x.y.z", "x", "a.b.c.d"}

	const goroutines = 32
	got := make([][]*Logger, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]*Logger, len(names))
			for i := range names {
				j := (i + g) % len(names)
				out[j] = r.Logger(names[j])
			}
			got[g] = out
		}(g)
	}
	wg.Wait()

	for g := 1; g < goroutines; g++ {
		for i := range names {
			if got[g][i] != got[0][i] {
				t.Errorf("goroutine %d got a different instance for %q", g, names[i])
			}
		}
	}
	parents := map[string]string{"a": RootName, "a.b": "a", "a.b.c": "a.b", "a.b.c.d": "a.b.c", "x": RootName, "x.y.z": "x"}
	for n, p := range parents {
		if got := r.Logger(n).Parent().Name(); got != p {
			t.Errorf("Logger(%q).Parent() = %q, want %q", n, got, p)
		}
	}
}

func TestRegistry_ExistsAndCurrentLoggers(t *testing.T) {
	r := NewRegistry()
	r.Logger("b.c")
	r.Logger("a")
	r.Logger("b")

	if _, ok := r.Exists("b.c"); !ok {
		t.Error(`Exists("b.c") = false, want true`)
	}
	if _, ok := r.Exists("nope"); ok {
		t.Error(`Exists("nope") = true, want false`)
	}
	r.Logger("p.q.r")
	if _, ok := r.Exists("p.q"); ok {
		t.Error("a provisional ancestor should not exist")
	}

	var got []string
	for _, l := range r.CurrentLoggers() {
		got = append(got, l.Name())
	}
	want := []string{"a", "b", "b.c", "p.q.r"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("CurrentLoggers() = %v, want %v", got, want)
	}
}

func TestRegistry_Threshold(t *testing.T) {
	r := NewRegistry()
	list := newList("list")
	r.Root().AddAppender(list)
	l := r.Logger("t")

	if got := r.Threshold(); got != AllLevel {
		t.Errorf("Threshold() = %v, want ALL", got)
	}

	r.SetThreshold(WarnLevel)
	l.Info("dropped")
	l.Warn("kept")
	if got := list.Messages(); len(got) != 1 || got[0] != "kept" {
		t.Errorf("Messages() = %v, want [kept]", got)
	}
	if !r.IsDisabled(InfoLevel) || r.IsDisabled(WarnLevel) {
		t.Error("IsDisabled disagrees with the WARN threshold")
	}

	// a lower logger level never re-enables what the threshold rejects
	l.SetLevel(TraceLevel)
	if l.IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true under a WARN threshold")
	}
}

func TestRegistry_SetThresholdString(t *testing.T) {
	logs := observeDiag(t)
	r := NewRegistry()

	r.SetThresholdString("error")
	if got := r.Threshold(); got != ErrorLevel {
		t.Errorf("Threshold() = %v, want ERROR", got)
	}

	r.SetThresholdString("loud")
	if got := r.Threshold(); got != ErrorLevel {
		t.Errorf("Threshold() after unknown name = %v, want ERROR", got)
	}
	if logs.FilterMessage("could not convert threshold to a level").Len() != 1 {
		t.Error("expected a diagnostic for the unknown threshold")
	}

	r.SetThreshold(InheritLevel)
	if got := r.Threshold(); got != ErrorLevel {
		t.Errorf("Threshold() after inherit = %v, want ERROR", got)
	}
}

func TestRegistry_NoAppenderWarningOnce(t *testing.T) {
	logs := observeDiag(t)
	r := NewRegistry()

	r.Logger("a").Info("one")
	r.Logger("b").Info("two")
	r.Root().Error("three", nil)

	if got := logs.FilterMessage("no appenders could be found for logger").Len(); got != 1 {
		t.Errorf("no-appender warning logged %d times, want 1", got)
	}
}

func TestRegistry_ResetConfiguration(t *testing.T) {
	r := NewRegistry()
	rootList := newList("root")
	abList := newList("ab")
	r.Root().AddAppender(rootList)
	r.Root().SetLevel(ErrorLevel)
	r.SetThreshold(WarnLevel)
	ab := r.Logger("a.b")
	ab.SetLevel(InfoLevel)
	ab.SetAdditivity(false)
	ab.AddAppender(abList)
	ab.SetBundle(MapBundle{"k": "v"})
	r.Renderers().Put(1, RendererFunc(func(interface{}) string { return "one" }))

	if err := r.ResetConfiguration(); err != nil {
		t.Fatalf("ResetConfiguration() error = %v", err)
	}

	if got := r.Root().Level(); got != DebugLevel {
		t.Errorf("root level = %v, want DEBUG", got)
	}
	if got := r.Threshold(); got != AllLevel {
		t.Errorf("Threshold() = %v, want ALL", got)
	}
	if l, ok := r.Exists("a.b"); !ok || l != ab {
		t.Fatal("a.b should survive a reset")
	}
	if ab.Level() != InheritLevel || !ab.Additivity() || ab.Bundle() != nil {
		t.Errorf("a.b after reset: level=%v additive=%v bundle=%v", ab.Level(), ab.Additivity(), ab.Bundle())
	}
	if len(ab.Appenders()) != 0 || len(r.Root().Appenders()) != 0 {
		t.Error("appenders should be removed by a reset")
	}
	if !rootList.Closed() || !abList.Closed() {
		t.Error("removed appenders should be closed")
	}
	if r.Renderers().Len() != 0 {
		t.Error("renderers should be cleared by a reset")
	}
}

func TestRegistry_ShutdownOrderAndIdempotence(t *testing.T) {
	var mu sync.Mutex
	var order []string
	leaf := &closeRecorder{name: "leaf", mu: &mu, log: &order}
	inner := &closeRecorder{name: "inner", mu: &mu, log: &order}

	r := NewRegistry()
	r.Root().AddAppender(leaf)
	r.Logger("a").AddAppender(appender.NewMulti(appender.Options{Name: "tee"}, inner))

	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if fmt.Sprint(order) != "[inner leaf]" {
		t.Errorf("close order = %v, want [inner leaf]", order)
	}
	if err := r.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
	if leaf.n != 1 || inner.n != 1 {
		t.Errorf("close counts leaf=%d inner=%d, want 1 each", leaf.n, inner.n)
	}
	if len(r.Root().Appenders()) != 0 {
		t.Error("root should have no appenders after Shutdown")
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	old := r.Logger("a")
	r.Clear()

	if _, ok := r.Exists("a"); ok {
		t.Error(`Exists("a") after Clear() = true`)
	}
	if len(r.CurrentLoggers()) != 0 {
		t.Error("CurrentLoggers() should be empty after Clear()")
	}
	if r.Logger("a") == old {
		t.Error("Logger() after Clear() should create a new instance")
	}
	if _, ok := r.Exists(""); !ok {
		t.Error("the root must survive Clear()")
	}
}

func TestRegistry_Factory(t *testing.T) {
	r := NewRegistry()
	calls := 0
	f := FactoryFunc(func(name string) *Logger {
		calls++
		l := NewLogger(name)
		l.SetAdditivity(false)
		return l
	})

	l := r.LoggerFrom("custom", f)
	if l.Additivity() {
		t.Error("factory result not used")
	}
	r.LoggerFrom("custom", f)
	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}

	logs := observeDiag(t)
	bad := FactoryFunc(func(string) *Logger { return NewLogger("wrong") })
	if got := r.LoggerFrom("fixed", bad).Name(); got != "fixed" {
		t.Errorf("Name() = %q, want fixed", got)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one diagnostic for the unusable factory result, got %d", logs.Len())
	}
}

func TestFactoryRegistry(t *testing.T) {
	if _, ok := LookupFactory("default"); !ok {
		t.Fatal(`LookupFactory("default") = false`)
	}
	RegisterFactory("registry-test", FactoryFunc(NewLogger))
	if _, ok := LookupFactory("registry-test"); !ok {
		t.Error("registered factory not found")
	}
	if _, ok := LookupFactory("missing"); ok {
		t.Error(`LookupFactory("missing") = true`)
	}
}

func TestRegistry_Listeners(t *testing.T) {
	logs := observeDiag(t)
	r := NewRegistry()
	var added, removed []string
	li := &ListenerFuncs{
		Added:   func(l *Logger, a appender.Appender) { added = append(added, l.Name()+"/"+a.Name()) },
		Removed: func(l *Logger, a appender.Appender) { removed = append(removed, l.Name()+"/"+a.Name()) },
	}
	r.AddListener(li)
	r.AddListener(li)
	if logs.FilterMessage("ignoring attempt to add an existent listener").Len() != 1 {
		t.Error("duplicate listener not reported")
	}

	l := r.Logger("a")
	list := newList("l")
	l.AddAppender(list)
	l.AddAppender(list)
	if l.RemoveAppender(newList("other")) {
		t.Error("RemoveAppender() of an unattached appender = true")
	}
	l.RemoveAppender(list)

	if fmt.Sprint(added) != "[a/l]" {
		t.Errorf("added = %v, want [a/l]", added)
	}
	if fmt.Sprint(removed) != "[a/l]" {
		t.Errorf("removed = %v, want [a/l]", removed)
	}

	if !r.RemoveListener(li) {
		t.Error("RemoveListener() = false")
	}
	l.AddAppender(list)
	if len(added) != 1 {
		t.Error("removed listener still notified")
	}
}

func TestRegistry_ListenerPanicRecovered(t *testing.T) {
	logs := observeDiag(t)
	r := NewRegistry()
	r.AddListener(&ListenerFuncs{Added: func(*Logger, appender.Appender) { panic("listener") }})

	r.Root().AddAppender(newList("l"))
	if logs.FilterMessage("listener panicked").Len() != 1 {
		t.Error("listener panic not reported")
	}
}

func BenchmarkRegistry_Logger(b *testing.B) {
	r := NewRegistry()
	r.Logger("svc.http.handler")
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = r.Logger("svc.http.handler")
		}
	})
}

func BenchmarkRegistry_NewLoggers(b *testing.B) {
	r := NewRegistry()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Logger(fmt.Sprintf("svc.n%d.leaf", i))
	}
}
