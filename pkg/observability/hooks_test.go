package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnConvertStart(ctx, 12, true)
	p.OnBuildStart(ctx, "A")
	p.OnBuildComplete(ctx, "A", 5, time.Millisecond, nil)
	p.OnConvertComplete(ctx, 12, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "outline")
	c.OnCacheMiss(ctx, "outline")
	c.OnCacheSet(ctx, "outline", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestHooksReceiveConcurrentEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &testPipelineHooks{}
	SetPipelineHooks(h)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Pipeline().OnBuildStart(context.Background(), "A")
		}()
	}
	wg.Wait()

	if got := h.builds(); got != 8 {
		t.Errorf("builds = %d, want 8", got)
	}
}

type testPipelineHooks struct {
	NoopPipelineHooks
	mu     sync.Mutex
	starts int
}

func (h *testPipelineHooks) OnBuildStart(context.Context, string) {
	h.mu.Lock()
	h.starts++
	h.mu.Unlock()
}

func (h *testPipelineHooks) builds() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.starts
}

type testCacheHooks struct{ NoopCacheHooks }
