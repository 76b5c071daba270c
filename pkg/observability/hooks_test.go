package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnReadStart(ctx, "in.txt")
	p.OnReadComplete(ctx, "in.txt", 10, time.Second, nil)
	p.OnBuildComplete(ctx, 3, 10, time.Millisecond)
	p.OnWriteStart(ctx, "out.csv", "csv")
	p.OnWriteComplete(ctx, "out.csv", "csv", 18, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "matrix")
	c.OnCacheMiss(ctx, "matrix")
	c.OnCacheSet(ctx, "matrix", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "id", "POST", "/v1/matrix")
	h.OnResponse(ctx, "id", "POST", "/v1/matrix", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
	assert.IsType(t, NoopCacheHooks{}, Cache())
	assert.IsType(t, NoopHTTPHooks{}, HTTP())

	p := &recordingPipelineHooks{}
	SetPipelineHooks(p)
	assert.Same(t, p, Pipeline())

	c := &recordingCacheHooks{}
	SetCacheHooks(c)
	assert.Same(t, c, Cache())

	SetPipelineHooks(nil)
	assert.Same(t, p, Pipeline(), "nil should not replace registered hooks")

	Reset()
	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
	assert.IsType(t, NoopCacheHooks{}, Cache())
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	p := &recordingPipelineHooks{}
	SetPipelineHooks(p)

	Pipeline().OnReadStart(context.Background(), "in.txt")
	Pipeline().OnBuildComplete(context.Background(), 4, 9, time.Millisecond)

	assert.Equal(t, []string{"read:in.txt", "build"}, p.events)
}

type recordingPipelineHooks struct {
	NoopPipelineHooks
	events []string
}

func (r *recordingPipelineHooks) OnReadStart(_ context.Context, path string) {
	r.events = append(r.events, "read:"+path)
}

func (r *recordingPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration) {
	r.events = append(r.events, "build")
}

type recordingCacheHooks struct {
	NoopCacheHooks
}
