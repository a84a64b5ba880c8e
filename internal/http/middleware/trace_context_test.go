package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nekobyte/englishtek-backend/internal/platform/ctxutil"
)

func TestTraceMiddlewareTagsServerSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	userID := uuid.New()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "GET /x")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.End()
	})
	r.Use(AttachTraceContext())
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID: userID,
			Role:   ctxutil.RoleAdmin,
		}))
		c.Next()
	})
	r.Use(AnnotateCaller())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans: got=%d", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["http.request_id"].AsString(); got != "req-456" {
		t.Fatalf("http.request_id: got=%q", got)
	}
	if got := attrs["enduser.id"].AsString(); got != userID.String() {
		t.Fatalf("enduser.id: got=%q", got)
	}
	if !attrs["enduser.admin"].AsBool() {
		t.Fatal("enduser.admin not set")
	}
	if got := w.Header().Get("X-Trace-Id"); got != spans[0].SpanContext().TraceID().String() {
		t.Fatalf("trace id header %q does not match span", got)
	}
}

func TestAnnotateCallerWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AnnotateCaller())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status: got=%d", w.Code)
	}
}
