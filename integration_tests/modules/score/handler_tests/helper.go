package scorehandlerintegrationtests

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/handlers"
	scoremetrics "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/metrics"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/router"
	"github.com/Black-And-White-Club/meishu/integration_tests/testutils"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace/noop"
)

type testServer struct {
	ctx    context.Context
	server *httptest.Server
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)
	if err := testutils.TruncateTables(env.Ctx, env.DB, "scores"); err != nil {
		t.Fatalf("Failed to truncate score tables: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test_score_http")

	service := scoreservice.NewScoreService(
		scoredb.NewRepository(env.DB),
		logger,
		scoremetrics.NewNoop(),
		tracer,
		scoreservice.Config{},
	)
	handlers := scorehandlers.NewScoreHandlers(service, logger, tracer, 10)

	r := chi.NewRouter()
	scorerouter.NewScoreRouter(logger, handlers, nil).Configure(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{ctx: env.Ctx, server: srv}
}

// do sends a request and returns the status plus the raw body.
func (s *testServer) do(t *testing.T, method, path, body string, header http.Header) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := s.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %q: %v", string(data), err)
	}
	return v
}
