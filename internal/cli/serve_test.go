package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/renderkit/husksubmit/pkg/deadline"
	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/pipeline"
)

const apiSceneDump = `(
    startTimeCode = 1001
    endTimeCode = 1250
)

def Scope "Render"
{
    def RenderSettings "rendersettings"
    {
        rel products = [
            </Render/Products/beauty>,
        ]
    }
    def Scope "Products"
    {
        def RenderProduct "beauty"
        {
            token productName.timeSamples = {
                0: "/out/beauty.1001.exr",
            }
        }
    }
}
`

type apiFakeDumper struct {
	dump string
	err  error
}

func (d *apiFakeDumper) Flatten(ctx context.Context, scenePath string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.dump, nil
}

func (d *apiFakeDumper) LayerMetadata(ctx context.Context, scenePath string) (string, error) {
	return "(\n)\n", nil
}

type apiFakeSubmitter struct{}

func (s *apiFakeSubmitter) Submit(ctx context.Context, job *deadline.Job) (deadline.Result, error) {
	return deadline.Result{JobName: job.Name, Success: true}, nil
}

func newTestAPI(dumper *apiFakeDumper) http.Handler {
	runner := pipeline.NewRunner(dumper, &apiFakeSubmitter{}, nil, nil)
	srv := &apiServer{runner: runner}
	return srv.routes()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Health(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{dump: apiSceneDump})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestAPI_Graph_SceneFile(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{dump: apiSceneDump})

	rec := postJSON(t, h, "/v1/graph", graphRequest{SceneFile: "/shots/a.usd"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body["prims"]; !ok {
		t.Errorf("response missing prims: %s", rec.Body.String())
	}
}

func TestAPI_Graph_Text(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{err: errors.New(errors.ErrCodeDumpFailed, "should not be called")})

	rec := postJSON(t, h, "/v1/graph", graphRequest{Text: apiSceneDump})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_Graph_MissingInput(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{dump: apiSceneDump})

	rec := postJSON(t, h, "/v1/graph", graphRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if env.Error.Code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want %q", env.Error.Code, errors.ErrCodeInvalidInput)
	}
}

func TestAPI_Graph_MalformedLayer(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{dump: "(\nno closing paren"})

	rec := postJSON(t, h, "/v1/graph", graphRequest{SceneFile: "/shots/a.usd"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_Graph_DumpFailure(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{err: errors.New(errors.ErrCodeDumpFailed, "usdcat exploded")})

	rec := postJSON(t, h, "/v1/graph", graphRequest{SceneFile: "/shots/a.usd"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_Plan(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{dump: apiSceneDump})

	rec := postJSON(t, h, "/v1/plan", planRequest{SceneFile: "/shots/a.usd"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Frames != "1001-1250" {
		t.Errorf("frames = %q, want 1001-1250", body.Frames)
	}
	plans, ok := body.Plans.([]any)
	if !ok || len(plans) != 1 {
		t.Fatalf("plans = %#v, want one entry", body.Plans)
	}
}

func TestAPI_Plan_MissingScene(t *testing.T) {
	h := newTestAPI(&apiFakeDumper{dump: apiSceneDump})

	rec := postJSON(t, h, "/v1/plan", planRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
