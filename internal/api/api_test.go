package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/internal/live"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

type env struct {
	srv   *httptest.Server
	admin model.User
	hub   *live.Hub
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	logger := logging.Discard()

	dsn := "file:" + filepath.Join(t.TempDir(), "api.db") + "?_pragma=foreign_keys(1)"
	repo, err := store.Open(ctx, store.DriverSQLite, dsn, store.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	admin := model.User{Name: "Root", Email: "root@example.com", Role: model.RoleAdmin}
	require.NoError(t, repo.CreateUser(ctx, &admin))

	hub := live.NewHub(8, logger)
	svc := service.New(repo,
		service.WithPublisher(hub),
		service.WithThemes(branding.NewSelector("/assets")),
		service.WithLogger(logger),
	)
	renderer, err := html.New()
	require.NoError(t, err)
	renderers, err := render.NewRegistry(renderer)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(Deps{
		Service:     svc,
		Renderers:   renderers,
		Hub:         hub,
		Assets:      html.AssetsFS(),
		AssetPrefix: "/assets",
		UploadLimit: 1 << 10,
		Logger:      logger,
	}))
	t.Cleanup(srv.Close)
	return &env{srv: srv, admin: admin, hub: hub}
}

func (e *env) do(t *testing.T, method, path, userID string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req)
}

func (e *env) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

// seed creates a company, a member user and a form through the API.
func (e *env) seed(t *testing.T) (model.Company, model.User, model.FormSchema) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/v1/companies", e.admin.ID, model.Company{Name: "Acme Ltda"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	company := decode[model.Company](t, body)

	resp, body = e.do(t, http.MethodPost, "/v1/users", e.admin.ID, model.User{
		Name: "Ana", Email: "ana@example.com", CompanyIDs: []string{company.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	user := decode[model.User](t, body)

	resp, body = e.do(t, http.MethodPost, "/v1/forms", e.admin.ID, model.FormSchema{
		Title:     "Cadastro",
		CompanyID: company.ID,
		Fields: []model.FieldDefinition{
			{ID: "name", Type: model.FieldTypeText, Label: "Nome", Validations: model.Rules{"required": true, "minLength": 3}},
			{ID: "age", Type: model.FieldTypeNumber, Label: "Idade", Validations: model.Rules{"min": 18}},
			{ID: "terms", Type: model.FieldTypeCheckbox, Label: "Termos"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	form := decode[model.FormSchema](t, body)
	return company, user, form
}

func TestHealthAndAssets(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = e.do(t, http.MethodGet, "/assets/formbuilder.css", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), ".fb-field")
}

func TestIdentityRequired(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, http.MethodGet, "/v1/forms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", decode[errorBody](t, body).Code)

	resp, _ = e.do(t, http.MethodGet, "/v1/forms", "ghost", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCompanyAndUserEndpoints(t *testing.T) {
	e := newEnv(t)
	company, user, _ := e.seed(t)

	resp, body := e.do(t, http.MethodPost, "/v1/companies", e.admin.ID, model.Company{Name: "AB", PrimaryColor: "azul"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	payload := decode[map[string]any](t, body)
	assert.Equal(t, "VALIDATION_ERROR", payload["code"])
	fields := payload["fields"].(map[string]any)
	assert.Equal(t, "Nome deve ter no mínimo 3 caracteres", fields["name"])
	assert.Contains(t, fields, "primaryColor")

	resp, _ = e.do(t, http.MethodPost, "/v1/companies", user.ID, model.Company{Name: "Outra"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, "/v1/users", e.admin.ID, model.User{Name: "Ana 2", Email: "ANA@example.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, body = e.do(t, http.MethodGet, "/v1/companies/"+company.ID+"/users", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.User](t, body), 1)

	company.Name = "Acme Renomeada"
	resp, body = e.do(t, http.MethodPut, "/v1/companies/"+company.ID, e.admin.ID, company)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Acme Renomeada", decode[model.Company](t, body).Name)

	resp, body = e.do(t, http.MethodGet, "/v1/companies", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Company](t, body), 1)

	resp, _ = e.do(t, http.MethodDelete, "/v1/companies/"+company.ID+"/users/"+user.ID, e.admin.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/v1/companies/"+company.ID+"/users/"+user.ID, e.admin.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = e.do(t, http.MethodDelete, "/v1/companies/missing", e.admin.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFormEndpoints(t *testing.T) {
	e := newEnv(t)
	company, user, form := e.seed(t)

	resp, body := e.do(t, http.MethodGet, "/v1/field-types", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[[]map[string]any](t, body))

	resp, body = e.do(t, http.MethodGet, "/v1/forms/"+form.ID, user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cadastro", decode[model.FormSchema](t, body).Title)

	resp, body = e.do(t, http.MethodGet, "/v1/companies/"+company.ID+"/forms", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.FormSchema](t, body), 1)

	resp, body = e.do(t, http.MethodPost, "/v1/forms", e.admin.ID, model.FormSchema{
		Title: "Ruim", CompanyID: company.ID,
		Fields: []model.FieldDefinition{{ID: "x", Type: "rating", Label: "X"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Len(t, decode[map[string]any](t, body)["fields"], 1)

	form.Title = "Cadastro 2"
	resp, body = e.do(t, http.MethodPut, "/v1/forms/"+form.ID, e.admin.ID, form)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Cadastro 2", decode[model.FormSchema](t, body).Title)

	resp, _ = e.do(t, http.MethodPut, "/v1/forms/"+form.ID, user.ID, form)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = e.do(t, http.MethodGet, "/v1/forms/missing", user.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/v1/forms", e.admin.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(t, http.MethodDelete, "/v1/forms/"+form.ID, e.admin.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID, e.admin.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmissionEndpoints(t *testing.T) {
	e := newEnv(t)
	_, user, form := e.seed(t)

	resp, body := e.do(t, http.MethodPost, "/v1/forms/"+form.ID+"/validate", user.ID, map[string]any{
		"answers": map[string]any{"age": map[string]any{"value": 10}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[service.Report](t, body)
	assert.False(t, report.CanSubmit)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "age", report.Errors[0].FieldID)

	resp, body = e.do(t, http.MethodPost, "/v1/submissions", user.ID, map[string]any{
		"formId":  form.ID,
		"answers": map[string]any{"name": map[string]any{"value": "Al"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := decode[map[string]any](t, body)["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].(map[string]any)["fieldId"])
	assert.Equal(t, "tooShort", fields[0].(map[string]any)["kind"])

	resp, body = e.do(t, http.MethodPost, "/v1/submissions", user.ID, map[string]any{
		"formId":  form.ID,
		"answers": map[string]any{"name": map[string]any{"value": "Alice"}, "age": map[string]any{"value": 30}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sub := decode[model.Submission](t, body)
	assert.Equal(t, "Nome", sub.Answers["name"].Label)

	resp, body = e.do(t, http.MethodPost, "/v1/submissions", user.ID, map[string]any{
		"formId":  form.ID,
		"answers": map[string]any{"name": map[string]any{"value": "Alice"}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_SUBMITTED", decode[errorBody](t, body).Code)

	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID, user.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/v1/me/forms", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decode[[]map[string]any](t, body)
	require.Len(t, mine, 1)
	assert.Equal(t, true, mine[0]["submitted"])

	resp, body = e.do(t, http.MethodGet, "/v1/submissions", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Submission](t, body), 1)

	resp, _ = e.do(t, http.MethodGet, "/v1/submissions/all", user.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/v1/submissions/all", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[[]model.Submission](t, body)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana", all[0].UserName)
	assert.Equal(t, "Cadastro", all[0].FormTitle)

	resp, body = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/submissions", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Submission](t, body), 1)

	resp, body = e.do(t, http.MethodPatch, "/v1/submissions/"+sub.ID+"/status", e.admin.ID, map[string]string{"status": "reviewed"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, model.SubmissionReviewed, decode[model.Submission](t, body).Status)

	resp, _ = e.do(t, http.MethodPatch, "/v1/submissions/"+sub.ID+"/status", e.admin.ID, map[string]string{"status": "done"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPatch, "/v1/submissions/missing/status", e.admin.ID, map[string]string{"status": "reviewed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderEndpoints(t *testing.T) {
	e := newEnv(t)
	_, user, form := e.seed(t)

	resp, body := e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/render?locale=en", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, string(body), "<h1>Cadastro</h1>")
	assert.Contains(t, string(body), `action="/v1/forms/`+form.ID+`/render"`)
	assert.Contains(t, string(body), `<link rel="stylesheet" href="/assets/formbuilder.css">`)
	assert.Contains(t, string(body), ">Submit</button>")

	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/render?mode=preview", user.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/editor", user.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/render?mode=preview&variant=dark", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `data-variant="dark"`)

	resp, body = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/editor", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `name="name.minLength" value="3"`)

	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/render?renderer=pdf", user.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/render?variant=neon", user.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderedFormPost(t *testing.T) {
	e := newEnv(t)
	_, user, form := e.seed(t)

	post := func(values url.Values) (*http.Response, []byte) {
		req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/v1/forms/"+form.ID+"/render", strings.NewReader(values.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(HeaderUserID, user.ID)
		return e.send(t, req)
	}

	resp, body := post(url.Values{"name": {"Al"}, "age": {"abc"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	page := string(body)
	assert.Contains(t, page, `name="name" value="Al"`)
	assert.Contains(t, page, `name="age" value="abc"`)
	assert.Contains(t, page, "Mínimo 3 caracteres")
	assert.Contains(t, page, "<p>Corrija os erros antes de enviar.</p>")

	resp, body = post(url.Values{"name": {"Alice"}, "age": {"30"}, "terms": {"true"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "Formulário enviado com sucesso!")

	resp, body = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/submissions", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	subs := decode[[]model.Submission](t, body)
	require.Len(t, subs, 1)
	assert.Equal(t, float64(30), subs[0].Answers["age"].Value)
	assert.Equal(t, true, subs[0].Answers["terms"].Value)

	resp, _ = post(url.Values{"name": {"Alice"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRenderedFormPostBodyLimit(t *testing.T) {
	e := newEnv(t)
	_, user, form := e.seed(t)

	values := url.Values{"name": {strings.Repeat("a", 2<<20)}}
	req := httptest.NewRequest(http.MethodPost, "/v1/forms/"+form.ID+"/render", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(HeaderUserID, user.ID)
	rec := httptest.NewRecorder()
	e.srv.Config.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	resp, body := e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/submissions", e.admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]model.Submission](t, body))
}

func TestUpload(t *testing.T) {
	e := newEnv(t)
	_, user, _ := e.seed(t)

	upload := func(name string, content []byte) (*http.Response, []byte) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/v1/uploads", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(HeaderUserID, user.ID)
		return e.send(t, req)
	}

	resp, body := upload("notes.txt", []byte("hello"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	file := decode[model.FileValue](t, body)
	assert.Equal(t, "notes.txt", file.Name)
	assert.Equal(t, int64(5), file.Size)
	assert.True(t, strings.HasPrefix(file.Data, "data:"))

	resp, _ = upload("big.bin", bytes.Repeat([]byte("x"), 2<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestOpenAPIEndpoint(t *testing.T) {
	e := newEnv(t)
	_, user, form := e.seed(t)

	resp, body := e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/openapi", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[map[string]any](t, body)
	assert.Contains(t, doc["paths"], "/v1/submissions")

	resp, body = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/openapi?format=yaml", user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "openapi:")

	resp, _ = e.do(t, http.MethodGet, "/v1/forms/"+form.ID+"/openapi?format=xml", user.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmissionStream(t *testing.T) {
	e := newEnv(t)
	_, user, form := e.seed(t)

	resp, _ := e.do(t, http.MethodGet, "/v1/submissions/stream", user.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(e.srv.URL, "http")+"/v1/submissions/stream", &websocket.DialOptions{
		HTTPHeader: http.Header{HeaderUserID: {e.admin.ID}},
	})
	require.NoError(t, err)
	defer conn.CloseNow()

	var msg live.Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	require.Equal(t, live.MessageReady, msg.Type)

	resp, body := e.do(t, http.MethodPost, "/v1/submissions", user.ID, map[string]any{
		"formId":  form.ID,
		"answers": map[string]any{"name": map[string]any{"value": "Alice"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, service.EventSubmissionCreated, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, form.ID, msg.Data.Submission.FormID)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := Recovery(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode[errorBody](t, rec.Body.Bytes()).Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}, http.NotFoundHandler(), logging.Discard())
	}()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
