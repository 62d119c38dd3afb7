package demo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routedoc/openapi"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestHelloRoutes(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		method, path, body string
		status             int
		want               string
	}{
		{method: http.MethodGet, path: "/hello?count=2", status: http.StatusOK, want: "success success "},
		{method: http.MethodGet, path: "/hello?count=x", status: http.StatusBadRequest},
		{method: http.MethodGet, path: "/hello?count=1000000000", status: http.StatusBadRequest},
		{method: http.MethodPost, path: "/hello", body: `{"stringValue":"hi"}`, status: http.StatusCreated},
		{method: http.MethodPost, path: "/hello", body: `{"other":1}`, status: http.StatusBadRequest},
		{method: http.MethodGet, path: "/hello/7", status: http.StatusOK, want: `{"stringValue":"hello 7"}` + "\n"},
		{method: http.MethodDelete, path: "/hello", status: http.StatusNoContent},
		{method: http.MethodGet, path: "/healthz", status: http.StatusOK, want: `{"status":"ok"}` + "\n"},
		{method: http.MethodGet, path: "/static/css/site.css", status: http.StatusOK, want: "css/site.css"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			if tt.want != "" {
				assert.Equal(t, tt.want, w.Body.String())
			}
		})
	}
}

func TestUserRoutes(t *testing.T) {
	r := NewRouter()

	w := do(t, r, http.MethodPost, "/users", `{"name":"Alice","email":"alice@example.com","tags":["admin"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var alice User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alice))
	assert.Equal(t, uuid.Version(7), alice.ID.Version())
	assert.Equal(t, "Alice", alice.Name)

	w = do(t, r, http.MethodPost, "/users", `{"name":"Bob","email":"bob@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("create requires name and email", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/users", `{"name":"x"}`).Code)
	})

	t.Run("list", func(t *testing.T) {
		var users []User
		w := do(t, r, http.MethodGet, "/users", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		assert.Len(t, users, 2)

		w = do(t, r, http.MethodGet, "/users?tag=admin", "")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.Equal(t, alice.ID, users[0].ID)

		w = do(t, r, http.MethodGet, "/users?limit=1", "")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		assert.Len(t, users, 1)

		assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/users?limit=-1", "").Code)
	})

	t.Run("get", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/users/"+alice.ID.String(), "")
		require.Equal(t, http.StatusOK, w.Code)

		var got User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, alice.ID, got.ID)

		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users/"+uuid.NewString(), "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users/not-a-uuid", "").Code)
	})

	t.Run("update", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/users/"+alice.ID.String(), `{"name":"Alicia"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Alicia", got.Name)
		assert.Equal(t, "alice@example.com", got.Email)

		// the body is optional
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodPut, "/users/"+alice.ID.String(), "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/users/"+uuid.NewString(), "").Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/users/"+alice.ID.String(), "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/users/"+alice.ID.String(), "").Code)
	})
}

func TestStore(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ids := []uuid.UUID{
		uuid.MustParse("0190f5a2-8b6e-7c3d-9a4b-5e6f7a8b9c01"),
		uuid.MustParse("0190f5a2-8b6e-7c3d-9a4b-5e6f7a8b9c02"),
	}

	s := NewStore()
	s.now = func() time.Time { return fixed }
	s.newID = func() uuid.UUID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first := s.Create(CreateUser{Name: "a", Email: "a@example.com"})
	second := s.Create(CreateUser{Name: "b", Email: "b@example.com", Tags: []string{"x", "y"}})

	assert.Equal(t, fixed, first.CreatedAt)
	assert.Equal(t, []string{}, first.Tags)
	assert.Equal(t, []User{first, second}, s.List(0, nil))
	assert.Equal(t, []User{second}, s.List(0, []string{"x", "y"}))
	assert.Empty(t, s.List(0, []string{"z"}))

	require.NoError(t, s.Delete(first.ID))
	_, err := s.Get(first.ID)
	assert.ErrorIs(t, err, errUserNotFound)
	assert.ErrorIs(t, s.Delete(first.ID), errUserNotFound)

	_, err = s.Update(first.ID, nil)
	assert.ErrorIs(t, err, errUserNotFound)
}

func TestDocument(t *testing.T) {
	spec := openapi.NewSpec(openapi.Info{Title: "Demo", Version: "1.0.0"})
	doc, err := spec.Build(context.Background(), NewRouter())
	require.NoError(t, err)

	assert.Equal(t, []string{"/hello", "/hello/{id}", "/users", "/users/{id}", "/healthz"}, doc.Paths.Keys())

	t.Run("tags", func(t *testing.T) {
		names := make([]string, 0, len(doc.Tags))
		for _, tag := range doc.Tags {
			names = append(names, tag.Name)
		}
		assert.Equal(t, []string{"hello", "users"}, names)
	})

	t.Run("users list", func(t *testing.T) {
		op := doc.Paths.Value("/users").Get
		require.NotNil(t, op)
		assert.Equal(t, "listUsers", op.OperationID)
		require.Len(t, op.Parameters, 2)

		limit, tag := op.Parameters[0], op.Parameters[1]
		assert.Equal(t, "limit", limit.Name)
		assert.Equal(t, "form", limit.Style)
		assert.True(t, *limit.Explode)
		assert.Equal(t, "tag", tag.Name)
		assert.Equal(t, "form", tag.Style)
		assert.False(t, *tag.Explode)

		mt := op.Responses.Value("200").Content["application/json"]
		require.NotNil(t, mt)
		assert.Equal(t, openapi.TypeString("array"), mt.Schema.Type)
		assert.Equal(t, "uuid", mt.Schema.Items.Properties["id"].Format)
		assert.Equal(t, "date-time", mt.Schema.Items.Properties["createdAt"].Format)
	})

	t.Run("request bodies", func(t *testing.T) {
		create := doc.Paths.Value("/users").Post
		require.NotNil(t, create.RequestBody)
		assert.True(t, create.RequestBody.Required)
		assert.Equal(t, map[string]any{
			"name":  "Alice",
			"email": "alice@example.com",
			"tags":  []any{"admin"},
		}, create.RequestBody.Content["application/json"].Example)

		update := doc.Paths.Value("/users/{id}").Put
		require.NotNil(t, update.RequestBody)
		assert.False(t, update.RequestBody.Required)
	})

	t.Run("uuid path parameter", func(t *testing.T) {
		param := doc.Paths.Value("/users/{id}").Get.Parameters[0]
		assert.Equal(t, "id", param.Name)
		assert.Equal(t, "uuid", param.Schema.Format)
		assert.Equal(t, "User identifier", param.Description)
	})

	t.Run("plain declared response", func(t *testing.T) {
		op := doc.Paths.Value("/healthz").Get
		require.NotNil(t, op)
		assert.Equal(t, "health", op.OperationID)
		assert.Equal(t, []string{"200"}, op.Responses.Keys())
		assert.Equal(t, "Success", op.Responses.Value("200").Description)
	})

	t.Run("hidden static files", func(t *testing.T) {
		assert.False(t, doc.Paths.Has("/static"))
	})
}

func TestDocumentLoads(t *testing.T) {
	doc, err := openapi.NewSpec(openapi.Info{Title: "Demo", Version: "1.0.0"}).Build(context.Background(), NewRouter())
	require.NoError(t, err)

	data, err := doc.JSON()
	require.NoError(t, err)

	loaded, err := openapi3.NewLoader().LoadFromData(data)
	require.NoError(t, err)

	assert.Len(t, loaded.Paths, 5)

	users := loaded.Paths["/users"]
	require.NotNil(t, users)
	assert.Equal(t, "createUser", users.Post.OperationID)
	assert.Equal(t, []string{"name", "email"}, users.Post.RequestBody.Value.Content.Get("application/json").Schema.Value.Required)

	byID := loaded.Paths["/users/{id}"]
	require.NotNil(t, byID)
	assert.Equal(t, "uuid", byID.Get.Parameters[0].Value.Schema.Value.Format)
}
