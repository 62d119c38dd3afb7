package demo

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/muxhandlers"
	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/typed"
)

// User is a stored user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUser is the body of POST /users.
type CreateUser struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Tags  []string `json:"tags,omitempty"`
}

func (CreateUser) OpenAPISchema() *openapi.Schema {
	minLen := 1
	return &openapi.Schema{
		Type: openapi.TypeString("object"),
		Properties: map[string]*openapi.Schema{
			"name":  {Type: openapi.TypeString("string"), MinLength: &minLen},
			"email": {Type: openapi.TypeString("string"), Format: "email"},
			"tags":  {Type: openapi.TypeString("array"), Items: &openapi.Schema{Type: openapi.TypeString("string")}},
		},
		Required: []string{"name", "email"},
	}
}

func (CreateUser) OpenAPIExample() any {
	return CreateUser{Name: "Alice", Email: "alice@example.com", Tags: []string{"admin"}}
}

// UpdateUser is the optional body of PUT /users/{id}. Missing fields keep
// their stored value.
type UpdateUser struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (UpdateUser) OpenAPISchema() *openapi.Schema {
	return &openapi.Schema{
		Type: openapi.TypeString("object"),
		Properties: map[string]*openapi.Schema{
			"name":  {Type: openapi.TypeString("string")},
			"email": {Type: openapi.TypeString("string"), Format: "email"},
		},
	}
}

var errUserNotFound = errors.New("user not found")

// Store keeps users in memory.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
	order []uuid.UUID
	now   func() time.Time
	newID func() uuid.UUID
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]User),
		now:   time.Now,
		newID: muxhandlers.NewUUIDv7,
	}
}

func (s *Store) Create(in CreateUser) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Tags:      slices.Clone(in.Tags),
		CreatedAt: s.now().UTC(),
	}
	if u.Tags == nil {
		u.Tags = []string{}
	}
	s.users[u.ID] = u
	s.order = append(s.order, u.ID)
	return u
}

func (s *Store) Get(id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, errUserNotFound
	}
	return u, nil
}

// List returns users in creation order. A user matches when it carries
// every tag; limit <= 0 means no limit.
func (s *Store) List(limit int, tags []string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []User{}
	for _, id := range s.order {
		u := s.users[id]
		if !hasTags(u, tags) {
			continue
		}
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (s *Store) Update(id uuid.UUID, in *UpdateUser) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, errUserNotFound
	}
	if in != nil {
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errUserNotFound
	}
	delete(s.users, id)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

func hasTags(u User, tags []string) bool {
	for _, tag := range tags {
		if !slices.Contains(u.Tags, tag) {
			return false
		}
	}
	return true
}

// RegisterUsers mounts the user CRUD endpoints backed by store.
func RegisterUsers(r *mux.Router, store *Store) {
	typed.Handle(r, http.MethodGet, "/users",
		typed.Outcomes(
			typed.JSON[[]User](http.StatusOK),
			typed.Empty(http.StatusBadRequest),
		).WithQuery(
			typed.Query[int]("limit").Describe("Maximum number of users returned"),
			typed.Query[[]string]("tag").Describe("Only users carrying every tag"),
		),
		func(w http.ResponseWriter, req *typed.Request[typed.EmptyBody]) {
			query := req.URL.Query()

			limit := 0
			if raw := query.Get("limit"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 0 {
					typed.NoContent(w, http.StatusBadRequest)
					return
				}
				limit = n
			}

			var tags []string
			if raw := query.Get("tag"); raw != "" {
				tags = strings.Split(raw, ",")
			}

			typed.Reply(w, http.StatusOK, store.List(limit, tags))
		},
	).Name("listUsers").Summary("List users").Tags("users")

	typed.Handle(r, http.MethodPost, "/users",
		typed.Outcomes(
			typed.JSON[User](http.StatusCreated),
			typed.Empty(http.StatusBadRequest),
		),
		func(w http.ResponseWriter, req *typed.Request[CreateUser]) {
			in, err := req.Bind()
			if err != nil || in.Name == "" || in.Email == "" {
				typed.NoContent(w, http.StatusBadRequest)
				return
			}
			typed.Reply(w, http.StatusCreated, store.Create(in))
		},
	).Name("createUser").Summary("Create a user").Tags("users")

	typed.Handle(r, http.MethodGet, "/users/{id:uuid}",
		typed.Outcomes(
			typed.JSON[User](http.StatusOK),
			typed.Empty(http.StatusNotFound),
		),
		func(w http.ResponseWriter, req *typed.Request[typed.EmptyBody]) {
			u, err := store.Get(uuid.MustParse(req.Var("id")))
			if err != nil {
				typed.NoContent(w, http.StatusNotFound)
				return
			}
			typed.Reply(w, http.StatusOK, u)
		},
	).Name("getUser").Summary("Fetch a user").Tags("users").
		ParamDescription("id", "User identifier")

	typed.Handle(r, http.MethodPut, "/users/{id:uuid}",
		typed.Outcomes(
			typed.JSON[User](http.StatusOK),
			typed.Empty(http.StatusBadRequest),
			typed.Empty(http.StatusNotFound),
		),
		func(w http.ResponseWriter, req *typed.Request[*UpdateUser]) {
			in, err := req.Bind()
			if err != nil {
				typed.NoContent(w, http.StatusBadRequest)
				return
			}
			u, err := store.Update(uuid.MustParse(req.Var("id")), in)
			if err != nil {
				typed.NoContent(w, http.StatusNotFound)
				return
			}
			typed.Reply(w, http.StatusOK, u)
		},
	).Name("updateUser").Summary("Update a user").Tags("users").
		ParamDescription("id", "User identifier")

	typed.Handle(r, http.MethodDelete, "/users/{id:uuid}",
		typed.Outcomes(
			typed.Empty(http.StatusNoContent),
			typed.Empty(http.StatusNotFound),
		),
		func(w http.ResponseWriter, req *typed.Request[typed.EmptyBody]) {
			if err := store.Delete(uuid.MustParse(req.Var("id"))); err != nil {
				typed.NoContent(w, http.StatusNotFound)
				return
			}
			typed.NoContent(w, http.StatusNoContent)
		},
	).Name("deleteUser").Summary("Delete a user").Tags("users").
		ParamDescription("id", "User identifier")
}
