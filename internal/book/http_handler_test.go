package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookshelf/internal/auth"
	"bookshelf/internal/user"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, policy Authorizer) (*HTTPHandler, serviceMocks) {
	service, m := newTestService(t, policy)
	return NewHTTPHandler(service, zap.NewNop()), m
}

func request(method, target, body string, actor user.User, id string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if id != "" {
		r.SetPathValue("id", id)
	}
	return r.WithContext(auth.ContextWithUser(r.Context(), actor, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHTTPHandler_List(t *testing.T) {
	handler, m := newTestHandler(t, nil)

	t.Run("paginated envelope", func(t *testing.T) {
		items := make([]Book, 5)
		m.repo.EXPECT().ListByOwner(gomock.Any(), alice.ID, PageSize, 20).Return(items, 25, nil)

		w := httptest.NewRecorder()
		handler.List(w, request(http.MethodGet, "/books?page=3", "", alice, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Len(t, body["data"], 5)
		meta := body["meta"].(map[string]any)
		assert.Equal(t, float64(3), meta["current_page"])
		assert.Equal(t, float64(3), meta["last_page"])
		assert.Equal(t, float64(21), meta["from"])
		assert.Equal(t, float64(25), meta["to"])
		links := body["links"].(map[string]any)
		assert.Equal(t, "/books?page=2", links["prev"])
		assert.Nil(t, links["next"])
	})

	t.Run("error", func(t *testing.T) {
		m.repo.EXPECT().ListByOwner(gomock.Any(), alice.ID, PageSize, 0).Return(nil, 0, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, request(http.MethodGet, "/books", "", alice, ""))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no actor", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, m := newTestHandler(t, nil)

	t.Run("resource envelope", func(t *testing.T) {
		m.repo.EXPECT().GetByOwner(gomock.Any(), alice.ID, int64(3)).Return(Book{ID: 3, Name: "Dune"}, nil)

		w := httptest.NewRecorder()
		handler.Get(w, request(http.MethodGet, "/book/3", "", alice, "3"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Dune", decode(t, w)["data"].(map[string]any)["name"])
	})

	t.Run("other owner is not found", func(t *testing.T) {
		m.repo.EXPECT().GetByOwner(gomock.Any(), bob.ID, int64(3)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		handler.Get(w, request(http.MethodGet, "/book/3", "", bob, "3"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]any{"success": false, "message": "Sorry, book not found."}, decode(t, w))
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, m := newTestHandler(t, nil)

	tests := []struct {
		name           string
		body           string
		setupMock      func()
		expectedStatus int
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name: "success with numeric author",
			body: `{"name":"The Hobbit","isbn":"123","author":1}`,
			setupMock: func() {
				m.authors.EXPECT().Exists(gomock.Any(), int64(1)).Return(true, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
					b.ID = 1
					return nil
				})
				m.notifier.EXPECT().BookAdded(gomock.Any(), gomock.Any(), alice)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Book created successfully", body["message"])
				data := body["data"].(map[string]any)
				assert.Equal(t, float64(alice.ID), data["user_id"])
			},
		},
		{
			name: "string author and numeric isbn",
			body: `{"name":"Dune","isbn":978,"author":"2"}`,
			setupMock: func() {
				m.authors.EXPECT().Exists(gomock.Any(), int64(2)).Return(true, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
					assert.Equal(t, "978", b.ISBN)
					return nil
				})
				m.notifier.EXPECT().BookAdded(gomock.Any(), gomock.Any(), alice)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
			},
		},
		{
			name:           "all missing fields reported",
			body:           `{}`,
			setupMock:      func() {},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body, "success")
				fields := body["error"].(map[string]any)
				assert.Len(t, fields, 3)
				assert.Equal(t, []any{"The isbn field is required."}, fields["isbn"])
			},
		},
		{
			name:           "blank name and isbn rejected",
			body:           `{"name":"   ","isbn":"  ","author":1}`,
			setupMock:      func() {},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body, "success")
				fields := body["error"].(map[string]any)
				assert.Equal(t, []any{"The name field is required."}, fields["name"])
				assert.Equal(t, []any{"The isbn field is required."}, fields["isbn"])
			},
		},
		{
			name: "surrounding whitespace trimmed",
			body: `{"name":"  Emma ","isbn":" 42 ","author":1}`,
			setupMock: func() {
				m.authors.EXPECT().Exists(gomock.Any(), int64(1)).Return(true, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
					assert.Equal(t, "Emma", b.Name)
					assert.Equal(t, "42", b.ISBN)
					return nil
				})
				m.notifier.EXPECT().BookAdded(gomock.Any(), gomock.Any(), alice)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Emma", body["data"].(map[string]any)["name"])
			},
		},
		{
			name:           "unknown author",
			body:           `{"name":"X","isbn":"1","author":"abc"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, map[string]any{"message": "No author found with that id", "status": float64(404)}, body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			handler.Create(w, request(http.MethodPost, "/book", tt.body, alice, ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.check(t, decode(t, w))
		})
	}
}

func TestHTTPHandler_Update(t *testing.T) {
	owned := Book{ID: 5, Name: "Old", ISBN: "1", AuthorID: 1, UserID: alice.ID}

	t.Run("success", func(t *testing.T) {
		handler, m := newTestHandler(t, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(owned, nil).Times(2)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/book/5", `{"name":"New","isbn":"2"}`, bob, "5"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Book updated successfully", body["message"])
		assert.Equal(t, float64(1), body["data"].(map[string]any)["author_id"])
	})

	t.Run("missing book before validation", func(t *testing.T) {
		handler, m := newTestHandler(t, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(8)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/book/8", `{}`, alice, "8"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, map[string]any{"message": "Book not found."}, decode(t, w))
	})

	t.Run("validation failure leaves book untouched", func(t *testing.T) {
		tests := []struct {
			name  string
			body  string
			field string
		}{
			{name: "missing name", body: `{"isbn":"2"}`, field: "name"},
			{name: "missing isbn", body: `{"name":"New"}`, field: "isbn"},
			{name: "blank name", body: `{"name":"  ","isbn":"2"}`, field: "name"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler, m := newTestHandler(t, nil)
				m.repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(owned, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

				w := httptest.NewRecorder()
				handler.Update(w, request(http.MethodPut, "/book/5", tt.body, alice, "5"))

				assert.Equal(t, http.StatusOK, w.Code)
				body := decode(t, w)
				assert.NotContains(t, body, "success")
				fields := body["error"].(map[string]any)
				assert.Len(t, fields, 1)
				assert.Equal(t, []any{"The " + tt.field + " field is required."}, fields[tt.field])
			})
		}
	})

	t.Run("unknown author", func(t *testing.T) {
		handler, m := newTestHandler(t, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(owned, nil).Times(2)
		m.authors.EXPECT().Exists(gomock.Any(), int64(9)).Return(false, nil)

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/book/5", `{"name":"New","isbn":"2","author":9}`, alice, "5"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Author with that id not found", decode(t, w)["message"])
	})

	t.Run("forbidden under owner only", func(t *testing.T) {
		handler, m := newTestHandler(t, OwnerOnly{})
		m.repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(owned, nil)

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/book/5", `{"name":"New","isbn":"2"}`, bob, "5"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, m := newTestHandler(t, nil)

	m.repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(Book{ID: 5, UserID: alice.ID}, nil)
	m.repo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	w := httptest.NewRecorder()
	handler.Delete(w, request(http.MethodDelete, "/book/5", "", bob, "5"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "message": "Book deleted successfully"}, decode(t, w))

	m.repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(Book{}, ErrNotFound)

	w = httptest.NewRecorder()
	handler.Delete(w, request(http.MethodDelete, "/book/5", "", bob, "5"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorRef(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *int64
	}{
		{name: "absent", in: nil, want: nil},
		{name: "number", in: float64(3), want: ptr(3)},
		{name: "numeric string", in: " 4 ", want: ptr(4)},
		{name: "fraction", in: 1.5, want: ptr(0)},
		{name: "word", in: "abc", want: ptr(0)},
		{name: "object", in: map[string]any{}, want: ptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authorRef(tt.in))
		})
	}
}
