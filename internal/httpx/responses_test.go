package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, o Outcome) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Write(w, r, o)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestWrite_Success(t *testing.T) {
	code, body := render(t, Success{Message: "Book created successfully", Data: map[string]any{"id": 1}})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Book created successfully", body["message"])
	assert.Equal(t, map[string]any{"id": float64(1)}, body["data"])
}

func TestWrite_SuccessWithoutData(t *testing.T) {
	_, body := render(t, Success{Message: "Book deleted successfully"})

	assert.NotContains(t, body, "data")
	assert.Equal(t, true, body["success"])
}

func TestWrite_ValidationFailureHasNoSuccessKey(t *testing.T) {
	code, body := render(t, ValidationFailure{Fields: map[string][]string{"name": {"The name field is required."}}})

	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body, "success")
	assert.Equal(t, map[string]any{"name": []any{"The name field is required."}}, body["error"])
}

func TestWrite_NotFoundIs400(t *testing.T) {
	code, body := render(t, NotFound{Message: "Sorry, book not found."})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Sorry, book not found.", body["message"])
}

func TestWrite_ConflictCarriesStatus(t *testing.T) {
	code, body := render(t, Conflict{Message: "No author found with that id"})

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, float64(404), body["status"])
	assert.NotContains(t, body, "success")
}

func TestWrite_Notice(t *testing.T) {
	code, body := render(t, Notice{Message: "Author deleted successfully"})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"message": "Author deleted successfully", "status": float64(200)}, body)
}

func TestWrite_MissingModel(t *testing.T) {
	code, body := render(t, MissingModel{Message: "Book not found."})

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]any{"message": "Book not found."}, body)
}

func TestWrite_FailureIncludesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	Write(w, r, Unauthorized())

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, map[string]any{"request_id": "req-1"}, body.Meta)
}

func TestWrite_Paginated(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		_, body := render(t, Paginated{Data: []int{1, 2}, Path: "/books", CurrentPage: 2, PerPage: 10, Total: 25, Count: 10})

		links := body["links"].(map[string]any)
		meta := body["meta"].(map[string]any)
		assert.Equal(t, "/books?page=1", links["first"])
		assert.Equal(t, "/books?page=3", links["last"])
		assert.Equal(t, "/books?page=1", links["prev"])
		assert.Equal(t, "/books?page=3", links["next"])
		assert.Equal(t, float64(11), meta["from"])
		assert.Equal(t, float64(20), meta["to"])
		assert.Equal(t, float64(3), meta["last_page"])
	})

	t.Run("empty", func(t *testing.T) {
		_, body := render(t, Paginated{Data: []int{}, Path: "/books", CurrentPage: 1, PerPage: 10})

		links := body["links"].(map[string]any)
		meta := body["meta"].(map[string]any)
		assert.Nil(t, links["prev"])
		assert.Nil(t, links["next"])
		assert.Nil(t, meta["from"])
		assert.Equal(t, float64(1), meta["last_page"])
	})
}
