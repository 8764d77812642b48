package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"mindful-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "0b0c5c9e-0f59-4b8e-9d4c-3b0e4f6b7a21"
	otherUserID = "7d6f1c2a-3b4e-4f5a-8b9c-0d1e2f3a4b5c"
)

var postColumns = []string{"id", "title", "content", "excerpt", "author_id", "is_anonymous", "votes", "comment_count", "created_at", "updated_at"}

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestGetAllPosts_RedactsAnonymousAuthors(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "posts" ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(2, "Second", "Body", "Body", testUserID, true, 3, 1, now, now).
			AddRow(1, "First", "Body", "Body", otherUserID, false, -1, 0, now, now))

	mock.ExpectQuery(`SELECT \* FROM "post_tags" WHERE "post_tags"."post_id" IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "tag_id"}).AddRow(2, 5))
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"."id" = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}).AddRow(5, "anxiety", "#3b82f6"))

	r := testutils.SetupTestRouter()
	r.GET("/posts", GetAllPosts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 2)

	assert.NotContains(t, posts[0], "authorId")
	assert.Equal(t, float64(3), posts[0]["votes"])
	tags := posts[0]["tags"].([]interface{})
	require.Len(t, tags, 1)
	assert.Equal(t, "anxiety", tags[0].(map[string]interface{})["name"])

	assert.Equal(t, otherUserID, posts[1]["authorId"])
	assert.Equal(t, float64(-1), posts[1]["votes"])
}

func TestGetAllPosts_Pagination(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(postColumns))

	r := testutils.SetupTestRouter()
	r.GET("/posts", GetAllPosts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts?limit=10&offset=20", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetAllPosts_DatabaseError(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnError(errors.New("boom"))

	r := testutils.SetupTestRouter()
	r.GET("/posts", GetAllPosts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch posts", messageOf(t, w))
}

func TestGetMyPosts_KeepsAuthor(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE author_id = \$1 ORDER BY created_at DESC`).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(2, "Mine", "Body", "Body", testUserID, true, 0, 0, now, now))
	mock.ExpectQuery(`SELECT \* FROM "post_tags" WHERE "post_tags"."post_id" = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "tag_id"}))

	r := testutils.SetupTestRouter()
	r.GET("/posts/my", testutils.WithUser(testUserID, "USER", GetMyPosts))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts/my", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, testUserID, posts[0]["authorId"])
}

func TestSearchPosts(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE title ILIKE \$1 OR content ILIKE \$2 ORDER BY created_at DESC`).
		WithArgs("%sleep%", "%sleep%").
		WillReturnRows(sqlmock.NewRows(postColumns))

	r := testutils.SetupTestRouter()
	r.GET("/posts/search", SearchPosts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts/search?q=sleep", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchPosts_EmptyQuery(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/posts/search", SearchPosts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts/search?q=%20", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search query required", messageOf(t, w))
}

func TestGetPostByID(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 ORDER BY "posts"."id" LIMIT \$2`).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(7, "Hello", "Body", "Body", testUserID, false, 4, 2, now, now))
	mock.ExpectQuery(`SELECT \* FROM "post_tags" WHERE "post_tags"."post_id" = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "tag_id"}))

	r := testutils.SetupTestRouter()
	r.GET("/posts/:id", GetPostByID)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var post map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "Hello", post["title"])
	assert.Equal(t, float64(4), post["votes"])
	assert.Equal(t, float64(2), post["commentCount"])
}

func TestGetPostByID_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WithArgs(404, 1).
		WillReturnRows(sqlmock.NewRows(postColumns))

	r := testutils.SetupTestRouter()
	r.GET("/posts/:id", GetPostByID)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts/404", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", messageOf(t, w))
}

func TestGetPostByID_InvalidID(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/posts/:id", GetPostByID)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/posts/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePost_WithoutTags(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	fake := &testutils.FakeAssistant{}
	testutils.UseAssistant(t, fake)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "posts" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/posts", testutils.WithUser(testUserID, "USER", CreatePost))

	content := strings.Repeat("a", 250)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts", map[string]interface{}{
		"title":   "A long day",
		"content": content,
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "A long day "+content, fake.LastPrompt)

	var post map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, float64(7), post["id"])
	assert.Equal(t, strings.Repeat("a", 200)+"...", post["excerpt"])
	assert.Equal(t, testUserID, post["authorId"])
}

func TestCreatePost_CreatesMissingTags(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	testutils.UseAssistant(t, &testutils.FakeAssistant{})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"."name" = \$1 ORDER BY "tags"."id" LIMIT \$2`).
		WithArgs("anxiety", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}))
	mock.ExpectQuery(`INSERT INTO "tags" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`INSERT INTO "posts" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "tags" (.+) ON CONFLICT (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO "post_tags" (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/posts", testutils.WithUser(testUserID, "USER", CreatePost))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts", map[string]interface{}{
		"title":       "Exam stress",
		"content":     "Any tips?",
		"isAnonymous": true,
		"tags":        []string{"anxiety", " anxiety ", ""},
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreatePost_Flagged(t *testing.T) {
	testutils.UseAssistant(t, &testutils.FakeAssistant{Flagged: true})

	r := testutils.SetupTestRouter()
	r.POST("/posts", testutils.WithUser(testUserID, "USER", CreatePost))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts", map[string]interface{}{
		"title":   "bad",
		"content": "worse",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Content violates community guidelines", messageOf(t, w))
}

func TestCreatePost_MissingTitle(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/posts", testutils.WithUser(testUserID, "USER", CreatePost))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts", map[string]interface{}{"content": "no title"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePost_Unauthorized(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/posts", CreatePost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts", map[string]interface{}{"title": "t", "content": "c"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeletePost_ByAuthor(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND author_id = \$2 ORDER BY "posts"."id" LIMIT \$3`).
		WithArgs(7, testUserID, 1).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(7, "Mine", "Body", "Body", testUserID, false, 0, 0, now, now))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "post_votes" WHERE post_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "comments" WHERE post_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "post_tags" WHERE (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "posts" WHERE "posts"."id" = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.DELETE("/posts/:id", testutils.WithUser(testUserID, "USER", DeletePost))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/posts/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", messageOf(t, w))
}

func TestDeletePost_NotAuthor(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND author_id = \$2`).
		WithArgs(7, otherUserID, 1).
		WillReturnRows(sqlmock.NewRows(postColumns))

	r := testutils.SetupTestRouter()
	r.DELETE("/posts/:id", testutils.WithUser(otherUserID, "USER", DeletePost))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/posts/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to delete this post", messageOf(t, w))
}

func TestGetSuggestions(t *testing.T) {
	testutils.UseAssistant(t, &testutils.FakeAssistant{Suggestions: []string{"How I sleep better", "Small wins"}})

	r := testutils.SetupTestRouter()
	r.POST("/posts/suggestions", testutils.WithUser(testUserID, "USER", GetSuggestions))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts/suggestions", map[string]interface{}{"tags": []string{"sleep"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestions":["How I sleep better","Small wins"]}`, w.Body.String())
}

func TestGetSuggestions_NoneAvailable(t *testing.T) {
	testutils.UseAssistant(t, &testutils.FakeAssistant{})

	r := testutils.SetupTestRouter()
	r.POST("/posts/suggestions", testutils.WithUser(testUserID, "USER", GetSuggestions))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts/suggestions", map[string]interface{}{"tags": []string{"sleep"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, w.Body.String())
}

func TestGetSuggestions_NoTags(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/posts/suggestions", testutils.WithUser(testUserID, "USER", GetSuggestions))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/posts/suggestions", map[string]interface{}{"tags": []string{}}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
