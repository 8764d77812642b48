package votes

import (
	"context"
	"errors"
	"testing"

	"mindful-backend/models"
	"mindful-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID = "abc12345-e89b-12d3-a456-426614174000"
	testPostID = uint(10)
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	m.Run()
}

func expectLockedPost(mock sqlmock.Sqlmock, votes int) {
	mock.ExpectQuery(`SELECT (.+) FROM "posts" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "votes"}).AddRow(testPostID, votes))
}

func expectExistingVote(mock sqlmock.Sqlmock, id uint, voteType models.VoteType) {
	rows := sqlmock.NewRows([]string{"id", "user_id", "post_id", "vote_type"})
	if voteType != None {
		rows.AddRow(id, testUserID, testPostID, string(voteType))
	}
	mock.ExpectQuery(`SELECT \* FROM "post_votes" WHERE user_id = \$1 AND post_id = \$2 LIMIT \$3`).
		WithArgs(testUserID, testPostID, 1).
		WillReturnRows(rows)
}

func expectTally(mock sqlmock.Sqlmock, delta int) {
	mock.ExpectExec(`UPDATE "posts" SET "votes"=votes \+ \$1 WHERE id = \$2`).
		WithArgs(delta, testPostID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestCastVote_FirstVoteInserts(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, 0)
	expectExistingVote(mock, 0, None)
	mock.ExpectQuery(`INSERT INTO "post_votes" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectTally(mock, 1)
	mock.ExpectCommit()

	result, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, ActionInsert, result.Action)
	assert.Equal(t, models.VoteUp, result.Vote)
	assert.Equal(t, 1, result.Votes)
}

func TestCastVote_FirstDownVote(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, 0)
	expectExistingVote(mock, 0, None)
	mock.ExpectQuery(`INSERT INTO "post_votes" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	expectTally(mock, -1)
	mock.ExpectCommit()

	result, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, result.Votes)
	assert.Equal(t, models.VoteDown, result.Vote)
}

func TestCastVote_SameTypeTogglesOff(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, 1)
	expectExistingVote(mock, 7, models.VoteUp)
	mock.ExpectExec(`DELETE FROM "post_votes" WHERE "post_votes"."id" = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectTally(mock, -1)
	mock.ExpectCommit()

	result, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, result.Action)
	assert.Equal(t, None, result.Vote)
	assert.Equal(t, 0, result.Votes)
}

func TestCastVote_DownToggleOffRestoresTally(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, -1)
	expectExistingVote(mock, 8, models.VoteDown)
	mock.ExpectExec(`DELETE FROM "post_votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectTally(mock, 1)
	mock.ExpectCommit()

	result, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Votes)
}

func TestCastVote_OppositeTypeFlips(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, 1)
	expectExistingVote(mock, 7, models.VoteUp)
	mock.ExpectExec(`UPDATE "post_votes" SET "vote_type"=\$1 WHERE "id" = \$2`).
		WithArgs("down", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectTally(mock, -2)
	mock.ExpectCommit()

	result, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, ActionFlip, result.Action)
	assert.Equal(t, models.VoteDown, result.Vote)
	assert.Equal(t, -1, result.Votes)
}

func TestCastVote_FlipToUp(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, -3)
	expectExistingVote(mock, 9, models.VoteDown)
	mock.ExpectExec(`UPDATE "post_votes" SET "vote_type"=\$1`).
		WithArgs("up", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectTally(mock, 2)
	mock.ExpectCommit()

	result, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, -1, result.Votes)
}

func TestCastVote_PostNotFound(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "posts" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "votes"}))
	mock.ExpectRollback()

	_, err := CastVote(context.Background(), gormDB, testUserID, 404, models.VoteUp)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCastVote_TallyFailureRollsBack(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, 0)
	expectExistingVote(mock, 0, None)
	mock.ExpectQuery(`INSERT INTO "post_votes" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET "votes"=votes \+ \$1`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteUp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCastVote_FlipFailureRollsBack(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	expectLockedPost(mock, 2)
	expectExistingVote(mock, 7, models.VoteUp)
	mock.ExpectExec(`UPDATE "post_votes" SET "vote_type"=\$1 WHERE "id" = \$2`).
		WithArgs("down", 7).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := CastVote(context.Background(), gormDB, testUserID, testPostID, models.VoteDown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCastVote_ValidatesInput(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	_, err := CastVote(context.Background(), gormDB, "", testPostID, models.VoteUp)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = CastVote(context.Background(), gormDB, testUserID, testPostID, "sideways")
	assert.ErrorIs(t, err, ErrInvalidVoteType)
}

func TestFindVote(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectExistingVote(mock, 3, models.VoteDown)
	vote, err := FindVote(context.Background(), gormDB, testUserID, testPostID)
	require.NoError(t, err)
	require.NotNil(t, vote)
	assert.Equal(t, models.VoteDown, vote.VoteType)

	expectExistingVote(mock, 0, None)
	vote, err = FindVote(context.Background(), gormDB, testUserID, testPostID)
	require.NoError(t, err)
	assert.Nil(t, vote)
}
