package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping_back_end_go/models"
)

var (
	profileCols = []string{"id", "email", "username", "display_name"}
	shareCols   = []string{"id", "list_id", "shared_with", "shared_by", "permission", "created_at"}
)

func expectFindProfile(mock pgxmock.PgxPoolIface, identifier string) *pgxmock.ExpectedQuery {
	return mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).WithArgs(identifier)
}

func expectExistingShare(mock pgxmock.PgxPoolIface, listID, userID string) *pgxmock.ExpectedQuery {
	return mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM list_shares WHERE list_id = $1 AND shared_with = $2")).
		WithArgs(listID, userID)
}

func TestShareList(t *testing.T) {
	mock, svc, notifier := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	expectFindProfile(mock, "dana@example.com").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow("u2", "dana@example.com", "dana", "Dana"))
	expectExistingShare(mock, "l1", "u2").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO list_shares")).
		WithArgs("l1", "u2", "u1", "edit").
		WillReturnRows(pgxmock.NewRows(shareCols).AddRow("s1", "l1", "u2", "u1", "edit", created))

	share, err := svc.ShareList(context.Background(), "u1", "l1", "dana@example.com", models.PermissionEdit)
	require.NoError(t, err)
	assert.Equal(t, "s1", share.ID)
	assert.Equal(t, "u2", share.SharedWith)
	assert.Equal(t, "edit", share.Permission)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, ShareNotice{
		RecipientEmail: "dana@example.com",
		RecipientName:  "Dana",
		ListName:       DefaultListName,
		Permission:     "edit",
	}, notifier.notices[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareListRefusesDuplicate(t *testing.T) {
	mock, svc, notifier := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	expectFindProfile(mock, "dana").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow("u2", "dana@example.com", "dana", ""))
	expectExistingShare(mock, "l1", "u2").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("s1"))

	_, err := svc.ShareList(context.Background(), "u1", "l1", "dana", models.PermissionView)
	assert.ErrorIs(t, err, ErrAlreadyShared)
	assert.Empty(t, notifier.notices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareListUniqueViolationIsDuplicate(t *testing.T) {
	mock, svc, _ := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	expectFindProfile(mock, "dana").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow("u2", "dana@example.com", "dana", ""))
	expectExistingShare(mock, "l1", "u2").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO list_shares")).
		WithArgs("l1", "u2", "u1", "view").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := svc.ShareList(context.Background(), "u1", "l1", "dana", models.PermissionView)
	assert.ErrorIs(t, err, ErrAlreadyShared)
}

func TestShareListUnknownUser(t *testing.T) {
	mock, svc, _ := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	expectFindProfile(mock, "nobody").WillReturnError(pgx.ErrNoRows)

	_, err := svc.ShareList(context.Background(), "u1", "l1", "nobody", models.PermissionView)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareListWithSelf(t *testing.T) {
	mock, svc, _ := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	expectFindProfile(mock, "me").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow("u1", "me@example.com", "me", ""))

	_, err := svc.ShareList(context.Background(), "u1", "l1", "me", models.PermissionView)
	assert.ErrorIs(t, err, ErrSelfShare)
}

func TestShareListInvalidPermission(t *testing.T) {
	mock, svc, _ := newTestService(t)

	_, err := svc.ShareList(context.Background(), "u1", "l1", "dana", "admin")
	assert.ErrorIs(t, err, ErrInvalidPermission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareListNotOwner(t *testing.T) {
	mock, svc, _ := newTestService(t)

	expectAuthorize(mock, "l1", "u2", "u1", false, "edit")

	_, err := svc.ShareList(context.Background(), "u2", "l1", "dana", models.PermissionView)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestShareListNotificationFailureDoesNotFail(t *testing.T) {
	mock, svc, notifier := newTestService(t)
	notifier.err = errors.New("smtp down")

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	expectFindProfile(mock, "dana").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow("u2", "dana@example.com", "dana", ""))
	expectExistingShare(mock, "l1", "u2").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO list_shares")).
		WithArgs("l1", "u2", "u1", "view").
		WillReturnRows(pgxmock.NewRows(shareCols).AddRow("s1", "l1", "u2", "u1", "view", created))

	_, err := svc.ShareList(context.Background(), "u1", "l1", "dana", models.PermissionView)
	require.NoError(t, err)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "dana", notifier.notices[0].RecipientName)
}

func TestListShares(t *testing.T) {
	mock, svc, _ := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM list_shares WHERE list_id = $1 ORDER BY created_at ASC")).
		WithArgs("l1").
		WillReturnRows(pgxmock.NewRows(shareCols).
			AddRow("s1", "l1", "u2", "u1", "view", created).
			AddRow("s2", "l1", "u3", "u1", "edit", created))

	shares, err := svc.ListShares(context.Background(), "u1", "l1")
	require.NoError(t, err)
	assert.Len(t, shares, 2)
}

func TestRevokeShare(t *testing.T) {
	mock, svc, _ := newTestService(t)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM list_shares WHERE id = $1 AND list_id = $2 RETURNING shared_with")).
		WithArgs("s1", "l1").
		WillReturnRows(pgxmock.NewRows([]string{"shared_with"}).AddRow("u2"))
	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM list_shares")).
		WithArgs("s1", "l1").
		WillReturnError(pgx.ErrNoRows)

	require.NoError(t, svc.RevokeShare(context.Background(), "u1", "l1", "s1"))
	assert.ErrorIs(t, svc.RevokeShare(context.Background(), "u1", "l1", "s1"), ErrShareNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeShareDisconnectsSharee(t *testing.T) {
	mock, svc, _ := newTestService(t)

	owner := newClient("l1", "u1", nil)
	sharee := newClient("l1", "u2", nil)
	svc.Hub().subscribe(owner)
	svc.Hub().subscribe(sharee)

	expectAuthorize(mock, "l1", "u1", "u1", false, "")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM list_shares")).
		WithArgs("s1", "l1").
		WillReturnRows(pgxmock.NewRows([]string{"shared_with"}).AddRow("u2"))

	require.NoError(t, svc.RevokeShare(context.Background(), "u1", "l1", "s1"))
	assert.Equal(t, 1, svc.Hub().Subscribers("l1"))

	svc.Hub().Publish("l1", Event{Type: EventItemAdded})
	_, open := <-sharee.send
	assert.False(t, open, "revoked user must not receive further events")
	assert.Len(t, owner.send, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProfilePrefersEmailMatch(t *testing.T) {
	mock, svc, _ := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY (LOWER(email) = LOWER($1)) DESC")).
		WithArgs("dana@example.com").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow("u2", "dana@example.com", "dana", ""))

	p, err := svc.findProfile(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharedWithMe(t *testing.T) {
	mock, svc, _ := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.shared_with = $1")).
		WithArgs("u2").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_by", "archived", "created_at", "permission", "shared_by"}).
			AddRow("l1", DefaultListName, "u1", false, created, "edit", "u1"))

	lists, err := svc.SharedWithMe(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "l1", lists[0].ID)
	assert.Equal(t, "edit", lists[0].Permission)
	assert.Equal(t, "u1", lists[0].SharedBy)
}

func TestShareMessage(t *testing.T) {
	subject, plain, body := shareMessage(ShareNotice{RecipientName: "<Dana>", ListName: "BBQ", Permission: "edit"})
	assert.Contains(t, subject, "BBQ")
	assert.Contains(t, plain, "view and edit")
	assert.Contains(t, body, "&lt;Dana&gt;")
}
