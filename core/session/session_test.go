package session_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classwork/core/session"
	"github.com/trezcool/classwork/core/user"
	"github.com/trezcool/classwork/storage/session/inmem"
)

var teacher = user.User{ID: "t1", Name: "Teacher", Email: "teacher@test.cd", Role: user.RoleTeacher}

func TestStore_Lifecycle(t *testing.T) {
	storage := inmemsession.New()
	store, err := session.NewStore(storage)
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated(), "empty storage means unauthenticated")
	assert.Empty(t, store.Token())

	var reasons []session.Reason
	store.OnLogout(func(r session.Reason) { reasons = append(reasons, r) })

	require.NoError(t, store.Login(teacher, "tok"))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok", store.Token())
	usr, ok := store.User()
	assert.True(t, ok)
	assert.Equal(t, teacher, usr)

	// persisted
	saved, ok, err := storage.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, session.Session{User: teacher, Token: "tok"}, saved)

	// restored by a new store
	restored, err := session.NewStore(storage)
	require.NoError(t, err)
	assert.Equal(t, "tok", restored.Token())

	require.NoError(t, store.Logout())
	assert.False(t, store.IsAuthenticated())
	_, ok, err = storage.Load()
	require.NoError(t, err)
	assert.False(t, ok, "logout must clear durable storage")

	require.NoError(t, store.Login(teacher, "tok2"))
	require.NoError(t, store.Expire())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []session.Reason{session.LoggedOut, session.Expired}, reasons)
	assert.Equal(t, "expired", session.Expired.String())
}

type brokenStorage struct {
	loadErr, saveErr, clearErr error
}

func (b brokenStorage) Load() (session.Session, bool, error) {
	return session.Session{}, false, b.loadErr
}
func (b brokenStorage) Save(session.Session) error { return b.saveErr }
func (b brokenStorage) Clear() error               { return b.clearErr }

func TestStore_StorageErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := session.NewStore(brokenStorage{loadErr: boom})
	assert.Error(t, err)

	store, err := session.NewStore(brokenStorage{saveErr: boom})
	require.NoError(t, err)
	assert.Error(t, store.Login(teacher, "tok"))
	assert.False(t, store.IsAuthenticated(), "unsaved session must not be used")

	store, err = session.NewStore(brokenStorage{clearErr: boom})
	require.NoError(t, err)
	require.NoError(t, store.Login(teacher, "tok"))
	var called bool
	store.OnLogout(func(session.Reason) { called = true })
	assert.Error(t, store.Logout())
	assert.False(t, store.IsAuthenticated(), "memory is cleared even if storage fails")
	assert.True(t, called)
}

func TestStore_LoginOverAnotherUser(t *testing.T) {
	store, err := session.NewStore(inmemsession.New())
	require.NoError(t, err)
	var reasons []session.Reason
	store.OnLogout(func(r session.Reason) {
		reasons = append(reasons, r)
		assert.NotEqual(t, "tok-other", store.Token(), "listeners run before the new session is visible")
	})

	require.NoError(t, store.Login(teacher, "tok"))
	require.NoError(t, store.Login(teacher, "tok-renewed"))
	assert.Empty(t, reasons, "same user re-login keeps the stores")

	other := user.User{ID: "t2", Name: "Other", Email: "other@test.cd", Role: user.RoleTeacher}
	require.NoError(t, store.Login(other, "tok-other"))
	assert.Equal(t, []session.Reason{session.Replaced}, reasons)
	assert.Equal(t, "replaced", session.Replaced.String())
	usr, _ := store.User()
	assert.Equal(t, other, usr)
}

func TestStore_ExpireIf(t *testing.T) {
	storage := inmemsession.New()
	store, err := session.NewStore(storage)
	require.NoError(t, err)
	var reasons []session.Reason
	store.OnLogout(func(r session.Reason) { reasons = append(reasons, r) })

	expired, err := store.ExpireIf("tok")
	require.NoError(t, err)
	assert.False(t, expired, "nothing to expire")

	require.NoError(t, store.Login(teacher, "tok-new"))
	expired, err = store.ExpireIf("tok-old")
	require.NoError(t, err)
	assert.False(t, expired)
	assert.True(t, store.IsAuthenticated(), "a stale token leaves the current session alone")
	_, ok, err := storage.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reasons)

	expired, err = store.ExpireIf("tok-new")
	require.NoError(t, err)
	assert.True(t, expired)
	assert.False(t, store.IsAuthenticated())
	_, ok, err = storage.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []session.Reason{session.Expired}, reasons)
}
