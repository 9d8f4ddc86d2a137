package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cruisedesk/internal/model"
)

type fakeBackend struct {
	loginErr  error
	logoutErr error
	checkUser *model.AuthUser
	checkErr  error
	calls     []string
}

func (f *fakeBackend) Login(ctx context.Context, creds model.Credentials) error {
	f.calls = append(f.calls, "login")
	return f.loginErr
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.logoutErr
}

func (f *fakeBackend) Check(ctx context.Context) (*model.AuthUser, error) {
	f.calls = append(f.calls, "check")
	return f.checkUser, f.checkErr
}

var admin = &model.AuthUser{ID: "1", Email: "admin@example.com", FullName: "Admin", Role: model.RoleAdmin}

func TestStartsChecking(t *testing.T) {
	s := New(&fakeBackend{})
	assert.Equal(t, StateChecking, s.State())
	assert.Nil(t, s.User())
	assert.False(t, s.IsAuthenticated())
}

func TestCheck(t *testing.T) {
	b := &fakeBackend{checkUser: admin}
	s := New(b)
	assert.Equal(t, admin, s.Check(context.Background()))
	assert.Equal(t, StateAuthenticated, s.State())

	b.checkUser, b.checkErr = nil, errors.New("401")
	assert.Nil(t, s.Check(context.Background()))
	assert.Equal(t, StateUnauthenticated, s.State())
}

func TestCheckRejectsUnknownRole(t *testing.T) {
	s := New(&fakeBackend{checkUser: &model.AuthUser{ID: "2", Role: "Captain"}})
	assert.Nil(t, s.Check(context.Background()))
	assert.Equal(t, StateUnauthenticated, s.State())
}

func TestLoginChecksAfterwards(t *testing.T) {
	b := &fakeBackend{checkUser: admin}
	s := New(b)

	user, err := s.Login(context.Background(), model.Credentials{UserName: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, admin, user)
	assert.Equal(t, []string{"login", "check"}, b.calls)
	assert.True(t, s.IsAuthenticated())
}

func TestLoginFailsWhenCheckYieldsNobody(t *testing.T) {
	b := &fakeBackend{checkErr: errors.New("cookie not accepted")}
	s := New(b)

	_, err := s.Login(context.Background(), model.Credentials{UserName: "a", Password: "b"})
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, StateUnauthenticated, s.State())
}

func TestLoginBackendError(t *testing.T) {
	b := &fakeBackend{loginErr: errors.New("invalid credentials"), checkUser: admin}
	s := New(b)

	_, err := s.Login(context.Background(), model.Credentials{UserName: "a", Password: "b"})
	assert.EqualError(t, err, "invalid credentials")
	assert.Equal(t, []string{"login"}, b.calls, "no check after a rejected login")
	assert.False(t, s.IsAuthenticated())
}

func TestLogoutClearsEvenOnError(t *testing.T) {
	b := &fakeBackend{checkUser: admin, logoutErr: errors.New("backend down")}
	s := New(b)
	s.Check(context.Background())
	require.True(t, s.IsAuthenticated())

	err := s.Logout(context.Background())
	assert.Error(t, err)
	assert.Nil(t, s.User())
	assert.Equal(t, StateUnauthenticated, s.State())
}
