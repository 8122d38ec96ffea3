package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tyrowin/boardchat/internal/mocks"
	"github.com/Tyrowin/boardchat/internal/store"
)

func newTestService(t *testing.T) (*Service, *mocks.MockUserStore) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockUserStore(ctrl)
	svc := NewService(mockStore, bcrypt.MinCost)
	svc.newToken = func() string { return "fixed-token" }
	return svc, mockStore
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should register and hash the password", func(t *testing.T) {
		req := require.New(t)
		svc, mockStore := newTestService(t)

		mockStore.EXPECT().
			CreateUser(gomock.Any(), "alice", gomock.Any(), "fixed-token").
			DoAndReturn(func(_ context.Context, _, hash, _ string) error {
				req.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
				return nil
			}).
			Times(1)

		grant, err := svc.Register(ctx, Credentials{Username: "alice", Password: "secret"})

		req.NoError(err)
		req.Equal(Grant{Token: "fixed-token", Username: "alice"}, grant)
	})

	t.Run("should reject invalid usernames without touching the store", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		for _, name := range []string{"", "ab", strings.Repeat("a", 21), "bad name", "semi;colon"} {
			_, err := svc.Register(ctx, Credentials{Username: name, Password: "secret"})
			require.ErrorIs(t, err, ErrInvalidUsername, "username %q", name)
		}
	})

	t.Run("should reject short passwords", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "abc"})
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("should reject passwords longer than 72 bytes", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		// 40 runes, 80 bytes.
		_, err := svc.Register(ctx, Credentials{Username: "alice", Password: strings.Repeat("é", 40)})
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("should map duplicates to ErrUsernameTaken", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().
			CreateUser(gomock.Any(), "alice", gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("insert user: %w", store.ErrDuplicate))

		_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "secret"})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("should wrap store failures", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		boom := errors.New("disk full")
		mockStore.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

		_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "secret"})
		require.ErrorIs(t, err, boom)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	alice := store.User{ID: 7, Username: "alice", PasswordHash: string(hash), Token: "old"}

	t.Run("should login and rotate the token", func(t *testing.T) {
		req := require.New(t)
		svc, mockStore := newTestService(t)

		gomock.InOrder(
			mockStore.EXPECT().UserByName(gomock.Any(), "alice").Return(alice, nil),
			mockStore.EXPECT().RotateToken(gomock.Any(), int64(7), "fixed-token").Return(nil),
		)

		grant, err := svc.Login(ctx, Credentials{Username: "alice", Password: "secret"})
		req.NoError(err)
		req.Equal(Grant{Token: "fixed-token", Username: "alice"}, grant)
	})

	t.Run("should fail with a wrong password", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().UserByName(gomock.Any(), "alice").Return(alice, nil)
		mockStore.EXPECT().RotateToken(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Login(ctx, Credentials{Username: "alice", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should fail for unknown users", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().UserByName(gomock.Any(), "bob").Return(store.User{}, store.ErrNotFound)

		_, err := svc.Login(ctx, Credentials{Username: "bob", Password: "secret"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should validate the username", func(t *testing.T) {
		svc, mockStore := newTestService(t)
		mockStore.EXPECT().UserByName(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Login(ctx, Credentials{Username: "x", Password: "secret"})
		require.ErrorIs(t, err, ErrInvalidUsername)
	})
}

func TestNewValidator(t *testing.T) {
	req := require.New(t)
	v := newValidator()

	req.NoError(v.Var("alice_01", "username"))
	req.Error(v.Var("bad name", "username"))
}
