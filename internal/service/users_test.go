package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/storage"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserByID_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	st.EXPECT().UserByID(gomock.Any(), uid).Return(&models.User{ID: uid, Username: "alice"}, nil)

	user, err := svc.UserByID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, uid, user.ID)
}

func TestUserByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	st.EXPECT().UserByID(gomock.Any(), uid).Return(nil, storage.ErrNotFound)

	_, err := svc.UserByID(context.Background(), uid)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile_OK_NormalizesEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	st.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
			require.NotNil(t, upd.Email)
			require.Equal(t, "alice@example.com", *upd.Email)
			require.NotNil(t, upd.FullName)
			return &models.User{
				ID:       uid,
				Username: "alice",
				FullName: *upd.FullName,
				Email:    *upd.Email,
			}, nil
		})

	user, err := svc.UpdateProfile(context.Background(), uid, models.ProfileUpdate{
		FullName: strPtr("Alice Liddell"),
		Email:    strPtr("  Alice@Example.COM "),
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "Alice Liddell", user.FullName)
}

func TestUpdateProfile_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	for _, email := range []string{"not-an-email", "a@", "@b", "a b@c.d"} {
		_, err := svc.UpdateProfile(context.Background(), uuid.New(), models.ProfileUpdate{
			Email: strPtr(email),
		})
		require.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
}

func TestUpdateProfile_EmptyUpdate(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), models.ProfileUpdate{})
	require.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	st.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Any()).Return(nil, storage.ErrNotFound)

	_, err := svc.UpdateProfile(context.Background(), uid, models.ProfileUpdate{Phone: strPtr("+100200300")})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile_ClearField(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()

	// Пустая строка в указателе означает явную очистку поля;
	// пустой email при этом не проходит через нормализацию.
	st.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
			require.NotNil(t, upd.Email)
			require.Empty(t, *upd.Email)
			return &models.User{ID: uid, Username: "alice"}, nil
		})

	user, err := svc.UpdateProfile(context.Background(), uid, models.ProfileUpdate{Email: strPtr("")})
	require.NoError(t, err)
	require.Empty(t, user.Email)
}

func TestUpdateProfile_StorageError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	st.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.UpdateProfile(context.Background(), uid, models.ProfileUpdate{Phone: strPtr("+100200300")})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUserNotFound)
}
