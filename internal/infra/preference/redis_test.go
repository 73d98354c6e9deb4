package preference_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/infra/preference"
)

func TestRedisStore_Load(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m redismock.ClientMock)
		want    *pagination.Preference
		wantErr bool
	}{
		{
			name: "stored preference",
			setup: func(m redismock.ClientMock) {
				m.ExpectGet("forum:pref:sid-1:questions").SetVal(`{"sort":"votes","pagesize":50}`)
			},
			want: &pagination.Preference{SortKey: "votes", PageSize: 50},
		},
		{
			name: "nothing stored",
			setup: func(m redismock.ClientMock) {
				m.ExpectGet("forum:pref:sid-1:questions").RedisNil()
			},
			want: nil,
		},
		{
			name: "corrupt value",
			setup: func(m redismock.ClientMock) {
				m.ExpectGet("forum:pref:sid-1:questions").SetVal(`{not json`)
			},
			wantErr: true,
		},
		{
			name: "connection error",
			setup: func(m redismock.ClientMock) {
				m.ExpectGet("forum:pref:sid-1:questions").SetErr(errors.New("dial tcp: refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setup(mock)

			store := preference.NewRedisStore(client, time.Hour)
			got, err := store.Load(context.Background(), "sid-1", "questions")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisStore_Save(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectSet("forum:pref:sid-2:answers", []byte(`{"sort":"oldest","pagesize":20}`), 720*time.Hour).SetVal("OK")

	store := preference.NewRedisStore(client, 720*time.Hour)
	err := store.Save(context.Background(), "sid-2", "answers", pagination.Preference{SortKey: "oldest", PageSize: 20})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SaveError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectSet("forum:pref:sid-2:answers", []byte(`{"sort":"oldest","pagesize":20}`), 0).SetErr(errors.New("READONLY"))

	store := preference.NewRedisStore(client, -1)
	err := store.Save(context.Background(), "sid-2", "answers", pagination.Preference{SortKey: "oldest", PageSize: 20})
	assert.ErrorContains(t, err, "READONLY")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := preference.NewRedisClient(context.Background(), "", "", 0)
	assert.NoError(t, err)
	assert.Nil(t, client)
}
