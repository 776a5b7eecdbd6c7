package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsip/procurement-maturity/internal/model"
)

func user(email string, scores ...int) model.UserRecord {
	u := model.UserRecord{
		Name:      "User " + email,
		Email:     email,
		Theme:     model.SourceToPay,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	for _, s := range scores {
		u.Responses = append(u.Responses, model.Response{
			Theme: model.SourceToPay, Area: "Strategic Sourcing", Question: "Q", SelectedText: "x", Score: s,
		})
	}
	return u
}

// exercise runs the same contract against each store implementation.
func exercise(t *testing.T, s Store) {
	ctx := context.Background()

	org, err := s.LoadOrganization(ctx, "Acme Corp")
	require.NoError(t, err)
	assert.Nil(t, org)

	require.NoError(t, s.SaveUser(ctx, "Acme Corp", user("ann@acme.test", 4)))
	require.NoError(t, s.SaveUser(ctx, "Acme Corp", user("bob@acme.test", 2)))
	// identical resubmission replaces, never appends
	require.NoError(t, s.SaveUser(ctx, "Acme Corp", user("ann@acme.test", 4)))
	require.NoError(t, s.SaveUser(ctx, "Acme Corp", user("ann@acme.test", 4)))

	org, err = s.LoadOrganization(ctx, "Acme Corp")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "Acme Corp", org.Name)
	require.Len(t, org.Users, 2)
	assert.Equal(t, "bob@acme.test", org.Users[0].Email)
	assert.Equal(t, "ann@acme.test", org.Users[1].Email)
	assert.Equal(t, "Strategic Sourcing", org.Users[1].Responses[0].Area)
	assert.True(t, org.Users[1].Timestamp.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	// a changed answer replaces the earlier one
	require.NoError(t, s.SaveUser(ctx, "Acme Corp", user("bob@acme.test", 5, 5)))
	org, err = s.LoadOrganization(ctx, "Acme Corp")
	require.NoError(t, err)
	require.Len(t, org.Users, 2)
	assert.Len(t, org.Users[1].Responses, 2)

	require.NoError(t, s.SaveUser(ctx, "Beta/Labs", user("cy@beta.test", 3)))
	names, err := s.Organizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Beta/Labs"}, names)

	assert.Equal(t, ErrEmptyOrganization, s.SaveUser(ctx, "  ", user("x@y.test", 1)))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)

	_, err = os.Stat(filepath.Join(dir, "Acme_Corp.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Beta-Labs.json"))
	assert.NoError(t, err)
}

func TestFileStoreReadsLegacyDocuments(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"organization": "Old Co", "users": [{"name": "A", "email": "a@old.test", "designation": "buyer",
		"theme": "Procurement Performance", "timestamp": "2025-07-20T12:30:45.123456",
		"responses": [{"question": "Q", "response": "R", "score": 3, "focus_area": "Reporting"}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Old_Co.json"), []byte(legacy), 0644))

	s, err := NewFile(dir)
	require.NoError(t, err)
	org, err := s.LoadOrganization(context.Background(), "Old Co")
	require.NoError(t, err)
	require.Len(t, org.Users, 1)
	assert.Equal(t, "Reporting", org.Users[0].Responses[0].Area)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bad.json"), []byte(`{"users": [`), 0644))

	s, err := NewFile(dir)
	require.NoError(t, err)
	_, err = s.LoadOrganization(context.Background(), "Bad")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedis(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
	assert.True(t, mr.Exists(redisPrefix+"Acme_Corp"))
}

func TestRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "Acme_Corp", Key(" Acme Corp "))
	assert.Equal(t, "A-B_C", Key("A/B C"))
}
