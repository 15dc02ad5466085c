package items

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/accounts"
	"github.com/dmitrijs2005/lostfound/internal/testutil"
)

type fixture struct {
	db    *sql.DB
	repo  *SQLiteRepository
	users *accounts.SQLiteRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return &fixture{db: db, repo: NewSQLiteRepository(db), users: accounts.NewSQLiteRepository(db)}
}

func (f *fixture) account(t *testing.T, username string) models.AccountID {
	t.Helper()
	a, err := f.users.Create(context.Background(), &models.Account{
		Username: username, Email: username + "@example.com", PasswordHash: "h",
	})
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) report(t *testing.T, v models.Variant, owner models.AccountID, name, desc, loc string) models.ItemID {
	t.Helper()
	date, err := models.ParseDate("2025-03-14")
	require.NoError(t, err)
	it, err := f.repo.Create(context.Background(), &models.Item{
		Variant: v, OwnerID: owner, Name: name, Description: desc, Location: loc, Date: date,
	})
	require.NoError(t, err)
	return it.ID
}

func ids(views []models.ItemView) []models.ItemID {
	out := make([]models.ItemID, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestSQLite_CreateAndGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.account(t, "alice")

	date, _ := models.ParseDate("2025-03-14")
	before := time.Now().Add(-time.Second)
	it, err := f.repo.Create(ctx, &models.Item{
		Variant: models.Found, OwnerID: owner, Name: "Umbrella", Description: "black, folding",
		Location: "Library", Date: date, ContactInfo: "555-0100",
	})
	require.NoError(t, err)
	require.NotZero(t, it.ID)
	assert.True(t, it.CreatedAt.After(before))

	got, err := f.repo.GetByID(ctx, models.Found, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerUsername)
	assert.Equal(t, models.Found, got.Variant)
	assert.Equal(t, "Umbrella", got.Name)
	assert.Equal(t, "555-0100", got.ContactInfo)
	assert.Equal(t, "2025-03-14", got.Date.Format(models.DateLayout))
	assert.True(t, it.CreatedAt.Equal(got.CreatedAt))

	_, err = f.repo.GetByID(ctx, models.Lost, it.ID)
	require.ErrorIs(t, err, common.ErrNotFound, "variants are separate collections")
}

func TestSQLite_CreateUnknownOwner(t *testing.T) {
	f := newFixture(t)
	date, _ := models.ParseDate("2025-03-14")

	_, err := f.repo.Create(context.Background(), &models.Item{
		Variant: models.Lost, OwnerID: 404, Name: "n", Description: "d", Location: "l", Date: date,
	})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_UnknownVariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.Create(ctx, &models.Item{Variant: "stolen"})
	require.Error(t, err)
	_, err = f.repo.List(ctx, "stolen")
	require.Error(t, err)
	_, err = f.repo.GetByID(ctx, "stolen", 1)
	require.Error(t, err)
}

func TestSQLite_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "alice")

	first := f.report(t, models.Lost, alice, "Keys", "house keys", "Gym")
	second := f.report(t, models.Lost, alice, "Wallet", "brown leather", "Cafeteria")
	f.report(t, models.Found, alice, "Scarf", "red", "Bus stop")

	got, err := f.repo.List(context.Background(), models.Lost)
	require.NoError(t, err)
	assert.Equal(t, []models.ItemID{second, first}, ids(got))
}

func TestSQLite_ListEmpty(t *testing.T) {
	f := newFixture(t)
	got, err := f.repo.List(context.Background(), models.Found)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLite_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "alice")
	bob := f.account(t, "Bob")

	wallet := f.report(t, models.Lost, alice, "Purse", "lost my wallet", "Gym")
	phone := f.report(t, models.Lost, bob, "Phone", "cracked screen", "North Hall")
	apple := f.report(t, models.Lost, bob, "ÄPFEL", "lunch box", "Mensa")

	tests := []struct {
		name  string
		query string
		want  []models.ItemID
	}{
		{"description any case", "WALLET", []models.ItemID{wallet}},
		{"name", "phone", []models.ItemID{phone}},
		{"location", "north h", []models.ItemID{phone}},
		{"owner username", "bob", []models.ItemID{apple, phone}},
		{"non-ascii fold", "äpfel", []models.ItemID{apple}},
		{"no match", "zebra", []models.ItemID{}},
		{"empty matches all", "", []models.ItemID{apple, phone, wallet}},
		{"substring not word", "ack", []models.ItemID{phone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.repo.Search(ctx, models.Lost, tt.query)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, ids(got)))
		})
	}
}

func TestSQLite_SearchEmptyEqualsList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "alice")
	f.report(t, models.Found, alice, "Keys", "house keys", "Gym")
	f.report(t, models.Found, alice, "Gloves", "wool", "Library")

	listed, err := f.repo.List(ctx, models.Found)
	require.NoError(t, err)
	searched, err := f.repo.Search(ctx, models.Found, "")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(listed, searched))
}

func TestSQLite_SearchByOwnerNewestFirst(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "alice")

	t1 := f.report(t, models.Lost, alice, "Keys", "house keys", "Gym")
	t2 := f.report(t, models.Lost, alice, "Badge", "student id", "Lab")

	got, err := f.repo.Search(context.Background(), models.Lost, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.ItemID{t2, t1}, ids(got))
}

func TestSQLite_AccountDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "alice")
	bob := f.account(t, "bob")

	f.report(t, models.Lost, alice, "Keys", "house keys", "Gym")
	f.report(t, models.Found, alice, "Scarf", "red", "Bus stop")
	kept := f.report(t, models.Lost, bob, "Phone", "cracked", "Hall")

	require.NoError(t, f.users.Delete(ctx, alice))

	lost, err := f.repo.List(ctx, models.Lost)
	require.NoError(t, err)
	assert.Equal(t, []models.ItemID{kept}, ids(lost))

	found, err := f.repo.List(ctx, models.Found)
	require.NoError(t, err)
	assert.Empty(t, found)
}
