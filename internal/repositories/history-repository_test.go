package repositories

import (
	"context"
	"log"
	"os"
	"testing"

	"family-registry/internal/entities"
	"family-registry/pkg/database/postgresql"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPool *pgxpool.Pool

// TestMain поднимает схему в тестовой БД, если задан TEST_DATABASE_URL.
// Без него интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		sqlDB, err := postgresql.OpenSQL(dsn)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		if err := postgresql.Migrate(sqlDB); err != nil {
			log.Fatalf("Не удалось применить миграции: %v", err)
		}
		sqlDB.Close()

		testPool, err = postgresql.ConnectDB(context.Background(), dsn)
		if err != nil {
			log.Fatalf("Не удалось создать пул: %v", err)
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE history_records, documents, support_measures, family_members, families, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedFamily(t *testing.T, caseNumber string) *entities.Family {
	t.Helper()
	f := &entities.Family{
		CaseNumber: caseNumber,
		FamilyName: "Ахметовы",
		Address:    "ул. Абая, 1",
		Region:     "Алматинская область",
		District:   "Карасайский",
		RiskLevel:  entities.RiskMedium,
		IsActive:   true,
	}
	repo := NewFamilyRepository(testPool, zap.NewNop())
	require.NoError(t, repo.CreateInTx(context.Background(), nil, f))
	return f
}

func TestHistoryRepository_Integration_AppendAndList(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	ctx := context.Background()
	family := seedFamily(t, "ТЖС-001")
	repo := NewHistoryRepository(testPool)

	first := &entities.HistoryRecord{FamilyID: family.ID, Action: entities.ActionCreated, Description: "Семья добавлена", UserName: "Админ"}
	require.NoError(t, repo.CreateInTx(ctx, nil, first))

	err := NewTxManager(testPool).RunInTransaction(ctx, func(tx pgx.Tx) error {
		return repo.CreateInTx(ctx, tx, &entities.HistoryRecord{
			FamilyID: family.ID, Action: entities.ActionDataUpdated, Description: "Изменён адрес",
			Details: []byte(`{"field":"address"}`), UserName: "Админ",
		})
	})
	require.NoError(t, err)

	records, err := repo.ListByFamily(ctx, family.ID, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, entities.ActionDataUpdated, records[0].Action, "новая запись идёт первой")
	assert.JSONEq(t, `{"field":"address"}`, string(records[0].Details))

	page, total, err := repo.ListAll(ctx, 1, 0, "адрес")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, 1, types.PageCount(total, 1))

	require.NoError(t, repo.Delete(ctx, records[1].ID))
	assert.ErrorIs(t, repo.Delete(ctx, records[1].ID), apperrors.ErrNotFound)
}

func TestFamilyRepository_Integration_DuplicateCaseAndCascade(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	ctx := context.Background()
	family := seedFamily(t, "ТЖС-002")
	repo := NewFamilyRepository(testPool, zap.NewNop())

	dup := *family
	dup.ID = 0
	assert.ErrorIs(t, repo.CreateInTx(ctx, nil, &dup), apperrors.ErrConflict)

	members := NewFamilyMemberRepository(testPool)
	require.NoError(t, members.Create(ctx, &entities.FamilyMember{
		FamilyID: family.ID, LastName: "Ахметов", FirstName: "Нурлан", Relation: entities.RelationChild,
	}))

	list, total, err := repo.List(ctx, types.Filter{Filter: map[string]interface{}{"status": "active"}}, "Карасайский")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, list, 1)

	_, total, err = repo.List(ctx, types.Filter{}, "Талгарский")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)

	require.NoError(t, NewTxManager(testPool).RunInTransaction(ctx, func(tx pgx.Tx) error {
		return repo.DeleteInTx(ctx, tx, family.ID)
	}))
	left, err := members.ListByFamily(ctx, family.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestHistoryRepository_Integration_MemberDeleteKeepsRecords(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	ctx := context.Background()
	family := seedFamily(t, "ТЖС-003")
	members := NewFamilyMemberRepository(testPool)
	repo := NewHistoryRepository(testPool)

	member := &entities.FamilyMember{FamilyID: family.ID, LastName: "Ахметова", FirstName: "Алия", Relation: entities.RelationChild}
	require.NoError(t, members.Create(ctx, member))

	for _, action := range []entities.HistoryAction{entities.ActionMemberAdded, entities.ActionMemberUpdated} {
		require.NoError(t, repo.CreateInTx(ctx, nil, &entities.HistoryRecord{
			FamilyID: family.ID, MemberID: &member.ID, Action: action, Description: string(action), UserName: "Админ",
		}))
	}
	before, err := repo.ListByFamily(ctx, family.ID, &member.ID)
	require.NoError(t, err)
	require.Len(t, before, 2)

	require.NoError(t, members.Delete(ctx, member.ID))

	after, err := repo.ListByFamily(ctx, family.ID, &member.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
