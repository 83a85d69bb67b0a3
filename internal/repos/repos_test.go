package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

// The production schema leans on Postgres defaults (uuid_generate_v4,
// now()), so the test schema is created by hand and every row gets
// explicit IDs and timestamps.
const testSchema = `
CREATE TABLE "user" (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE circuit (
	id TEXT PRIMARY KEY,
	owner_user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	subject TEXT NOT NULL,
	grade TEXT NOT NULL,
	teaching_styles TEXT,
	homework_policies TEXT,
	response_types TEXT,
	state_standard TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (owner_user_id) REFERENCES "user"(id) ON DELETE CASCADE
);
CREATE TABLE content_item (
	id TEXT PRIMARY KEY,
	circuit_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	kind TEXT NOT NULL,
	content TEXT,
	storage_key TEXT,
	archived BOOLEAN NOT NULL DEFAULT false,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (circuit_id) REFERENCES circuit(id) ON DELETE CASCADE
);
`

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// testFKDB enforces the foreign keys declared in the schema, which sqlite
// leaves off by default.
func testFKDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, "file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=1")
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func seedItem(circuitID uuid.UUID, title string, createdAt time.Time) *types.ContentItem {
	return &types.ContentItem{
		ID:        uuid.New(),
		CircuitID: circuitID,
		Title:     title,
		Kind:      types.ContentKindText,
		Content:   "body of " + title,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestContentItemListActiveOrdering(t *testing.T) {
	db := testDB(t)
	repo := NewContentItemRepo(db, testLogger(t))
	ctx := context.Background()
	circuitID := uuid.New()

	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	// Insert newest first to prove ordering comes from created_at,
	// not insertion order.
	for i, title := range []string{"third", "second", "first"} {
		item := seedItem(circuitID, title, base.Add(time.Duration(2-i)*time.Hour))
		if _, err := repo.Append(ctx, nil, item); err != nil {
			t.Fatalf("append %s: %v", title, err)
		}
	}

	items, err := repo.ListActive(ctx, nil, circuitID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 items got %d", len(items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if items[i].Title != want {
			t.Fatalf("position %d: want=%q got=%q", i, want, items[i].Title)
		}
	}
}

func TestContentItemArchiveExcludedFromActive(t *testing.T) {
	db := testDB(t)
	repo := NewContentItemRepo(db, testLogger(t))
	ctx := context.Background()
	circuitID := uuid.New()
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

	keep := seedItem(circuitID, "keep", now)
	drop := seedItem(circuitID, "drop", now.Add(time.Minute))
	for _, item := range []*types.ContentItem{keep, drop} {
		if _, err := repo.Append(ctx, nil, item); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	archived, err := repo.Archive(ctx, nil, drop.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !archived.Archived {
		t.Fatalf("archive did not set flag")
	}

	items, err := repo.ListActive(ctx, nil, circuitID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("archived item still listed: %+v", items)
	}

	// The row itself survives; archive is soft.
	got, err := repo.GetByID(ctx, nil, drop.ID)
	if err != nil {
		t.Fatalf("get archived: %v", err)
	}
	if got.Content != "body of drop" {
		t.Fatalf("archived row mutated: %q", got.Content)
	}
}

func TestContentItemArchiveMissing(t *testing.T) {
	db := testDB(t)
	repo := NewContentItemRepo(db, testLogger(t))

	_, err := repo.Archive(context.Background(), nil, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound got %v", err)
	}
}

func TestContentItemFullDeleteByCircuitID(t *testing.T) {
	db := testDB(t)
	repo := NewContentItemRepo(db, testLogger(t))
	ctx := context.Background()
	doomed := uuid.New()
	other := uuid.New()
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

	for _, item := range []*types.ContentItem{
		seedItem(doomed, "a", now),
		seedItem(doomed, "b", now.Add(time.Minute)),
		seedItem(other, "unrelated", now),
	} {
		if _, err := repo.Append(ctx, nil, item); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := repo.FullDeleteByCircuitID(ctx, nil, doomed); err != nil {
		t.Fatalf("full delete: %v", err)
	}

	var count int64
	if err := db.Model(&types.ContentItem{}).Where("circuit_id = ?", doomed).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("want 0 rows for deleted circuit got %d", count)
	}
	remaining, err := repo.ListActive(ctx, nil, other)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("unrelated circuit lost rows: %d", len(remaining))
	}
}

func TestCircuitRepoCreateGetList(t *testing.T) {
	db := testDB(t)
	repo := NewCircuitRepo(db, testLogger(t))
	ctx := context.Background()
	owner := uuid.New()
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"Algebra", "Biology"} {
		circuit := &types.Circuit{
			ID:          uuid.New(),
			OwnerUserID: owner,
			Name:        name,
			Subject:     name,
			Grade:       "7",
			CreatedAt:   now.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   now.Add(time.Duration(i) * time.Hour),
		}
		if _, err := repo.Create(ctx, nil, circuit); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	circuits, err := repo.GetByOwnerUserID(ctx, nil, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(circuits) != 2 {
		t.Fatalf("want 2 circuits got %d", len(circuits))
	}
	if circuits[0].Name != "Algebra" || circuits[1].Name != "Biology" {
		t.Fatalf("creation order not preserved: %q, %q", circuits[0].Name, circuits[1].Name)
	}

	got, err := repo.GetByID(ctx, nil, circuits[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Subject != "Algebra" {
		t.Fatalf("want subject=%q got=%q", "Algebra", got.Subject)
	}
}

func TestCircuitRepoUpdate(t *testing.T) {
	db := testDB(t)
	repo := NewCircuitRepo(db, testLogger(t))
	ctx := context.Background()
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)

	circuit := &types.Circuit{
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		Name:        "Algebra",
		Subject:     "Math",
		Grade:       "7",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := repo.Create(ctx, nil, circuit); err != nil {
		t.Fatalf("create: %v", err)
	}

	circuit.Grade = "8"
	if _, err := repo.Update(ctx, nil, circuit); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, circuit.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Grade != "8" {
		t.Fatalf("want grade=%q got=%q", "8", got.Grade)
	}
}

func TestCircuitRepoFullDelete(t *testing.T) {
	db := testDB(t)
	repo := NewCircuitRepo(db, testLogger(t))
	ctx := context.Background()
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)

	circuit := &types.Circuit{
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		Name:        "Algebra",
		Subject:     "Math",
		Grade:       "7",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := repo.Create(ctx, nil, circuit); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.FullDeleteByID(ctx, nil, circuit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, nil, circuit.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound got %v", err)
	}
}

func TestUserRepoGetOrCreateByEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepo(db, testLogger(t))
	ctx := context.Background()

	first, err := repo.GetOrCreateByEmail(ctx, nil, "teacher@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("created user has no id")
	}
	second, err := repo.GetOrCreateByEmail(ctx, nil, "teacher@example.com")
	if err != nil {
		t.Fatalf("get existing: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same email produced two users: %s vs %s", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&types.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("same email produced %d users", count)
	}
}

// The circuit owner column references the user table, so a circuit can only
// be created for an identity that has been provisioned first.
func TestCircuitCreateRequiresProvisionedOwner(t *testing.T) {
	db := testFKDB(t)
	users := NewUserRepo(db, testLogger(t))
	circuits := NewCircuitRepo(db, testLogger(t))
	ctx := context.Background()
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)

	orphan := &types.Circuit{
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		Name:        "Algebra",
		Subject:     "Math",
		Grade:       "7",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := circuits.Create(ctx, nil, orphan); err == nil {
		t.Fatalf("circuit created for owner with no user row")
	}

	owner, err := users.GetOrCreateByEmail(ctx, nil, "teacher@example.com")
	if err != nil {
		t.Fatalf("provision owner: %v", err)
	}
	owned := &types.Circuit{
		ID:          uuid.New(),
		OwnerUserID: owner.ID,
		Name:        "Algebra",
		Subject:     "Math",
		Grade:       "7",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := circuits.Create(ctx, nil, owned); err != nil {
		t.Fatalf("create with provisioned owner: %v", err)
	}
}
