package domain

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&User{}, &Group{}, &UserGroup{},
		&Category{}, &Agent{}, &AgentCategory{}, &AgentGroup{}, &AgentFile{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{User{}.TableName(), "users"},
		{Group{}.TableName(), "groups"},
		{UserGroup{}.TableName(), "user_groups"},
		{Category{}.TableName(), "categories"},
		{Agent{}.TableName(), "agents"},
		{AgentCategory{}.TableName(), "agent_categories"},
		{AgentGroup{}.TableName(), "agent_groups"},
		{AgentFile{}.TableName(), "agent_files"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("table name = %q; want %q", tc.got, tc.want)
		}
	}
}

func TestUserUniqueness(t *testing.T) {
	db := newDomainDB(t)

	u := User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	dupName := User{Username: "ada", Email: "other@example.com", PasswordHash: "x"}
	if err := db.Create(&dupName).Error; err == nil {
		t.Fatal("duplicate username accepted")
	}
	dupMail := User{Username: "ada2", Email: "ada@example.com", PasswordHash: "x"}
	if err := db.Create(&dupMail).Error; err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestCategoryName_CaseInsensitiveUnique(t *testing.T) {
	db := newDomainDB(t)

	if err := db.Create(&Category{Name: "Math"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	// The NOCASE collation makes "math" collide with "Math" at the index.
	if err := db.Create(&Category{Name: "math"}).Error; err == nil {
		t.Fatal("case-variant duplicate category accepted")
	}
}

func TestAgentName_UniquePerOwner(t *testing.T) {
	db := newDomainDB(t)

	owner := User{Username: "o1", Email: "o1@example.com", PasswordHash: "x", IsActive: true}
	other := User{Username: "o2", Email: "o2@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("other: %v", err)
	}

	if err := db.Create(&Agent{Name: "helper", Prompt: "p", Provider: "openai", OwnerID: owner.ID}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	// Same name, same owner: rejected.
	if err := db.Create(&Agent{Name: "helper", Prompt: "p", Provider: "openai", OwnerID: owner.ID}).Error; err == nil {
		t.Fatal("duplicate (owner,name) accepted")
	}
	// Same name, different owner: fine.
	if err := db.Create(&Agent{Name: "helper", Prompt: "p", Provider: "openai", OwnerID: other.ID}).Error; err != nil {
		t.Fatalf("cross-owner name rejected: %v", err)
	}
}

func TestAgentFile_UniquePerAgent(t *testing.T) {
	db := newDomainDB(t)

	owner := User{Username: "o", Email: "o@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("owner: %v", err)
	}
	a := Agent{Name: "a", Prompt: "p", Provider: "openai", OwnerID: owner.ID}
	b := Agent{Name: "b", Prompt: "p", Provider: "openai", OwnerID: owner.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("agent a: %v", err)
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("agent b: %v", err)
	}

	if err := db.Create(&AgentFile{AgentID: a.ID, Filename: "doc.pdf", ContentType: "application/pdf"}).Error; err != nil {
		t.Fatalf("file: %v", err)
	}
	if err := db.Create(&AgentFile{AgentID: a.ID, Filename: "doc.pdf", ContentType: "application/pdf"}).Error; err == nil {
		t.Fatal("duplicate (agent,filename) accepted")
	}
	if err := db.Create(&AgentFile{AgentID: b.ID, Filename: "doc.pdf", ContentType: "application/pdf"}).Error; err != nil {
		t.Fatalf("same name under another agent rejected: %v", err)
	}
}

func TestJoinTables_CompositeKeys(t *testing.T) {
	db := newDomainDB(t)

	u := User{Username: "m", Email: "m@example.com", PasswordHash: "x", IsActive: true}
	g := Group{Name: "team"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("group: %v", err)
	}

	if err := db.Create(&UserGroup{UserID: u.ID, GroupID: g.ID}).Error; err != nil {
		t.Fatalf("membership: %v", err)
	}
	if err := db.Create(&UserGroup{UserID: u.ID, GroupID: g.ID}).Error; err == nil {
		t.Fatal("duplicate membership accepted")
	}
}
