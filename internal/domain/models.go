// Package domain defines the persistence models for users, groups,
// categories, agents, and agent files. These types are mapped with GORM and
// form the core data layer of the agent platform.
package domain

import (
	"time"
)

// User represents a registered account. A user owns zero or more agents and
// may belong to zero or more groups. Deleting a user removes their agents and
// group memberships.
//
// Fields:
//   - ID: auto-incrementing primary key.
//   - Username / Email: unique identity fields, both indexed.
//   - FullName: optional display name.
//   - PasswordHash: bcrypt digest, never exposed over the API.
//   - IsActive: inactive users cannot authenticate.
//   - IsAdmin: grants category management rights.
type User struct {
	ID           uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username"   gorm:"type:varchar(50);not null;uniqueIndex:ux_users_username"`
	FullName     *string   `json:"full_name,omitempty" gorm:"type:varchar(100)"`
	Email        string    `json:"email"      gorm:"type:varchar(100);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"          gorm:"type:text;not null"`
	IsActive     bool      `json:"is_active"  gorm:"not null;default:true"`
	IsAdmin      bool      `json:"is_admin"   gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Group is a named collection used to scope agent visibility to sets of
// users. Membership is modeled through the UserGroup and AgentGroup join
// tables.
type Group struct {
	ID          uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name"        gorm:"type:varchar(100);not null;uniqueIndex:ux_groups_name"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Group.
func (Group) TableName() string { return "groups" }

// UserGroup links a user to a group. The composite primary key doubles as
// the uniqueness constraint that makes repeated assignment detectable.
type UserGroup struct {
	UserID  uint `json:"user_id"  gorm:"primaryKey;index"`
	GroupID uint `json:"group_id" gorm:"primaryKey;index"`

	User  User  `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Group Group `json:"-" gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserGroup.
func (UserGroup) TableName() string { return "user_groups" }

// Category is an admin-curated label used to organize public agents.
//
// Name uniqueness is case-insensitive: the service layer checks inside the
// insert transaction, and the NOCASE unique index backs that check against
// races.
type Category struct {
	ID          uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name"        gorm:"type:varchar(100) COLLATE NOCASE;not null;uniqueIndex:ux_categories_name"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Agent is a user-owned configuration combining a system prompt with an LLM
// provider choice. A public agent is readable by any authenticated user;
// a private agent only by its owner. Mutation is always owner-only.
//
// Invariant (service-enforced): a public agent must be associated with at
// least one category at creation time.
type Agent struct {
	ID          uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name"        gorm:"type:varchar(100);not null;uniqueIndex:ux_agents_owner_name,priority:2"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Prompt      string    `json:"prompt"      gorm:"type:text;not null"`
	Provider    string    `json:"provider"    gorm:"type:varchar(32);not null;default:'openai'"`
	IsPublic    bool      `json:"is_public"   gorm:"not null;default:false"`
	OwnerID     uint      `json:"owner_id"    gorm:"not null;index;uniqueIndex:ux_agents_owner_name,priority:1"`
	CreatedAt   time.Time `json:"created_at"`

	// Owner is the account this agent belongs to. Agents are cascade-deleted
	// when the owner is removed.
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Agent.
func (Agent) TableName() string { return "agents" }

// AgentCategory links an agent to a category. Deleting a category removes
// only the association rows, never the agents themselves.
type AgentCategory struct {
	AgentID    uint `json:"agent_id"    gorm:"primaryKey;index"`
	CategoryID uint `json:"category_id" gorm:"primaryKey;index"`

	Agent    Agent    `json:"-" gorm:"foreignKey:AgentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AgentCategory.
func (AgentCategory) TableName() string { return "agent_categories" }

// AgentGroup links an agent to a group.
type AgentGroup struct {
	AgentID uint `json:"agent_id" gorm:"primaryKey;index"`
	GroupID uint `json:"group_id" gorm:"primaryKey;index"`

	Agent Agent `json:"-" gorm:"foreignKey:AgentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Group Group `json:"-" gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AgentGroup.
func (AgentGroup) TableName() string { return "agent_groups" }

// AgentFile is metadata for a document uploaded for RAG ingestion. The blob
// itself lives in the file store; (agent_id, filename) is unique so a
// concurrent re-upload of the same name surfaces as a constraint violation
// rather than a silent overwrite.
type AgentFile struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	AgentID     uint      `json:"agent_id"     gorm:"not null;index;uniqueIndex:ux_agent_files_name,priority:1"`
	Filename    string    `json:"filename"     gorm:"type:varchar(255);not null;uniqueIndex:ux_agent_files_name,priority:2"`
	ContentType string    `json:"content_type" gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time `json:"created_at"`

	// Agent is the owning agent. Files are cascade-deleted with it.
	Agent Agent `json:"-" gorm:"foreignKey:AgentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AgentFile.
func (AgentFile) TableName() string { return "agent_files" }
