package store

import (
	"context"
	"time"

	"github.com/journalapp/journal-server/internal/domain"
)

// Store defines every persistence operation the services use.
//
// Lookups that take a userID are owner-scoped: a row owned by someone else is
// reported as ErrNotFound, never as forbidden.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// InTx runs fn against a Store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling InTx on a
	// Store that is already transactional reuses the transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	TouchUserLogin(ctx context.Context, id int64, at time.Time) error
	FirstSuperuser(ctx context.Context) (*domain.User, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Journals
	CreateJournal(ctx context.Context, journal *domain.Journal) error
	GetJournal(ctx context.Context, id, userID int64) (*domain.Journal, error)
	ListJournals(ctx context.Context, userID int64) ([]*domain.Journal, error)
	UpdateJournal(ctx context.Context, journal *domain.Journal) error

	// Journal tables
	CreateJournalTable(ctx context.Context, table *domain.JournalTable) error
	GetJournalTable(ctx context.Context, id, userID int64) (*domain.JournalTable, error)
	ListJournalTables(ctx context.Context, journalID int64) ([]*domain.JournalTable, error)
	ListJournalTablesForUser(ctx context.Context, userID int64) ([]*domain.JournalTable, error)
	UpdateJournalTable(ctx context.Context, table *domain.JournalTable) error
	DeleteJournalTable(ctx context.Context, id int64) error

	// Activities. Reads return activities with tags and sub-entries loaded.
	CreateActivity(ctx context.Context, activity *domain.Activity) error
	GetActivity(ctx context.Context, id, userID int64) (*domain.Activity, error)
	ListActivities(ctx context.Context, userID int64) ([]*domain.Activity, error)
	ListActivitiesByTable(ctx context.Context, tableID int64) ([]*domain.Activity, error)
	ListActivitiesByIDs(ctx context.Context, ids []int64) ([]*domain.Activity, error)
	UpdateActivity(ctx context.Context, activity *domain.Activity) error
	DeleteActivities(ctx context.Context, ids []int64) (int64, error)
	FilterOwnedActivities(ctx context.Context, userID int64, ids []int64) ([]int64, error)
	SetActivityTags(ctx context.Context, activityID int64, tagIDs []int64) error

	// Tags. Visible tags are the user's own plus every superuser's.
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetVisibleTag(ctx context.Context, id, userID int64) (*domain.Tag, error)
	ListVisibleTags(ctx context.Context, userID int64) ([]*domain.Tag, error)
	ListTagsByOwner(ctx context.Context, userID int64) ([]*domain.Tag, error)
	ListSuperuserTags(ctx context.Context) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTags(ctx context.Context, ids []int64) (int64, error)
	FilterVisibleTags(ctx context.Context, userID int64, ids []int64) ([]int64, error)
	FilterOwnedTags(ctx context.Context, userID int64, ids []int64) ([]int64, error)

	// Sub-entries
	CreateSubEntry(ctx context.Context, entry *domain.SubEntry) error
	GetSubEntry(ctx context.Context, kind domain.SubEntryKind, id, userID int64) (*domain.SubEntry, error)
	ListSubEntries(ctx context.Context, kind domain.SubEntryKind, userID int64) ([]*domain.SubEntry, error)
	ListSubEntriesByActivity(ctx context.Context, kind domain.SubEntryKind, activityID int64) ([]*domain.SubEntry, error)
	UpdateSubEntry(ctx context.Context, entry *domain.SubEntry) error
	DeleteSubEntries(ctx context.Context, kind domain.SubEntryKind, ids []int64) (int64, error)
	FilterOwnedSubEntries(ctx context.Context, kind domain.SubEntryKind, userID int64, ids []int64) ([]int64, error)

	// Ordering
	MaxOrdering(ctx context.Context, scope OrderScope, parentID int64) (max int64, found bool, err error)
	SetOrdering(ctx context.Context, scope OrderScope, parentID, id, ordering int64) error
}

// OrderScope names a table whose rows are ordered among siblings sharing a parent column.
type OrderScope struct {
	Table  string
	Parent string
}

// ActivityScope orders activities within their journal table.
var ActivityScope = OrderScope{Table: "activities", Parent: "journal_table_id"}

// SubEntryScope orders sub-entries of one kind within their activity.
func SubEntryScope(kind domain.SubEntryKind) OrderScope {
	return OrderScope{Table: kind.Table(), Parent: "activity_id"}
}
