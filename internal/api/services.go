package api

import (
	"github.com/journalapp/journal-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Journals      *service.JournalService
	JournalTables *service.JournalTableService
	Activities    *service.ActivityService
	Tags          *service.TagService
	SubEntries    *service.SubEntryService
}
