package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ProblemRepository      *ProblemRepository
	ConversationRepository *ConversationRepository
	EventRepository        *EventRepository
	KnowledgeRepository    *KnowledgeRepository
	AnnouncementRepository *AnnouncementRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ProblemRepository:      NewProblemRepository(db),
		ConversationRepository: NewConversationRepository(db),
		EventRepository:        NewEventRepository(db),
		KnowledgeRepository:    NewKnowledgeRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
	}
}
