package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

type fakeConversationStore struct {
	conversations map[int64]*models.Conversation // keyed by problem id
	messages      map[int64][]*models.Message    // keyed by conversation id
	nextConvID    int64
	nextMsgID     int64
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: make(map[int64]*models.Conversation),
		messages:      make(map[int64][]*models.Message),
	}
}

func (f *fakeConversationStore) GetByProblemAndParticipant(ctx context.Context, problemID, userID int64) (*models.Conversation, error) {
	conv, ok := f.conversations[problemID]
	if !ok {
		return nil, nil
	}
	return conv, nil
}

func (f *fakeConversationStore) Create(ctx context.Context, conv *models.Conversation) (int64, error) {
	if existing, ok := f.conversations[conv.ProblemID]; ok {
		*conv = *existing
		return existing.ID, nil
	}
	f.nextConvID++
	conv.ID = f.nextConvID
	f.conversations[conv.ProblemID] = conv
	return conv.ID, nil
}

func (f *fakeConversationStore) CreateMessage(ctx context.Context, msg *models.Message) (int64, error) {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	msg.CreatedAt = time.Now()
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], msg)
	return msg.ID, nil
}

func (f *fakeConversationStore) ListMessages(ctx context.Context, conversationID int64) ([]*models.Message, error) {
	return f.messages[conversationID], nil
}

type fakeUserReader struct{}

func (fakeUserReader) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, FirstName: "Test", LastName: "User"}, nil
}

func newChatService(convStore *fakeConversationStore, problems *fakeProblemStore) *services.ChatService {
	return services.NewChatService(convStore, problems, fakeUserReader{}, zerolog.Nop())
}

func TestSendMessageUnassignedProblem(t *testing.T) {
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10})
	svc := newChatService(newFakeConversationStore(), problems)

	_, err := svc.SendMessage(context.Background(), student(10), 1, &dto.CreateMessageRequest{Content: "hi"})
	if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found for unassigned problem, got %v", err)
	}
}

func TestSendMessageNonParticipant(t *testing.T) {
	mentorID := int64(20)
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, MentorID: &mentorID})
	svc := newChatService(newFakeConversationStore(), problems)

	_, err := svc.SendMessage(context.Background(), student(30), 1, &dto.CreateMessageRequest{Content: "hi"})
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	mentorID := int64(20)
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, MentorID: &mentorID})
	svc := newChatService(newFakeConversationStore(), problems)

	_, err := svc.SendMessage(context.Background(), student(10), 1, &dto.CreateMessageRequest{Content: "   "})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for blank message, got %v", err)
	}
}

func TestSendMessageCreatesConversationLazily(t *testing.T) {
	ctx := context.Background()
	mentorID := int64(20)
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, MentorID: &mentorID})
	convStore := newFakeConversationStore()
	svc := newChatService(convStore, problems)

	msg, err := svc.SendMessage(ctx, student(10), 1, &dto.CreateMessageRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Content != "hello" {
		t.Fatalf("unexpected content %q", msg.Content)
	}
	if len(convStore.conversations) != 1 {
		t.Fatalf("conversation was not created")
	}

	// the mentor's reply reuses the same conversation
	reply, err := svc.SendMessage(ctx, mentor(20), 1, &dto.CreateMessageRequest{Content: "hi back"})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ConversationID != msg.ConversationID {
		t.Fatalf("reply landed in a different conversation")
	}
	if len(convStore.conversations) != 1 {
		t.Fatalf("expected a single conversation, got %d", len(convStore.conversations))
	}
}

func TestGetMessagesEmptyBeforeFirstMessage(t *testing.T) {
	mentorID := int64(20)
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, MentorID: &mentorID})
	svc := newChatService(newFakeConversationStore(), problems)

	resp, err := svc.GetMessages(context.Background(), student(10), 1)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if resp.Messages == nil || len(resp.Messages) != 0 {
		t.Fatalf("expected empty history, got %v", resp.Messages)
	}
}

func TestGetMessagesNonParticipant(t *testing.T) {
	mentorID := int64(20)
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, MentorID: &mentorID})
	svc := newChatService(newFakeConversationStore(), problems)

	_, err := svc.GetMessages(context.Background(), mentor(99), 1)
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetMessagesReturnsHistory(t *testing.T) {
	ctx := context.Background()
	mentorID := int64(20)
	problems := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, MentorID: &mentorID})
	convStore := newFakeConversationStore()
	svc := newChatService(convStore, problems)

	for _, content := range []string{"first", "second"} {
		if _, err := svc.SendMessage(ctx, student(10), 1, &dto.CreateMessageRequest{Content: content}); err != nil {
			t.Fatalf("send %q: %v", content, err)
		}
	}

	resp, err := svc.GetMessages(ctx, mentor(20), 1)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Content != "first" || resp.Messages[1].Content != "second" {
		t.Fatalf("history out of order: %+v", resp.Messages)
	}
}
