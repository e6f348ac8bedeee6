package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gigbay/marketplace-api/internal/core/domain"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// stubConversationRepo mirrors the real transactional repo: message append
// and conversation state update happen under one lock, and creation on an
// existing id reports the race like the Mongo _id unique constraint.
type stubConversationRepo struct {
	mu    sync.Mutex
	convs map[string]*domain.Conversation
	msgs  []*domain.Message
}

func newStubConversationRepo() *stubConversationRepo {
	return &stubConversationRepo{convs: make(map[string]*domain.Conversation)}
}

func (r *stubConversationRepo) Create(_ context.Context, c *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.convs[c.ID]; exists {
		return domain.ErrConversationExists
	}
	clone := *c
	r.convs[c.ID] = &clone
	return nil
}

func (r *stubConversationRepo) FindByID(_ context.Context, conversationID string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[conversationID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubConversationRepo) AppendMessage(_ context.Context, m *domain.Message, authorIsSeller bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[m.ConversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	clone := *m
	r.msgs = append(r.msgs, &clone)
	c.LastMessage = m.Content
	c.ReadBySeller = authorIsSeller
	c.ReadByBuyer = !authorIsSeller
	c.UpdatedAt = m.CreatedAt
	return nil
}

func (r *stubConversationRepo) MarkRead(_ context.Context, conversationID string, isSeller bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	if isSeller {
		c.ReadBySeller = true
	} else {
		c.ReadByBuyer = true
	}
	return nil
}

func (r *stubConversationRepo) ListByParticipant(_ context.Context, userID string, isSeller bool) ([]*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Conversation
	for _, c := range r.convs {
		if isSeller && c.SellerID != userID {
			continue
		}
		if !isSeller && c.BuyerID != userID {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *stubConversationRepo) ListMessages(_ context.Context, conversationID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func newConversationFixture() (*ConversationService, *stubConversationRepo) {
	repo := newStubConversationRepo()
	return NewConversationService(repo, discardLogger), repo
}

// ---------------------------------------------------------------------------
// GetOrCreate
// ---------------------------------------------------------------------------

func TestConversation_DeterministicIdentity(t *testing.T) {
	svc, repo := newConversationFixture()

	bySeller, err := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1",
	})
	if err != nil {
		t.Fatalf("seller-initiated: %v", err)
	}
	byBuyer, err := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "B1", InitiatorIsSeller: false, CounterpartyID: "S1",
	})
	if err != nil {
		t.Fatalf("buyer-initiated: %v", err)
	}

	if bySeller.ID != "S1B1" {
		t.Errorf("expected id %q, got %q", "S1B1", bySeller.ID)
	}
	if bySeller.ID != byBuyer.ID {
		t.Errorf("both parties must converge on one id: %q vs %q", bySeller.ID, byBuyer.ID)
	}
	if len(repo.convs) != 1 {
		t.Errorf("expected a single conversation row, got %d", len(repo.convs))
	}
}

func TestConversation_CreationReadFlags(t *testing.T) {
	svc, _ := newConversationFixture()

	sellerFirst, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1",
	})
	if !sellerFirst.ReadBySeller || sellerFirst.ReadByBuyer {
		t.Errorf("seller-initiated thread must be read by seller only: %+v", sellerFirst)
	}

	svc2, _ := newConversationFixture()
	buyerFirst, _ := svc2.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "B2", InitiatorIsSeller: false, CounterpartyID: "S2",
	})
	if buyerFirst.ReadBySeller || !buyerFirst.ReadByBuyer {
		t.Errorf("buyer-initiated thread must be read by buyer only: %+v", buyerFirst)
	}
}

func TestConversation_GetOrCreate_IdempotentAndRaceSafe(t *testing.T) {
	svc, repo := newConversationFixture()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		initiatorIsSeller := i%2 == 0
		wg.Add(1)
		go func(isSeller bool) {
			defer wg.Done()
			in := ports.StartConversationInput{InitiatorID: "B1", InitiatorIsSeller: false, CounterpartyID: "S1"}
			if isSeller {
				in = ports.StartConversationInput{InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1"}
			}
			if _, err := svc.GetOrCreate(context.Background(), in); err != nil {
				t.Errorf("get-or-create: %v", err)
			}
		}(initiatorIsSeller)
	}
	wg.Wait()

	if len(repo.convs) != 1 {
		t.Errorf("racing initiators must converge on one row, got %d", len(repo.convs))
	}
}

// ---------------------------------------------------------------------------
// PostMessage
// ---------------------------------------------------------------------------

func TestConversation_PostMessage_FlipsFlags(t *testing.T) {
	svc, repo := newConversationFixture()
	conv, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1",
	})

	msg, err := svc.PostMessage(context.Background(), ports.PostMessageInput{
		ConversationID: conv.ID, AuthorID: "B1", Content: "is the logo ready?",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if msg.AuthorID != "B1" || msg.Content == "" {
		t.Errorf("message wrong: %+v", msg)
	}

	updated, _ := svc.Get(context.Background(), conv.ID, "S1")
	if updated.LastMessage != "is the logo ready?" {
		t.Errorf("last message preview not updated: %q", updated.LastMessage)
	}
	if !updated.ReadByBuyer {
		t.Error("author's own flag must be read")
	}
	if updated.ReadBySeller {
		t.Error("counterparty must see the thread as unread")
	}

	// the seller replies: flags flip the other way
	_, _ = svc.PostMessage(context.Background(), ports.PostMessageInput{
		ConversationID: conv.ID, AuthorID: "S1", Content: "almost done",
	})
	updated, _ = svc.Get(context.Background(), conv.ID, "S1")
	if !updated.ReadBySeller || updated.ReadByBuyer {
		t.Errorf("reply must flip both flags: %+v", updated)
	}
	if len(repo.msgs) != 2 {
		t.Errorf("expected 2 messages, got %d", len(repo.msgs))
	}
}

func TestConversation_PostMessage_ParticipantsOnly(t *testing.T) {
	svc, _ := newConversationFixture()
	conv, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1",
	})

	if _, err := svc.PostMessage(context.Background(), ports.PostMessageInput{ConversationID: conv.ID, AuthorID: "intruder", Content: "hi"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.PostMessage(context.Background(), ports.PostMessageInput{ConversationID: "missing", AuthorID: "S1", Content: "hi"}); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// MarkRead
// ---------------------------------------------------------------------------

func TestConversation_MarkRead_OwnFlagOnly(t *testing.T) {
	svc, _ := newConversationFixture()
	conv, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1",
	})
	// buyer has unread mail; seller then also goes unread via buyer message
	_, _ = svc.PostMessage(context.Background(), ports.PostMessageInput{ConversationID: conv.ID, AuthorID: "B1", Content: "ping"})

	if err := svc.MarkRead(context.Background(), conv.ID, "S1", true); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	updated, _ := svc.Get(context.Background(), conv.ID, "S1")
	if !updated.ReadBySeller {
		t.Error("seller flag must be set")
	}
	if !updated.ReadByBuyer {
		t.Error("buyer flag must be untouched (was already read as the author)")
	}
}

func TestConversation_MarkRead_RoleMustMatchSeat(t *testing.T) {
	svc, _ := newConversationFixture()
	conv, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{
		InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1",
	})

	if err := svc.MarkRead(context.Background(), conv.ID, "B1", true); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("buyer claiming the seller seat must be rejected, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), conv.ID, "intruder", false); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-participant must be rejected, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

func TestConversation_ListConversations_MostRecentFirst(t *testing.T) {
	svc, repo := newConversationFixture()

	a, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1"})
	b, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B2"})

	// age thread a, then touch it so it becomes the most recent
	repo.mu.Lock()
	repo.convs[a.ID].UpdatedAt = time.Now().UTC().Add(-time.Hour)
	repo.convs[b.ID].UpdatedAt = time.Now().UTC().Add(-time.Minute)
	repo.mu.Unlock()
	_, _ = svc.PostMessage(context.Background(), ports.PostMessageInput{ConversationID: a.ID, AuthorID: "B1", Content: "hello again"})

	list, err := svc.ListConversations(context.Background(), "S1", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(list))
	}
	if list[0].ID != a.ID {
		t.Errorf("most recently active thread must sort first, got %s", list[0].ID)
	}
}

func TestConversation_ListMessages_OrderedAndGuarded(t *testing.T) {
	svc, _ := newConversationFixture()
	conv, _ := svc.GetOrCreate(context.Background(), ports.StartConversationInput{InitiatorID: "S1", InitiatorIsSeller: true, CounterpartyID: "B1"})

	_, _ = svc.PostMessage(context.Background(), ports.PostMessageInput{ConversationID: conv.ID, AuthorID: "S1", Content: "first"})
	_, _ = svc.PostMessage(context.Background(), ports.PostMessageInput{ConversationID: conv.ID, AuthorID: "B1", Content: "second"})

	msgs, err := svc.ListMessages(context.Background(), conv.ID, "B1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Errorf("messages out of order: %+v", msgs)
	}

	if _, err := svc.ListMessages(context.Background(), conv.ID, "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
