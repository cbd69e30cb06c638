package usecases

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/infrastructure/storage"
	"preipo-sip.backend/pkg/signedurl"
)

type stubTicketRepo struct {
	tickets map[uuid.UUID]*entities.SupportTicket
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: map[uuid.UUID]*entities.SupportTicket{}}
}

func (s *stubTicketRepo) Create(_ context.Context, t *entities.SupportTicket) error {
	s.tickets[t.ID] = t
	return nil
}
func (s *stubTicketRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return t, nil
}
func (s *stubTicketRepo) GetByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]*entities.SupportTicket, int, error) {
	var out []*entities.SupportTicket
	for _, t := range s.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, len(out), nil
}
func (s *stubTicketRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.TicketStatus) error {
	t, ok := s.tickets[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	t.Status = status
	return nil
}
func (s *stubTicketRepo) CountOpen(_ context.Context) (int64, error) {
	var n int64
	for _, t := range s.tickets {
		if t.Status == entities.TicketStatusOpen || t.Status == entities.TicketStatusPending {
			n++
		}
	}
	return n, nil
}

type stubMessageRepo struct {
	messages []*entities.SupportMessage
	err      error
}

func (s *stubMessageRepo) Create(_ context.Context, m *entities.SupportMessage) error {
	if s.err != nil {
		return s.err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, m)
	return nil
}
func (s *stubMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.SupportMessage, error) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}
func (s *stubMessageRepo) ListBefore(_ context.Context, ticketID uuid.UUID, createdAt time.Time, id uuid.UUID, limit int) ([]*entities.SupportMessage, error) {
	var out []*entities.SupportMessage
	for _, m := range s.messages {
		if m.TicketID != ticketID {
			continue
		}
		if !createdAt.IsZero() {
			if m.CreatedAt.After(createdAt) || (m.CreatedAt.Equal(createdAt) && m.ID.String() >= id.String()) {
				continue
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingNotifier struct {
	ticketIDs []uuid.UUID
	messages  []*entities.SupportMessage
}

func (r *recordingNotifier) NotifyMessage(ticketID uuid.UUID, m *entities.SupportMessage) {
	r.ticketIDs = append(r.ticketIDs, ticketID)
	r.messages = append(r.messages, m)
}

type supportFixture struct {
	usecase  *SupportUsecase
	tickets  *stubTicketRepo
	messages *stubMessageRepo
	notifier *recordingNotifier
	audit    *stubAuditRepo
	store    *storage.AttachmentStore
}

func newSupportFixture(t *testing.T) *supportFixture {
	t.Helper()

	store, err := storage.NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	f := &supportFixture{
		tickets:  newStubTicketRepo(),
		messages: &stubMessageRepo{},
		notifier: &recordingNotifier{},
		audit:    &stubAuditRepo{},
		store:    store,
	}
	f.usecase = NewSupportUsecase(
		f.tickets,
		f.messages,
		store,
		signedurl.NewSigner("attachment-secret"),
		5*time.Minute,
		f.notifier,
		NewAuditUsecase(f.audit),
	)
	return f
}

func TestSupportUsecase_CreateTicket(t *testing.T) {
	f := newSupportFixture(t)
	userID := uuid.New()

	ticket, err := f.usecase.CreateTicket(context.Background(), userID, &entities.CreateTicketInput{
		Subject: "Payment not reflected",
		Body:    "Paid an hour ago, investment still pending",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.TicketStatusOpen, ticket.Status)

	// the opening body becomes the first message
	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, ticket.ID, f.messages.messages[0].TicketID)
	assert.Equal(t, userID, f.messages.messages[0].SenderID)
}

func TestSupportUsecase_GetTicket_HidesOthersTickets(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ticket, err := f.usecase.CreateTicket(context.Background(), owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	_, err = f.usecase.GetTicket(context.Background(), uuid.New(), ticket.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := f.usecase.GetTicket(context.Background(), uuid.New(), ticket.ID, true)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
}

func TestSupportUsecase_UpdateStatus(t *testing.T) {
	f := newSupportFixture(t)
	ticket, err := f.usecase.CreateTicket(context.Background(), uuid.New(), &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.usecase.UpdateStatus(context.Background(), ticket.ID, entities.TicketStatusResolved))
	assert.Equal(t, entities.TicketStatusResolved, f.tickets.tickets[ticket.ID].Status)

	require.Error(t, f.usecase.UpdateStatus(context.Background(), ticket.ID, entities.TicketStatus("BOGUS")))
}

func TestSupportUsecase_PostMessage(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	msg, err := f.usecase.PostMessage(ctx, owner, ticket.ID, false, "any update?", "", nil)
	require.NoError(t, err)
	assert.False(t, msg.HasAttachment)

	// connected clients are notified
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, ticket.ID, f.notifier.ticketIDs[0])
	assert.Equal(t, msg.ID, f.notifier.messages[0].ID)
}

func TestSupportUsecase_PostMessage_ClosedTicket(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)
	require.NoError(t, f.usecase.UpdateStatus(ctx, ticket.ID, entities.TicketStatusClosed))

	_, err = f.usecase.PostMessage(ctx, owner, ticket.ID, false, "reopening?", "", nil)
	require.Error(t, err)
}

func TestSupportUsecase_PostMessage_WithAttachment(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	msg, err := f.usecase.PostMessage(ctx, owner, ticket.ID, false, "see screenshot", "receipt.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, msg.HasAttachment)
	assert.NotEmpty(t, msg.AttachmentPath.String)
}

func TestSupportUsecase_ListMessages_KeysetPages(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "msg-0"})
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	f.messages.messages[0].CreatedAt = base
	for i := 1; i < 5; i++ {
		m := &entities.SupportMessage{
			ID:        uuid.New(),
			TicketID:  ticket.ID,
			SenderID:  owner,
			Body:      "msg",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		f.messages.messages = append(f.messages.messages, m)
	}

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := f.usecase.ListMessages(ctx, owner, ticket.ID, false, cursor, 2)
		require.NoError(t, err)
		for _, m := range page.Messages {
			assert.False(t, seen[m.ID], "message repeated across pages")
			seen[m.ID] = true
		}
		pages++
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 5)
}

func TestSupportUsecase_ListMessages_BadCursor(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ticket, err := f.usecase.CreateTicket(context.Background(), owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	_, err = f.usecase.ListMessages(context.Background(), owner, ticket.ID, false, "%%%not-base64%%%", 10)
	require.Error(t, err)
}

func TestSupportUsecase_AttachmentURL_RoundTrip(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	msg, err := f.usecase.PostMessage(ctx, owner, ticket.ID, false, "see screenshot", "receipt.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	signed, err := f.usecase.AttachmentURL(ctx, owner, ticket.ID, msg.ID, false)
	require.NoError(t, err)

	path, query, found := strings.Cut(signed, "?")
	require.True(t, found)
	params := parseSignedQuery(t, query)

	rc, err := f.usecase.OpenAttachment(ctx, ticket.ID, msg.ID, path, params.expires, params.signature)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// tampering with the signature is rejected
	_, err = f.usecase.OpenAttachment(ctx, ticket.ID, msg.ID, path, params.expires, "deadbeef")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestSupportUsecase_AttachmentURL_NoAttachment(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	// the opening message has no attachment
	_, err = f.usecase.AttachmentURL(ctx, owner, ticket.ID, f.messages.messages[0].ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSupportUsecase_AttachmentURL_FileGoneIsNotFound(t *testing.T) {
	f := newSupportFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	ticket, err := f.usecase.CreateTicket(ctx, owner, &entities.CreateTicketInput{Subject: "Hello", Body: "hi"})
	require.NoError(t, err)

	msg, err := f.usecase.PostMessage(ctx, owner, ticket.ID, false, "see screenshot", "receipt.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	// the row still flags an attachment, but the file is gone from storage
	require.NoError(t, f.store.Delete(msg.AttachmentPath.String))
	_, err = f.usecase.AttachmentURL(ctx, owner, ticket.ID, msg.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

type signedParams struct {
	expires   int64
	signature string
}

func parseSignedQuery(t *testing.T, query string) signedParams {
	t.Helper()
	var p signedParams
	for _, kv := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "expires":
			var err error
			p.expires, err = strconv.ParseInt(v, 10, 64)
			require.NoError(t, err)
		case "signature":
			p.signature = v
		}
	}
	return p
}
