package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/weddingplanner/internal/dependencies/clock"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
)

// Storage is an in-memory implementation of both storage interfaces.
// A single mutex serializes writes, which is what makes AddMember's
// check-then-insert atomic.
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	seq         int64
	couples     map[model.CoupleID]*model.Couple
	inviteIndex map[model.InviteCode]model.CoupleID
	members     map[model.MemberID]*memberRecord
	checklist   map[model.ChecklistItemID]*checklistRecord
	sessions    map[string]*sessionRecord
}

type memberRecord struct {
	member model.Member
	seq    int64
}

type checklistRecord struct {
	item model.ChecklistItem
	seq  int64
}

type sessionRecord struct {
	data      model.SessionData
	expiresAt time.Time
}

// New creates a new in-memory storage instance using the system clock
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new in-memory storage instance whose session
// expiry follows clk
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:       clk,
		couples:     make(map[model.CoupleID]*model.Couple),
		inviteIndex: make(map[model.InviteCode]model.CoupleID),
		members:     make(map[model.MemberID]*memberRecord),
		checklist:   make(map[model.ChecklistItemID]*checklistRecord),
		sessions:    make(map[string]*sessionRecord),
	}
}

// Ensure Storage implements the interfaces
var (
	_ storage.Storage      = (*Storage)(nil)
	_ storage.SessionStore = (*Storage)(nil)
)

func (s *Storage) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Couple operations

func (s *Storage) CreateCouple(ctx context.Context, couple *model.Couple, founder *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.inviteIndex[couple.InviteCode]; taken {
		return model.ErrInviteCodeTaken
	}

	c := *couple
	s.couples[c.ID] = &c
	s.inviteIndex[c.InviteCode] = c.ID

	if founder != nil {
		s.members[founder.ID] = &memberRecord{member: *founder, seq: s.nextSeq()}
	}
	return nil
}

func (s *Storage) GetCouple(ctx context.Context, id model.CoupleID) (*model.Couple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.couples[id]
	if !ok {
		return nil, model.ErrCoupleNotFound
	}
	out := *c
	return &out, nil
}

func (s *Storage) GetCoupleByInviteCode(ctx context.Context, code model.InviteCode) (*model.Couple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.inviteIndex[code]
	if !ok {
		return nil, model.ErrCoupleNotFound
	}
	out := *s.couples[id]
	return &out, nil
}

func (s *Storage) UpdateInviteCode(ctx context.Context, id model.CoupleID, code model.InviteCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.couples[id]
	if !ok {
		return model.ErrCoupleNotFound
	}
	if owner, taken := s.inviteIndex[code]; taken && owner != id {
		return model.ErrInviteCodeTaken
	}

	delete(s.inviteIndex, c.InviteCode)
	c.InviteCode = code
	s.inviteIndex[code] = id
	return nil
}

func (s *Storage) ListCouples(ctx context.Context) ([]model.CoupleWithMembers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.CoupleWithMembers, 0, len(s.couples))
	for _, c := range s.couples {
		result = append(result, model.CoupleWithMembers{
			Couple:  *c,
			Members: s.membersOf(c.ID),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Couple, result[j].Couple
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return result, nil
}

func (s *Storage) DeleteCouple(ctx context.Context, id model.CoupleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.couples[id]
	if !ok {
		return nil
	}
	delete(s.inviteIndex, c.InviteCode)
	delete(s.couples, id)

	for mid, rec := range s.members {
		if rec.member.CoupleID == id {
			delete(s.members, mid)
		}
	}
	for iid, rec := range s.checklist {
		if rec.item.CoupleID == id {
			delete(s.checklist, iid)
		}
	}
	return nil
}

// Member operations

func (s *Storage) AddMember(ctx context.Context, member *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.couples[member.CoupleID]; !ok {
		return model.ErrCoupleNotFound
	}

	existing := s.membersOf(member.CoupleID)
	if len(existing) >= model.MaxMembersPerCouple {
		return model.ErrCoupleFull
	}
	for _, m := range existing {
		if m.Name == member.Name {
			return model.ErrDuplicateName
		}
	}
	for _, m := range existing {
		if m.Role == member.Role {
			return model.ErrCoupleFull
		}
	}

	s.members[member.ID] = &memberRecord{member: *member, seq: s.nextSeq()}
	return nil
}

func (s *Storage) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.members[id]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	out := rec.member
	return &out, nil
}

func (s *Storage) ListMembers(ctx context.Context, coupleID model.CoupleID) ([]model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membersOf(coupleID), nil
}

func (s *Storage) FindMemberByCredentials(ctx context.Context, name, pinHash string) (*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *memberRecord
	for _, rec := range s.members {
		if rec.member.Name != name || rec.member.PINHash != pinHash {
			continue
		}
		if best == nil || earlier(rec, best) {
			best = rec
		}
	}
	if best == nil {
		return nil, model.ErrMemberNotFound
	}
	out := best.member
	return &out, nil
}

func (s *Storage) DeleteMember(ctx context.Context, id model.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, id)
	return nil
}

// membersOf returns a couple's members in insertion order; callers hold mu
func (s *Storage) membersOf(coupleID model.CoupleID) []model.Member {
	var recs []*memberRecord
	for _, rec := range s.members {
		if rec.member.CoupleID == coupleID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	members := make([]model.Member, len(recs))
	for i, rec := range recs {
		members[i] = rec.member
	}
	return members
}

func earlier(a, b *memberRecord) bool {
	if !a.member.CreatedAt.Equal(b.member.CreatedAt) {
		return a.member.CreatedAt.Before(b.member.CreatedAt)
	}
	return a.seq < b.seq
}

// Checklist operations

func (s *Storage) ListChecklistItems(ctx context.Context, coupleID model.CoupleID) ([]model.ChecklistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []*checklistRecord
	for _, rec := range s.checklist {
		if rec.item.CoupleID == coupleID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	items := make([]model.ChecklistItem, len(recs))
	for i, rec := range recs {
		items[i] = rec.item
	}
	return items, nil
}

func (s *Storage) CreateChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.couples[item.CoupleID]; !ok {
		return model.ErrCoupleNotFound
	}
	s.checklist[item.ID] = &checklistRecord{item: *item, seq: s.nextSeq()}
	return nil
}

func (s *Storage) GetChecklistItem(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) (*model.ChecklistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.checklist[id]
	if !ok || rec.item.CoupleID != coupleID {
		return nil, model.ErrChecklistItemNotFound
	}
	out := rec.item
	return &out, nil
}

func (s *Storage) UpdateChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.checklist[item.ID]
	if !ok || rec.item.CoupleID != item.CoupleID {
		return model.ErrChecklistItemNotFound
	}
	rec.item = *item
	return nil
}

func (s *Storage) DeleteChecklistItem(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.checklist[id]
	if !ok || rec.item.CoupleID != coupleID {
		return model.ErrChecklistItemNotFound
	}
	delete(s.checklist, id)
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, id string, data *model.SessionData, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &sessionRecord{
		data:      *data,
		expiresAt: s.clock.Now().Add(ttl),
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id string) (*model.SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if !s.clock.Now().Before(rec.expiresAt) {
		delete(s.sessions, id)
		return nil, model.ErrSessionNotFound
	}
	out := rec.data
	return &out, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Storage) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.sessions {
		if !now.Before(rec.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SessionCount returns the number of stored sessions, expired or not
func (s *Storage) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
