// Package storagetest holds behavioural suites shared by every storage
// backend, so the memory and SQLite implementations are held to the same
// contract.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
)

// StorageSuite exercises a storage.Storage implementation.
// NewStorage is called once per test and must return an empty store.
type StorageSuite struct {
	suite.Suite
	NewStorage func() storage.Storage

	storage storage.Storage
	ctx     context.Context
	base    time.Time
}

func (s *StorageSuite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.storage = s.NewStorage()
	s.ctx = context.Background()
	s.base = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) couple(id, code string) *model.Couple {
	return &model.Couple{
		ID:         model.CoupleID(id),
		InviteCode: model.InviteCode(code),
		CreatedAt:  s.base,
	}
}

func (s *StorageSuite) member(id, coupleID, name string, role model.Role) *model.Member {
	return &model.Member{
		ID:        model.MemberID(id),
		CoupleID:  model.CoupleID(coupleID),
		Name:      name,
		PINHash:   "hash-" + name,
		Role:      role,
		CreatedAt: s.base,
	}
}

func (s *StorageSuite) createHalfPaired(coupleID, code, memberID, name string) {
	err := s.storage.CreateCouple(s.ctx, s.couple(coupleID, code), s.member(memberID, coupleID, name, model.RoleBride))
	s.Require().NoError(err)
}

// Couple tests

func (s *StorageSuite) TestCreateAndGetCouple() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	c, err := s.storage.GetCouple(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(model.InviteCode("ABC123"), c.InviteCode)
	s.True(s.base.Equal(c.CreatedAt))

	byCode, err := s.storage.GetCoupleByInviteCode(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.CoupleID("c1"), byCode.ID)

	members, err := s.storage.ListMembers(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("Jisoo", members[0].Name)
	s.Equal(model.RoleBride, members[0].Role)
}

func (s *StorageSuite) TestGetCoupleNotFound() {
	_, err := s.storage.GetCouple(s.ctx, "missing")
	s.ErrorIs(err, model.ErrCoupleNotFound)

	_, err = s.storage.GetCoupleByInviteCode(s.ctx, "ZZZZZZ")
	s.ErrorIs(err, model.ErrCoupleNotFound)
}

func (s *StorageSuite) TestCreateCoupleDuplicateInviteCode() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	err := s.storage.CreateCouple(s.ctx, s.couple("c2", "ABC123"), s.member("m2", "c2", "Minho", model.RoleGroom))
	s.ErrorIs(err, model.ErrInviteCodeTaken)

	// The failed couple must leave nothing behind
	_, err = s.storage.GetCouple(s.ctx, "c2")
	s.ErrorIs(err, model.ErrCoupleNotFound)
	_, err = s.storage.GetMember(s.ctx, "m2")
	s.ErrorIs(err, model.ErrMemberNotFound)
}

func (s *StorageSuite) TestUpdateInviteCode() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")
	s.createHalfPaired("c2", "XYZ789", "m2", "Minho")

	s.Require().NoError(s.storage.UpdateInviteCode(s.ctx, "c1", "NEW001"))

	_, err := s.storage.GetCoupleByInviteCode(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrCoupleNotFound)
	c, err := s.storage.GetCoupleByInviteCode(s.ctx, "NEW001")
	s.Require().NoError(err)
	s.Equal(model.CoupleID("c1"), c.ID)

	s.ErrorIs(s.storage.UpdateInviteCode(s.ctx, "c1", "XYZ789"), model.ErrInviteCodeTaken)
	s.ErrorIs(s.storage.UpdateInviteCode(s.ctx, "missing", "QQQ111"), model.ErrCoupleNotFound)
}

func (s *StorageSuite) TestListCouplesOrderedWithMembers() {
	first := s.couple("c1", "AAA111")
	second := s.couple("c2", "BBB222")
	second.CreatedAt = s.base.Add(time.Minute)

	s.Require().NoError(s.storage.CreateCouple(s.ctx, second, s.member("m2", "c2", "Minho", model.RoleGroom)))
	s.Require().NoError(s.storage.CreateCouple(s.ctx, first, s.member("m1", "c1", "Jisoo", model.RoleBride)))
	s.Require().NoError(s.storage.AddMember(s.ctx, s.member("m3", "c1", "Dohyun", model.RoleGroom)))

	couples, err := s.storage.ListCouples(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(couples, 2)

	s.Equal(model.CoupleID("c1"), couples[0].Couple.ID)
	s.Require().Len(couples[0].Members, 2)
	s.Equal("Jisoo", couples[0].Members[0].Name)
	s.Equal("Dohyun", couples[0].Members[1].Name)
	s.Equal(model.PairingStatePaired, couples[0].State())

	s.Equal(model.CoupleID("c2"), couples[1].Couple.ID)
	s.Equal(model.PairingStateHalfPaired, couples[1].State())
}

func (s *StorageSuite) TestListCouplesEmpty() {
	couples, err := s.storage.ListCouples(s.ctx)
	s.Require().NoError(err)
	s.Empty(couples)
}

func (s *StorageSuite) TestDeleteCoupleCascades() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")
	s.Require().NoError(s.storage.AddMember(s.ctx, s.member("m2", "c1", "Minho", model.RoleGroom)))
	s.Require().NoError(s.storage.CreateChecklistItem(s.ctx, &model.ChecklistItem{
		ID: "i1", CoupleID: "c1", Title: "Book venue", CreatedAt: s.base, UpdatedAt: s.base,
	}))

	s.Require().NoError(s.storage.DeleteCouple(s.ctx, "c1"))

	_, err := s.storage.GetCouple(s.ctx, "c1")
	s.ErrorIs(err, model.ErrCoupleNotFound)
	_, err = s.storage.GetMember(s.ctx, "m1")
	s.ErrorIs(err, model.ErrMemberNotFound)
	_, err = s.storage.GetMember(s.ctx, "m2")
	s.ErrorIs(err, model.ErrMemberNotFound)
	_, err = s.storage.GetChecklistItem(s.ctx, "c1", "i1")
	s.ErrorIs(err, model.ErrChecklistItemNotFound)

	// The freed code can be reused
	s.createHalfPaired("c9", "ABC123", "m9", "Jisoo")
}

func (s *StorageSuite) TestDeleteCoupleUnknownIsNotAnError() {
	s.NoError(s.storage.DeleteCouple(s.ctx, "missing"))
}

// Member tests

func (s *StorageSuite) TestAddMemberCompletesCouple() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	s.Require().NoError(s.storage.AddMember(s.ctx, s.member("m2", "c1", "Minho", model.RoleGroom)))

	m, err := s.storage.GetMember(s.ctx, "m2")
	s.Require().NoError(err)
	s.Equal(model.CoupleID("c1"), m.CoupleID)
	s.Equal(model.RoleGroom, m.Role)
}

func (s *StorageSuite) TestAddMemberThirdIsRejected() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")
	s.Require().NoError(s.storage.AddMember(s.ctx, s.member("m2", "c1", "Minho", model.RoleGroom)))

	err := s.storage.AddMember(s.ctx, s.member("m3", "c1", "Third", model.RoleGroom))
	s.ErrorIs(err, model.ErrCoupleFull)

	members, err := s.storage.ListMembers(s.ctx, "c1")
	s.Require().NoError(err)
	s.Len(members, 2)
}

func (s *StorageSuite) TestAddMemberDuplicateName() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	err := s.storage.AddMember(s.ctx, s.member("m2", "c1", "Jisoo", model.RoleGroom))
	s.ErrorIs(err, model.ErrDuplicateName)
}

func (s *StorageSuite) TestAddMemberSameRoleRejected() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	err := s.storage.AddMember(s.ctx, s.member("m2", "c1", "Minho", model.RoleBride))
	s.ErrorIs(err, model.ErrCoupleFull)
}

func (s *StorageSuite) TestAddMemberUnknownCouple() {
	err := s.storage.AddMember(s.ctx, s.member("m1", "missing", "Jisoo", model.RoleBride))
	s.ErrorIs(err, model.ErrCoupleNotFound)
}

func (s *StorageSuite) TestSameNameAllowedAcrossCouples() {
	s.createHalfPaired("c1", "AAA111", "m1", "Jisoo")
	s.createHalfPaired("c2", "BBB222", "m2", "Jisoo")

	_, err := s.storage.GetMember(s.ctx, "m2")
	s.NoError(err)
}

func (s *StorageSuite) TestConcurrentJoinsAdmitExactlyOne() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	const joiners = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		full    int
	)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := s.member(fmt.Sprintf("j%d", i), "c1", fmt.Sprintf("Joiner%d", i), model.RoleGroom)
			err := s.storage.AddMember(s.ctx, m)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, model.ErrCoupleFull):
				full++
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, success)
	s.Equal(joiners-1, full)

	members, err := s.storage.ListMembers(s.ctx, "c1")
	s.Require().NoError(err)
	s.Len(members, model.MaxMembersPerCouple)
}

func (s *StorageSuite) TestFindMemberByCredentials() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")

	m, err := s.storage.FindMemberByCredentials(s.ctx, "Jisoo", "hash-Jisoo")
	s.Require().NoError(err)
	s.Equal(model.MemberID("m1"), m.ID)

	_, err = s.storage.FindMemberByCredentials(s.ctx, "Jisoo", "wrong")
	s.ErrorIs(err, model.ErrMemberNotFound)

	_, err = s.storage.FindMemberByCredentials(s.ctx, "jisoo", "hash-Jisoo")
	s.ErrorIs(err, model.ErrMemberNotFound, "name comparison is exact")
}

func (s *StorageSuite) TestFindMemberByCredentialsPrefersEarliest() {
	later := s.couple("c2", "BBB222")
	laterMember := s.member("m2", "c2", "Jisoo", model.RoleBride)
	laterMember.CreatedAt = s.base.Add(time.Hour)
	s.Require().NoError(s.storage.CreateCouple(s.ctx, later, laterMember))

	s.createHalfPaired("c1", "AAA111", "m1", "Jisoo")

	m, err := s.storage.FindMemberByCredentials(s.ctx, "Jisoo", "hash-Jisoo")
	s.Require().NoError(err)
	s.Equal(model.MemberID("m1"), m.ID)
}

func (s *StorageSuite) TestFindMemberByCredentialsTieBreaksByInsertion() {
	s.createHalfPaired("c1", "AAA111", "m1", "Jisoo")
	s.createHalfPaired("c2", "BBB222", "m2", "Jisoo")

	m, err := s.storage.FindMemberByCredentials(s.ctx, "Jisoo", "hash-Jisoo")
	s.Require().NoError(err)
	s.Equal(model.MemberID("m1"), m.ID)
}

func (s *StorageSuite) TestDeleteMember() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")
	s.Require().NoError(s.storage.AddMember(s.ctx, s.member("m2", "c1", "Minho", model.RoleGroom)))

	s.Require().NoError(s.storage.DeleteMember(s.ctx, "m2"))

	members, err := s.storage.ListMembers(s.ctx, "c1")
	s.Require().NoError(err)
	s.Len(members, 1)

	// The slot reopens
	s.NoError(s.storage.AddMember(s.ctx, s.member("m3", "c1", "Dohyun", model.RoleGroom)))
	s.NoError(s.storage.DeleteMember(s.ctx, "missing"))
}

// Checklist tests

func (s *StorageSuite) TestChecklistCRUD() {
	s.createHalfPaired("c1", "ABC123", "m1", "Jisoo")
	due := s.base.Add(72 * time.Hour)

	item := &model.ChecklistItem{
		ID: "i1", CoupleID: "c1", Title: "Book venue", Category: "venue",
		DueDate: &due, CreatedAt: s.base, UpdatedAt: s.base,
	}
	s.Require().NoError(s.storage.CreateChecklistItem(s.ctx, item))
	s.Require().NoError(s.storage.CreateChecklistItem(s.ctx, &model.ChecklistItem{
		ID: "i2", CoupleID: "c1", Title: "Send invitations", CreatedAt: s.base, UpdatedAt: s.base,
	}))

	got, err := s.storage.GetChecklistItem(s.ctx, "c1", "i1")
	s.Require().NoError(err)
	s.Equal("Book venue", got.Title)
	s.Require().NotNil(got.DueDate)
	s.True(due.Equal(*got.DueDate))

	got.Done = true
	got.DueDate = nil
	got.UpdatedAt = s.base.Add(time.Minute)
	s.Require().NoError(s.storage.UpdateChecklistItem(s.ctx, got))

	items, err := s.storage.ListChecklistItems(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal(model.ChecklistItemID("i1"), items[0].ID)
	s.True(items[0].Done)
	s.Nil(items[0].DueDate)
	s.Equal(model.ChecklistItemID("i2"), items[1].ID)

	s.Require().NoError(s.storage.DeleteChecklistItem(s.ctx, "c1", "i1"))
	_, err = s.storage.GetChecklistItem(s.ctx, "c1", "i1")
	s.ErrorIs(err, model.ErrChecklistItemNotFound)
}

func (s *StorageSuite) TestChecklistIsCoupleScoped() {
	s.createHalfPaired("c1", "AAA111", "m1", "Jisoo")
	s.createHalfPaired("c2", "BBB222", "m2", "Minho")
	s.Require().NoError(s.storage.CreateChecklistItem(s.ctx, &model.ChecklistItem{
		ID: "i1", CoupleID: "c1", Title: "Book venue", CreatedAt: s.base, UpdatedAt: s.base,
	}))

	_, err := s.storage.GetChecklistItem(s.ctx, "c2", "i1")
	s.ErrorIs(err, model.ErrChecklistItemNotFound)

	foreign := &model.ChecklistItem{ID: "i1", CoupleID: "c2", Title: "Hijack", UpdatedAt: s.base}
	s.ErrorIs(s.storage.UpdateChecklistItem(s.ctx, foreign), model.ErrChecklistItemNotFound)
	s.ErrorIs(s.storage.DeleteChecklistItem(s.ctx, "c2", "i1"), model.ErrChecklistItemNotFound)

	items, err := s.storage.ListChecklistItems(s.ctx, "c2")
	s.Require().NoError(err)
	s.Empty(items)

	got, err := s.storage.GetChecklistItem(s.ctx, "c1", "i1")
	s.Require().NoError(err)
	s.Equal("Book venue", got.Title)
}

func (s *StorageSuite) TestChecklistUnknownCouple() {
	err := s.storage.CreateChecklistItem(s.ctx, &model.ChecklistItem{
		ID: "i1", CoupleID: "missing", Title: "Orphan", CreatedAt: s.base, UpdatedAt: s.base,
	})
	s.ErrorIs(err, model.ErrCoupleNotFound)
}
